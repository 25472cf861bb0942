// Package devnet runs a local ganache chain in docker for the harness to
// point at.
package devnet

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redgoat650/mynft/internal/dockerutil"
	"github.com/redgoat650/mynft/internal/logging"
)

const (
	ContainerName = "ganache-mynft"

	ganacheRPCPort     = 8545
	ganacheStartSignal = "RPC Listening on"

	defaultStartTimeout = 2 * time.Minute
	defaultPollInterval = 2 * time.Second
)

type Options struct {
	Image   string
	Port    int
	ChainID int64

	StartTimeout time.Duration
	PollInterval time.Duration
}

type Devnet struct {
	docker *dockerutil.Docker
	opts   Options
}

func New(d *dockerutil.Docker, o Options) *Devnet {
	if o.StartTimeout == 0 {
		o.StartTimeout = defaultStartTimeout
	}

	if o.PollInterval == 0 {
		o.PollInterval = defaultPollInterval
	}

	return &Devnet{docker: d, opts: o}
}

// RPCURL is the host endpoint of the published ganache port.
func (n *Devnet) RPCURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", n.opts.Port)
}

// LaunchSingletonGanache starts the devnet container unless it is already
// running, and waits for ganache to report that it is serving RPC. A stopped
// container with the same name is removed first.
func (n *Devnet) LaunchSingletonGanache(ctx context.Context) error {
	log := logging.L().With("container", ContainerName)

	containers, err := n.docker.ContainerList(ctx)
	if err != nil {
		return errors.Wrap(err, "listing containers")
	}

	for _, container := range containers {
		if container["Names"] != ContainerName {
			continue
		}

		if container["State"] != "running" {
			id := container["ID"]
			if err := n.docker.ContainerRemove(ctx, id); err != nil {
				return errors.Wrapf(err, "removing container id %s", id)
			}

			break
		}

		log.Infow("devnet already running", "rpc", n.RPCURL())

		return nil
	}

	runOpts := dockerutil.RunOpts{
		Name:          ContainerName,
		Detached:      true,
		Port:          []string{fmt.Sprintf("127.0.0.1:%d:%d", n.opts.Port, ganacheRPCPort)},
		RestartPolicy: dockerutil.UnlessStoppedRestartPolicy,
	}

	if err := n.docker.ContainerRun(ctx, n.opts.Image, runOpts, ganacheArgs(n.opts.ChainID)...); err != nil {
		return errors.Wrap(err, "running ganache in docker")
	}

	if err := n.waitReady(ctx); err != nil {
		return err
	}

	log.Infow("devnet started", "rpc", n.RPCURL(), "chainId", n.opts.ChainID)

	return nil
}

func (n *Devnet) waitReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, n.opts.StartTimeout)
	defer cancel()

	t := time.NewTicker(n.opts.PollInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "waiting for ganache container logs to report ready")
		case <-t.C:
		}

		out, err := n.docker.Logs(ctx, ContainerName)
		if err != nil {
			logging.L().Warnw("error retrieving docker logs, retrying", "error", err)
			continue
		}

		if strings.Contains(out, ganacheStartSignal) {
			return nil
		}
	}
}

// Running reports whether the devnet container exists and is running.
func (n *Devnet) Running(ctx context.Context) (bool, error) {
	containers, err := n.docker.ContainerList(ctx)
	if err != nil {
		return false, errors.Wrap(err, "listing containers")
	}

	for _, c := range containers {
		if c["Names"] != ContainerName {
			continue
		}

		info, err := n.docker.ContainerInspect(ctx, c["ID"])
		if err != nil {
			return false, errors.Wrapf(err, "inspecting %s", ContainerName)
		}

		for _, i := range info {
			if i.ContainerJSONBase != nil && i.State != nil && i.State.Running {
				return true, nil
			}
		}

		return false, nil
	}

	return false, nil
}

// Stop stops and removes the devnet container. It is not an error for the
// container to be absent.
func (n *Devnet) Stop(ctx context.Context) error {
	containers, err := n.docker.ContainerList(ctx)
	if err != nil {
		return errors.Wrap(err, "listing containers")
	}

	for _, c := range containers {
		if c["Names"] != ContainerName {
			continue
		}

		id := c["ID"]

		if c["State"] == "running" {
			if err := n.docker.ContainerStop(ctx, id); err != nil {
				return errors.Wrapf(err, "stopping container id %s", id)
			}
		}

		if err := n.docker.ContainerRemove(ctx, id); err != nil {
			return errors.Wrapf(err, "removing container id %s", id)
		}

		logging.L().Infow("devnet stopped", "container", ContainerName)

		return nil
	}

	logging.L().Infow("devnet not running", "container", ContainerName)

	return nil
}

func ganacheArgs(chainID int64) []string {
	return []string{
		"--chain.chainId", strconv.FormatInt(chainID, 10),
		"--chain.networkId", strconv.FormatInt(chainID, 10),
		"--wallet.deterministic",
	}
}
