package dockerutil

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"

	"github.com/docker/cli/cli/command/formatter"
	"github.com/docker/docker/api/types"
	"github.com/pkg/errors"
	"github.com/redgoat650/mynft/internal/logging"
)

const (
	// Command
	dockerCmd = "docker"

	// Subcommands
	containerSubCmd = "container"
	inspectSubCmd   = "inspect"
	logsSubCmd      = "logs"
	listSubCmd      = "ls"
	runSubCmd       = "run"
	stopSubCmd      = "stop"
	rmSubCmd        = "remove"

	// Args
	allArg      = "--all"
	detachedArg = "--detach"
	formatArg   = "--format"
	hostArg     = "--host"
	nameArg     = "--name"
	portArg     = "--publish"
	removeArg   = "--rm"
	restartArg  = "--restart"

	// Static values
	jsonFormatArg              = "json"
	UnlessStoppedRestartPolicy = "unless-stopped"
)

// Runner executes the docker CLI with args and returns its stdout.
type Runner func(ctx context.Context, args ...string) (string, error)

// Docker drives a docker daemon through the docker CLI.
type Docker struct {
	// Host is passed as --host when set.
	Host string
	Run  Runner
}

// New returns a Docker that shells out to the local docker binary.
func New(host string) *Docker {
	return &Docker{Host: host, Run: RunDockerCmd}
}

func RunDockerCmd(ctx context.Context, cmdArgs ...string) (string, error) {
	if len(cmdArgs) > 0 && cmdArgs[0] == dockerCmd {
		cmdArgs = cmdArgs[1:]
	}

	logging.L().Debugw("running command", "cmd", dockerCmd+" "+strings.Join(cmdArgs, " "))

	cmd := exec.CommandContext(ctx, dockerCmd, cmdArgs...)

	b, err := cmd.Output()
	if err != nil {
		exitErr := &exec.ExitError{}
		if errors.As(err, &exitErr) {
			return string(b), errors.Wrapf(err, "docker %s: %s", cmdArgs[0], strings.TrimSpace(string(exitErr.Stderr)))
		}

		return string(b), errors.Wrap(err, "running docker")
	}

	return string(b), nil
}

type RunOpts struct {
	Name          string
	Detached      bool
	Port          []string
	Remove        bool
	RestartPolicy string
}

func argsFromOpts(o RunOpts) (ret []string) {
	if o.Name != "" {
		ret = append(ret, nameArg, o.Name)
	}

	if o.Detached {
		ret = append(ret, detachedArg)
	}

	for _, ps := range o.Port {
		ret = append(ret, portArg, ps)
	}

	if o.RestartPolicy != "" {
		ret = append(ret, restartArg, o.RestartPolicy)
	}

	if o.Remove {
		ret = append(ret, removeArg)
	}

	return ret
}

func (d *Docker) ContainerRun(ctx context.Context, image string, opts RunOpts, cmd ...string) error {
	// docker run <opts> <image> cmd...
	args := d.hostArgs()

	args = append(args, runSubCmd)
	args = append(args, argsFromOpts(opts)...)
	args = append(args, image)
	args = append(args, cmd...)

	out, err := d.Run(ctx, args...)
	if err != nil {
		return err
	}

	logging.L().Debugw("container started", "image", image, "id", strings.TrimSpace(out))

	return nil
}

func (d *Docker) ContainerStop(ctx context.Context, id string) error {
	// docker --host=<node> container stop <id>
	args := d.hostArgs()
	args = append(args, containerSubCmd, stopSubCmd, id)

	_, err := d.Run(ctx, args...)

	return err
}

func (d *Docker) ContainerRemove(ctx context.Context, id string) error {
	// docker --host=<node> container remove <id>
	args := d.hostArgs()
	args = append(args, containerSubCmd, rmSubCmd, id)

	_, err := d.Run(ctx, args...)

	return err
}

func (d *Docker) ContainerInspect(ctx context.Context, id string) ([]types.ContainerJSON, error) {
	// docker container inspect <id> --format json
	args := d.hostArgs()
	args = append(args, containerSubCmd, inspectSubCmd, id)
	args = append(args, formatArgs()...)

	out, err := d.Run(ctx, args...)
	if err != nil {
		return nil, err
	}

	c := []types.ContainerJSON{}

	if err := json.Unmarshal([]byte(out), &c); err != nil {
		return nil, errors.Wrap(err, "decoding container inspect output")
	}

	return c, nil
}

func (d *Docker) ContainerList(ctx context.Context) (ret []formatter.SubHeaderContext, err error) {
	// docker --host <node> container ls --all --format json
	args := d.hostArgs()
	args = append(args, containerSubCmd, listSubCmd, allArg)
	args = append(args, formatArgs()...)

	out, err := d.Run(ctx, args...)
	if err != nil {
		return nil, err
	}

	for _, s := range strings.Split(strings.TrimSpace(out), "\n") {
		if len(s) == 0 {
			continue
		}

		cntr := formatter.SubHeaderContext{}

		if err := json.Unmarshal([]byte(s), &cntr); err != nil {
			return nil, errors.Wrap(err, "decoding container list output")
		}

		ret = append(ret, cntr)
	}

	return ret, nil
}

func (d *Docker) Logs(ctx context.Context, containerName string) (string, error) {
	args := d.hostArgs()
	args = append(args, logsSubCmd, containerName)

	return d.Run(ctx, args...)
}

func formatArgs() []string {
	return []string{
		formatArg,
		jsonFormatArg,
	}
}

func (d *Docker) hostArgs() []string {
	if d.Host == "" {
		return nil
	}

	return []string{
		hostArg,
		d.Host,
	}
}
