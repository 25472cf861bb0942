package dockerutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls [][]string
	out   string
	err   error
}

func (r *recorder) run(_ context.Context, args ...string) (string, error) {
	r.calls = append(r.calls, args)
	return r.out, r.err
}

func TestArgsFromOpts(t *testing.T) {
	got := argsFromOpts(RunOpts{
		Name:          "ganache",
		Detached:      true,
		Port:          []string{"127.0.0.1:7545:8545"},
		Remove:        true,
		RestartPolicy: UnlessStoppedRestartPolicy,
	})

	assert.Equal(t, []string{
		"--name", "ganache",
		"--detach",
		"--publish", "127.0.0.1:7545:8545",
		"--restart", "unless-stopped",
		"--rm",
	}, got)

	assert.Empty(t, argsFromOpts(RunOpts{}))
}

func TestContainerRunWithHost(t *testing.T) {
	r := &recorder{out: "abc123\n"}
	d := &Docker{Host: "tcp://node:2375", Run: r.run}

	err := d.ContainerRun(context.Background(), "img:latest", RunOpts{Name: "n"}, "--chain.chainId", "1337")
	require.NoError(t, err)

	require.Len(t, r.calls, 1)
	assert.Equal(t, []string{
		"--host", "tcp://node:2375",
		"run", "--name", "n", "img:latest", "--chain.chainId", "1337",
	}, r.calls[0])
}

func TestContainerList(t *testing.T) {
	r := &recorder{out: `{"ID":"1","Names":"ganache-mynft","State":"running"}
{"ID":"2","Names":"other","State":"exited"}
`}
	d := &Docker{Run: r.run}

	list, err := d.ContainerList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ganache-mynft", list[0]["Names"])
	assert.Equal(t, "exited", list[1]["State"])
	assert.Equal(t, []string{"container", "ls", "--all", "--format", "json"}, r.calls[0])

	r.out = "not json"
	_, err = d.ContainerList(context.Background())
	assert.Error(t, err)
}

func TestContainerInspect(t *testing.T) {
	r := &recorder{out: `[{"Id":"abc","Name":"/ganache-mynft","State":{"Status":"running","Running":true}}]`}
	d := &Docker{Run: r.run}

	c, err := d.ContainerInspect(context.Background(), "ganache-mynft")
	require.NoError(t, err)
	require.Len(t, c, 1)
	require.NotNil(t, c[0].ContainerJSONBase)
	assert.Equal(t, "abc", c[0].ID)
	assert.True(t, c[0].State.Running)
}
