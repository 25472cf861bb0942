package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mynft.log")

	l, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)

	l.Debugw("deployed", "address", "0xabc")
	require.NoError(t, l.Sync())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"address":"0xabc"`)
}

func TestSetReplacesGlobal(t *testing.T) {
	prev := L()
	defer Set(prev)

	l := zap.NewExample().Sugar()
	Set(l)
	assert.Same(t, l, L())
}
