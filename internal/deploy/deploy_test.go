package deploy

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/redgoat650/mynft/internal/abigen"
	"github.com/redgoat650/mynft/internal/chaintest"
	"github.com/redgoat650/mynft/internal/client"
	"github.com/redgoat650/mynft/internal/config"
	"github.com/redgoat650/mynft/internal/logging"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newWallet(t *testing.T) *client.Wallet {
	t.Helper()

	_, hexKey := chaintest.NewKey()
	w, err := client.Signer(hexKey, big.NewInt(chaintest.ChainID))
	require.NoError(t, err)

	return w
}

func testCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	return ctx
}

func TestDeploy(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := logging.L()
	logging.Set(zap.New(core).Sugar())
	t.Cleanup(func() { logging.Set(prev) })

	ctx := testCtx(t)
	b := chaintest.NewBackend()
	w := newWallet(t)

	d, err := Deploy(ctx, b, w, chaintest.Artifact())
	require.NoError(t, err)

	assert.Equal(t, crypto.CreateAddress(w.Address, 0), d.Address)
	assert.Equal(t, "MyNFT", d.ContractName)
	assert.Equal(t, uint64(1), d.BlockNumber)
	assert.Equal(t, int64(chaintest.ChainID), d.ChainID.Int64())

	code, err := b.CodeAt(ctx, d.Address, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, code)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "Deploying contracts", entries[0].Message)
	assert.Equal(t, fmt.Sprintf("Contract deployed at: %s", d.Address.Hex()), entries[1].Message)
}

func TestDeployTwiceGivesDistinctAddresses(t *testing.T) {
	ctx := testCtx(t)
	b := chaintest.NewBackend()
	w := newWallet(t)

	first, err := Deploy(ctx, b, w, chaintest.Artifact())
	require.NoError(t, err)

	second, err := Deploy(ctx, b, w, chaintest.Artifact())
	require.NoError(t, err)

	assert.NotEqual(t, first.Address, second.Address)
}

func TestDeployRejectsBadBytecode(t *testing.T) {
	art := chaintest.Artifact()
	art.Bytecode = "0xzz"

	_, err := Deploy(testCtx(t), chaintest.NewBackend(), newWallet(t), art)
	assert.Error(t, err)
}

func TestRunExportsABI(t *testing.T) {
	ctx := testCtx(t)
	dir := t.TempDir()

	b, err := json.Marshal(chaintest.Artifact())
	require.NoError(t, err)

	artPath := filepath.Join(dir, "MyNFT.json")
	require.NoError(t, os.WriteFile(artPath, b, 0o644))

	s := Settings{
		ContractName: "MyNFT",
		ArtifactPath: artPath,
		ABIDir:       filepath.Join(dir, "abi"),
	}

	d, err := Run(ctx, chaintest.NewBackend(), newWallet(t), s)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abi", "MyNFT.json"), d.ABIPath)

	e, err := abigen.Load(d.ABIPath)
	require.NoError(t, err)
	assert.Equal(t, d.Address, e.Address)
	assert.Equal(t, uint64(chaintest.ChainID), e.ChainID)
}

func TestRunMissingArtifact(t *testing.T) {
	s := Settings{
		ContractName: "MyNFT",
		ArtifactPath: filepath.Join(t.TempDir(), "missing.json"),
		ABIDir:       t.TempDir(),
	}

	_, err := Run(testCtx(t), chaintest.NewBackend(), newWallet(t), s)
	assert.Error(t, err)
}

func TestGetValidSettings(t *testing.T) {
	defer viper.Set(config.ContractNameCfgPath, config.DefaultContractName)

	s, err := GetValidSettings()
	require.NoError(t, err)
	assert.Equal(t, "MyNFT", s.ContractName)
	assert.NotEmpty(t, s.ArtifactPath)

	viper.Set(config.ContractNameCfgPath, "")
	_, err = GetValidSettings()
	assert.Error(t, err)
}
