package abigen

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redgoat650/mynft/internal/artifact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArtifact() *artifact.Artifact {
	return &artifact.Artifact{
		ContractName: "MyNFT",
		ABI:          artifact.DefaultABI(),
		Bytecode:     "0x6080",
	}
}

func TestMakeABIRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "abi")
	addr := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

	path, err := MakeABI(dir, "MyNFT", addr, big.NewInt(1337), testArtifact())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "MyNFT.json"), path)

	e, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "MyNFT", e.ContractName)
	assert.Equal(t, addr, e.Address)
	assert.Equal(t, uint64(1337), e.ChainID)
	assert.JSONEq(t, string(artifact.DefaultABI()), string(e.ABI))
	assert.Len(t, e.BytecodeHash, 64)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not be left behind")
}

func TestMakeABIOverwrites(t *testing.T) {
	dir := t.TempDir()

	_, err := MakeABI(dir, "MyNFT", common.HexToAddress("0x01"), nil, testArtifact())
	require.NoError(t, err)

	path, err := MakeABI(dir, "MyNFT", common.HexToAddress("0x02"), nil, testArtifact())
	require.NoError(t, err)

	e, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x02"), e.Address)
	assert.Zero(t, e.ChainID)
}

func TestMakeABIValidation(t *testing.T) {
	_, err := MakeABI(t.TempDir(), "", common.Address{}, nil, testArtifact())
	assert.Error(t, err)

	_, err = MakeABI(t.TempDir(), "MyNFT", common.Address{}, nil, nil)
	assert.Error(t, err)
}

func TestLoadRequiresAddress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MyNFT.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"contractName":"MyNFT","abi":[]}`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
