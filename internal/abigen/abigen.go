// Package abigen writes the ABI file consumed by front ends after a deploy.
package abigen

import (
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/redgoat650/mynft/internal/artifact"
	"github.com/redgoat650/mynft/internal/logging"
)

type Export struct {
	ContractName string          `json:"contractName"`
	Address      common.Address  `json:"address"`
	ChainID      uint64          `json:"chainId"`
	ABI          json.RawMessage `json:"abi"`
	BytecodeHash string          `json:"bytecodeHash,omitempty"`
}

// Path is where MakeABI writes the export for name.
func Path(dir, name string) string {
	return filepath.Join(dir, name+".json")
}

// MakeABI writes <dir>/<name>.json describing the contract deployed at address.
func MakeABI(dir, name string, address common.Address, chainID *big.Int, art *artifact.Artifact) (string, error) {
	if name == "" {
		return "", errors.New("contract name must be provided")
	}

	if art == nil {
		return "", errors.New("artifact must be provided")
	}

	sum, err := art.Checksum()
	if err != nil {
		return "", err
	}

	e := Export{
		ContractName: name,
		Address:      address,
		ABI:          art.ABI,
		BytecodeHash: sum,
	}

	if chainID != nil {
		e.ChainID = chainID.Uint64()
	}

	b, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encoding abi export")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating abi dir %s", dir)
	}

	path := Path(dir, name)

	tmp, err := os.CreateTemp(dir, "."+name+"-*.json")
	if err != nil {
		return "", errors.Wrap(err, "creating temp abi file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(b, '\n')); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "writing abi file")
	}

	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "closing abi file")
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", errors.Wrapf(err, "moving abi file into %s", path)
	}

	logging.L().Infow("abi exported", "path", path, "address", address.Hex())

	return path, nil
}

func Load(path string) (*Export, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading abi export %s", path)
	}

	e := &Export{}
	if err := json.Unmarshal(b, e); err != nil {
		return nil, errors.Wrapf(err, "decoding abi export %s", path)
	}

	if e.Address == (common.Address{}) {
		return nil, errors.Errorf("abi export %s has no address", path)
	}

	return e, nil
}
