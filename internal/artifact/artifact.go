// Package artifact loads the compiled contract that deploy pushes on chain.
//
// Artifacts follow the Hardhat layout: a JSON object holding the contract
// name, its ABI and the creation bytecode. The contract source itself is
// compiled elsewhere.
package artifact

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/redgoat650/mynft/internal/hash"
)

//go:embed mynft.abi.json
var defaultABI []byte

var (
	ErrEmptyABI      = errors.New("artifact has no abi")
	ErrEmptyBytecode = errors.New("artifact has no bytecode")
)

type Artifact struct {
	Format       string          `json:"_format,omitempty"`
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName,omitempty"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// Load reads the artifact at path and checks that it can be deployed.
func Load(path string) (*Artifact, error) {
	b, _, err := hash.File(path)
	if err != nil {
		return nil, err
	}

	a, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "artifact %s", path)
	}

	return a, nil
}

func Parse(b []byte) (*Artifact, error) {
	a := &Artifact{}
	if err := json.Unmarshal(b, a); err != nil {
		return nil, errors.Wrap(err, "decoding artifact")
	}

	if len(bytes.TrimSpace(a.ABI)) == 0 || string(bytes.TrimSpace(a.ABI)) == "[]" {
		return nil, ErrEmptyABI
	}

	if strings.TrimPrefix(a.Bytecode, "0x") == "" {
		return nil, ErrEmptyBytecode
	}

	return a, nil
}

func (a *Artifact) ParsedABI() (abi.ABI, error) {
	parsed, err := abi.JSON(bytes.NewReader(a.ABI))
	if err != nil {
		return abi.ABI{}, errors.Wrapf(err, "parsing abi of %s", a.ContractName)
	}

	return parsed, nil
}

func (a *Artifact) BytecodeBytes() ([]byte, error) {
	code := a.Bytecode
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}

	b, err := hexutil.Decode(code)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding bytecode of %s", a.ContractName)
	}

	return b, nil
}

// Checksum is the sha256 of the creation bytecode.
func (a *Artifact) Checksum() (string, error) {
	b, err := a.BytecodeBytes()
	if err != nil {
		return "", err
	}

	return hash.Bytes(b), nil
}

// DefaultABI returns the MyNFT interface. It is enough to talk to an already
// deployed contract when no compiled artifact is around.
func DefaultABI() json.RawMessage {
	return json.RawMessage(defaultABI)
}

func ParsedDefaultABI() (abi.ABI, error) {
	return abi.JSON(bytes.NewReader(defaultABI))
}
