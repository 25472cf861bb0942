package deploy

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/redgoat650/mynft/internal/abigen"
	"github.com/redgoat650/mynft/internal/artifact"
	"github.com/redgoat650/mynft/internal/client"
	"github.com/redgoat650/mynft/internal/config"
	"github.com/redgoat650/mynft/internal/logging"
	"github.com/spf13/viper"
)

type Deployment struct {
	ContractName string         `json:"contractName"`
	Address      common.Address `json:"address"`
	TxHash       common.Hash    `json:"txHash"`
	BlockNumber  uint64         `json:"blockNumber"`
	ChainID      *big.Int       `json:"chainId"`
	ABIPath      string         `json:"abiPath,omitempty"`
}

type Settings struct {
	ContractName string
	ArtifactPath string
	ABIDir       string
}

// GetValidSettings reads the deploy settings from config and checks them.
func GetValidSettings() (Settings, error) {
	s := Settings{
		ContractName: viper.GetString(config.ContractNameCfgPath),
		ArtifactPath: viper.GetString(config.ContractArtifactCfgPath),
		ABIDir:       viper.GetString(config.ABIDirCfgPath),
	}

	if s.ContractName == "" {
		return s, errors.New("contract name must be provided")
	}

	if s.ArtifactPath == "" {
		return s, errors.New("contract artifact path must be provided")
	}

	if s.ABIDir == "" {
		return s, errors.New("abi output dir must be provided")
	}

	return s, nil
}

// Deploy sends the creation transaction for art and waits until code is
// present at the new address.
func Deploy(ctx context.Context, b client.Backend, w *client.Wallet, art *artifact.Artifact) (*Deployment, error) {
	parsed, err := art.ParsedABI()
	if err != nil {
		return nil, err
	}

	code, err := art.BytecodeBytes()
	if err != nil {
		return nil, err
	}

	opts, err := w.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}

	logging.L().Info("Deploying contracts")

	addr, tx, _, err := bind.DeployContract(opts, parsed, code, b)
	if err != nil {
		return nil, errors.Wrapf(err, "deploying %s", art.ContractName)
	}

	logging.L().Debugw("creation tx sent", "tx", tx.Hash().Hex(), "address", addr.Hex())

	deployed, err := bind.WaitDeployed(ctx, b, tx)
	if err != nil {
		return nil, errors.Wrapf(err, "waiting for %s deployment", art.ContractName)
	}

	r, err := b.TransactionReceipt(ctx, tx.Hash())
	if err != nil {
		return nil, errors.Wrap(err, "fetching deployment receipt")
	}

	logging.L().Infof("Contract deployed at: %s", deployed.Hex())

	return &Deployment{
		ContractName: art.ContractName,
		Address:      deployed,
		TxHash:       tx.Hash(),
		BlockNumber:  r.BlockNumber.Uint64(),
		ChainID:      w.ChainID(),
	}, nil
}

// Run is the deploy script: load the artifact, deploy it, then export the
// ABI next to the address it landed on.
func Run(ctx context.Context, b client.Backend, w *client.Wallet, s Settings) (*Deployment, error) {
	art, err := artifact.Load(s.ArtifactPath)
	if err != nil {
		return nil, err
	}

	if art.ContractName == "" {
		art.ContractName = s.ContractName
	}

	d, err := Deploy(ctx, b, w, art)
	if err != nil {
		return nil, err
	}

	path, err := abigen.MakeABI(s.ABIDir, s.ContractName, d.Address, d.ChainID, art)
	if err != nil {
		return d, errors.Wrap(err, "exporting abi")
	}

	d.ABIPath = path

	return d, nil
}
