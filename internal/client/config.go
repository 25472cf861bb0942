package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/redgoat650/mynft/internal/abigen"
	"github.com/redgoat650/mynft/internal/artifact"
	"github.com/redgoat650/mynft/internal/config"
	"github.com/redgoat650/mynft/internal/logging"
	"github.com/spf13/viper"
)

// Connect dials the configured RPC endpoint.
func Connect(ctx context.Context) (*ethclient.Client, error) {
	url := viper.GetString(config.RPCURLCfgPath)

	logging.L().Infow("connecting", "url", url)

	return Dial(ctx, url)
}

func ConfiguredChainID() *big.Int {
	return big.NewInt(viper.GetInt64(config.ChainIDCfgPath))
}

// ConfiguredSigner builds the wallet from wallet.private-key.
func ConfiguredSigner() (*Wallet, error) {
	key := viper.GetString(config.PrivateKeyCfgPath)
	if key == "" {
		return nil, errors.New("wallet private key must be configured")
	}

	return Signer(key, ConfiguredChainID())
}

func ConfiguredRecipient() (common.Address, error) {
	return ParseAddress(viper.GetString(config.RecipientCfgPath))
}

// ConfiguredContract binds the deployed contract. contract.address wins;
// otherwise the address and ABI come from the file deploy exported.
func ConfiguredContract(b Backend) (*NFT, error) {
	name := viper.GetString(config.ContractNameCfgPath)

	if addr := viper.GetString(config.ContractAddressCfgPath); addr != "" {
		a, err := ParseAddress(addr)
		if err != nil {
			return nil, err
		}

		parsed, err := artifact.ParsedDefaultABI()
		if err != nil {
			return nil, err
		}

		return Contract(a, parsed, b)
	}

	path := abigen.Path(viper.GetString(config.ABIDirCfgPath), name)

	e, err := abigen.Load(path)
	if err != nil {
		return nil, errors.Wrap(err, "no contract address configured and no usable abi export")
	}

	parsed, err := abi.JSON(bytes.NewReader(e.ABI))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing abi from %s", path)
	}

	return Contract(e.Address, parsed, b)
}

func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.Errorf("invalid address %q", s)
	}

	return common.HexToAddress(s), nil
}

func ParseTokenID(s string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(s, 0)
	if !ok || id.Sign() < 0 {
		return nil, errors.Errorf("invalid token id %q", s)
	}

	return id, nil
}

// Display prints p as indented JSON.
func Display(p any) error {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(os.Stdout, string(b))
	return err
}
