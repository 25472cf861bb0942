// Package client wraps go-ethereum for the handful of MyNFT calls the
// commands and the harness make. Every function hands straight off to the
// library; nothing here caches or second-guesses the chain.
package client

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/redgoat650/mynft/internal/logging"
)

const safeTransferFromSig = "safeTransferFrom(address,address,uint256)"

var (
	ErrNoTransferEvent = errors.New("no Transfer event in receipt")
	ErrTxFailed        = errors.New("transaction failed")
)

// Backend is what the wrappers need from a chain connection. Both
// *ethclient.Client and the in-memory chaintest backend satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

var _ Backend = (*ethclient.Client)(nil)

type NetworkInfo struct {
	ChainID     *big.Int `json:"chainId"`
	BlockNumber uint64   `json:"blockNumber"`
}

func Dial(ctx context.Context, url string) (*ethclient.Client, error) {
	logging.L().Debugw("connecting", "url", url)

	c, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", url)
	}

	return c, nil
}

func CheckNetworkInfo(ctx context.Context, b Backend) (*NetworkInfo, error) {
	id, err := b.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying chain id")
	}

	n, err := b.BlockNumber(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying block number")
	}

	return &NetworkInfo{ChainID: id, BlockNumber: n}, nil
}

// Wallet signs transactions for a single account.
type Wallet struct {
	Address common.Address

	key     *ecdsa.PrivateKey
	chainID *big.Int
}

func Signer(hexKey string, chainID *big.Int) (*Wallet, error) {
	if chainID == nil {
		return nil, errors.New("chain id must be provided")
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing private key")
	}

	return &Wallet{
		Address: crypto.PubkeyToAddress(key.PublicKey),
		key:     key,
		chainID: new(big.Int).Set(chainID),
	}, nil
}

func (w *Wallet) ChainID() *big.Int {
	return new(big.Int).Set(w.chainID)
}

// TransactOpts returns fresh signing options bound to ctx.
func (w *Wallet) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(w.key, w.chainID)
	if err != nil {
		return nil, errors.Wrap(err, "creating transactor")
	}

	opts.Context = ctx
	return opts, nil
}

// NFT is a bound MyNFT contract.
type NFT struct {
	Address common.Address

	abi          abi.ABI
	bound        *bind.BoundContract
	safeTransfer string
}

func Contract(address common.Address, parsed abi.ABI, b Backend) (*NFT, error) {
	if address == (common.Address{}) {
		return nil, errors.New("contract address must be provided")
	}

	n := &NFT{
		Address: address,
		abi:     parsed,
		bound:   bind.NewBoundContract(address, parsed, b, b, b),
	}

	// Overloads get a numeric suffix in the order the ABI lists them.
	for name, m := range parsed.Methods {
		if m.Sig == safeTransferFromSig {
			n.safeTransfer = name
			break
		}
	}

	return n, nil
}

func (n *NFT) Mint(ctx context.Context, w *Wallet, to common.Address, tokenURI string) (*types.Transaction, error) {
	return n.transact(ctx, w, "mint", to, tokenURI)
}

func (n *NFT) SafeTransferFrom(ctx context.Context, w *Wallet, from, to common.Address, tokenID *big.Int) (*types.Transaction, error) {
	if n.safeTransfer == "" {
		return nil, errors.Errorf("abi has no %s", safeTransferFromSig)
	}

	return n.transact(ctx, w, n.safeTransfer, from, to, tokenID)
}

func (n *NFT) TransferFrom(ctx context.Context, w *Wallet, from, to common.Address, tokenID *big.Int) (*types.Transaction, error) {
	return n.transact(ctx, w, "transferFrom", from, to, tokenID)
}

func (n *NFT) Approve(ctx context.Context, w *Wallet, to common.Address, tokenID *big.Int) (*types.Transaction, error) {
	return n.transact(ctx, w, "approve", to, tokenID)
}

func (n *NFT) SetApprovalForAll(ctx context.Context, w *Wallet, operator common.Address, approved bool) (*types.Transaction, error) {
	return n.transact(ctx, w, "setApprovalForAll", operator, approved)
}

func (n *NFT) OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error) {
	return callOne[common.Address](ctx, n, "ownerOf", tokenID)
}

func (n *NFT) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return callOne[*big.Int](ctx, n, "balanceOf", owner)
}

func (n *NFT) GetApproved(ctx context.Context, tokenID *big.Int) (common.Address, error) {
	return callOne[common.Address](ctx, n, "getApproved", tokenID)
}

func (n *NFT) IsApprovedForAll(ctx context.Context, owner, operator common.Address) (bool, error) {
	return callOne[bool](ctx, n, "isApprovedForAll", owner, operator)
}

func (n *NFT) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	return callOne[string](ctx, n, "tokenURI", tokenID)
}

func (n *NFT) Name(ctx context.Context) (string, error) {
	return callOne[string](ctx, n, "name")
}

func (n *NFT) Symbol(ctx context.Context) (string, error) {
	return callOne[string](ctx, n, "symbol")
}

// TransferEvent is the decoded ERC-721 Transfer log.
type TransferEvent struct {
	From    common.Address
	To      common.Address
	TokenId *big.Int
}

// MintedTokenID returns the tokenId of the first Transfer this contract
// emitted in r.
func (n *NFT) MintedTokenID(r *types.Receipt) (*big.Int, error) {
	ev, ok := n.abi.Events["Transfer"]
	if !ok {
		return nil, errors.New("abi has no Transfer event")
	}

	for _, l := range r.Logs {
		if l == nil || l.Address != n.Address || len(l.Topics) == 0 || l.Topics[0] != ev.ID {
			continue
		}

		out := &TransferEvent{}
		if err := n.bound.UnpackLog(out, "Transfer", *l); err != nil {
			return nil, errors.Wrap(err, "decoding Transfer log")
		}

		return out.TokenId, nil
	}

	return nil, ErrNoTransferEvent
}

// Wait blocks until tx is mined and fails if it reverted.
func Wait(ctx context.Context, b bind.DeployBackend, tx *types.Transaction) (*types.Receipt, error) {
	r, err := bind.WaitMined(ctx, b, tx)
	if err != nil {
		return nil, errors.Wrapf(err, "waiting for %s", tx.Hash().Hex())
	}

	if r.Status != types.ReceiptStatusSuccessful {
		return r, errors.Wrapf(ErrTxFailed, "tx %s", tx.Hash().Hex())
	}

	return r, nil
}

func (n *NFT) transact(ctx context.Context, w *Wallet, method string, params ...interface{}) (*types.Transaction, error) {
	opts, err := w.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := n.bound.Transact(opts, method, params...)
	if err != nil {
		return nil, errors.Wrapf(err, "sending %s", method)
	}

	logging.L().Debugw("sent", "method", method, "tx", tx.Hash().Hex(), "from", w.Address.Hex())

	return tx, nil
}

// callOne runs a view method with a single return value.
func callOne[T any](ctx context.Context, n *NFT, method string, params ...interface{}) (T, error) {
	var (
		zero T
		res  []interface{}
	)

	err := n.bound.Call(&bind.CallOpts{Context: ctx}, &res, method, params...)
	if err != nil {
		return zero, errors.Wrapf(err, "calling %s", method)
	}

	if len(res) == 0 {
		return zero, errors.Errorf("%s returned nothing", method)
	}

	v, ok := res[0].(T)
	if !ok {
		return zero, errors.Errorf("%s returned unexpected %T", method, res[0])
	}

	return v, nil
}
