// Package chaintest provides an in-memory chain that speaks the MyNFT ABI.
//
// Backend satisfies bind.ContractBackend and bind.DeployBackend, so the
// client, deploy and harness packages run against it exactly as they run
// against an ethclient connection. Every accepted transaction is mined into
// its own block immediately, the way ganache does with automine on.
package chaintest

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/redgoat650/mynft/internal/artifact"
)

const (
	ChainID = 1337

	deployGas = 3_000_000
	callGas   = 200_000
)

var gasPrice = big.NewInt(1_000_000_000)

type Backend struct {
	mu sync.Mutex

	abi     abi.ABI
	chainID *big.Int
	signer  types.Signer

	head     uint64
	nonces   map[common.Address]uint64
	code     map[common.Address][]byte
	nfts     map[common.Address]*collection
	receipts map[common.Hash]*types.Receipt
	logs     []types.Log

	name, symbol string
	failSends    int
}

type Option func(*Backend)

func WithChainID(id int64) Option {
	return func(b *Backend) {
		b.chainID = big.NewInt(id)
	}
}

// WithCollection sets the name and symbol every deployed contract reports.
func WithCollection(name, symbol string) Option {
	return func(b *Backend) {
		b.name, b.symbol = name, symbol
	}
}

func NewBackend(opts ...Option) *Backend {
	parsed, err := artifact.ParsedDefaultABI()
	if err != nil {
		panic(err)
	}

	b := &Backend{
		abi:      parsed,
		chainID:  big.NewInt(ChainID),
		nonces:   make(map[common.Address]uint64),
		code:     make(map[common.Address][]byte),
		nfts:     make(map[common.Address]*collection),
		receipts: make(map[common.Hash]*types.Receipt),
		name:     "CoJinNam",
		symbol:   "CJN",
	}

	for _, o := range opts {
		o(b)
	}

	b.signer = types.LatestSignerForChainID(b.chainID)

	return b
}

// FailNextSends makes the next n SendTransaction calls fail before touching
// any state, the way a flaky node drops a submission.
func (b *Backend) FailNextSends(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failSends = n
}

func (b *Backend) Close() {}

func (b *Backend) ChainID(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(b.chainID), nil
}

func (b *Backend) BlockNumber(ctx context.Context) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.head, nil
}

func (b *Backend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.head
	if number != nil && number.Sign() >= 0 {
		if number.Uint64() > b.head {
			return nil, ethereum.NotFound
		}
		n = number.Uint64()
	}

	return &types.Header{
		Number:     new(big.Int).SetUint64(n),
		GasLimit:   30_000_000,
		Difficulty: big.NewInt(0),
		Time:       n,
	}, nil
}

func (b *Backend) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return common.CopyBytes(b.code[account]), nil
}

func (b *Backend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return b.CodeAt(ctx, account, nil)
}

func (b *Backend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.nonces[account], nil
}

func (b *Backend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(gasPrice), nil
}

func (b *Backend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(gasPrice), nil
}

func (b *Backend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	if call.To == nil {
		return deployGas, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.nfts[*call.To]
	if !ok {
		return callGas, nil
	}

	if _, _, err := b.execute(c, call.From, *call.To, call.Data, false); err != nil {
		return 0, err
	}

	return callGas, nil
}

func (b *Backend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if call.To == nil {
		return nil, errors.New("chaintest: call without a target")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.nfts[*call.To]
	if !ok {
		// Mirrors a node answering 0x for an account without code.
		return nil, nil
	}

	out, _, err := b.execute(c, call.From, *call.To, call.Data, false)
	return out, err
}

func (b *Backend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failSends > 0 {
		b.failSends--
		return errors.New("chaintest: transaction dropped")
	}

	from, err := types.Sender(b.signer, tx)
	if err != nil {
		return errors.Wrap(err, "invalid sender")
	}

	if want := b.nonces[from]; tx.Nonce() != want {
		return errors.Errorf("nonce mismatch for %s: have %d, want %d", from.Hex(), tx.Nonce(), want)
	}

	if _, ok := b.receipts[tx.Hash()]; ok {
		return errors.New("already known")
	}

	b.nonces[from]++
	b.head++

	receipt := &types.Receipt{
		Type:              tx.Type(),
		Status:            types.ReceiptStatusSuccessful,
		TxHash:            tx.Hash(),
		GasUsed:           callGas,
		CumulativeGasUsed: callGas,
		EffectiveGasPrice: tx.GasPrice(),
		BlockNumber:       new(big.Int).SetUint64(b.head),
		BlockHash:         b.blockHash(b.head),
	}

	var logs []*types.Log

	if tx.To() == nil {
		addr := crypto.CreateAddress(from, tx.Nonce())
		b.code[addr] = common.CopyBytes(tx.Data())
		b.nfts[addr] = newCollection(from, b.name, b.symbol)
		receipt.ContractAddress = addr
		receipt.GasUsed = deployGas
		receipt.CumulativeGasUsed = deployGas
		logs = append(logs, b.eventLog(addr, "OwnershipTransferred", nil, addressTopic(common.Address{}), addressTopic(from)))
	} else if c, ok := b.nfts[*tx.To()]; ok {
		_, evs, err := b.execute(c, from, *tx.To(), tx.Data(), true)
		if err != nil {
			receipt.Status = types.ReceiptStatusFailed
		} else {
			logs = evs
		}
	}

	for i, l := range logs {
		l.TxHash = tx.Hash()
		l.BlockNumber = b.head
		l.BlockHash = receipt.BlockHash
		l.Index = uint(i)
		b.logs = append(b.logs, *l)
	}

	receipt.Logs = logs
	b.receipts[tx.Hash()] = receipt

	return nil
}

func (b *Backend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, ok := b.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}

	return r, nil
}

func (b *Backend) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var ret []types.Log
	for _, l := range b.logs {
		if matches(q, l) {
			ret = append(ret, l)
		}
	}

	return ret, nil
}

func (b *Backend) SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("chaintest: log subscriptions are not supported")
}

func (b *Backend) blockHash(n uint64) common.Hash {
	return crypto.Keccak256Hash(b.chainID.Bytes(), new(big.Int).SetUint64(n).Bytes())
}

func matches(q ethereum.FilterQuery, l types.Log) bool {
	if q.FromBlock != nil && q.FromBlock.Sign() >= 0 && l.BlockNumber < q.FromBlock.Uint64() {
		return false
	}

	if q.ToBlock != nil && q.ToBlock.Sign() >= 0 && l.BlockNumber > q.ToBlock.Uint64() {
		return false
	}

	if len(q.Addresses) > 0 {
		found := false
		for _, a := range q.Addresses {
			if a == l.Address {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for i, alternatives := range q.Topics {
		if len(alternatives) == 0 {
			continue
		}
		if i >= len(l.Topics) {
			return false
		}

		found := false
		for _, t := range alternatives {
			if t == l.Topics[i] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// NewKey returns a fresh account key and its hex encoding.
func NewKey() (*ecdsa.PrivateKey, string) {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}

	return key, hexutil.Encode(crypto.FromECDSA(key))
}

// Artifact is a deployable stand-in for the compiled MyNFT artifact.
func Artifact() *artifact.Artifact {
	return &artifact.Artifact{
		Format:       "hh-sol-artifact-1",
		ContractName: "MyNFT",
		SourceName:   "contracts/MyNFT.sol",
		ABI:          artifact.DefaultABI(),
		Bytecode:     "0x608060405234801561001057600080fd5b50",
	}
}
