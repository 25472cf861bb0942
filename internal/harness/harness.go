// Package harness runs the MyNFT wiring checks against a live chain.
//
// The cases are the ones the contract's acceptance suite runs: the network
// is the expected one, the signer and contract bind, and mint, ownerOf,
// balanceOf, safeTransferFrom and approve behave. Transfer and approval are
// retried because local test networks occasionally drop a submission.
package harness

import (
	"context"
	"math/big"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/redgoat650/mynft/internal/client"
	"github.com/redgoat650/mynft/internal/logging"
)

var (
	ErrChainIDMismatch   = errors.New("unexpected chain id")
	ErrNotBound          = errors.New("suite is missing a backend, wallet or contract")
	ErrRecipientIsSigner = errors.New("recipient must differ from the signing wallet")
)

type Suite struct {
	Backend   client.Backend
	Wallet    *client.Wallet
	NFT       *client.NFT
	Recipient common.Address

	ExpectedChainID *big.Int
	TokenURI        string
	Retries         uint
	RetryDelay      time.Duration
}

type Case struct {
	Name  string
	Retry bool
	Run   func(ctx context.Context) error
}

type Result struct {
	Name     string        `json:"name"`
	Passed   bool          `json:"passed"`
	Attempts uint          `json:"attempts"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

func (s *Suite) Cases() []Case {
	return []Case{
		{Name: "connects to the expected network", Run: s.checkNetwork},
		{Name: "signer returns a wallet", Run: s.checkSigner},
		{Name: "contract returns a contract instance", Run: s.checkContract},
		{Name: "mint creates a token owned by the wallet", Run: s.checkMint},
		{Name: "ownerOf returns the owner of a token", Run: s.checkOwnerOf},
		{Name: "balanceOf returns the number of owned tokens", Run: s.checkBalanceOf},
		{Name: "safeTransferFrom moves a token", Retry: true, Run: s.checkSafeTransferFrom},
		{Name: "approve grants a spender", Retry: true, Run: s.checkApprove},
	}
}

// Run executes every case in order and reports each one. It never stops
// early; the caller decides what a failure means.
func (s *Suite) Run(ctx context.Context) []Result {
	cases := s.Cases()
	results := make([]Result, 0, len(cases))

	for _, c := range cases {
		results = append(results, s.runCase(ctx, c))
	}

	return results
}

func (s *Suite) runCase(ctx context.Context, c Case) Result {
	log := logging.L().With("case", c.Name)

	attempts := uint(1)
	if c.Retry {
		attempts += s.Retries
	}

	res := Result{Name: c.Name}
	start := time.Now()

	res.Err = retry.Do(
		func() error {
			res.Attempts++
			return c.Run(ctx)
		},
		retry.Attempts(attempts),
		retry.Delay(s.RetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			log.Warnw("retrying", "attempt", n+1, "error", err)
		}),
	)

	res.Duration = time.Since(start)
	res.Passed = res.Err == nil

	if res.Passed {
		log.Infow("passed", "attempts", res.Attempts)
	} else {
		log.Errorw("failed", "attempts", res.Attempts, "error", res.Err)
	}

	return res
}

// Failed counts the results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}

	return n
}

// Validate reports configuration that would make the suite meaningless:
// a missing binding, or a recipient that is the wallet itself.
func (s *Suite) Validate() error {
	if err := s.bound(); err != nil {
		return err
	}

	return s.distinctRecipient()
}

func (s *Suite) bound() error {
	if s.Backend == nil || s.Wallet == nil || s.NFT == nil {
		return ErrNotBound
	}

	return nil
}

func (s *Suite) distinctRecipient() error {
	if s.Recipient == s.Wallet.Address {
		return errors.Wrapf(ErrRecipientIsSigner, "both are %s", s.Recipient.Hex())
	}

	return nil
}

func (s *Suite) checkNetwork(ctx context.Context) error {
	if s.Backend == nil {
		return ErrNotBound
	}

	info, err := client.CheckNetworkInfo(ctx, s.Backend)
	if err != nil {
		return err
	}

	if s.ExpectedChainID != nil && info.ChainID.Cmp(s.ExpectedChainID) != 0 {
		return errors.Wrapf(ErrChainIDMismatch, "have %s, want %s", info.ChainID, s.ExpectedChainID)
	}

	return nil
}

func (s *Suite) checkSigner(ctx context.Context) error {
	if s.Wallet == nil || s.Wallet.Address == (common.Address{}) {
		return errors.New("no signer configured")
	}

	return nil
}

func (s *Suite) checkContract(ctx context.Context) error {
	if s.Backend == nil || s.NFT == nil {
		return errors.Wrap(ErrNotBound, "no contract bound")
	}

	code, err := s.Backend.CodeAt(ctx, s.NFT.Address, nil)
	if err != nil {
		return errors.Wrap(err, "reading contract code")
	}

	if len(code) == 0 {
		return errors.Errorf("no code at %s", s.NFT.Address.Hex())
	}

	return nil
}

func (s *Suite) checkMint(ctx context.Context) error {
	id, err := s.mint(ctx)
	if err != nil {
		return err
	}

	return s.expectOwner(ctx, id, s.Wallet.Address)
}

func (s *Suite) checkOwnerOf(ctx context.Context) error {
	if err := s.bound(); err != nil {
		return err
	}

	owner, err := s.NFT.OwnerOf(ctx, big.NewInt(1))
	if err != nil {
		return err
	}

	if owner == (common.Address{}) {
		return errors.New("ownerOf(1) returned the zero address")
	}

	return nil
}

func (s *Suite) checkBalanceOf(ctx context.Context) error {
	if err := s.bound(); err != nil {
		return err
	}

	bal, err := s.NFT.BalanceOf(ctx, s.Wallet.Address)
	if err != nil {
		return err
	}

	if bal.Sign() <= 0 {
		return errors.Errorf("balance of %s is %s", s.Wallet.Address.Hex(), bal)
	}

	return nil
}

func (s *Suite) checkSafeTransferFrom(ctx context.Context) error {
	if err := s.preflight(); err != nil {
		return err
	}

	id, err := s.mint(ctx)
	if err != nil {
		return err
	}

	tx, err := s.NFT.SafeTransferFrom(ctx, s.Wallet, s.Wallet.Address, s.Recipient, id)
	if err != nil {
		return err
	}

	if _, err := client.Wait(ctx, s.Backend, tx); err != nil {
		return err
	}

	return s.expectOwner(ctx, id, s.Recipient)
}

func (s *Suite) checkApprove(ctx context.Context) error {
	if err := s.preflight(); err != nil {
		return err
	}

	id, err := s.mint(ctx)
	if err != nil {
		return err
	}

	tx, err := s.NFT.Approve(ctx, s.Wallet, s.Recipient, id)
	if err != nil {
		return err
	}

	if _, err := client.Wait(ctx, s.Backend, tx); err != nil {
		return err
	}

	spender, err := s.NFT.GetApproved(ctx, id)
	if err != nil {
		return err
	}

	if spender != s.Recipient {
		return errors.Errorf("token %s approved for %s, want %s", id, spender.Hex(), s.Recipient.Hex())
	}

	return nil
}

// preflight fails without retrying when another attempt cannot help.
func (s *Suite) preflight() error {
	if err := s.Validate(); err != nil {
		return retry.Unrecoverable(err)
	}

	return nil
}

func (s *Suite) mint(ctx context.Context) (*big.Int, error) {
	if err := s.bound(); err != nil {
		return nil, err
	}

	tx, err := s.NFT.Mint(ctx, s.Wallet, s.Wallet.Address, s.TokenURI)
	if err != nil {
		return nil, err
	}

	r, err := client.Wait(ctx, s.Backend, tx)
	if err != nil {
		return nil, err
	}

	return s.NFT.MintedTokenID(r)
}

func (s *Suite) expectOwner(ctx context.Context, id *big.Int, want common.Address) error {
	owner, err := s.NFT.OwnerOf(ctx, id)
	if err != nil {
		return err
	}

	if owner != want {
		return errors.Errorf("token %s owned by %s, want %s", id, owner.Hex(), want.Hex())
	}

	return nil
}
