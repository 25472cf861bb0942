package harness

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/redgoat650/mynft/internal/artifact"
	"github.com/redgoat650/mynft/internal/chaintest"
	"github.com/redgoat650/mynft/internal/client"
	"github.com/redgoat650/mynft/internal/deploy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSuite(t *testing.T, b *chaintest.Backend) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	t.Cleanup(cancel)

	chainID, err := b.ChainID(ctx)
	require.NoError(t, err)

	_, k1 := chaintest.NewKey()
	w, err := client.Signer(k1, chainID)
	require.NoError(t, err)

	_, k2 := chaintest.NewKey()
	r, err := client.Signer(k2, chainID)
	require.NoError(t, err)

	d, err := deploy.Deploy(ctx, b, w, chaintest.Artifact())
	require.NoError(t, err)

	parsed, err := artifact.ParsedDefaultABI()
	require.NoError(t, err)

	nft, err := client.Contract(d.Address, parsed, b)
	require.NoError(t, err)

	return ctx, &Suite{
		Backend:         b,
		Wallet:          w,
		NFT:             nft,
		Recipient:       r.Address,
		ExpectedChainID: big.NewInt(1337),
		TokenURI:        "https://example.com/metadata/0",
		Retries:         3,
	}
}

func caseNamed(t *testing.T, s *Suite, name string) Case {
	t.Helper()

	for _, c := range s.Cases() {
		if c.Name == name {
			return c
		}
	}

	t.Fatalf("no case %q", name)
	return Case{}
}

func TestSuitePasses(t *testing.T) {
	ctx, s := newSuite(t, chaintest.NewBackend())

	results := s.Run(ctx)
	require.Len(t, results, len(s.Cases()))

	for _, r := range results {
		assert.True(t, r.Passed, "%s: %v", r.Name, r.Err)
		assert.Equal(t, uint(1), r.Attempts, r.Name)
	}
	assert.Zero(t, Failed(results))
}

func TestOnlyTransferAndApproveRetry(t *testing.T) {
	_, s := newSuite(t, chaintest.NewBackend())

	var retried []string
	for _, c := range s.Cases() {
		if c.Retry {
			retried = append(retried, c.Name)
		}
	}

	assert.Equal(t, []string{
		"safeTransferFrom moves a token",
		"approve grants a spender",
	}, retried)
}

func TestRetryRecoversDroppedSubmissions(t *testing.T) {
	b := chaintest.NewBackend()
	ctx, s := newSuite(t, b)

	b.FailNextSends(2)
	res := s.runCase(ctx, caseNamed(t, s, "safeTransferFrom moves a token"))
	assert.True(t, res.Passed, "%v", res.Err)
	assert.Equal(t, uint(3), res.Attempts)

	b.FailNextSends(1)
	res = s.runCase(ctx, caseNamed(t, s, "approve grants a spender"))
	assert.True(t, res.Passed, "%v", res.Err)
	assert.Equal(t, uint(2), res.Attempts)
}

func TestRetryGivesUpAfterBudget(t *testing.T) {
	b := chaintest.NewBackend()
	ctx, s := newSuite(t, b)

	b.FailNextSends(10)
	res := s.runCase(ctx, caseNamed(t, s, "approve grants a spender"))
	assert.False(t, res.Passed)
	assert.Equal(t, uint(4), res.Attempts)
	assert.ErrorContains(t, res.Err, "transaction dropped")
}

func TestMintDoesNotRetry(t *testing.T) {
	b := chaintest.NewBackend()
	ctx, s := newSuite(t, b)

	b.FailNextSends(1)
	res := s.runCase(ctx, caseNamed(t, s, "mint creates a token owned by the wallet"))
	assert.False(t, res.Passed)
	assert.Equal(t, uint(1), res.Attempts)
}

func TestWrongChainID(t *testing.T) {
	ctx, s := newSuite(t, chaintest.NewBackend(chaintest.WithChainID(5)))

	results := s.Run(ctx)
	require.NotEmpty(t, results)

	assert.False(t, results[0].Passed)
	assert.ErrorIs(t, results[0].Err, ErrChainIDMismatch)
	assert.Equal(t, 1, Failed(results))
}

func TestOwnerOfBeforeAnyMintFails(t *testing.T) {
	ctx, s := newSuite(t, chaintest.NewBackend())

	res := s.runCase(ctx, caseNamed(t, s, "ownerOf returns the owner of a token"))
	assert.False(t, res.Passed)

	res = s.runCase(ctx, caseNamed(t, s, "balanceOf returns the number of owned tokens"))
	assert.False(t, res.Passed)
}

func TestRecipientMustDifferFromWallet(t *testing.T) {
	ctx, s := newSuite(t, chaintest.NewBackend())
	s.Recipient = s.Wallet.Address

	assert.ErrorIs(t, s.Validate(), ErrRecipientIsSigner)

	for _, name := range []string{"safeTransferFrom moves a token", "approve grants a spender"} {
		res := s.runCase(ctx, caseNamed(t, s, name))
		assert.False(t, res.Passed, name)
		assert.Equal(t, uint(1), res.Attempts, name)
		assert.ErrorIs(t, res.Err, ErrRecipientIsSigner, name)
	}

	bal, err := s.NFT.BalanceOf(ctx, s.Wallet.Address)
	require.NoError(t, err)
	assert.Zero(t, bal.Sign(), "no token should be minted for a rejected case")
}

func TestValidate(t *testing.T) {
	_, s := newSuite(t, chaintest.NewBackend())
	assert.NoError(t, s.Validate())

	s.NFT = nil
	assert.ErrorIs(t, s.Validate(), ErrNotBound)
}

func TestRunWithoutContractReportsEveryCase(t *testing.T) {
	ctx, s := newSuite(t, chaintest.NewBackend())
	s.NFT = nil

	var results []Result
	require.NotPanics(t, func() { results = s.Run(ctx) })
	require.Len(t, results, 8)

	assert.True(t, results[0].Passed, "%v", results[0].Err)
	assert.True(t, results[1].Passed, "%v", results[1].Err)
	for _, r := range results[2:] {
		assert.False(t, r.Passed, r.Name)
		assert.ErrorIs(t, r.Err, ErrNotBound, r.Name)
		assert.Equal(t, uint(1), r.Attempts, r.Name)
	}
}

func TestRunWithoutWalletReportsEveryCase(t *testing.T) {
	ctx, s := newSuite(t, chaintest.NewBackend())
	s.Wallet = nil

	var results []Result
	require.NotPanics(t, func() { results = s.Run(ctx) })
	require.Len(t, results, 8)
	assert.Equal(t, 6, Failed(results))
	assert.True(t, results[2].Passed, "%v", results[2].Err)
}
