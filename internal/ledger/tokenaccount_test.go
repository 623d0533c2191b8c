package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/lootbox-api/internal/domain"
	"github.com/osse101/lootbox-api/internal/ledger"
	"github.com/osse101/lootbox-api/internal/ledger/ledgertest"
)

// createOnSend makes every submitted transaction create the expected account
func createOnSend(account solana.PublicKey) func(*ledgertest.Fake, solana.Signature, []solana.Instruction) {
	return func(f *ledgertest.Fake, _ solana.Signature, _ []solana.Instruction) {
		f.SetAccount(account)
	}
}

func TestResolveOrCreate_Existing(t *testing.T) {
	fake := ledgertest.New()
	mint, owner := ledgertest.NewAddress(), ledgertest.NewAddress()
	expected, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	fake.SetAccount(expected)

	resolver := ledger.NewTokenAccountResolver(fake, ledger.NewConfirmer(fake, fastPolicy()))
	got, err := resolver.ResolveOrCreate(context.Background(), mint, owner)

	require.NoError(t, err)
	assert.Equal(t, expected, got)
	assert.Equal(t, 0, fake.Calls("SendInstructions"))
}

func TestResolveOrCreate_Idempotent(t *testing.T) {
	fake := ledgertest.New()
	mint, owner := ledgertest.NewAddress(), ledgertest.NewAddress()
	expected, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	fake.OnSend = createOnSend(expected)

	resolver := ledger.NewTokenAccountResolver(fake, ledger.NewConfirmer(fake, fastPolicy()))

	first, err := resolver.ResolveOrCreate(context.Background(), mint, owner)
	require.NoError(t, err)
	second, err := resolver.ResolveOrCreate(context.Background(), mint, owner)
	require.NoError(t, err)

	assert.Equal(t, expected, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.Calls("SendInstructions"), "account must be created at most once")
}

func TestResolveOrCreate_ConcurrentCallersShareCreation(t *testing.T) {
	fake := ledgertest.New()
	mint, owner := ledgertest.NewAddress(), ledgertest.NewAddress()
	expected, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	fake.OnSend = createOnSend(expected)

	resolver := ledger.NewTokenAccountResolver(fake, ledger.NewConfirmer(fake, fastPolicy()))

	const callers = 16
	var wg sync.WaitGroup
	results := make([]solana.PublicKey, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = resolver.ResolveOrCreate(context.Background(), mint, owner)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, expected, results[i])
	}
	assert.Equal(t, 1, fake.Calls("SendInstructions"))
}

func TestResolveOrCreate_LostRaceIsSuccess(t *testing.T) {
	fake := ledgertest.New()
	mint, owner := ledgertest.NewAddress(), ledgertest.NewAddress()
	expected, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)

	// Someone else creates the account while ours fails as "already in use".
	fake.OnSend = createOnSend(expected)
	fake.ConfirmErrs = []error{ledger.ErrTransactionFailed}

	resolver := ledger.NewTokenAccountResolver(fake, ledger.NewConfirmer(fake, fastPolicy()))
	got, err := resolver.ResolveOrCreate(context.Background(), mint, owner)

	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

func TestResolveOrCreate_CreationFails(t *testing.T) {
	fake := ledgertest.New()
	fake.SendErrs = []error{errors.New("insufficient funds for rent")}

	resolver := ledger.NewTokenAccountResolver(fake, ledger.NewConfirmer(fake, fastPolicy()))
	_, err := resolver.ResolveOrCreate(context.Background(), ledgertest.NewAddress(), ledgertest.NewAddress())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTokenAccountCreation)
	assert.ErrorIs(t, err, domain.ErrSettlement)
}

func TestResolveOrCreate_LookupFails(t *testing.T) {
	fake := ledgertest.New()
	fake.AccountErr = errors.New("rpc down")

	resolver := ledger.NewTokenAccountResolver(fake, ledger.NewConfirmer(fake, fastPolicy()))
	_, err := resolver.ResolveOrCreate(context.Background(), ledgertest.NewAddress(), ledgertest.NewAddress())

	assert.ErrorIs(t, err, domain.ErrTokenAccountCreation)
	assert.Equal(t, 0, fake.Calls("SendInstructions"))
}
