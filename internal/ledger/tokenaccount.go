package ledger

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"golang.org/x/sync/singleflight"

	"github.com/osse101/lootbox-api/internal/domain"
	"github.com/osse101/lootbox-api/internal/logger"
)

// TokenAccountResolver finds or lazily creates the associated token account
// for an (owner, mint) pair. The address is deterministic, so at most one
// account ever exists per pair and repeated calls return the same address.
type TokenAccountResolver struct {
	client    Client
	confirmer *Confirmer
	group     singleflight.Group
}

// NewTokenAccountResolver creates a resolver that pays for creation with the operator key.
func NewTokenAccountResolver(client Client, confirmer *Confirmer) *TokenAccountResolver {
	return &TokenAccountResolver{client: client, confirmer: confirmer}
}

// ResolveOrCreate returns the associated token account of owner for mint,
// creating and confirming it first if it does not exist yet. Concurrent calls
// for the same pair share one creation.
func (r *TokenAccountResolver) ResolveOrCreate(ctx context.Context, mint, owner solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%s: %w", ErrContextDeriveATA, err)
	}

	_, err, _ = r.group.Do(ata.String(), func() (interface{}, error) {
		return nil, r.ensure(ctx, ata, mint, owner)
	})
	if err != nil {
		return solana.PublicKey{}, err
	}
	return ata, nil
}

func (r *TokenAccountResolver) ensure(ctx context.Context, ata, mint, owner solana.PublicKey) error {
	exists, err := r.client.AccountExists(ctx, ata)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTokenAccountCreation, err)
	}
	if exists {
		return nil
	}

	log := logger.FromContext(ctx)
	log.Info(LogMsgTokenAccountCreating, "owner", owner.String(), "mint", mint.String(), "account", ata.String())

	ix := associatedtokenaccount.NewCreateInstruction(r.client.Operator(), owner, mint).Build()
	sig, sendErr := r.client.SendInstructions(ctx, ix)
	if sendErr == nil {
		_, sendErr = r.confirmer.Confirm(ctx, sig)
	}
	if sendErr == nil {
		return nil
	}

	// Another creator may have won the race; the account is all that matters.
	if exists, err := r.client.AccountExists(ctx, ata); err == nil && exists {
		log.Info(LogMsgTokenAccountRace, "account", ata.String(), "error", sendErr)
		return nil
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrTokenAccountCreation, ata, sendErr)
}
