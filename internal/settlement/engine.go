package settlement

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/osse101/lootbox-api/internal/domain"
)

// Request is one payout: AmountSOL worth of Asset delivered to Recipient.
type Request struct {
	Asset     domain.TrendingAsset
	Recipient solana.PublicKey
	AmountSOL decimal.Decimal
}

// Engine pays out winning openings.
type Engine interface {
	// Mode names the variant, ModeSimulated or ModeOnChain.
	Mode() string
	// Settle delivers the reward. Errors are *domain.SettlementError.
	Settle(ctx context.Context, req Request) (*domain.SettlementResult, error)
}
