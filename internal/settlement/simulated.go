package settlement

import (
	"context"

	"github.com/osse101/lootbox-api/internal/domain"
	"github.com/osse101/lootbox-api/internal/logger"
)

// Simulated reports a payout without touching the ledger.
type Simulated struct{}

// NewSimulated creates the simulated engine.
func NewSimulated() *Simulated {
	return &Simulated{}
}

// Mode implements Engine.
func (*Simulated) Mode() string { return ModeSimulated }

// Settle implements Engine. The settled amount is the reward in SOL with four decimals.
func (*Simulated) Settle(ctx context.Context, req Request) (*domain.SettlementResult, error) {
	amount := req.AmountSOL.StringFixed(4)
	logger.FromContext(ctx).Info(LogMsgSimulatedSettlement,
		"recipient", req.Recipient.String(),
		"mint", req.Asset.Address,
		"amount_sol", amount)

	return &domain.SettlementResult{
		Mint:          req.Asset.Address,
		SettledAmount: amount,
		Simulated:     true,
	}, nil
}
