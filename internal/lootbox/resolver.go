package lootbox

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/lootbox-api/internal/domain"
	"github.com/osse101/lootbox-api/internal/utils"
)

// RandomSource supplies uniform draws in [0, 1).
type RandomSource interface {
	Float64() float64
}

// Resolver draws win or loss for a bet on a tier.
type Resolver struct {
	rng RandomSource
}

// NewResolver creates a Resolver. A nil source uses math/rand.
func NewResolver(rng RandomSource) *Resolver {
	if rng == nil {
		rng = utils.MathRandSource{}
	}
	return &Resolver{rng: rng}
}

// CheckBet rejects a bet below the tier minimum without drawing.
func (r *Resolver) CheckBet(tier domain.Tier, bet decimal.Decimal) error {
	if bet.LessThan(tier.MinimumBet) {
		return &domain.BetBelowMinimumError{
			TierName: tier.DisplayName,
			Minimum:  tier.MinimumBet.String(),
		}
	}
	return nil
}

// Resolve checks the bet against the tier minimum, then draws. A win takes a
// second draw to place the reward fraction inside the tier's range.
func (r *Resolver) Resolve(tier domain.Tier, bet decimal.Decimal) (domain.Outcome, error) {
	if err := r.CheckBet(tier, bet); err != nil {
		return domain.Outcome{}, err
	}

	if r.rng.Float64() >= tier.WinProbability {
		return domain.Outcome{Kind: domain.OutcomeLoss, LossAmount: bet}, nil
	}

	span := tier.Reward.Max.Sub(tier.Reward.Min)
	fraction := tier.Reward.Min.Add(decimal.NewFromFloat(r.rng.Float64()).Mul(span))

	return domain.Outcome{
		Kind:           domain.OutcomeWin,
		RewardFraction: fraction,
		RewardAmount:   bet.Mul(fraction),
	}, nil
}
