package lootbox

import (
	"math"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/lootbox-api/internal/domain"
)

func mustTier(t testing.TB, c *Catalog, id domain.TierID) domain.Tier {
	t.Helper()
	tier, err := c.Lookup(string(id))
	require.NoError(t, err)
	return tier
}

func TestResolve_BetBelowMinimumDrawsNothing(t *testing.T) {
	src := &seqSource{values: []float64{0}}
	r := NewResolver(src)
	tier := mustTier(t, ClassicCatalog(), domain.TierGambler)

	_, err := r.Resolve(tier, decimal.RequireFromString("0.049"))

	require.ErrorIs(t, err, domain.ErrBetBelowMinimum)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "Minimum bet for Gambler Box is 0.05 SOL")
	assert.Zero(t, src.draws)
}

func TestResolve_ExactMinimumIsAccepted(t *testing.T) {
	r := NewResolver(&seqSource{values: []float64{0.99}})
	tier := mustTier(t, ClassicCatalog(), domain.TierJeeter)

	outcome, err := r.Resolve(tier, tier.MinimumBet)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeLoss, outcome.Kind)
	assert.True(t, outcome.LossAmount.Equal(tier.MinimumBet))
	assert.True(t, outcome.RewardAmount.IsZero())
}

func TestResolve_KnownDraw(t *testing.T) {
	src := &seqSource{values: []float64{0.1, 0.5}}
	r := NewResolver(src)
	tier := mustTier(t, SwapCatalog(), domain.TierDegen)

	outcome, err := r.Resolve(tier, decimal.RequireFromString("0.02"))

	require.NoError(t, err)
	require.True(t, outcome.IsWin())
	assert.Equal(t, "0.25", outcome.RewardFraction.String())
	assert.Equal(t, "0.0050", outcome.RewardAmount.StringFixed(4))
	assert.Equal(t, 2, src.draws)
}

func TestResolve_ProbabilityBoundary(t *testing.T) {
	tier := mustTier(t, ClassicCatalog(), domain.TierDegen)
	bet := decimal.RequireFromString("0.02")

	outcome, err := NewResolver(&seqSource{values: []float64{0.15}}).Resolve(tier, bet)
	require.NoError(t, err)
	assert.False(t, outcome.IsWin(), "a draw equal to p loses")

	outcome, err = NewResolver(&seqSource{values: []float64{0.1499999, 0}}).Resolve(tier, bet)
	require.NoError(t, err)
	assert.True(t, outcome.IsWin())
	assert.True(t, outcome.RewardFraction.Equal(tier.Reward.Min))
}

func TestResolve_WinRateConverges(t *testing.T) {
	const draws = 100_000
	for _, tier := range append(ClassicCatalog().All(), SwapCatalog().All()...) {
		r := NewResolver(rand.New(rand.NewSource(42)))
		wins := 0
		for i := 0; i < draws; i++ {
			outcome, err := r.Resolve(tier, tier.MinimumBet)
			require.NoError(t, err)
			if outcome.IsWin() {
				wins++
			}
		}
		rate := float64(wins) / draws
		assert.InDelta(t, tier.WinProbability, rate, 0.01, "tier %s p=%v", tier.ID, tier.WinProbability)
	}
}

func TestResolve_RewardWithinRange(t *testing.T) {
	r := NewResolver(rand.New(rand.NewSource(7)))
	for _, tier := range SwapCatalog().All() {
		bet := tier.MinimumBet.Mul(decimal.NewFromInt(3))
		low := bet.Mul(tier.Reward.Min)
		high := bet.Mul(tier.Reward.Max)

		for i := 0; i < 5_000; i++ {
			outcome, err := r.Resolve(tier, bet)
			require.NoError(t, err)
			if !outcome.IsWin() {
				continue
			}
			assert.True(t, outcome.RewardAmount.GreaterThanOrEqual(low), "reward %s below %s", outcome.RewardAmount, low)
			assert.True(t, outcome.RewardAmount.LessThanOrEqual(high), "reward %s above %s", outcome.RewardAmount, high)
			assert.False(t, math.IsNaN(outcome.RewardFraction.InexactFloat64()))
		}
	}
}

func TestNewResolver_DefaultSource(t *testing.T) {
	r := NewResolver(nil)
	tier := mustTier(t, SwapCatalog(), domain.TierJeeter)
	_, err := r.Resolve(tier, tier.MinimumBet)
	assert.NoError(t, err)
}

func BenchmarkResolve(b *testing.B) {
	r := NewResolver(rand.New(rand.NewSource(1)))
	tier := mustTier(b, SwapCatalog(), domain.TierDegen)
	bet := decimal.RequireFromString("0.02")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Resolve(tier, bet); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCatalogLookup(b *testing.B) {
	catalog := ClassicCatalog()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := catalog.Lookup("gambler"); err != nil {
			b.Fatal(err)
		}
	}
}
