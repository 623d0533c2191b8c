package lootbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/lootbox-api/internal/domain"
)

func TestCatalog_Lookup(t *testing.T) {
	catalog := ClassicCatalog()

	tests := []struct {
		name    string
		input   string
		want    domain.TierID
		wantErr error
	}{
		{name: "exact", input: "DEGEN", want: domain.TierDegen},
		{name: "lower case", input: "jeeter", want: domain.TierJeeter},
		{name: "mixed case", input: "GaMbLeR", want: domain.TierGambler},
		{name: "unknown", input: "WHALE", wantErr: domain.ErrUnknownTier},
		{name: "empty", input: "", wantErr: domain.ErrUnknownTier},
		{name: "display name is not an id", input: "Degen Box", wantErr: domain.ErrUnknownTier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, err := catalog.Lookup(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tier.ID)
		})
	}
}

func TestCatalogs_TierValues(t *testing.T) {
	classic := ClassicCatalog().All()
	swap := SwapCatalog().All()

	require.Len(t, classic, 3)
	require.Len(t, swap, 3)

	wantProbabilities := map[domain.TierID][2]float64{
		domain.TierJeeter:  {0.25, 0.80},
		domain.TierDegen:   {0.15, 0.65},
		domain.TierGambler: {0.10, 0.50},
	}
	for i := range classic {
		c, s := classic[i], swap[i]
		assert.Equal(t, c.ID, s.ID, "catalogs list tiers in the same order")
		assert.True(t, c.MinimumBet.Equal(s.MinimumBet))
		assert.True(t, c.Reward.Min.Equal(s.Reward.Min))
		assert.True(t, c.Reward.Max.Equal(s.Reward.Max))
		assert.Equal(t, wantProbabilities[c.ID][0], c.WinProbability)
		assert.Equal(t, wantProbabilities[c.ID][1], s.WinProbability)
		assert.True(t, c.Reward.Min.LessThan(c.Reward.Max))
	}

	assert.Equal(t, "0.01", classic[0].MinimumBet.String())
	assert.Equal(t, "0.02", classic[1].MinimumBet.String())
	assert.Equal(t, "0.05", classic[2].MinimumBet.String())
	assert.Equal(t, "Gambler Box", classic[2].DisplayName)
	assert.Equal(t, 10, classic[2].MaxMultiplier)
}

func TestCatalog_AllReturnsCopy(t *testing.T) {
	catalog := ClassicCatalog()
	tiers := catalog.All()
	tiers[0].WinProbability = 1

	again, err := catalog.Lookup(string(tiers[0].ID))
	require.NoError(t, err)
	assert.Equal(t, 0.25, again.WinProbability)
	assert.Equal(t, 0.25, catalog.All()[0].WinProbability)
}

func TestCatalogByName(t *testing.T) {
	c, err := CatalogByName("SWAP")
	require.NoError(t, err)
	assert.Equal(t, CatalogSwap, c.Name())

	c, err = CatalogByName("classic")
	require.NoError(t, err)
	assert.Equal(t, CatalogClassic, c.Name())

	_, err = CatalogByName("weekly")
	assert.Error(t, err)
}
