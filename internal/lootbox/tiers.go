package lootbox

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/osse101/lootbox-api/internal/domain"
)

// Catalog is a fixed, ordered set of tiers. It is safe for concurrent use
// because nothing mutates it after construction.
type Catalog struct {
	name  string
	tiers []domain.Tier
	byKey map[string]domain.Tier
}

func newCatalog(name string, tiers ...domain.Tier) *Catalog {
	c := &Catalog{
		name:  name,
		tiers: tiers,
		byKey: make(map[string]domain.Tier, len(tiers)),
	}
	for _, t := range tiers {
		c.byKey[foldKey(string(t.ID))] = t
	}
	return c
}

// foldKey normalizes a tier name. A Caser is stateful, so one is made per call.
func foldKey(name string) string {
	return cases.Fold().String(name)
}

func tier(id domain.TierID, name, minBet string, p float64, minPct, maxPct string, mult int) domain.Tier {
	return domain.Tier{
		ID:             id,
		DisplayName:    name,
		MinimumBet:     decimal.RequireFromString(minBet),
		WinProbability: p,
		Reward: domain.RewardRange{
			Min: decimal.RequireFromString(minPct),
			Max: decimal.RequireFromString(maxPct),
		},
		MaxMultiplier: mult,
	}
}

// ClassicCatalog returns the tiers of the classic lootbox.
func ClassicCatalog() *Catalog {
	return newCatalog(CatalogClassic,
		tier(domain.TierJeeter, "Jeeter Box", "0.01", 0.25, "0.08", "0.30", 2),
		tier(domain.TierDegen, "Degen Box", "0.02", 0.15, "0.10", "0.40", 5),
		tier(domain.TierGambler, "Gambler Box", "0.05", 0.10, "0.15", "0.50", 10),
	)
}

// SwapCatalog returns the tiers of the swap lootbox, which pays out more often.
func SwapCatalog() *Catalog {
	return newCatalog(CatalogSwap,
		tier(domain.TierJeeter, "Jeeter Box", "0.01", 0.80, "0.08", "0.30", 2),
		tier(domain.TierDegen, "Degen Box", "0.02", 0.65, "0.10", "0.40", 5),
		tier(domain.TierGambler, "Gambler Box", "0.05", 0.50, "0.15", "0.50", 10),
	)
}

// CatalogByName returns the catalog named classic or swap.
func CatalogByName(name string) (*Catalog, error) {
	switch foldKey(name) {
	case CatalogClassic:
		return ClassicCatalog(), nil
	case CatalogSwap:
		return SwapCatalog(), nil
	default:
		return nil, fmt.Errorf("unknown tier catalog %q", name)
	}
}

// Name returns the catalog name.
func (c *Catalog) Name() string {
	return c.name
}

// Lookup finds a tier by ID, ignoring case.
func (c *Catalog) Lookup(name string) (domain.Tier, error) {
	t, ok := c.byKey[foldKey(name)]
	if !ok {
		return domain.Tier{}, fmt.Errorf("%w: %q", domain.ErrUnknownTier, name)
	}
	return t, nil
}

// All returns the tiers in ascending order of stake.
func (c *Catalog) All() []domain.Tier {
	out := make([]domain.Tier, len(c.tiers))
	copy(out, c.tiers)
	return out
}
