package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/osse101/lootbox-api/internal/config"
	"github.com/osse101/lootbox-api/internal/event"
	"github.com/osse101/lootbox-api/internal/lootbox"
	"github.com/osse101/lootbox-api/internal/market"
	"github.com/osse101/lootbox-api/internal/payment"
	"github.com/osse101/lootbox-api/internal/settlement"
	"github.com/osse101/lootbox-api/internal/utils"
)

// ServiceDependencies holds what the lootbox service is built from.
type ServiceDependencies struct {
	Config    *config.Config
	Ledger    *Ledger
	Guard     payment.Guard
	Publisher event.Publisher
}

// InitializeLootboxService builds the tier catalog, resolver, verifier,
// market selector and settlement engine and wires them into the service.
func InitializeLootboxService(deps ServiceDependencies) (lootbox.Service, error) {
	cfg := deps.Config

	catalog, err := lootbox.CatalogByName(cfg.LootboxVariant)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	client := deps.Ledger.Client

	svc := lootbox.NewService(lootbox.Dependencies{
		Catalog:           catalog,
		Resolver:          lootbox.NewResolver(utils.MathRandSource{}),
		Verifier:          payment.NewVerifier(client, payment.FirstTwoAccountKeys{}),
		Guard:             deps.Guard,
		Selector:          market.NewDexScreenerSelector(httpClient, cfg.DexScreenerURL, utils.MathRandSource{}),
		Engine:            newSettlementEngine(cfg, deps.Ledger),
		Auditor:           lootbox.NewAuditor(client, deps.Publisher),
		Publisher:         deps.Publisher,
		Operator:          client.Operator(),
		Tolerance:         cfg.FeeTolerance,
		SettlementTimeout: cfg.SettlementTimeout,
	})

	slog.Info(LogMsgServicesInitialized,
		"catalog", catalog.Name(),
		"settlement_mode", cfg.SettlementMode,
		"fee_tolerance", cfg.FeeTolerance.String())

	return svc, nil
}

func newSettlementEngine(cfg *config.Config, l *Ledger) settlement.Engine {
	if cfg.SettlementMode != config.SettlementOnChain {
		return settlement.NewSimulated()
	}
	return settlement.NewOnChain(l.Client, l.Accounts, l.Confirmer, newPoolRegistry(cfg), cfg.SwapSlippageBps)
}

// newPoolRegistry gets its own client since the pool list download outlasts HTTPTimeout.
func newPoolRegistry(cfg *config.Config) *settlement.PoolRegistry {
	client := &http.Client{Timeout: cfg.PoolFetchTimeout}
	return settlement.NewPoolRegistry(client, cfg.RaydiumPoolsURL, cfg.PoolCacheTTL)
}
