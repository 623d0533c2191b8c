package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/lootbox-api/internal/config"
	"github.com/osse101/lootbox-api/internal/ledger"
)

// Ledger groups the process-scoped ledger dependencies.
type Ledger struct {
	Client    *ledger.RPCClient
	Confirmer *ledger.Confirmer
	Accounts  *ledger.TokenAccountResolver
}

// InitializeLedger loads the operator keypair and builds the RPC client with
// its confirmation policy. The RPC node is probed once but an unreachable node
// is not fatal; /readyz reports it until it recovers.
func InitializeLedger(ctx context.Context, cfg *config.Config) (*Ledger, error) {
	key, err := ledger.LoadOperatorKey(cfg.OperatorPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadOperatorKey, err)
	}

	operator := key.PublicKey()
	if cfg.OperatorAddress != "" && cfg.OperatorAddress != operator.String() {
		slog.Warn(LogMsgOperatorAddressIgnored,
			"configured", cfg.OperatorAddress,
			"operator", operator.String())
	}

	client := ledger.NewRPCClient(cfg.RPCURL, key, cfg.Commitment)
	confirmer := ledger.NewConfirmer(client, ledger.RetryPolicy{
		MaxAttempts: cfg.ConfirmMaxAttempts,
		Backoff:     cfg.ConfirmBackoff,
		Timeout:     cfg.ConfirmTimeout,
	})

	probeCtx, cancel := context.WithTimeout(ctx, LedgerStartupProbeTimeout)
	defer cancel()
	if err := client.Health(probeCtx); err != nil {
		slog.Warn(LogMsgLedgerUnreachable, "rpc_url", cfg.RPCURL, "error", err)
	}

	slog.Info(LogMsgLedgerInitialized,
		"network", cfg.Network,
		"commitment", cfg.Commitment,
		"operator", operator.String())

	return &Ledger{
		Client:    client,
		Confirmer: confirmer,
		Accounts:  ledger.NewTokenAccountResolver(client, confirmer),
	}, nil
}
