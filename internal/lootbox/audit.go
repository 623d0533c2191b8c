package lootbox

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/osse101/lootbox-api/internal/domain"
	"github.com/osse101/lootbox-api/internal/event"
	"github.com/osse101/lootbox-api/internal/logger"
	"github.com/osse101/lootbox-api/internal/metrics"
)

// BalanceReader reads native SOL balances in lamports.
type BalanceReader interface {
	GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
}

// AuditedAccount is an account whose balance is compared around an opening.
type AuditedAccount struct {
	Role    string
	Address solana.PublicKey
	// PaidBeforeSnapshot marks a user whose payment landed before the first
	// snapshot, so no decrease is expected inside the audited window.
	PaidBeforeSnapshot bool
}

// Snapshot maps account address to lamports. Accounts whose balance could
// not be read are absent.
type Snapshot map[solana.PublicKey]uint64

// Auditor compares balances before and after an opening. It is diagnostic
// only: failures are logged and never change the outcome.
type Auditor struct {
	reader    BalanceReader
	publisher event.Publisher
}

// NewAuditor creates an Auditor. publisher may be nil.
func NewAuditor(reader BalanceReader, publisher event.Publisher) *Auditor {
	return &Auditor{reader: reader, publisher: publisher}
}

// Snapshot reads the current balance of every account.
func (a *Auditor) Snapshot(ctx context.Context, accounts ...AuditedAccount) Snapshot {
	snap := make(Snapshot, len(accounts))
	for _, acct := range accounts {
		lamports, err := a.reader.GetBalance(ctx, acct.Address)
		if err != nil {
			logger.FromContext(ctx).Warn(LogMsgBalanceReadFailed, "role", acct.Role, "account", acct.Address.String(), "error", err)
			continue
		}
		snap[acct.Address] = lamports
	}
	return snap
}

// Compare logs and publishes the delta of every account present in both
// snapshots. An operator balance that went down is flagged, as is a user
// balance that did not go down unless the user paid before the snapshot.
func (a *Auditor) Compare(ctx context.Context, openingID string, before, after Snapshot, accounts ...AuditedAccount) {
	log := logger.FromContext(ctx)

	for _, acct := range accounts {
		pre, okBefore := before[acct.Address]
		post, okAfter := after[acct.Address]
		if !okBefore || !okAfter {
			continue
		}

		delta := int64(post) - int64(pre)
		warning := balanceWarning(acct, delta)

		attrs := []any{
			"role", acct.Role,
			"account", acct.Address.String(),
			"before", domain.LamportsToSOL(pre).String(),
			"after", domain.LamportsToSOL(post).String(),
			"delta", domain.SignedLamportsToSOL(delta).String(),
		}
		if warning != "" {
			metrics.BalanceAuditWarnings.WithLabelValues(acct.Role).Inc()
			log.Warn(LogMsgBalanceAuditWarning, append(attrs, "warning", warning)...)
		} else {
			log.Info(LogMsgBalanceAudited, attrs...)
		}

		if a.publisher != nil {
			a.publisher.PublishWithRetry(ctx, event.NewBalanceAuditedEvent(openingID, event.BalanceAuditedPayloadV1{
				Account: acct.Address.String(),
				Role:    acct.Role,
				Before:  domain.LamportsToSOL(pre).String(),
				After:   domain.LamportsToSOL(post).String(),
				Delta:   domain.SignedLamportsToSOL(delta).String(),
				Warning: warning,
			}))
		}
	}
}

func balanceWarning(acct AuditedAccount, delta int64) string {
	switch {
	case acct.Role == RoleUser && delta >= 0 && !acct.PaidBeforeSnapshot:
		return WarnUserBalanceNotDecreased
	case acct.Role == RoleOperator && delta < 0:
		return WarnOperatorBalanceDecreased
	default:
		return ""
	}
}
