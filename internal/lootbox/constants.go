package lootbox

import "time"

// Catalog names
const (
	CatalogClassic = "classic"
	CatalogSwap    = "swap"
)

// DefaultSwapTier is the tier used by the swap variant when none is given.
const DefaultSwapTier = "DEGEN"

// DefaultSettlementTimeout bounds a settlement that outlives its request.
const DefaultSettlementTimeout = 2 * time.Minute

// Account roles in balance audits
const (
	RoleUser     = "user"
	RoleOperator = "operator"
)

// Balance audit warnings
const (
	WarnUserBalanceNotDecreased  = "user balance did not decrease after opening"
	WarnOperatorBalanceDecreased = "operator balance decreased after opening"
)

// User-facing notices
const (
	NoticeSettlementDeferred = "No tradable asset was available; the reward will be settled manually"
)

// Log messages
const (
	LogMsgOpenStarted         = "Opening lootbox"
	LogMsgUnpaidOpening       = "No payment reference supplied, opening without deducting funds"
	LogMsgPaymentVerified     = "Payment verified"
	LogMsgOutcomeResolved     = "Outcome resolved"
	LogMsgAssetSelected       = "Reward asset selected"
	LogMsgSettlementDeferred  = "Settlement deferred, fallback asset cannot be bought"
	LogMsgSettlementFailed    = "Settlement failed"
	LogMsgSettlementCompleted = "Settlement completed"
	LogMsgBalanceReadFailed   = "Failed to read balance for audit"
	LogMsgBalanceAudited      = "Balance audited"
	LogMsgBalanceAuditWarning = "Balance audit warning"
	LogMsgHistoryRequested    = "History requested"
)

// Error contexts for wrapped errors
const (
	ErrContextVerifyPayment = "failed to verify payment"
	ErrContextClaimPayment  = "failed to claim payment"
	ErrContextResolve       = "failed to resolve outcome"
	ErrContextSettle        = "failed to settle reward"
)
