package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking. One event is published per stage of a lootbox opening.
//
// Event types follow the pattern: <entity>.<action> (e.g., "lootbox.opened")
const (
	// EventTypeLootboxOpened is published once per accepted open request
	EventTypeLootboxOpened = "lootbox.opened"

	// EventTypePaymentVerified is published after a payment reference passed verification
	EventTypePaymentVerified = "payment.verified"

	// EventTypeOutcomeResolved is published after the win/loss draw
	EventTypeOutcomeResolved = "outcome.resolved"

	// EventTypeAssetSelected is published after a reward asset was picked for a win
	EventTypeAssetSelected = "asset.selected"

	// EventTypeSettlementCompleted is published when a win was paid out
	EventTypeSettlementCompleted = "settlement.completed"

	// EventTypeSettlementFailed is published when a win could not be paid out
	EventTypeSettlementFailed = "settlement.failed"

	// EventTypeSettlementDeferred is published when a win was reported without a payout
	EventTypeSettlementDeferred = "settlement.deferred"

	// EventTypeBalanceAudited is published after the before/after balance comparison
	EventTypeBalanceAudited = "balance.audited"
)
