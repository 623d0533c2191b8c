package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details for security reasons.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInternalServerError   = "Internal server error"

	// Field validation messages
	ErrMsgFieldRequired         = "This field is required"
	ErrMsgFieldInvalidAddress   = "Invalid wallet address"
	ErrMsgFieldInvalidSignature = "Invalid transaction signature"
	ErrMsgFieldTooLong          = "Must be at most %s characters"
	ErrMsgFieldInvalid          = "Invalid value"
	ErrMsgInvalidRequestFormat  = "Invalid request format"
)

// Success messages for API responses
const (
	MsgLootboxWon  = "Congratulations! You won!"
	MsgLootboxLost = "Better luck next time!"
)

// Health statuses
const (
	HealthStatusOK          = "ok"
	HealthStatusUnavailable = "unavailable"
	MsgLedgerUnavailable    = "ledger RPC unreachable"
)

// Log messages
const (
	LogMsgDecodeFailed      = "Failed to decode request"
	LogMsgRequestDecoded    = "Request decoded"
	LogMsgOpenFailed        = "Failed to open lootbox"
	LogMsgHistoryFailed     = "Failed to get lootbox history"
	LogMsgReadinessFailed   = "Readiness check failed"
	LogMsgEncodeFailed      = "Failed to encode JSON response"
	LogMsgWriteBufferFailed = "Failed to write response buffer"
	LogMsgPartialSettlement = "Reward swapped but not delivered, manual transfer required"
)
