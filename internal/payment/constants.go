package payment

import "time"

// DefaultClaimTTL is how long a claimed payment signature is remembered.
const DefaultClaimTTL = 7 * 24 * time.Hour

// DefaultLRUGuardSize bounds the in-memory replay guard.
const DefaultLRUGuardSize = 100_000

// claimKeyPrefix namespaces claimed signatures in Redis
const claimKeyPrefix = "lootbox:payment:"

// Log messages
const (
	LogMsgPaymentVerified = "Payment verified"
	LogMsgPaymentRejected = "Payment rejected"
	LogMsgPaymentClaimed  = "Payment signature claimed"
)

// Error context messages for wrapped errors
const (
	ErrContextFetchTransaction = "failed to fetch payment transaction"
	ErrContextExtractParties   = "failed to extract payment parties"
	ErrContextClaim            = "failed to claim payment signature"
)
