package ledger

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// WrappedSOLMint is the SPL mint that wraps native SOL.
var WrappedSOLMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

// Confirmation defaults
const (
	DefaultConfirmMaxAttempts = 3
	DefaultConfirmBackoff     = 2 * time.Second
	DefaultConfirmTimeout     = 30 * time.Second

	// confirmPollInterval is how often a single confirmation wait polls signature status
	confirmPollInterval = 700 * time.Millisecond
)

// Log messages
const (
	LogMsgConfirmAttemptFailed = "Confirmation attempt failed"
	LogMsgTokenAccountCreating = "Creating associated token account"
	LogMsgTokenAccountRace     = "Token account appeared after failed creation, reusing it"
	LogMsgTransactionSent      = "Transaction submitted"
)

// Error context messages for wrapped errors
const (
	ErrContextGetBalance       = "failed to get balance"
	ErrContextGetTransaction   = "failed to get transaction"
	ErrContextDecodeTx         = "failed to decode transaction"
	ErrContextGetAccountInfo   = "failed to get account info"
	ErrContextGetTokenBalance  = "failed to get token balance"
	ErrContextParseTokenAmount = "failed to parse token amount"
	ErrContextLatestBlockhash  = "failed to get latest blockhash"
	ErrContextBuildTx          = "failed to build transaction"
	ErrContextSignTx           = "failed to sign transaction"
	ErrContextSendTx           = "failed to send transaction"
	ErrContextSignatureStatus  = "failed to get signature status"
	ErrContextDeriveATA        = "failed to derive associated token address"
	ErrContextOperatorKey      = "invalid operator private key"
)
