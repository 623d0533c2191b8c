package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Category errors
	ErrMsgValidation   = "validation failed"
	ErrMsgVerification = "payment verification failed"
	ErrMsgSettlement   = "settlement failed"

	// Validation errors
	ErrMsgInvalidWalletAddress = "Invalid wallet address"
	ErrMsgMissingParameters    = "Missing required parameters"
	ErrMsgUnknownTier          = "Invalid lootbox tier"
	ErrMsgBetBelowMinimum      = "bet below tier minimum"
	ErrMsgInvalidAmount        = "invalid bet amount"
	ErrMsgInvalidSignature     = "invalid transaction signature"

	// Verification errors
	ErrMsgTransactionNotFound = "Transaction not found"
	ErrMsgSenderMismatch      = "Transaction not from user wallet"
	ErrMsgReceiverMismatch    = "Transaction not to dev wallet"
	ErrMsgAmountMismatch      = "Transaction amount mismatch"
	ErrMsgPaymentFailed       = "Transaction failed on-chain"
	ErrMsgPaymentAlreadyUsed  = "Transaction already used"
	ErrMsgVerifyFailed        = "Failed to verify transaction"

	// Settlement errors
	ErrMsgNoLiquidityPool      = "no liquidity pool found for token"
	ErrMsgTokenAccountCreation = "failed to create token account"
	ErrMsgQuoteFailed          = "failed to quote swap from pool reserves"
	ErrMsgSwapUnconfirmed      = "swap transaction not confirmed"
	ErrMsgFundsHeldByOperator  = "swap confirmed but transfer failed, funds held by operator"
	ErrMsgNothingToTransfer    = "operator token balance is zero after swap"
)

// Category errors. Every specific error below wraps exactly one of these so
// callers can branch on the category with errors.Is.
var (
	ErrValidation   = errors.New(ErrMsgValidation)
	ErrVerification = errors.New(ErrMsgVerification)
	ErrSettlement   = errors.New(ErrMsgSettlement)
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Validation errors
	ErrInvalidWalletAddress = categorized(ErrValidation, ErrMsgInvalidWalletAddress)
	ErrMissingParameters    = categorized(ErrValidation, ErrMsgMissingParameters)
	ErrUnknownTier          = categorized(ErrValidation, ErrMsgUnknownTier)
	ErrBetBelowMinimum      = categorized(ErrValidation, ErrMsgBetBelowMinimum)
	ErrInvalidAmount        = categorized(ErrValidation, ErrMsgInvalidAmount)
	ErrInvalidSignature     = categorized(ErrValidation, ErrMsgInvalidSignature)

	// Verification errors
	ErrTransactionNotFound = categorized(ErrVerification, ErrMsgTransactionNotFound)
	ErrSenderMismatch      = categorized(ErrVerification, ErrMsgSenderMismatch)
	ErrReceiverMismatch    = categorized(ErrVerification, ErrMsgReceiverMismatch)
	ErrAmountMismatch      = categorized(ErrVerification, ErrMsgAmountMismatch)
	ErrPaymentFailed       = categorized(ErrVerification, ErrMsgPaymentFailed)
	ErrPaymentAlreadyUsed  = categorized(ErrVerification, ErrMsgPaymentAlreadyUsed)
	ErrVerifyFailed        = categorized(ErrVerification, ErrMsgVerifyFailed)

	// Settlement errors
	ErrNoLiquidityPool      = categorized(ErrSettlement, ErrMsgNoLiquidityPool)
	ErrTokenAccountCreation = categorized(ErrSettlement, ErrMsgTokenAccountCreation)
	ErrQuoteFailed          = categorized(ErrSettlement, ErrMsgQuoteFailed)
	ErrSwapUnconfirmed      = categorized(ErrSettlement, ErrMsgSwapUnconfirmed)
	ErrFundsHeldByOperator  = categorized(ErrSettlement, ErrMsgFundsHeldByOperator)
	ErrNothingToTransfer    = categorized(ErrSettlement, ErrMsgNothingToTransfer)
)

// categoryError is a leaf error that reports its own message but matches its
// category under errors.Is.
type categoryError struct {
	category error
	msg      string
}

func categorized(category error, msg string) error {
	return &categoryError{category: category, msg: msg}
}

func (e *categoryError) Error() string { return e.msg }

func (e *categoryError) Unwrap() error { return e.category }

// SettlementStage names the step of a settlement that failed.
type SettlementStage string

const (
	StageTokenAccounts SettlementStage = "token_accounts"
	StagePoolLookup    SettlementStage = "pool_lookup"
	StageSwap          SettlementStage = "swap"
	StageTransfer      SettlementStage = "transfer"
)

// SettlementError carries the on-chain references gathered before a settlement
// step failed. Partial is set once the swap is confirmed, which means the
// operator now holds tokens owed to the recipient.
type SettlementError struct {
	Stage             SettlementStage
	Mint              string
	Recipient         string
	SwapSignature     string
	TransferSignature string
	Partial           bool
	Err               error
}

func (e *SettlementError) Error() string {
	msg := fmt.Sprintf("settlement %s stage: %v", e.Stage, e.Err)
	if e.SwapSignature != "" {
		msg += fmt.Sprintf(" (swap %s)", e.SwapSignature)
	}
	return msg
}

func (e *SettlementError) Unwrap() error { return e.Err }

// BetBelowMinimumError reports a bet under the tier minimum. It matches
// ErrBetBelowMinimum under errors.Is.
type BetBelowMinimumError struct {
	TierName string
	Minimum  string
}

func (e *BetBelowMinimumError) Error() string {
	return fmt.Sprintf("Minimum bet for %s is %s SOL", e.TierName, e.Minimum)
}

func (e *BetBelowMinimumError) Unwrap() error { return ErrBetBelowMinimum }
