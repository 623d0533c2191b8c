package ledger

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrNotFound is returned when a transaction or account does not exist on the ledger.
	ErrNotFound = errors.New("not found on ledger")

	// ErrTransactionFailed is returned when a transaction landed but its execution failed.
	ErrTransactionFailed = errors.New("transaction failed on-chain")
)

// SignatureStatus is the confirmation state of a submitted transaction.
type SignatureStatus int

const (
	StatusPending SignatureStatus = iota
	StatusConfirmed
	StatusFailed
)

func (s SignatureStatus) String() string {
	switch s {
	case StatusConfirmed:
		return "confirmed"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

// TransactionRecord is the part of a confirmed transaction the verifier needs.
// PreBalances and PostBalances are lamports, indexed like AccountKeys.
type TransactionRecord struct {
	Signature    solana.Signature
	Slot         uint64
	AccountKeys  []solana.PublicKey
	PreBalances  []uint64
	PostBalances []uint64
	Failed       bool
}

// TokenBalance is a raw SPL token amount and its mint decimals.
type TokenBalance struct {
	Amount   uint64
	Decimals uint8
}

// Client is the ledger surface used by the lootbox flow. Every transaction it
// submits is paid for and signed by the operator key.
type Client interface {
	Operator() solana.PublicKey
	Health(ctx context.Context) error
	GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
	GetTransaction(ctx context.Context, sig solana.Signature) (*TransactionRecord, error)
	AccountExists(ctx context.Context, account solana.PublicKey) (bool, error)
	GetTokenBalance(ctx context.Context, tokenAccount solana.PublicKey) (*TokenBalance, error)
	SendInstructions(ctx context.Context, instructions ...solana.Instruction) (solana.Signature, error)
	GetSignatureStatus(ctx context.Context, sig solana.Signature) (SignatureStatus, error)
	WaitForConfirmation(ctx context.Context, sig solana.Signature) error
}

// ParseAddress decodes a base58 account address.
func ParseAddress(address string) (solana.PublicKey, error) {
	return solana.PublicKeyFromBase58(address)
}

// ParseSignature decodes a base58 transaction signature.
func ParseSignature(sig string) (solana.Signature, error) {
	return solana.SignatureFromBase58(sig)
}
