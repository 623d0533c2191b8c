// Package ledgertest provides an in-memory ledger.Client for tests.
package ledgertest

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/osse101/lootbox-api/internal/ledger"
)

// Fake is an in-memory ledger. Zero values behave like an empty chain where
// every submitted transaction confirms on the first wait.
type Fake struct {
	mu sync.Mutex

	OperatorKey solana.PrivateKey

	Balances      map[solana.PublicKey]uint64
	Transactions  map[solana.Signature]*ledger.TransactionRecord
	Accounts      map[solana.PublicKey]bool
	TokenBalances map[solana.PublicKey]*ledger.TokenBalance
	Statuses      map[solana.Signature]ledger.SignatureStatus

	HealthErr  error
	BalanceErr error
	GetTxErr   error
	TokenErr   error
	StatusErr  error
	AccountErr error

	// SendErrs is consumed one entry per SendInstructions call; nil entries succeed.
	SendErrs []error
	// ConfirmErrs is consumed one entry per WaitForConfirmation call; nil entries succeed.
	ConfirmErrs []error
	// OnSend runs after a successful submission, under no lock, so it may
	// mutate the fake to simulate the transaction's effects.
	OnSend func(f *Fake, sig solana.Signature, instructions []solana.Instruction)

	Sent  [][]solana.Instruction
	calls map[string]int
	seq   uint64
}

// New creates a Fake with a fresh operator key.
func New() *Fake {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		panic(err)
	}
	return &Fake{
		OperatorKey:   key,
		Balances:      make(map[solana.PublicKey]uint64),
		Transactions:  make(map[solana.Signature]*ledger.TransactionRecord),
		Accounts:      make(map[solana.PublicKey]bool),
		TokenBalances: make(map[solana.PublicKey]*ledger.TokenBalance),
		Statuses:      make(map[solana.Signature]ledger.SignatureStatus),
		calls:         make(map[string]int),
	}
}

// NewAddress returns a fresh random public key.
func NewAddress() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

// Calls returns how often method was invoked.
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (f *Fake) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// SetAccount marks account as existing.
func (f *Fake) SetAccount(account solana.PublicKey) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Accounts[account] = true
}

// SetTokenBalance sets the raw balance of a token account and marks it as existing.
func (f *Fake) SetTokenBalance(account solana.PublicKey, amount uint64, decimals uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Accounts[account] = true
	f.TokenBalances[account] = &ledger.TokenBalance{Amount: amount, Decimals: decimals}
}

// AddTransaction records a landed transaction.
func (f *Fake) AddTransaction(rec *ledger.TransactionRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Transactions[rec.Signature] = rec
}

// NewSignature returns a unique signature.
func (f *Fake) NewSignature() solana.Signature {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nextSignature()
}

func (f *Fake) nextSignature() solana.Signature {
	f.seq++
	var sig solana.Signature
	binary.BigEndian.PutUint64(sig[56:], f.seq)
	return sig
}

func (f *Fake) record(method string) {
	f.calls[method]++
}

func (f *Fake) Operator() solana.PublicKey {
	return f.OperatorKey.PublicKey()
}

func (f *Fake) Health(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Health")
	return f.HealthErr
}

func (f *Fake) GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetBalance")
	if f.BalanceErr != nil {
		return 0, f.BalanceErr
	}
	return f.Balances[account], nil
}

func (f *Fake) GetTransaction(ctx context.Context, sig solana.Signature) (*ledger.TransactionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetTransaction")
	if f.GetTxErr != nil {
		return nil, f.GetTxErr
	}
	rec, ok := f.Transactions[sig]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return rec, nil
}

func (f *Fake) AccountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("AccountExists")
	if f.AccountErr != nil {
		return false, f.AccountErr
	}
	return f.Accounts[account], nil
}

func (f *Fake) GetTokenBalance(ctx context.Context, tokenAccount solana.PublicKey) (*ledger.TokenBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetTokenBalance")
	if f.TokenErr != nil {
		return nil, f.TokenErr
	}
	bal, ok := f.TokenBalances[tokenAccount]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	out := *bal
	return &out, nil
}

func (f *Fake) SendInstructions(ctx context.Context, instructions ...solana.Instruction) (solana.Signature, error) {
	f.mu.Lock()
	f.record("SendInstructions")
	f.Sent = append(f.Sent, instructions)
	if len(f.SendErrs) > 0 {
		err := f.SendErrs[0]
		f.SendErrs = f.SendErrs[1:]
		if err != nil {
			f.mu.Unlock()
			return solana.Signature{}, err
		}
	}
	sig := f.nextSignature()
	hook := f.OnSend
	f.mu.Unlock()

	if hook != nil {
		hook(f, sig, instructions)
	}
	return sig, nil
}

func (f *Fake) GetSignatureStatus(ctx context.Context, sig solana.Signature) (ledger.SignatureStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetSignatureStatus")
	if f.StatusErr != nil {
		return ledger.StatusPending, f.StatusErr
	}
	return f.Statuses[sig], nil
}

func (f *Fake) WaitForConfirmation(ctx context.Context, sig solana.Signature) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("WaitForConfirmation")
	if len(f.ConfirmErrs) > 0 {
		err := f.ConfirmErrs[0]
		f.ConfirmErrs = f.ConfirmErrs[1:]
		return err
	}
	return nil
}

var _ ledger.Client = (*Fake)(nil)
