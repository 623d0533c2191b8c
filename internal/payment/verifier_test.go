package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/lootbox-api/internal/domain"
	"github.com/osse101/lootbox-api/internal/ledger"
	"github.com/osse101/lootbox-api/internal/ledger/ledgertest"
)

const fee = 5_000 // lamports

type verifyFixture struct {
	fake     *ledgertest.Fake
	sender   solana.PublicKey
	receiver solana.PublicKey
	tol      decimal.Decimal
}

func newVerifyFixture() *verifyFixture {
	return &verifyFixture{
		fake:     ledgertest.New(),
		sender:   ledgertest.NewAddress(),
		receiver: ledgertest.NewAddress(),
		tol:      decimal.RequireFromString("0.001"),
	}
}

// addTransfer records a landed transfer of lamports from one key to another,
// with the fee charged to the first key.
func (f *verifyFixture) addTransfer(from, to solana.PublicKey, lamports uint64) solana.Signature {
	sig := f.fake.NewSignature()
	f.fake.AddTransaction(&ledger.TransactionRecord{
		Signature:    sig,
		AccountKeys:  []solana.PublicKey{from, to, solana.SystemProgramID},
		PreBalances:  []uint64{10_000_000_000, 1_000_000_000, 1},
		PostBalances: []uint64{10_000_000_000 - lamports - fee, 1_000_000_000 + lamports, 1},
	})
	return sig
}

func (f *verifyFixture) expect(amount string) Expected {
	return Expected{
		Sender:    f.sender,
		Receiver:  f.receiver,
		Amount:    decimal.RequireFromString(amount),
		Tolerance: f.tol,
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *verifyFixture) solana.Signature
		amount  string
		wantErr error
	}{
		{
			name: "exact amount plus fee passes",
			setup: func(f *verifyFixture) solana.Signature {
				return f.addTransfer(f.sender, f.receiver, 20_000_000)
			},
			amount: "0.02",
		},
		{
			name: "difference at the tolerance boundary passes",
			setup: func(f *verifyFixture) solana.Signature {
				return f.addTransfer(f.sender, f.receiver, 21_000_000-fee)
			},
			amount: "0.02",
		},
		{
			name: "difference beyond tolerance fails",
			setup: func(f *verifyFixture) solana.Signature {
				return f.addTransfer(f.sender, f.receiver, 10_000_000)
			},
			amount:  "0.02",
			wantErr: domain.ErrAmountMismatch,
		},
		{
			name: "wrong sender",
			setup: func(f *verifyFixture) solana.Signature {
				return f.addTransfer(ledgertest.NewAddress(), f.receiver, 20_000_000)
			},
			amount:  "0.02",
			wantErr: domain.ErrSenderMismatch,
		},
		{
			name: "wrong receiver",
			setup: func(f *verifyFixture) solana.Signature {
				return f.addTransfer(f.sender, ledgertest.NewAddress(), 20_000_000)
			},
			amount:  "0.02",
			wantErr: domain.ErrReceiverMismatch,
		},
		{
			name: "unknown transaction",
			setup: func(f *verifyFixture) solana.Signature {
				return f.fake.NewSignature()
			},
			amount:  "0.02",
			wantErr: domain.ErrTransactionNotFound,
		},
		{
			name: "failed transaction",
			setup: func(f *verifyFixture) solana.Signature {
				sig := f.addTransfer(f.sender, f.receiver, 20_000_000)
				f.fake.Transactions[sig].Failed = true
				return sig
			},
			amount:  "0.02",
			wantErr: domain.ErrPaymentFailed,
		},
		{
			name: "too few account keys",
			setup: func(f *verifyFixture) solana.Signature {
				sig := f.fake.NewSignature()
				f.fake.AddTransaction(&ledger.TransactionRecord{
					Signature:    sig,
					AccountKeys:  []solana.PublicKey{f.sender},
					PreBalances:  []uint64{1},
					PostBalances: []uint64{1},
				})
				return sig
			},
			amount:  "0.02",
			wantErr: domain.ErrVerifyFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newVerifyFixture()
			sig := tt.setup(f)

			err := NewVerifier(f.fake, nil).Verify(context.Background(), sig, f.expect(tt.amount))

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrVerification)
		})
	}
}

func TestVerify_LedgerErrorIsVerificationFailure(t *testing.T) {
	f := newVerifyFixture()
	f.fake.GetTxErr = errors.New("connection reset")

	err := NewVerifier(f.fake, nil).Verify(context.Background(), f.fake.NewSignature(), f.expect("0.02"))

	assert.ErrorIs(t, err, domain.ErrVerifyFailed)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestVerify_HasNoSideEffects(t *testing.T) {
	f := newVerifyFixture()
	sig := f.addTransfer(f.sender, f.receiver, 20_000_000)

	require.NoError(t, NewVerifier(f.fake, nil).Verify(context.Background(), sig, f.expect("0.02")))

	assert.Equal(t, 1, f.fake.TotalCalls())
	assert.Equal(t, 0, f.fake.Calls("SendInstructions"))
}

type lastTwoKeys struct{}

func (lastTwoKeys) Extract(rec *ledger.TransactionRecord) (Parties, error) {
	n := len(rec.AccountKeys)
	return Parties{Sender: rec.AccountKeys[n-2], Receiver: rec.AccountKeys[n-1], SenderIndex: n - 2}, nil
}

func TestVerify_CustomExtractor(t *testing.T) {
	f := newVerifyFixture()
	sig := f.fake.NewSignature()
	f.fake.AddTransaction(&ledger.TransactionRecord{
		Signature:    sig,
		AccountKeys:  []solana.PublicKey{solana.SystemProgramID, f.sender, f.receiver},
		PreBalances:  []uint64{1, 50_000_000, 0},
		PostBalances: []uint64{1, 30_000_000 - fee, 20_000_000},
	})

	err := NewVerifier(f.fake, lastTwoKeys{}).Verify(context.Background(), sig, f.expect("0.02"))
	assert.NoError(t, err)
}

func TestFirstTwoAccountKeys(t *testing.T) {
	a, b := ledgertest.NewAddress(), ledgertest.NewAddress()

	parties, err := FirstTwoAccountKeys{}.Extract(&ledger.TransactionRecord{AccountKeys: []solana.PublicKey{a, b}})
	require.NoError(t, err)
	assert.Equal(t, a, parties.Sender)
	assert.Equal(t, b, parties.Receiver)
	assert.Equal(t, 0, parties.SenderIndex)

	_, err = FirstTwoAccountKeys{}.Extract(&ledger.TransactionRecord{})
	assert.Error(t, err)
}
