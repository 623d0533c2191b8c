package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/osse101/lootbox-api/internal/domain"
	"github.com/osse101/lootbox-api/internal/ledger"
	"github.com/osse101/lootbox-api/internal/logger"
)

// Expected describes the payment a caller claims to have made.
type Expected struct {
	Sender    solana.PublicKey
	Receiver  solana.PublicKey
	Amount    decimal.Decimal // SOL
	Tolerance decimal.Decimal // SOL
}

// Parties are the sender and receiver of a payment transaction. SenderIndex
// points into the record's balance arrays.
type Parties struct {
	Sender      solana.PublicKey
	Receiver    solana.PublicKey
	SenderIndex int
}

// PartyExtractor decides who paid whom in a transaction.
type PartyExtractor interface {
	Extract(rec *ledger.TransactionRecord) (Parties, error)
}

// FirstTwoAccountKeys treats account key 0 as the sender and key 1 as the
// receiver. This holds for a plain wallet-built SOL transfer, where the fee
// payer signs first and the destination follows, but not for transactions
// with extra signers or instructions.
type FirstTwoAccountKeys struct{}

// Extract implements PartyExtractor.
func (FirstTwoAccountKeys) Extract(rec *ledger.TransactionRecord) (Parties, error) {
	if len(rec.AccountKeys) < 2 {
		return Parties{}, fmt.Errorf("transaction has %d account keys, need at least 2", len(rec.AccountKeys))
	}
	return Parties{Sender: rec.AccountKeys[0], Receiver: rec.AccountKeys[1], SenderIndex: 0}, nil
}

// Verifier checks a payment transaction against what the caller claims.
type Verifier interface {
	Verify(ctx context.Context, reference solana.Signature, want Expected) error
}

type verifier struct {
	client    ledger.Client
	extractor PartyExtractor
}

// NewVerifier creates a Verifier. A nil extractor means FirstTwoAccountKeys.
func NewVerifier(client ledger.Client, extractor PartyExtractor) Verifier {
	if extractor == nil {
		extractor = FirstTwoAccountKeys{}
	}
	return &verifier{client: client, extractor: extractor}
}

// Verify fetches reference from the ledger and checks its parties and amount.
// The amount is the sender's net lamport outflow, so the network fee counts
// toward it; the tolerance absorbs that. Verify has no side effects.
func (v *verifier) Verify(ctx context.Context, reference solana.Signature, want Expected) error {
	log := logger.FromContext(ctx)

	rec, err := v.client.GetTransaction(ctx, reference)
	if errors.Is(err, ledger.ErrNotFound) {
		return v.reject(ctx, reference, domain.ErrTransactionNotFound)
	}
	if err != nil {
		log.Error(ErrContextFetchTransaction, "signature", reference.String(), "error", err)
		return fmt.Errorf("%w: %s: %v", domain.ErrVerifyFailed, ErrContextFetchTransaction, err)
	}
	if rec.Failed {
		return v.reject(ctx, reference, domain.ErrPaymentFailed)
	}

	parties, err := v.extractor.Extract(rec)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrVerifyFailed, ErrContextExtractParties, err)
	}
	if !parties.Sender.Equals(want.Sender) {
		return v.reject(ctx, reference, domain.ErrSenderMismatch)
	}
	if !parties.Receiver.Equals(want.Receiver) {
		return v.reject(ctx, reference, domain.ErrReceiverMismatch)
	}

	i := parties.SenderIndex
	if i < 0 || i >= len(rec.PreBalances) || i >= len(rec.PostBalances) {
		return fmt.Errorf("%w: %s: balance metadata missing for sender", domain.ErrVerifyFailed, ErrContextExtractParties)
	}
	outflow := int64(rec.PreBalances[i]) - int64(rec.PostBalances[i])
	actual := domain.SignedLamportsToSOL(outflow)

	if actual.Sub(want.Amount).Abs().GreaterThan(want.Tolerance) {
		log.Warn(LogMsgPaymentRejected,
			"signature", reference.String(),
			"reason", domain.ErrMsgAmountMismatch,
			"expected_sol", want.Amount.String(),
			"actual_sol", actual.String())
		return domain.ErrAmountMismatch
	}

	log.Info(LogMsgPaymentVerified,
		"signature", reference.String(),
		"sender", want.Sender.String(),
		"amount_sol", actual.String())
	return nil
}

func (v *verifier) reject(ctx context.Context, reference solana.Signature, reason error) error {
	logger.FromContext(ctx).Warn(LogMsgPaymentRejected, "signature", reference.String(), "reason", reason.Error())
	return reason
}
