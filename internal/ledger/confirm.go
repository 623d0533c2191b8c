package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gagliardetto/solana-go"

	"github.com/osse101/lootbox-api/internal/logger"
)

// RetryPolicy bounds how long a submitted transaction is waited on.
// Confirmation never resubmits the transaction.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
	Timeout     time.Duration // per-attempt wait
}

// DefaultRetryPolicy is three attempts, two seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultConfirmMaxAttempts,
		Backoff:     DefaultConfirmBackoff,
		Timeout:     DefaultConfirmTimeout,
	}
}

// Confirmer waits for submitted transactions with bounded retry.
type Confirmer struct {
	client Client
	policy RetryPolicy
}

// NewConfirmer creates a Confirmer. Zero policy fields fall back to defaults.
func NewConfirmer(client Client, policy RetryPolicy) *Confirmer {
	def := DefaultRetryPolicy()
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = def.MaxAttempts
	}
	if policy.Backoff <= 0 {
		policy.Backoff = def.Backoff
	}
	if policy.Timeout <= 0 {
		policy.Timeout = def.Timeout
	}
	return &Confirmer{client: client, policy: policy}
}

// Confirm waits for sig to be confirmed. Each attempt checks the current status
// first and only then waits; a failed transaction stops retrying at once.
// It returns the number of attempts made and the last error seen.
func (c *Confirmer) Confirm(ctx context.Context, sig solana.Signature) (int, error) {
	log := logger.FromContext(ctx)
	attempts := 0

	op := func() error {
		attempts++

		status, err := c.client.GetSignatureStatus(ctx, sig)
		if err == nil {
			switch status {
			case StatusConfirmed:
				return nil
			case StatusFailed:
				return backoff.Permanent(ErrTransactionFailed)
			}
		}

		waitCtx, cancel := context.WithTimeout(ctx, c.policy.Timeout)
		defer cancel()

		err = c.client.WaitForConfirmation(waitCtx, sig)
		if errors.Is(err, ErrTransactionFailed) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		log.Warn(LogMsgConfirmAttemptFailed,
			"signature", sig.String(),
			"attempt", attempts,
			"max_attempts", c.policy.MaxAttempts,
			"retry_in", next,
			"error", err)
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.policy.Backoff), uint64(c.policy.MaxAttempts-1)),
		ctx,
	)

	err := backoff.RetryNotify(op, b, notify)
	return attempts, err
}
