package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/osse101/lootbox-api/internal/logger"
)

// RPCClient implements Client over a Solana JSON-RPC endpoint.
type RPCClient struct {
	rpc          *rpc.Client
	signer       solana.PrivateKey
	commitment   rpc.CommitmentType
	pollInterval time.Duration
}

// NewRPCClient creates a ledger client for endpoint that signs with signer.
func NewRPCClient(endpoint string, signer solana.PrivateKey, commitment string) *RPCClient {
	c := rpc.CommitmentType(commitment)
	if c == "" {
		c = rpc.CommitmentConfirmed
	}
	return &RPCClient{
		rpc:          rpc.New(endpoint),
		signer:       signer,
		commitment:   c,
		pollInterval: confirmPollInterval,
	}
}

// Operator returns the public key of the signing operator.
func (c *RPCClient) Operator() solana.PublicKey {
	return c.signer.PublicKey()
}

// Health reports whether the RPC node considers itself healthy.
func (c *RPCClient) Health(ctx context.Context) error {
	status, err := c.rpc.GetHealth(ctx)
	if err != nil {
		return err
	}
	if status != rpc.HealthOk {
		return fmt.Errorf("rpc node unhealthy: %s", status)
	}
	return nil
}

// GetBalance returns the lamport balance of account.
func (c *RPCClient) GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	out, err := c.rpc.GetBalance(ctx, account, c.commitment)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrContextGetBalance, err)
	}
	return out.Value, nil
}

// GetTransaction fetches a landed transaction with its balance metadata.
// It returns ErrNotFound when the ledger has no record of sig.
func (c *RPCClient) GetTransaction(ctx context.Context, sig solana.Signature) (*TransactionRecord, error) {
	maxVersion := uint64(0)
	out, err := c.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     c.commitment,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if errors.Is(err, rpc.ErrNotFound) || (err == nil && out == nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextGetTransaction, err)
	}
	if out.Transaction == nil || out.Meta == nil {
		return nil, ErrNotFound
	}

	tx, err := out.Transaction.GetTransaction()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextDecodeTx, err)
	}

	return &TransactionRecord{
		Signature:    sig,
		Slot:         out.Slot,
		AccountKeys:  tx.Message.AccountKeys,
		PreBalances:  out.Meta.PreBalances,
		PostBalances: out.Meta.PostBalances,
		Failed:       out.Meta.Err != nil,
	}, nil
}

// AccountExists reports whether account has been created on the ledger.
func (c *RPCClient) AccountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	out, err := c.rpc.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{Commitment: c.commitment})
	if errors.Is(err, rpc.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrContextGetAccountInfo, err)
	}
	return out != nil && out.Value != nil, nil
}

// GetTokenBalance returns the raw balance of an SPL token account.
func (c *RPCClient) GetTokenBalance(ctx context.Context, tokenAccount solana.PublicKey) (*TokenBalance, error) {
	out, err := c.rpc.GetTokenAccountBalance(ctx, tokenAccount, c.commitment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextGetTokenBalance, err)
	}
	if out == nil || out.Value == nil {
		return nil, ErrNotFound
	}

	amount, err := strconv.ParseUint(out.Value.Amount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextParseTokenAmount, err)
	}
	return &TokenBalance{Amount: amount, Decimals: out.Value.Decimals}, nil
}

// SendInstructions builds one transaction from instructions, signs it with the
// operator key and submits it. It does not wait for confirmation.
func (c *RPCClient) SendInstructions(ctx context.Context, instructions ...solana.Instruction) (solana.Signature, error) {
	recent, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%s: %w", ErrContextLatestBlockhash, err)
	}

	tx, err := solana.NewTransaction(
		instructions,
		recent.Value.Blockhash,
		solana.TransactionPayer(c.signer.PublicKey()),
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%s: %w", ErrContextBuildTx, err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if c.signer.PublicKey().Equals(key) {
			return &c.signer
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%s: %w", ErrContextSignTx, err)
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%s: %w", ErrContextSendTx, err)
	}

	logger.FromContext(ctx).Debug(LogMsgTransactionSent, "signature", sig.String(), "instructions", len(instructions))
	return sig, nil
}

// GetSignatureStatus returns the current confirmation state of sig.
func (c *RPCClient) GetSignatureStatus(ctx context.Context, sig solana.Signature) (SignatureStatus, error) {
	out, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return StatusPending, fmt.Errorf("%s: %w", ErrContextSignatureStatus, err)
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return StatusPending, nil
	}

	status := out.Value[0]
	if status.Err != nil {
		return StatusFailed, nil
	}
	switch status.ConfirmationStatus {
	case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
		return StatusConfirmed, nil
	default:
		return StatusPending, nil
	}
}

// WaitForConfirmation polls the status of sig until it is confirmed, fails, or
// ctx ends. Callers bound the wait through ctx.
func (c *RPCClient) WaitForConfirmation(ctx context.Context, sig solana.Signature) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			status, err := c.GetSignatureStatus(ctx, sig)
			if err != nil {
				continue
			}
			switch status {
			case StatusConfirmed:
				return nil
			case StatusFailed:
				return fmt.Errorf("%w: %s", ErrTransactionFailed, sig)
			}
		}
	}
}
