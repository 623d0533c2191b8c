package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/lootbox-api/internal/domain"
)

func TestMapServiceErrorToUserMessage(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"nil", nil, http.StatusInternalServerError, ErrMsgInternalServerError},
		{"invalid wallet", domain.ErrInvalidWalletAddress, http.StatusBadRequest, "Invalid wallet address"},
		{"missing parameters", domain.ErrMissingParameters, http.StatusBadRequest, "Missing required parameters"},
		{"unknown tier wrapped", fmt.Errorf("%w: %q", domain.ErrUnknownTier, "WHALE"), http.StatusBadRequest, "Invalid lootbox tier"},
		{"bet below minimum", fmt.Errorf("ctx: %w", &domain.BetBelowMinimumError{TierName: "Jeeter Box", Minimum: "0.01"}), http.StatusBadRequest, "Minimum bet for Jeeter Box is 0.01 SOL"},
		{"not found", fmt.Errorf("failed to verify payment: %w", domain.ErrTransactionNotFound), http.StatusBadRequest, "Transaction not found"},
		{"sender", domain.ErrSenderMismatch, http.StatusBadRequest, "Transaction not from user wallet"},
		{"amount", domain.ErrAmountMismatch, http.StatusBadRequest, "Transaction amount mismatch"},
		{"ledger lookup failed", fmt.Errorf("%w: rpc timeout", domain.ErrVerifyFailed), http.StatusBadRequest, "Failed to verify transaction"},
		{"replayed", domain.ErrPaymentAlreadyUsed, http.StatusBadRequest, "Transaction already used"},
		{"bare category", domain.ErrValidation, http.StatusBadRequest, ErrMsgInvalidRequestSummary},
		{"no pool", &domain.SettlementError{Stage: domain.StagePoolLookup, Err: domain.ErrNoLiquidityPool}, http.StatusInternalServerError, domain.ErrMsgNoLiquidityPool},
		{"swap", fmt.Errorf("failed to settle reward: %w", &domain.SettlementError{Stage: domain.StageSwap, Err: domain.ErrSwapUnconfirmed}), http.StatusInternalServerError, domain.ErrMsgSwapUnconfirmed},
		{"quote", &domain.SettlementError{Stage: domain.StageSwap, Err: fmt.Errorf("%w: vault read timed out", domain.ErrQuoteFailed)}, http.StatusInternalServerError, domain.ErrMsgQuoteFailed},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ErrMsgInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := mapServiceErrorToUserMessage(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}
