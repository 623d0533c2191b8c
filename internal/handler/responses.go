package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/lootbox-api/internal/domain"
	"github.com/osse101/lootbox-api/internal/logger"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SettlementErrorResponse is returned when a win could not be paid out. The
// details let an operator finish or refund the payout by hand.
type SettlementErrorResponse struct {
	Error   string            `json:"error"`
	Details SettlementDetails `json:"details"`
}

// SettlementDetails are the on-chain references gathered before the failure.
type SettlementDetails struct {
	Stage             string `json:"stage"`
	Mint              string `json:"mint,omitempty"`
	SwapSignature     string `json:"swapSignature,omitempty"`
	TransferSignature string `json:"transferSignature,omitempty"`
	Partial           bool   `json:"partial"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent, nothing more can be written.
		slog.Error(LogMsgEncodeFailed, "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteBufferFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// leafMessages lists the domain errors whose own message is shown to the caller.
var leafMessages = []error{
	domain.ErrInvalidWalletAddress,
	domain.ErrMissingParameters,
	domain.ErrUnknownTier,
	domain.ErrInvalidAmount,
	domain.ErrInvalidSignature,
	domain.ErrTransactionNotFound,
	domain.ErrSenderMismatch,
	domain.ErrReceiverMismatch,
	domain.ErrAmountMismatch,
	domain.ErrPaymentFailed,
	domain.ErrPaymentAlreadyUsed,
	domain.ErrVerifyFailed,
	domain.ErrNoLiquidityPool,
	domain.ErrTokenAccountCreation,
	domain.ErrQuoteFailed,
	domain.ErrSwapUnconfirmed,
	domain.ErrFundsHeldByOperator,
	domain.ErrNothingToTransfer,
}

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses.
// Validation and verification failures are the caller's fault and return 400;
// settlement failures and anything unrecognized return 500.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgInternalServerError
	}

	var status int
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrVerification):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrSettlement):
		status = http.StatusInternalServerError
	default:
		return http.StatusInternalServerError, ErrMsgInternalServerError
	}

	var betErr *domain.BetBelowMinimumError
	if errors.As(err, &betErr) {
		return status, betErr.Error()
	}
	for _, leaf := range leafMessages {
		if errors.Is(err, leaf) {
			return status, leaf.Error()
		}
	}

	if status == http.StatusBadRequest {
		return status, ErrMsgInvalidRequestSummary
	}
	return status, ErrMsgInternalServerError
}

// respondServiceError logs err and writes the mapped response. Settlement
// failures carry their on-chain references so the payout can be finished.
func respondServiceError(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	log := logger.FromContext(r.Context())
	status, msg := mapServiceErrorToUserMessage(err)

	var serr *domain.SettlementError
	if errors.As(err, &serr) {
		if serr.Partial {
			log.Error(LogMsgPartialSettlement,
				"stage", serr.Stage,
				"mint", serr.Mint,
				"recipient", serr.Recipient,
				"swap_signature", serr.SwapSignature,
				"transfer_signature", serr.TransferSignature,
				"error", err)
		} else {
			log.Error(logMsg, "error", err)
		}
		respondJSON(w, status, SettlementErrorResponse{
			Error: msg,
			Details: SettlementDetails{
				Stage:             string(serr.Stage),
				Mint:              serr.Mint,
				SwapSignature:     serr.SwapSignature,
				TransferSignature: serr.TransferSignature,
				Partial:           serr.Partial,
			},
		})
		return
	}

	if status >= http.StatusInternalServerError {
		log.Error(logMsg, "error", err)
	} else {
		log.Warn(logMsg, "error", err)
	}
	respondError(w, status, msg)
}
