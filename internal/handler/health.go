package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/lootbox-api/internal/logger"
)

// readinessTimeout bounds the ledger probe of a readiness check.
const readinessTimeout = 2 * time.Second

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Network string `json:"network,omitempty"`
	Ledger  string `json:"ledger,omitempty"`
	Message string `json:"message,omitempty"`
}

// HealthChecker defines the interface for components that can report health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HandleHealthz provides a basic liveness check
// @Summary Liveness check
// @Description Returns OK if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: HealthStatusOK})
	}
}

// HandleReadyz provides a readiness check that validates ledger connectivity
// @Summary Readiness check
// @Description Returns OK if the service is ready to accept traffic (ledger RPC healthy)
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(ledger HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := ledger.Health(ctx); err != nil {
			logger.FromContext(r.Context()).Error(LogMsgReadinessFailed, "error", err)
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:  HealthStatusUnavailable,
				Message: MsgLedgerUnavailable,
			})
			return
		}

		respondJSON(w, http.StatusOK, HealthResponse{Status: HealthStatusOK})
	}
}

// HandleHealth reports the configured network and ledger status. It always
// answers 200 so it can back a status page.
// @Summary Service status
// @Description Returns the network the service settles on and whether the ledger RPC answers
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func HandleHealth(network string, ledger HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		status := HealthStatusOK
		if err := ledger.Health(ctx); err != nil {
			logger.FromContext(r.Context()).Warn(LogMsgReadinessFailed, "error", err)
			status = HealthStatusUnavailable
		}

		respondJSON(w, http.StatusOK, HealthResponse{
			Status:  HealthStatusOK,
			Network: network,
			Ledger:  status,
		})
	}
}
