package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/osse101/lootbox-api/internal/domain"
	"github.com/osse101/lootbox-api/internal/logger"
	"github.com/osse101/lootbox-api/internal/lootbox"
)

var hundred = decimal.NewFromInt(100)

// LootboxHandler serves the lootbox endpoints
type LootboxHandler struct {
	service lootbox.Service
}

// NewLootboxHandler creates a new LootboxHandler
func NewLootboxHandler(service lootbox.Service) *LootboxHandler {
	return &LootboxHandler{service: service}
}

// OpenLootboxRequest is the body of POST /api/lootbox/open. Tier and amount
// are optional only in the swap variant.
type OpenLootboxRequest struct {
	WalletAddress string           `json:"walletAddress" validate:"required,solana_address"`
	Tier          string           `json:"tier,omitempty" validate:"omitempty,max=32"`
	Amount        *decimal.Decimal `json:"amount,omitempty" swaggertype:"number"`
	Signature     string           `json:"signature,omitempty" validate:"omitempty,solana_signature"`
}

// RewardView describes the reward of a win
type RewardView struct {
	Amount  string `json:"amount"`
	Token   string `json:"token"`
	Percent string `json:"percent"`
}

// TransactionView describes how a win was paid out
type TransactionView struct {
	From              string `json:"from"`
	To                string `json:"to"`
	Token             string `json:"token"`
	Amount            string `json:"amount"`
	SwapSignature     string `json:"swapSignature,omitempty"`
	TransferSignature string `json:"transferSignature,omitempty"`
	SettledAmount     string `json:"settledAmount,omitempty"`
	Simulated         bool   `json:"simulated"`
}

// OpenWinResponse is returned for a winning opening
type OpenWinResponse struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	Reward      RewardView      `json:"reward"`
	Transaction TransactionView `json:"transaction"`
	Notice      string          `json:"notice,omitempty"`
}

// OpenLossResponse is returned for a losing opening
type OpenLossResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Amount  json.Number `json:"amount" swaggertype:"number"`
	Tier    string      `json:"tier"`
}

// HistoryResponse lists past openings of a wallet
type HistoryResponse struct {
	History []domain.HistoryEntry `json:"history"`
}

// HandleOpen opens one lootbox
// @Summary Open a lootbox
// @Description Draws a win or loss for the tier. A win buys a trending token and sends it to the wallet.
// @Tags lootbox
// @Accept json
// @Produce json
// @Param request body OpenLootboxRequest true "Open request"
// @Success 200 {object} OpenWinResponse
// @Success 200 {object} OpenLossResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} SettlementErrorResponse
// @Router /api/lootbox/open [post]
func (h *LootboxHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	var req OpenLootboxRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Open lootbox"); err != nil {
		return
	}

	result, err := h.service.Open(r.Context(), domain.OpenRequest{
		WalletAddress:    req.WalletAddress,
		Tier:             req.Tier,
		BetAmount:        req.Amount,
		PaymentReference: req.Signature,
	})
	if err != nil {
		respondServiceError(w, r, LogMsgOpenFailed, err)
		return
	}

	if !result.Outcome.IsWin() {
		respondJSON(w, http.StatusOK, OpenLossResponse{
			Success: false,
			Message: MsgLootboxLost,
			Amount:  json.Number(result.Outcome.LossAmount.String()),
			Tier:    result.Tier.DisplayName,
		})
		return
	}

	respondJSON(w, http.StatusOK, newOpenWinResponse(result))
}

func newOpenWinResponse(result *domain.OpenResult) OpenWinResponse {
	reward := result.Outcome.RewardAmount.StringFixed(4)
	symbol := ""
	if result.Asset != nil {
		symbol = result.Asset.Symbol
	}

	tx := TransactionView{
		From:   result.Operator,
		To:     result.Recipient,
		Token:  symbol,
		Amount: reward,
	}
	if s := result.Settlement; s != nil {
		tx.SwapSignature = s.SwapSignature
		tx.TransferSignature = s.TransferSignature
		tx.SettledAmount = s.SettledAmount
		tx.Simulated = s.Simulated
	}

	return OpenWinResponse{
		Success: true,
		Message: MsgLootboxWon,
		Reward: RewardView{
			Amount:  reward,
			Token:   symbol,
			Percent: result.Outcome.RewardFraction.Mul(hundred).StringFixed(1),
		},
		Transaction: tx,
		Notice:      result.Notice,
	}
}

// HandleHistory lists past openings of a wallet
// @Summary Lootbox history
// @Description Returns past openings for a wallet. Openings are not stored, so the list is empty.
// @Tags lootbox
// @Produce json
// @Param walletAddress path string true "Wallet address"
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/lootbox/history/{walletAddress} [get]
func (h *LootboxHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "walletAddress")
	if err := GetValidator().ValidateVar(wallet, "required,solana_address"); err != nil {
		logger.FromContext(r.Context()).Warn(LogMsgHistoryFailed, "wallet", wallet, "error", err)
		respondError(w, http.StatusBadRequest, domain.ErrMsgInvalidWalletAddress)
		return
	}

	entries, err := h.service.History(r.Context(), wallet)
	if err != nil {
		respondServiceError(w, r, LogMsgHistoryFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, HistoryResponse{History: entries})
}
