package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TierID identifies a lootbox tier.
type TierID string

const (
	TierJeeter  TierID = "JEETER"
	TierDegen   TierID = "DEGEN"
	TierGambler TierID = "GAMBLER"
)

// RewardRange is the closed interval of the bet paid back on a win, as fractions.
type RewardRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Tier describes the odds and payout of one lootbox tier. Tiers are built once
// at startup and never mutated.
type Tier struct {
	ID             TierID          `json:"id"`
	DisplayName    string          `json:"name"`
	MinimumBet     decimal.Decimal `json:"min_bet"`
	WinProbability float64         `json:"win_chance"`
	Reward         RewardRange     `json:"reward_percent"`
	MaxMultiplier  int             `json:"max_multiplier"`
}

// OpenRequest is a validated request to open one lootbox.
type OpenRequest struct {
	WalletAddress    string
	Tier             string
	BetAmount        *decimal.Decimal
	PaymentReference string
}

// OutcomeKind discriminates a win from a loss.
type OutcomeKind string

const (
	OutcomeWin  OutcomeKind = "win"
	OutcomeLoss OutcomeKind = "loss"
)

// Outcome is the result of one draw. RewardAmount and RewardFraction are only
// meaningful for a win; LossAmount only for a loss.
type Outcome struct {
	Kind           OutcomeKind
	RewardAmount   decimal.Decimal
	RewardFraction decimal.Decimal
	LossAmount     decimal.Decimal
}

// IsWin reports whether the outcome is a win.
func (o Outcome) IsWin() bool {
	return o.Kind == OutcomeWin
}

// Fallback asset values returned when the trending feed is unusable.
const (
	FallbackAssetAddress = "fallback_token_address"
	FallbackAssetSymbol  = "FALLBACK"
	FallbackAssetName    = "Fallback Token"
	FallbackAssetMarket  = "unknown"
)

// TrendingAsset is a token picked from the market feed for one win.
type TrendingAsset struct {
	Address      string          `json:"address"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	PriceUSD     decimal.Decimal `json:"price"`
	Volume24h    float64         `json:"volume24h"`
	SourceMarket string          `json:"dexId"`
}

// FallbackAsset returns the placeholder asset used when no trending asset is available.
func FallbackAsset() TrendingAsset {
	return TrendingAsset{
		Address:      FallbackAssetAddress,
		Symbol:       FallbackAssetSymbol,
		Name:         FallbackAssetName,
		PriceUSD:     decimal.Zero,
		Volume24h:    0,
		SourceMarket: FallbackAssetMarket,
	}
}

// IsFallback reports whether the asset is the fallback placeholder.
func (a TrendingAsset) IsFallback() bool {
	return a.Address == FallbackAssetAddress
}

// SettlementResult holds the on-chain references of a completed settlement.
// SettledAmount is in the token's raw base units.
type SettlementResult struct {
	Mint              string `json:"mint"`
	SwapSignature     string `json:"swap_signature,omitempty"`
	TransferSignature string `json:"transfer_signature,omitempty"`
	SettledAmount     string `json:"settled_amount"`
	Simulated         bool   `json:"simulated"`
}

// OpenResult is everything the flow learned while opening one lootbox.
type OpenResult struct {
	ID         string
	Tier       Tier
	Bet        decimal.Decimal
	Outcome    Outcome
	Recipient  string
	Operator   string
	Asset      *TrendingAsset
	Settlement *SettlementResult
	Notice     string
	OpenedAt   time.Time
}

// HistoryEntry is one past opening. No entries are stored today.
type HistoryEntry struct {
	ID       string      `json:"id"`
	Tier     TierID      `json:"tier"`
	Outcome  OutcomeKind `json:"outcome"`
	Amount   string      `json:"amount"`
	OpenedAt time.Time   `json:"opened_at"`
}
