package config

import "time"

// Lootbox variants
const (
	VariantClassic = "classic"
	VariantSwap    = "swap"
)

// Settlement modes
const (
	SettlementSimulated = "simulated"
	SettlementOnChain   = "onchain"
)

// Service defaults
const (
	DefaultPort        = 3000
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultEnvironment = "dev"
	DefaultServiceName = "lootbox-api"
	DefaultVersion     = "dev"
)

// Ledger defaults
const (
	DefaultRPCURL          = "https://api.devnet.solana.com"
	DefaultNetwork         = "devnet"
	DefaultCommitment      = "confirmed"
	DefaultOperatorAddress = "C9vPRSmmV3aQtGc7diwAtPLpYTSwApFU51W7oeJgyBT8"
)

// Lootbox flow defaults
const (
	// DefaultFeeToleranceSOL absorbs network fees when comparing a paid bet to the expected amount
	DefaultFeeToleranceSOL    = "0.001"
	DefaultSettlementTimeout  = 2 * time.Minute
	DefaultConfirmMaxAttempts = 3
	DefaultConfirmBackoff     = 2 * time.Second
	DefaultConfirmTimeout     = 30 * time.Second
)

// Upstream defaults
const (
	DefaultHTTPTimeout     = 10 * time.Second
	DefaultDexScreenerURL  = "https://api.dexscreener.com/latest/dex/pairs/solana"
	DefaultRaydiumPoolsURL = "https://api.raydium.io/v2/sdk/liquidity/mainnet.json"
	DefaultPoolCacheTTL    = 10 * time.Minute
	DefaultSwapSlippageBps = 100
	DefaultPaymentClaimTTL = 72 * time.Hour
	DefaultKafkaTopic      = "lootbox.events"
	DefaultEventMaxRetries = 5
	DefaultEventRetryDelay = 2 * time.Second
	DefaultDeadLetterPath  = "logs/event_deadletter.jsonl"

	// DefaultPoolFetchTimeout covers the full Raydium pool list download,
	// which is far larger than any other upstream response
	DefaultPoolFetchTimeout = 60 * time.Second
)
