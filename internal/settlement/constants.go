package settlement

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// Engine modes
const (
	ModeSimulated = "simulated"
	ModeOnChain   = "onchain"
)

// RaydiumAMMv4ProgramID is the Raydium constant-product AMM program
var RaydiumAMMv4ProgramID = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")

// Swap parameters
const (
	// swapBaseInDiscriminator selects the exact-input swap instruction
	swapBaseInDiscriminator = 9

	// PoolFeeBps is the AMM v4 trade fee, 0.25%
	PoolFeeBps = 25

	// DefaultSlippageBps is the accepted shortfall against the quote, 1%
	DefaultSlippageBps = 100

	bpsDenominator = 10_000

	// raydiumPoolVersion is the only registry pool version the swap builder supports
	raydiumPoolVersion = 4
)

// Pool registry defaults
const (
	DefaultPoolsURL     = "https://api.raydium.io/v2/sdk/liquidity/mainnet.json"
	DefaultPoolCacheTTL = 10 * time.Minute
	DefaultPoolsTimeout = 60 * time.Second

	// poolSnapshotKey is the single cache slot holding the indexed registry
	poolSnapshotKey = "snapshot"
)

// Registry refresh results, used as metric labels
const (
	refreshOK    = "ok"
	refreshError = "error"
)

// Log messages
const (
	LogMsgSettlementStarted   = "Settlement started"
	LogMsgSettlementCompleted = "Settlement completed"
	LogMsgSettlementFailed    = "Settlement failed"
	LogMsgSimulatedSettlement = "Simulated settlement, no on-chain action"
	LogMsgSwapSubmitted       = "Swap submitted"
	LogMsgSwapConfirmed       = "Swap confirmed"
	LogMsgTransferSubmitted   = "Transfer submitted"
	LogMsgPoolRegistryLoaded  = "Liquidity pool registry loaded"
	LogMsgPartialSettlement   = "Swap confirmed but transfer did not complete, operator holds the tokens"
)

// Error context messages for wrapped errors
const (
	ErrContextParseMint       = "invalid asset mint"
	ErrContextQuote           = "failed to quote swap"
	ErrContextSendSwap        = "failed to submit swap"
	ErrContextConfirmSwap     = "swap not confirmed"
	ErrContextReadBalance     = "failed to read operator token balance"
	ErrContextSendTransfer    = "failed to submit transfer"
	ErrContextConfirmTransfer = "transfer not confirmed"
	ErrContextFetchPools      = "failed to fetch pool registry"
	ErrContextDecodePools     = "failed to decode pool registry"
)
