package market

import "time"

// DefaultFeedURL is the DexScreener endpoint listing Solana pairs
const DefaultFeedURL = "https://api.dexscreener.com/latest/dex/pairs/solana"

// TopPairs is how many of the highest-volume pairs are eligible for selection
const TopPairs = 10

// DefaultTimeout bounds one feed request
const DefaultTimeout = 10 * time.Second

// maxFeedBytes caps how much of a feed response is read
const maxFeedBytes = 16 << 20

// Fallback reasons, used as metric labels
const (
	ReasonFetch  = "fetch"
	ReasonStatus = "status"
	ReasonDecode = "decode"
	ReasonEmpty  = "empty"
)

// Log messages
const (
	LogMsgFeedFetched   = "Trending feed fetched"
	LogMsgAssetSelected = "Trending asset selected"
	LogMsgFallbackAsset = "Trending feed unusable, using fallback asset"
)
