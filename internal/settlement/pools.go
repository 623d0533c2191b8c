package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/osse101/lootbox-api/internal/domain"
	"github.com/osse101/lootbox-api/internal/ledger"
	"github.com/osse101/lootbox-api/internal/logger"
	"github.com/osse101/lootbox-api/internal/metrics"
)

// Pool holds the accounts an AMM v4 swap needs.
type Pool struct {
	ID               solana.PublicKey
	BaseMint         solana.PublicKey
	QuoteMint        solana.PublicKey
	ProgramID        solana.PublicKey
	Authority        solana.PublicKey
	OpenOrders       solana.PublicKey
	TargetOrders     solana.PublicKey
	BaseVault        solana.PublicKey
	QuoteVault       solana.PublicKey
	MarketProgramID  solana.PublicKey
	MarketID         solana.PublicKey
	MarketAuthority  solana.PublicKey
	MarketBaseVault  solana.PublicKey
	MarketQuoteVault solana.PublicKey
	MarketBids       solana.PublicKey
	MarketAsks       solana.PublicKey
	MarketEventQueue solana.PublicKey
}

// SOLIsBase reports whether wrapped SOL is the pool's base side.
func (p *Pool) SOLIsBase() bool {
	return p.BaseMint.Equals(ledger.WrappedSOLMint)
}

// PoolFinder locates a pool pairing mint with wrapped SOL.
type PoolFinder interface {
	FindPool(ctx context.Context, mint solana.PublicKey) (*Pool, error)
}

// registryPool mirrors one entry of the Raydium liquidity JSON.
type registryPool struct {
	ID               string `json:"id"`
	BaseMint         string `json:"baseMint"`
	QuoteMint        string `json:"quoteMint"`
	Version          int    `json:"version"`
	ProgramID        string `json:"programId"`
	Authority        string `json:"authority"`
	OpenOrders       string `json:"openOrders"`
	TargetOrders     string `json:"targetOrders"`
	BaseVault        string `json:"baseVault"`
	QuoteVault       string `json:"quoteVault"`
	MarketProgramID  string `json:"marketProgramId"`
	MarketID         string `json:"marketId"`
	MarketAuthority  string `json:"marketAuthority"`
	MarketBaseVault  string `json:"marketBaseVault"`
	MarketQuoteVault string `json:"marketQuoteVault"`
	MarketBids       string `json:"marketBids"`
	MarketAsks       string `json:"marketAsks"`
	MarketEventQueue string `json:"marketEventQueue"`
}

type registryFile struct {
	Official   []registryPool `json:"official"`
	UnOfficial []registryPool `json:"unOfficial"`
}

// PoolRegistry serves pool lookups from a cached snapshot of the Raydium
// registry, indexed by the non-SOL mint. The snapshot is refreshed after it
// expires; concurrent refreshes share one download.
type PoolRegistry struct {
	client *http.Client
	url    string
	cache  *expirable.LRU[string, map[string]*Pool]
	group  singleflight.Group
}

// NewPoolRegistry creates a registry reading url, keeping snapshots for ttl.
func NewPoolRegistry(client *http.Client, url string, ttl time.Duration) *PoolRegistry {
	if client == nil {
		client = &http.Client{Timeout: DefaultPoolsTimeout}
	}
	if url == "" {
		url = DefaultPoolsURL
	}
	if ttl <= 0 {
		ttl = DefaultPoolCacheTTL
	}
	return &PoolRegistry{
		client: client,
		url:    url,
		cache:  expirable.NewLRU[string, map[string]*Pool](1, nil, ttl),
	}
}

// FindPool implements PoolFinder. It fails with domain.ErrNoLiquidityPool
// when no v4 pool pairs mint with wrapped SOL.
func (r *PoolRegistry) FindPool(ctx context.Context, mint solana.PublicKey) (*Pool, error) {
	index, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	pool, ok := index[mint.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoLiquidityPool, mint)
	}
	return pool, nil
}

func (r *PoolRegistry) snapshot(ctx context.Context) (map[string]*Pool, error) {
	if index, ok := r.cache.Get(poolSnapshotKey); ok {
		return index, nil
	}

	v, err, _ := r.group.Do(poolSnapshotKey, func() (interface{}, error) {
		if index, ok := r.cache.Get(poolSnapshotKey); ok {
			return index, nil
		}
		index, err := r.download(ctx)
		if err != nil {
			metrics.PoolRegistryRefreshes.WithLabelValues(refreshError).Inc()
			return nil, err
		}
		metrics.PoolRegistryRefreshes.WithLabelValues(refreshOK).Inc()
		r.cache.Add(poolSnapshotKey, index)
		return index, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]*Pool), nil
}

func (r *PoolRegistry) download(ctx context.Context) (map[string]*Pool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFetchPools, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFetchPools, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", ErrContextFetchPools, resp.StatusCode)
	}

	var file registryFile
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextDecodePools, err)
	}

	index := indexPools(append(file.Official, file.UnOfficial...))
	logger.FromContext(ctx).Info(LogMsgPoolRegistryLoaded,
		"official", len(file.Official),
		"unofficial", len(file.UnOfficial),
		"sol_pairs", len(index))
	return index, nil
}

// indexPools keeps AMM v4 pools paired with wrapped SOL, keyed by the other
// mint. The first pool listed for a mint wins, so official pools take
// precedence over unofficial ones.
func indexPools(pools []registryPool) map[string]*Pool {
	sol := ledger.WrappedSOLMint.String()
	index := make(map[string]*Pool)

	for i := range pools {
		rp := &pools[i]
		if rp.Version != raydiumPoolVersion || rp.ProgramID != RaydiumAMMv4ProgramID.String() {
			continue
		}

		var other string
		switch sol {
		case rp.BaseMint:
			other = rp.QuoteMint
		case rp.QuoteMint:
			other = rp.BaseMint
		default:
			continue
		}
		if _, seen := index[other]; seen {
			continue
		}

		pool, err := rp.toPool()
		if err != nil {
			continue
		}
		index[other] = pool
	}
	return index
}

func (rp *registryPool) toPool() (*Pool, error) {
	p := &Pool{}
	targets := []struct {
		src string
		dst *solana.PublicKey
	}{
		{rp.ID, &p.ID},
		{rp.BaseMint, &p.BaseMint},
		{rp.QuoteMint, &p.QuoteMint},
		{rp.ProgramID, &p.ProgramID},
		{rp.Authority, &p.Authority},
		{rp.OpenOrders, &p.OpenOrders},
		{rp.TargetOrders, &p.TargetOrders},
		{rp.BaseVault, &p.BaseVault},
		{rp.QuoteVault, &p.QuoteVault},
		{rp.MarketProgramID, &p.MarketProgramID},
		{rp.MarketID, &p.MarketID},
		{rp.MarketAuthority, &p.MarketAuthority},
		{rp.MarketBaseVault, &p.MarketBaseVault},
		{rp.MarketQuoteVault, &p.MarketQuoteVault},
		{rp.MarketBids, &p.MarketBids},
		{rp.MarketAsks, &p.MarketAsks},
		{rp.MarketEventQueue, &p.MarketEventQueue},
	}
	for _, t := range targets {
		key, err := solana.PublicKeyFromBase58(t.src)
		if err != nil {
			return nil, err
		}
		*t.dst = key
	}
	return p, nil
}
