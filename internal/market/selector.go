package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/osse101/lootbox-api/internal/domain"
	"github.com/osse101/lootbox-api/internal/logger"
	"github.com/osse101/lootbox-api/internal/metrics"
	"github.com/osse101/lootbox-api/internal/utils"
)

// Selector picks the asset a winning opening is paid out in.
type Selector interface {
	// Select never fails; an unusable feed yields domain.FallbackAsset.
	Select(ctx context.Context) domain.TrendingAsset
}

// Picker chooses an index in [0, n).
type Picker interface {
	Intn(n int) int
}

type feedResponse struct {
	Pairs []feedPair `json:"pairs"`
}

type feedPair struct {
	DexID     string `json:"dexId"`
	BaseToken struct {
		Address string `json:"address"`
		Symbol  string `json:"symbol"`
		Name    string `json:"name"`
	} `json:"baseToken"`
	PriceUSD string `json:"priceUsd"`
	Volume   struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
}

// feedError tags a fetch failure with its metric reason
type feedError struct {
	reason string
	err    error
}

func (e *feedError) Error() string { return fmt.Sprintf("%s: %v", e.reason, e.err) }
func (e *feedError) Unwrap() error { return e.err }

var errNoEligiblePairs = errors.New("no eligible pairs in feed")

type dexScreener struct {
	client *http.Client
	url    string
	picker Picker
}

// NewDexScreenerSelector creates a Selector over the DexScreener pairs feed.
// A nil client gets DefaultTimeout; a nil picker uses math/rand.
func NewDexScreenerSelector(client *http.Client, url string, picker Picker) Selector {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if url == "" {
		url = DefaultFeedURL
	}
	if picker == nil {
		picker = utils.MathRandSource{}
	}
	return &dexScreener{client: client, url: url, picker: picker}
}

func (s *dexScreener) Select(ctx context.Context) domain.TrendingAsset {
	log := logger.FromContext(ctx)

	candidates, err := s.fetch(ctx)
	if err == nil && len(candidates) == 0 {
		err = &feedError{reason: ReasonEmpty, err: errNoEligiblePairs}
	}
	if err != nil {
		reason := ReasonFetch
		var fe *feedError
		if errors.As(err, &fe) {
			reason = fe.reason
		}
		metrics.MarketFallbacks.WithLabelValues(reason).Inc()
		log.Warn(LogMsgFallbackAsset, "reason", reason, "error", err)
		return domain.FallbackAsset()
	}

	top := candidates
	if len(top) > TopPairs {
		top = top[:TopPairs]
	}
	asset := top[s.picker.Intn(len(top))]

	log.Info(LogMsgAssetSelected,
		"symbol", asset.Symbol,
		"mint", asset.Address,
		"volume_24h", asset.Volume24h,
		"dex", asset.SourceMarket,
		"candidates", len(candidates))
	return asset
}

// fetch downloads the feed and returns eligible pairs ordered by 24h volume, highest first.
func (s *dexScreener) fetch(ctx context.Context) ([]domain.TrendingAsset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &feedError{reason: ReasonFetch, err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &feedError{reason: ReasonFetch, err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &feedError{reason: ReasonStatus, err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var feed feedResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxFeedBytes)).Decode(&feed); err != nil {
		return nil, &feedError{reason: ReasonDecode, err: err}
	}

	logger.FromContext(ctx).Debug(LogMsgFeedFetched, "pairs", len(feed.Pairs))
	return eligible(feed.Pairs), nil
}

// eligible keeps pairs with a base token address, a positive price and
// positive 24h volume, sorted by volume descending. Ties keep feed order.
func eligible(pairs []feedPair) []domain.TrendingAsset {
	out := make([]domain.TrendingAsset, 0, len(pairs))
	for _, p := range pairs {
		if p.BaseToken.Address == "" || p.Volume.H24 <= 0 {
			continue
		}
		price, err := decimal.NewFromString(p.PriceUSD)
		if err != nil || !price.IsPositive() {
			continue
		}
		out = append(out, domain.TrendingAsset{
			Address:      p.BaseToken.Address,
			Symbol:       p.BaseToken.Symbol,
			Name:         p.BaseToken.Name,
			PriceUSD:     price,
			Volume24h:    p.Volume.H24,
			SourceMarket: p.DexID,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Volume24h > out[j].Volume24h
	})
	return out
}
