package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	"github.com/osse101/lootbox-api/internal/logger"
)

// Guard remembers which payment signatures have already been redeemed.
type Guard interface {
	// Claim marks signature as used. It returns false if it was already claimed.
	Claim(ctx context.Context, signature string) (bool, error)
}

// SetNXer is the part of a Redis client RedisGuard needs.
type SetNXer interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisGuard claims signatures with SET NX so every replica shares one view.
type RedisGuard struct {
	rdb SetNXer
	ttl time.Duration
}

// NewRedisGuard creates a Redis-backed guard.
func NewRedisGuard(rdb SetNXer, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = DefaultClaimTTL
	}
	return &RedisGuard{rdb: rdb, ttl: ttl}
}

// Claim implements Guard.
func (g *RedisGuard) Claim(ctx context.Context, signature string) (bool, error) {
	ok, err := g.rdb.SetNX(ctx, claimKeyPrefix+signature, time.Now().Unix(), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrContextClaim, err)
	}
	if ok {
		logger.FromContext(ctx).Debug(LogMsgPaymentClaimed, "signature", signature, "store", "redis")
	}
	return ok, nil
}

// LRUGuard is an in-process guard for single-replica deployments.
type LRUGuard struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, struct{}]
}

// NewLRUGuard creates an in-memory guard holding at most size signatures.
func NewLRUGuard(size int, ttl time.Duration) *LRUGuard {
	if size <= 0 {
		size = DefaultLRUGuardSize
	}
	if ttl <= 0 {
		ttl = DefaultClaimTTL
	}
	return &LRUGuard{cache: expirable.NewLRU[string, struct{}](size, nil, ttl)}
}

// Claim implements Guard.
func (g *LRUGuard) Claim(ctx context.Context, signature string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cache.Contains(signature) {
		return false, nil
	}
	g.cache.Add(signature, struct{}{})
	logger.FromContext(ctx).Debug(LogMsgPaymentClaimed, "signature", signature, "store", "memory")
	return true, nil
}
