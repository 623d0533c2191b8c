package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/osse101/lootbox-api/internal/config"
	"github.com/osse101/lootbox-api/internal/payment"
)

// InitializePaymentGuard returns the replay guard for payment signatures.
// With REDIS_ADDR set the guard is shared through Redis and the returned
// client must be closed on shutdown; otherwise an in-memory LRU is used and
// the client is nil.
func InitializePaymentGuard(ctx context.Context, cfg *config.Config) (payment.Guard, *redis.Client, error) {
	if cfg.RedisAddr == "" {
		slog.Info(LogMsgMemoryGuardInitialized, "ttl", cfg.PaymentClaimTTL)
		return payment.NewLRUGuard(payment.DefaultLRUGuardSize, cfg.PaymentClaimTTL), nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, RedisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectRedis, err)
	}

	slog.Info(LogMsgRedisGuardInitialized, "addr", cfg.RedisAddr, "ttl", cfg.PaymentClaimTTL)
	return payment.NewRedisGuard(rdb, cfg.PaymentClaimTTL), rdb, nil
}
