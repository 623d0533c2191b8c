package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/lootbox-api/internal/config"
	"github.com/osse101/lootbox-api/internal/domain"
	"github.com/osse101/lootbox-api/internal/event"
	"github.com/osse101/lootbox-api/internal/payment"
	"github.com/osse101/lootbox-api/internal/testing/leaktest"
)

type recordingWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

type nopPublisher struct{}

func (nopPublisher) PublishWithRetry(ctx context.Context, evt event.Event) {}

type stubStopper struct {
	err     error
	stopped bool
}

func (s *stubStopper) Stop(ctx context.Context) error {
	s.stopped = true
	return s.err
}

func testConfig(t *testing.T, rpcURL string) *config.Config {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	return &config.Config{
		Port:                3000,
		LogLevel:            "debug",
		LogFormat:           "json",
		Environment:         "test",
		ServiceName:         "lootbox-api",
		Version:             "test",
		RPCURL:              rpcURL,
		Network:             "devnet",
		Commitment:          "confirmed",
		OperatorPrivateKey:  key.String(),
		OperatorAddress:     key.PublicKey().String(),
		LootboxVariant:      config.VariantClassic,
		SettlementMode:      config.SettlementSimulated,
		FeeTolerance:        decimal.RequireFromString("0.001"),
		SettlementTimeout:   time.Second,
		ConfirmMaxAttempts:  2,
		ConfirmBackoff:      time.Millisecond,
		ConfirmTimeout:      10 * time.Millisecond,
		HTTPTimeout:         time.Second,
		DexScreenerURL:      "http://127.0.0.1:0/pairs",
		RaydiumPoolsURL:     "http://127.0.0.1:0/pools",
		PoolFetchTimeout:    time.Second,
		PoolCacheTTL:        time.Minute,
		SwapSlippageBps:     100,
		PaymentClaimTTL:     time.Hour,
		KafkaTopic:          "lootbox.events",
		EventMaxRetries:     1,
		EventRetryDelay:     time.Millisecond,
		EventDeadLetterPath: filepath.Join(t.TempDir(), "deadletter", "events.jsonl"),
	}
}

func unhealthyRPC(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(t, "http://127.0.0.1:0")

	SetupLogger(cfg, &buf)

	out := buf.String()
	assert.Contains(t, out, LogMsgStartingService)
	assert.Contains(t, out, LogMsgConfigurationLoaded)
	assert.Contains(t, out, `"service":"lootbox-api"`)
	assert.NotContains(t, out, cfg.OperatorPrivateKey)
}

func TestInitializeEventSystem(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)
	cfg := testConfig(t, "http://127.0.0.1:0")

	bus, publisher, err := InitializeEventSystem(cfg)
	require.NoError(t, err)
	require.NotNil(t, bus)
	require.NotNil(t, publisher)
	assert.DirExists(t, filepath.Dir(cfg.EventDeadLetterPath))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, publisher.Shutdown(ctx))

	checker.Check(0)
}

func TestRegisterEventHandlers(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:0")

	t.Run("kafka disabled", func(t *testing.T) {
		sink, err := RegisterEventHandlers(EventHandlerDependencies{
			EventBus: event.NewMemoryBus(),
			Config:   cfg,
		})
		require.NoError(t, err)
		assert.Nil(t, sink)
	})

	t.Run("kafka forwards stage events", func(t *testing.T) {
		bus := event.NewMemoryBus()
		writer := &recordingWriter{}

		sink, err := RegisterEventHandlers(EventHandlerDependencies{
			EventBus:    bus,
			Config:      cfg,
			KafkaWriter: writer,
		})
		require.NoError(t, err)
		require.NotNil(t, sink)

		evt := event.NewPaymentVerifiedEvent("opening-1", "wallet", "sig", "0.1")
		require.NoError(t, bus.Publish(context.Background(), evt))

		require.Len(t, writer.msgs, 1)
		assert.Equal(t, "opening-1", string(writer.msgs[0].Key))

		require.NoError(t, sink.Close())
		assert.True(t, writer.closed)
	})
}

func TestInitializeLedger(t *testing.T) {
	rpc := unhealthyRPC(t)

	t.Run("unreachable node is not fatal", func(t *testing.T) {
		cfg := testConfig(t, rpc.URL)
		l, err := InitializeLedger(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, cfg.OperatorAddress, l.Client.Operator().String())
		assert.NotNil(t, l.Confirmer)
		assert.NotNil(t, l.Accounts)
	})

	t.Run("configured address differs from key", func(t *testing.T) {
		cfg := testConfig(t, rpc.URL)
		cfg.OperatorAddress = config.DefaultOperatorAddress
		l, err := InitializeLedger(context.Background(), cfg)
		require.NoError(t, err)
		assert.NotEqual(t, config.DefaultOperatorAddress, l.Client.Operator().String())
	})

	t.Run("bad key is fatal", func(t *testing.T) {
		cfg := testConfig(t, rpc.URL)
		cfg.OperatorPrivateKey = "not-a-key"
		_, err := InitializeLedger(context.Background(), cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgFailedLoadOperatorKey)
	})
}

func TestInitializePaymentGuard(t *testing.T) {
	t.Run("in-memory without redis", func(t *testing.T) {
		cfg := testConfig(t, "http://127.0.0.1:0")
		guard, rdb, err := InitializePaymentGuard(context.Background(), cfg)
		require.NoError(t, err)
		assert.Nil(t, rdb)

		fresh, err := guard.Claim(context.Background(), "sig")
		require.NoError(t, err)
		assert.True(t, fresh)

		fresh, err = guard.Claim(context.Background(), "sig")
		require.NoError(t, err)
		assert.False(t, fresh)
	})

	t.Run("unreachable redis is fatal", func(t *testing.T) {
		cfg := testConfig(t, "http://127.0.0.1:0")
		cfg.RedisAddr = "127.0.0.1:1"
		_, rdb, err := InitializePaymentGuard(context.Background(), cfg)
		require.Error(t, err)
		assert.Nil(t, rdb)
		assert.Contains(t, err.Error(), ErrMsgFailedConnectRedis)
	})
}

func TestInitializeLootboxService(t *testing.T) {
	rpc := unhealthyRPC(t)

	for _, mode := range []string{config.SettlementSimulated, config.SettlementOnChain} {
		t.Run(mode, func(t *testing.T) {
			cfg := testConfig(t, rpc.URL)
			cfg.SettlementMode = mode
			l, err := InitializeLedger(context.Background(), cfg)
			require.NoError(t, err)

			svc, err := InitializeLootboxService(ServiceDependencies{
				Config:    cfg,
				Ledger:    l,
				Guard:     payment.NewLRUGuard(10, time.Hour),
				Publisher: nopPublisher{},
			})
			require.NoError(t, err)
			assert.NotNil(t, svc)
		})
	}

	t.Run("unknown variant", func(t *testing.T) {
		cfg := testConfig(t, rpc.URL)
		cfg.LootboxVariant = "mystery"
		l, err := InitializeLedger(context.Background(), cfg)
		require.NoError(t, err)

		_, err = InitializeLootboxService(ServiceDependencies{Config: cfg, Ledger: l})
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgFailedLoadCatalog)
	})
}

func TestNewPoolRegistry_OutlastsUpstreamTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"official":[],"unOfficial":[]}`))
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(t, "http://127.0.0.1:0")
	cfg.HTTPTimeout = 50 * time.Millisecond
	cfg.PoolFetchTimeout = 5 * time.Second
	cfg.RaydiumPoolsURL = srv.URL

	registry := newPoolRegistry(cfg)

	// The download finishes; only the lookup itself misses.
	pool, err := registry.FindPool(context.Background(), solana.NewWallet().PublicKey())
	assert.Nil(t, pool)
	assert.ErrorIs(t, err, domain.ErrNoLiquidityPool)
}

func TestGracefulShutdown(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:0")
	_, publisher, err := InitializeEventSystem(cfg)
	require.NoError(t, err)

	writer := &recordingWriter{}
	srv := &stubStopper{err: errors.New("listener already closed")}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	GracefulShutdown(ctx, ShutdownComponents{
		Server:             srv,
		ResilientPublisher: publisher,
		KafkaSink:          event.NewKafkaSink(writer),
	})

	assert.True(t, srv.stopped)
	assert.True(t, writer.closed)
}
