package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds the application configuration
type Config struct {
	// Service
	Port        int
	LogLevel    string
	LogFormat   string
	Environment string
	ServiceName string
	Version     string

	// Ledger
	RPCURL             string
	Network            string
	Commitment         string
	OperatorPrivateKey string
	OperatorAddress    string

	// Lootbox flow
	LootboxVariant    string
	SettlementMode    string
	FeeTolerance      decimal.Decimal
	SettlementTimeout time.Duration

	// Confirmation retry
	ConfirmMaxAttempts int
	ConfirmBackoff     time.Duration
	ConfirmTimeout     time.Duration

	// Upstreams
	HTTPTimeout      time.Duration
	DexScreenerURL   string
	RaydiumPoolsURL  string
	PoolFetchTimeout time.Duration
	PoolCacheTTL     time.Duration
	SwapSlippageBps  int

	// Payment replay guard
	RedisAddr       string
	RedisPassword   string
	PaymentClaimTTL time.Duration

	// Events
	KafkaBrokers        []string
	KafkaTopic          string
	EventMaxRetries     int
	EventRetryDelay     time.Duration
	EventDeadLetterPath string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:            getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:           getEnv("LOG_FORMAT", DefaultLogFormat),
		Environment:         getEnv("ENVIRONMENT", DefaultEnvironment),
		ServiceName:         getEnv("SERVICE_NAME", DefaultServiceName),
		Version:             getEnv("VERSION", DefaultVersion),
		RPCURL:              getEnv("SOLANA_RPC_URL", DefaultRPCURL),
		Network:             getEnv("SOLANA_NETWORK", DefaultNetwork),
		Commitment:          getEnv("SOLANA_COMMITMENT", DefaultCommitment),
		OperatorPrivateKey:  getEnv("DEV_WALLET_PRIVATE_KEY", ""),
		OperatorAddress:     getEnv("DEV_WALLET_ADDRESS", DefaultOperatorAddress),
		LootboxVariant:      strings.ToLower(getEnv("LOOTBOX_VARIANT", VariantClassic)),
		SettlementMode:      strings.ToLower(getEnv("SETTLEMENT_MODE", SettlementSimulated)),
		DexScreenerURL:      getEnv("DEXSCREENER_URL", DefaultDexScreenerURL),
		RaydiumPoolsURL:     getEnv("RAYDIUM_POOLS_URL", DefaultRaydiumPoolsURL),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:        getEnvList("KAFKA_BROKERS"),
		KafkaTopic:          getEnv("KAFKA_TOPIC", DefaultKafkaTopic),
		EventDeadLetterPath: getEnv("DEAD_LETTER_PATH", DefaultDeadLetterPath),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", DefaultPort); err != nil {
		return nil, err
	}
	if cfg.ConfirmMaxAttempts, err = getEnvInt("CONFIRM_MAX_ATTEMPTS", DefaultConfirmMaxAttempts); err != nil {
		return nil, err
	}
	if cfg.SwapSlippageBps, err = getEnvInt("SWAP_SLIPPAGE_BPS", DefaultSwapSlippageBps); err != nil {
		return nil, err
	}
	if cfg.EventMaxRetries, err = getEnvInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries); err != nil {
		return nil, err
	}
	if cfg.FeeTolerance, err = getEnvDecimal("FEE_TOLERANCE_SOL", DefaultFeeToleranceSOL); err != nil {
		return nil, err
	}

	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"CONFIRM_BACKOFF", DefaultConfirmBackoff, &cfg.ConfirmBackoff},
		{"CONFIRM_TIMEOUT", DefaultConfirmTimeout, &cfg.ConfirmTimeout},
		{"SETTLEMENT_TIMEOUT", DefaultSettlementTimeout, &cfg.SettlementTimeout},
		{"HTTP_TIMEOUT", DefaultHTTPTimeout, &cfg.HTTPTimeout},
		{"POOL_FETCH_TIMEOUT", DefaultPoolFetchTimeout, &cfg.PoolFetchTimeout},
		{"POOL_CACHE_TTL", DefaultPoolCacheTTL, &cfg.PoolCacheTTL},
		{"PAYMENT_CLAIM_TTL", DefaultPaymentClaimTTL, &cfg.PaymentClaimTTL},
		{"EVENT_RETRY_DELAY", DefaultEventRetryDelay, &cfg.EventRetryDelay},
	}
	for _, d := range durations {
		if *d.dst, err = getEnvDuration(d.key, d.def); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.OperatorPrivateKey == "" {
		return fmt.Errorf("DEV_WALLET_PRIVATE_KEY environment variable must be set")
	}
	if c.LootboxVariant != VariantClassic && c.LootboxVariant != VariantSwap {
		return fmt.Errorf("invalid LOOTBOX_VARIANT %q: expected %s or %s", c.LootboxVariant, VariantClassic, VariantSwap)
	}
	if c.SettlementMode != SettlementSimulated && c.SettlementMode != SettlementOnChain {
		return fmt.Errorf("invalid SETTLEMENT_MODE %q: expected %s or %s", c.SettlementMode, SettlementSimulated, SettlementOnChain)
	}
	if c.ConfirmMaxAttempts < 1 {
		return fmt.Errorf("CONFIRM_MAX_ATTEMPTS must be at least 1, got %d", c.ConfirmMaxAttempts)
	}
	if c.FeeTolerance.IsNegative() {
		return fmt.Errorf("FEE_TOLERANCE_SOL must not be negative")
	}
	if c.SwapSlippageBps < 0 || c.SwapSlippageBps >= 10_000 {
		return fmt.Errorf("SWAP_SLIPPAGE_BPS must be in [0, 10000), got %d", c.SwapSlippageBps)
	}
	return nil
}

// IsDevelopment reports whether the service runs in a development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "dev" || c.Environment == "development"
}

// getEnv retrieves an environment variable or returns a default value when unset or empty
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func getEnvDecimal(key, defaultValue string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(getEnv(key, defaultValue))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

// getEnvList splits a comma-separated variable, dropping empty items
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
