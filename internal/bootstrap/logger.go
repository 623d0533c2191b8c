package bootstrap

import (
	"io"
	"log/slog"

	"github.com/osse101/lootbox-api/internal/config"
	"github.com/osse101/lootbox-api/internal/logger"
)

// SetupLogger installs the process-wide logger from cfg and writes the startup
// banner. Source locations are only added in development.
func SetupLogger(cfg *config.Config, w io.Writer) {
	loggerConfig := logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
		cfg.IsDevelopment(),
	)
	logger.InitLoggerWithWriter(loggerConfig, w)

	slog.Info(LogMsgLoggingInitialized, "level", loggerConfig.LogLevel())
	slog.Info(LogMsgStartingService,
		"environment", cfg.Environment,
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat,
		"version", cfg.Version)

	slog.Debug(LogMsgConfigurationLoaded,
		"port", cfg.Port,
		"network", cfg.Network,
		"rpc_url", cfg.RPCURL,
		"variant", cfg.LootboxVariant,
		"settlement_mode", cfg.SettlementMode,
		"redis", cfg.RedisAddr != "",
		"kafka_brokers", len(cfg.KafkaBrokers))
}
