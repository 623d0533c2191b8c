package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/lootbox-api/internal/bootstrap"
	"github.com/osse101/lootbox-api/internal/config"
	"github.com/osse101/lootbox-api/internal/server"
)

// @title Lootbox API
// @version 1.0
// @description Opens SOL lootboxes, verifies payment on Solana and settles wins in a trending token.
// @BasePath /

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		slog.Error("Environment validation failed", "error", err)
		os.Exit(1)
	}

	bootstrap.SetupLogger(cfg, os.Stdout)
	for _, w := range warnings {
		slog.Warn("Configuration warning", "warning", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger, err := bootstrap.InitializeLedger(ctx, cfg)
	if err != nil {
		fatal("Failed to initialize ledger", err)
	}

	guard, rdb, err := bootstrap.InitializePaymentGuard(ctx, cfg)
	if err != nil {
		fatal("Failed to initialize payment guard", err)
	}

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		fatal("Failed to initialize event system", err)
	}

	sink, err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus: bus,
		Config:   cfg,
	})
	if err != nil {
		fatal("Failed to register event handlers", err)
	}

	lootboxService, err := bootstrap.InitializeLootboxService(bootstrap.ServiceDependencies{
		Config:    cfg,
		Ledger:    ledger,
		Guard:     guard,
		Publisher: publisher,
	})
	if err != nil {
		fatal("Failed to initialize lootbox service", err)
	}

	srv := server.NewServer(cfg.Port, server.Info{
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
		Network:     cfg.Network,
	}, lootboxService, ledger.Client)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("Server failed to start", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		ResilientPublisher: publisher,
		KafkaSink:          sink,
		Redis:              rdb,
	})
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
