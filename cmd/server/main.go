package main

import (
	"GuildVerify/internal/adapters/eventbus"
	"GuildVerify/internal/adapters/mojang"
	"GuildVerify/internal/adapters/postgres"
	"GuildVerify/internal/adapters/registry"
	"GuildVerify/internal/adapters/telegram"
	"GuildVerify/internal/api"
	"GuildVerify/internal/core/services"
	"GuildVerify/internal/shared/config"
	"GuildVerify/internal/shared/logger"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	baseLogger := logger.New(cfg.IsDev())
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Str("bot_mode", cfg.Bot.Connection.Mode).
		Int("http_port", cfg.HTTP.Port).
		Dur("pending_ttl", cfg.Verification.PendingTTL).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Initialize Database
	db, err := postgres.NewDB(ctx, cfg.Postgres.URL, cfg.Postgres.MaxConns, &baseLogger)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// 4. Initialize Adapters
	guildRepo := postgres.NewGuildRepository(db, &baseLogger)
	identity := mojang.NewClient(cfg.Mojang.BaseURL, cfg.Mojang.Timeout, &baseLogger)
	pending := registry.NewMemoryRegistry(&baseLogger)
	bus := eventbus.NewInMemoryEventBus(&baseLogger)

	botAPI, err := telegram.Connect(cfg, &baseLogger)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to connect moderator bot")
	}
	botClient := telegram.NewClient(botAPI, &baseLogger)
	notifier := telegram.NewApprovalNotifier(botClient, cfg.Bot.ChannelID, &baseLogger)

	// 5. Optional expiry of stale requests
	if cfg.Verification.PendingTTL > 0 {
		sweeper := registry.NewSweeper(pending, cfg.Verification.PendingTTL, cfg.Verification.SweepInterval, &baseLogger)
		if err := sweeper.Start(); err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to start pending sweeper")
		}
		defer sweeper.Stop()
	}

	// 6. Initialize Services
	verificationSvc := services.NewVerificationService(guildRepo, identity, pending, notifier, &baseLogger)

	httpServer := api.NewServer(&cfg.HTTP, api.NewController(verificationSvc, db), &baseLogger)
	orchestrator := telegram.NewOrchestrator(cfg, botAPI, botClient, pending, guildRepo, bus, &baseLogger)

	baseLogger.Info().Msg("All services initialized successfully")

	// 7. Run until a signal or the first failure
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.Start(gctx) })
	g.Go(func() error { return orchestrator.Start(gctx) })

	if err := g.Wait(); err != nil {
		baseLogger.Error().Err(err).Msg("Server stopped with error")
	}

	// Let in-flight moderator actions finish before the pool closes
	bus.Wait()
	baseLogger.Info().Int("dropped_pending", pending.Len()).Msg("Shutdown complete")
}
