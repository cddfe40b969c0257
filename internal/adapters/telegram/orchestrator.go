package telegram

import (
	"GuildVerify/internal/bot/moderator"
	_ "GuildVerify/internal/bot/moderator/handlers" // registers approve/reject and /pending
	"GuildVerify/internal/core/ports"
	"GuildVerify/internal/shared/config"
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Orchestrator wires and runs the moderator bot.
type Orchestrator struct {
	cfg        *config.Config
	api        *tgbotapi.BotAPI
	client     ports.BotClientPort
	registry   ports.VerificationRegistry
	guildRepo  ports.GuildRepository
	bus        ports.EventBus
	baseLogger *zerolog.Logger
}

// Connect authenticates the bot token against the Bot API.
func Connect(cfg *config.Config, baseLogger *zerolog.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		return nil, err
	}
	api.Debug = cfg.IsDev()
	baseLogger.Info().Str("username", api.Self.UserName).Msg("Bot API connected")
	return api, nil
}

// NewOrchestrator creates a new bot orchestrator. The client is shared with
// the approval notifier so both talk through the same API connection.
func NewOrchestrator(
	cfg *config.Config,
	api *tgbotapi.BotAPI,
	client ports.BotClientPort,
	registry ports.VerificationRegistry,
	guildRepo ports.GuildRepository,
	bus ports.EventBus,
	baseLogger *zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		api:        api,
		client:     client,
		registry:   registry,
		guildRepo:  guildRepo,
		bus:        bus,
		baseLogger: baseLogger,
	}
}

// Start registers the handlers and blocks until ctx is cancelled.
func (o *Orchestrator) Start(ctx context.Context) error {
	log := o.baseLogger.With().Str("bot", "moderator").Logger()

	// 1. Create Router (subscribes to the bus)
	router := moderator.NewModeratorRouter(o.client, o.bus, o.cfg.Bot.ChannelID, o.cfg.Bot.ModeratorIDs, &log)

	// 2. Register Handlers
	moderator.RegisterAllHandlers(o.cfg, router, o.registry, o.guildRepo, o.client, &log)

	// 3. Set Menu
	if err := o.client.SetMenuCommands(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to set menu commands")
	}

	// 4. Create and Start Server
	server := moderator.NewModeratorServer(o.api, &o.cfg.Bot.Connection, o.bus, &log)
	return server.Start(ctx)
}
