package moderator

import (
	"GuildVerify/internal/core/ports"
	"GuildVerify/internal/shared/config"

	"github.com/rs/zerolog"
)

// Define constructor types for moderator handlers
type CommandHandlerConstructor func(
	cfg *config.Config,
	registry ports.VerificationRegistry,
	botClient ports.BotClientPort,
	baseLogger *zerolog.Logger,
) ports.CommandHandler

type CallbackHandlerConstructor func(
	cfg *config.Config,
	registry ports.VerificationRegistry,
	guildRepo ports.GuildRepository,
	botClient ports.BotClientPort,
	baseLogger *zerolog.Logger,
) ports.CallbackHandler

var (
	commandRegistry  []CommandHandlerConstructor
	callbackRegistry []CallbackHandlerConstructor
)

// RegisterCommand is called from handler init functions.
func RegisterCommand(constructor CommandHandlerConstructor) {
	commandRegistry = append(commandRegistry, constructor)
}

// RegisterCallback is called from handler init functions.
func RegisterCallback(constructor CallbackHandlerConstructor) {
	callbackRegistry = append(callbackRegistry, constructor)
}

// RegisterAllHandlers builds every registered handler and attaches it to the router.
func RegisterAllHandlers(
	cfg *config.Config,
	router *ModeratorRouter,
	registry ports.VerificationRegistry,
	guildRepo ports.GuildRepository,
	botClient ports.BotClientPort,
	baseLogger *zerolog.Logger,
) {
	log := baseLogger.With().Str("component", "moderator_registry").Logger()

	for _, constructor := range commandRegistry {
		handler := constructor(cfg, registry, botClient, baseLogger)
		router.RegisterCommandHandler(handler)
	}

	for _, constructor := range callbackRegistry {
		handler := constructor(cfg, registry, guildRepo, botClient, baseLogger)
		router.RegisterCallbackHandler(handler)
	}

	log.Info().
		Int("commands", len(commandRegistry)).
		Int("callbacks", len(callbackRegistry)).
		Msg("Moderator handlers registered")
}
