package handlers

import (
	"GuildVerify/internal/bot/messages"
	"GuildVerify/internal/bot/moderator"
	"GuildVerify/internal/core/ports"
	"GuildVerify/internal/shared/config"
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

func init() {
	moderator.RegisterCommand(NewPendingHandler)
}

// pendingHandler answers /pending with the number of requests awaiting review.
type pendingHandler struct {
	log      zerolog.Logger
	registry ports.VerificationRegistry
	bot      ports.BotClientPort
}

func NewPendingHandler(
	cfg *config.Config,
	registry ports.VerificationRegistry,
	bot ports.BotClientPort,
	baseLogger *zerolog.Logger,
) ports.CommandHandler {
	return &pendingHandler{
		log:      baseLogger.With().Str("component", "pending_handler").Logger(),
		registry: registry,
		bot:      bot,
	}
}

func (h *pendingHandler) Command() string {
	return "pending"
}

func (h *pendingHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	count := h.registry.Len()
	h.log.Info().Int64("moderator_id", update.UserID).Int("pending", count).Msg("Pending count requested")

	params := messages.NewBuilder(update.ChatID).
		WithText(fmt.Sprintf("Pending verification requests: %d", count)).
		WithParseMode("").
		Build()
	_, err := h.bot.SendMessage(ctx, params)
	return err
}
