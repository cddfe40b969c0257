package moderator

import (
	"GuildVerify/internal/core/ports"
	"context"
	"slices"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// ModeratorRouter routes moderator bot updates to command and callback handlers.
type ModeratorRouter struct {
	log              zerolog.Logger
	botClient        ports.BotClientPort
	channelID        int64
	moderatorIDs     []int64
	commandHandlers  map[string]ports.CommandHandler
	callbackHandlers map[string]ports.CallbackHandler
}

// NewModeratorRouter creates the router and subscribes it to the bot's bus topics.
// An empty moderatorIDs list lets anyone who can see the operator channel act.
func NewModeratorRouter(
	botClient ports.BotClientPort,
	bus ports.EventBus,
	channelID int64,
	moderatorIDs []int64,
	baseLogger *zerolog.Logger,
) *ModeratorRouter {
	r := &ModeratorRouter{
		log:              baseLogger.With().Str("component", "moderator_router").Logger(),
		botClient:        botClient,
		channelID:        channelID,
		moderatorIDs:     moderatorIDs,
		commandHandlers:  make(map[string]ports.CommandHandler),
		callbackHandlers: make(map[string]ports.CallbackHandler),
	}

	bus.Subscribe(ports.TopicModMessage, r.handleBusEvent)
	bus.Subscribe(ports.TopicModCallbackQuery, r.handleBusEvent)
	bus.Subscribe(ports.TopicModChannelPost, r.handleBusEvent)
	return r
}

// RegisterCommandHandler adds a "plugin" to the router.
func (r *ModeratorRouter) RegisterCommandHandler(handler ports.CommandHandler) {
	cmd := handler.Command()
	r.commandHandlers[cmd] = handler
	r.log.Info().Str("command", cmd).Msg("Registered new moderator command")
}

// RegisterCallbackHandler adds a "plugin" to the router.
func (r *ModeratorRouter) RegisterCallbackHandler(handler ports.CallbackHandler) {
	prefix := handler.Prefix()
	r.callbackHandlers[prefix] = handler
	r.log.Info().Str("prefix", prefix).Msg("Registered new moderator callback")
}

// handleBusEvent unwraps a tgbotapi.Update published by the server.
func (r *ModeratorRouter) handleBusEvent(ctx context.Context, event ports.Event) error {
	update, ok := event.Data.(tgbotapi.Update)
	if !ok {
		r.log.Error().Str("topic", event.Topic).Msg("Received bad event from bus")
		return nil // Don't retry
	}
	r.HandleUpdate(ctx, &update)
	return nil
}

// HandleUpdate is the main entry point for the moderator bot
func (r *ModeratorRouter) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	// 1. Convert to our generic BotUpdate
	botUpdate, isSupported := r.parseUpdate(update)
	if !isSupported {
		r.log.Warn().Int("update_id", update.UpdateID).Msg("Received unsupported update type")
		return
	}

	// 2. Add logger context
	ctxLogger := r.log.With().
		Int64("user_id", botUpdate.UserID).
		Int64("chat_id", botUpdate.ChatID).
		Logger()
	ctx = ctxLogger.WithContext(ctx)

	// 3. Authorization
	if !r.isAuthorized(botUpdate) {
		ctxLogger.Warn().Msg("Unauthorized user tried to use the moderator bot")
		if botUpdate.CallbackQueryID != "" {
			_ = r.botClient.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
				CallbackQueryID: botUpdate.CallbackQueryID,
				Text:            "You are not allowed to review requests.",
				ShowAlert:       true,
			})
		}
		return
	}

	// 4. Route commands
	if botUpdate.Command != "" {
		if handler, ok := r.commandHandlers[botUpdate.Command]; ok {
			ctxLogger.Info().Str("handler", botUpdate.Command).Msg("Routing to mod command handler")
			if err := handler.Handle(ctx, botUpdate); err != nil {
				ctxLogger.Error().Err(err).Msg("Mod command handler failed")
			}
			return
		}
	}

	// 5. Route callbacks
	if botUpdate.CallbackData != nil {
		for prefix, handler := range r.callbackHandlers {
			if strings.HasPrefix(*botUpdate.CallbackData, prefix) {
				ctxLogger.Info().Str("handler", prefix).Str("data", *botUpdate.CallbackData).Msg("Routing to mod callback handler")
				if err := handler.Handle(ctx, botUpdate); err != nil {
					ctxLogger.Error().Err(err).Msg("Mod callback handler failed")
				}
				return
			}
		}
		ctxLogger.Warn().Str("data", *botUpdate.CallbackData).Msg("No callback handler found")
		return
	}

	ctxLogger.Debug().Msg("Moderator bot received unhandled update")
}

// isAuthorized applies the moderator allowlist. Callbacks must also come
// from the operator channel. Channel posts carry no author; only channel
// admins can post, so the operator channel itself is the credential.
func (r *ModeratorRouter) isAuthorized(update *ports.BotUpdate) bool {
	if update.ChannelPost {
		return update.ChatID == r.channelID
	}
	if update.CallbackData != nil && update.ChatID != r.channelID {
		return false
	}
	if len(r.moderatorIDs) == 0 {
		return update.ChatID == r.channelID
	}
	return slices.Contains(r.moderatorIDs, update.UserID)
}

// parseUpdate converts a tgbotapi.Update into our internal, simplified struct.
func (r *ModeratorRouter) parseUpdate(update *tgbotapi.Update) (*ports.BotUpdate, bool) {
	if update.CallbackQuery != nil {
		cb := update.CallbackQuery
		if cb.Message == nil || cb.Message.Chat == nil || cb.From == nil {
			// Inline-mode callbacks carry no message; we never send those.
			return nil, false
		}
		return &ports.BotUpdate{
			MessageID:       cb.Message.MessageID,
			ChatID:          cb.Message.Chat.ID,
			UserID:          cb.From.ID,
			CallbackQueryID: cb.ID,
			CallbackData:    &cb.Data,
		}, true
	}

	if update.Message != nil && update.Message.From != nil && update.Message.Chat != nil {
		msg := update.Message
		return &ports.BotUpdate{
			MessageID: msg.MessageID,
			ChatID:    msg.Chat.ID,
			UserID:    msg.From.ID,
			Text:      msg.Text,
			Command:   msg.Command(),
		}, true
	}

	if post := update.ChannelPost; post != nil && post.Chat != nil {
		return &ports.BotUpdate{
			MessageID:   post.MessageID,
			ChatID:      post.Chat.ID,
			Text:        post.Text,
			Command:     post.Command(),
			ChannelPost: true,
		}, true
	}

	return nil, false
}
