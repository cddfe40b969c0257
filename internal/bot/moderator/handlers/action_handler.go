package handlers

import (
	"GuildVerify/internal/bot/messages"
	"GuildVerify/internal/bot/moderator"
	"GuildVerify/internal/core/domain"
	"GuildVerify/internal/core/ports"
	"GuildVerify/internal/shared/config"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Operator-visible replies.
const (
	replyNotFound     = "Verification request not found."
	replyGuildMissing = "Approved, but no guild record exists for user %s. Resubmit once the record is created."
	replyUpdateFailed = "Approved, but updating the guild status failed. Please resubmit the request."
	toastApproved     = "Approved"
	toastRejected     = "Rejected"
	toastUpdateFailed = "Guild update failed"
	toastNotFound     = "Request not found"
)

func init() {
	moderator.RegisterCallback(NewApproveHandler)
	moderator.RegisterCallback(NewRejectHandler)
}

// actionHandler resolves a pending verification request from an approve or reject button.
type actionHandler struct {
	kind      domain.ActionKind
	prefix    string
	log       zerolog.Logger
	registry  ports.VerificationRegistry
	guildRepo ports.GuildRepository
	bot       ports.BotClientPort
}

// NewApproveHandler handles approve_<id> callbacks.
func NewApproveHandler(
	cfg *config.Config,
	registry ports.VerificationRegistry,
	guildRepo ports.GuildRepository,
	bot ports.BotClientPort,
	baseLogger *zerolog.Logger,
) ports.CallbackHandler {
	return newActionHandler(domain.ActionApprove, ports.ApprovePrefix, registry, guildRepo, bot, baseLogger)
}

// NewRejectHandler handles reject_<id> callbacks.
func NewRejectHandler(
	cfg *config.Config,
	registry ports.VerificationRegistry,
	guildRepo ports.GuildRepository,
	bot ports.BotClientPort,
	baseLogger *zerolog.Logger,
) ports.CallbackHandler {
	return newActionHandler(domain.ActionReject, ports.RejectPrefix, registry, guildRepo, bot, baseLogger)
}

func newActionHandler(
	kind domain.ActionKind,
	prefix string,
	registry ports.VerificationRegistry,
	guildRepo ports.GuildRepository,
	bot ports.BotClientPort,
	baseLogger *zerolog.Logger,
) *actionHandler {
	return &actionHandler{
		kind:      kind,
		prefix:    prefix,
		log:       baseLogger.With().Str("component", string(kind)+"_handler").Logger(),
		registry:  registry,
		guildRepo: guildRepo,
		bot:       bot,
	}
}

func (h *actionHandler) Prefix() string {
	return h.prefix
}

func (h *actionHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	id := strings.TrimPrefix(*update.CallbackData, h.prefix)
	log := h.log.With().
		Int64("moderator_id", update.UserID).
		Str("request_id", id).
		Logger()

	toast, err := h.dispatch(ctx, update, id, log)

	// Stop the button spinner whatever happened
	if ackErr := h.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
		CallbackQueryID: update.CallbackQueryID,
		Text:            toast,
	}); ackErr != nil {
		log.Warn().Err(ackErr).Msg("Failed to answer callback query")
	}
	return err
}

// dispatch runs the finalize step and its side effects, returning the toast text.
func (h *actionHandler) dispatch(ctx context.Context, update *ports.BotUpdate, id string, log zerolog.Logger) (string, error) {
	if id == "" {
		log.Warn().Msg("Callback carried no request ID")
		return toastNotFound, h.reply(ctx, update, replyNotFound)
	}

	// Removal happens before any I/O; a concurrent click finds nothing.
	req, ok := h.registry.Finalize(id, h.kind.Outcome())
	if !ok {
		log.Info().Msg("Verification request not found (already resolved or unknown)")
		return toastNotFound, h.reply(ctx, update, replyNotFound)
	}
	log = log.With().Str("username", req.Username).Str("user_id", req.UserID).Logger()

	if h.kind == domain.ActionApprove {
		if err := h.guildRepo.UpdateStatus(ctx, req.UserID, domain.GuildStatusVerified); err != nil {
			log.Error().Err(err).Msg("Failed to mark guild verified; request is dropped")
			text := replyUpdateFailed
			if errors.Is(err, domain.ErrGuildNotFound) {
				text = fmt.Sprintf(replyGuildMissing, req.UserID)
			}
			// The buttons go either way; the request no longer exists.
			replyErr := h.reply(ctx, update, text)
			editErr := h.editMessage(ctx, update, failedText(req))
			return toastUpdateFailed, errors.Join(replyErr, editErr)
		}
		log.Info().Msg("Verification approved")
		return toastApproved, h.editMessage(ctx, update, resolvedText(req))
	}

	log.Info().Msg("Verification rejected")
	return toastRejected, h.editMessage(ctx, update, resolvedText(req))
}

// resolvedText is the final content of the channel message.
func resolvedText(req domain.VerificationRequest) string {
	icon := "❌"
	if req.Status == domain.VerificationApproved {
		icon = "✅"
	}
	return fmt.Sprintf("%s Verification for %s %s",
		icon,
		messages.EscapeMarkdown(req.Username),
		req.Status,
	)
}

// failedText marks an approval whose guild update did not go through.
func failedText(req domain.VerificationRequest) string {
	return fmt.Sprintf("⚠️ Verification for %s approved, but the guild update failed\\. The user must resubmit\\.",
		messages.EscapeMarkdown(req.Username),
	)
}

// editMessage replaces the request message and removes its buttons.
func (h *actionHandler) editMessage(ctx context.Context, update *ports.BotUpdate, text string) error {
	return h.bot.EditMessageText(ctx, ports.EditMessageParams{
		ChatID:    update.ChatID,
		MessageID: update.MessageID,
		Text:      text,
		ParseMode: messages.ParseModeMarkdownV2,
	})
}

// reply posts a plain-text answer in the chat the button was pressed in.
func (h *actionHandler) reply(ctx context.Context, update *ports.BotUpdate, text string) error {
	params := messages.NewBuilder(update.ChatID).
		WithText(text).
		WithParseMode("").
		Build()
	_, err := h.bot.SendMessage(ctx, params)
	return err
}
