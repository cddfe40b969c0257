package telegram

import (
	"GuildVerify/internal/bot/messages"
	"GuildVerify/internal/core/domain"
	"GuildVerify/internal/core/ports"
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// approvalNotifier posts verification requests to the operator channel.
type approvalNotifier struct {
	bot       ports.BotClientPort
	channelID int64
	log       zerolog.Logger
}

// NewApprovalNotifier creates a notifier bound to a single operator channel.
func NewApprovalNotifier(
	bot ports.BotClientPort,
	channelID int64,
	baseLogger *zerolog.Logger,
) ports.ApprovalNotifier {
	return &approvalNotifier{
		bot:       bot,
		channelID: channelID,
		log:       baseLogger.With().Str("component", "approval_notifier").Logger(),
	}
}

// Send posts the request with approve/reject buttons tagged by its ID.
func (n *approvalNotifier) Send(ctx context.Context, req domain.VerificationRequest) (int, error) {
	log := n.log.With().Str("request_id", req.ID).Int64("channel_id", n.channelID).Logger()

	buttons := [][]ports.Button{
		{
			{Text: "✅ Approve", Data: ports.ApprovePrefix + req.ID},
			{Text: "❌ Reject", Data: ports.RejectPrefix + req.ID},
		},
	}

	params := messages.NewBuilder(n.channelID).
		WithText(RequestText(req)).
		WithInlineButtons(buttons).
		Build()

	messageID, err := n.bot.SendMessage(ctx, params)
	if err != nil {
		log.Error().Err(err).Msg("Failed to post verification request to channel")
		return 0, err
	}

	log.Info().Int("message_id", messageID).Msg("Verification request posted to channel")
	return messageID, nil
}

// RequestText renders the channel message for a pending request.
func RequestText(req domain.VerificationRequest) string {
	return fmt.Sprintf(
		"*Verification request*\n\nPlayer: %s\nUser ID: `%s`",
		messages.EscapeMarkdown(req.Username),
		messages.EscapeCode(req.UserID),
	)
}
