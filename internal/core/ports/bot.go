package ports

import (
	"context"
)

// --- Bot Message Structures ---

// Button represents a single button in a keyboard.
type Button struct {
	Text string
	Data string // For callbacks
	URL  string // For URL buttons
}

// ReplyMarkup represents an inline keyboard.
type ReplyMarkup struct {
	Buttons [][]Button
}

// SendMessageParams holds all possible options for sending a message.
type SendMessageParams struct {
	ChatID      int64
	Text        string
	ParseMode   string // e.g., "MarkdownV2" or "HTML"
	ReplyMarkup *ReplyMarkup
}

// EditMessageParams describes an edit of a previously sent message.
// A nil ReplyMarkup removes the keyboard.
type EditMessageParams struct {
	ChatID      int64
	MessageID   int
	Text        string
	ParseMode   string
	ReplyMarkup *ReplyMarkup
}

// AnswerCallbackParams acknowledges a button press.
type AnswerCallbackParams struct {
	CallbackQueryID string
	Text            string
	ShowAlert       bool
}

// --- Bot Client Port (Outbound) ---

// BotClientPort defines the interface for *sending* messages.
type BotClientPort interface {
	// SendMessage returns the ID of the sent message.
	SendMessage(ctx context.Context, params SendMessageParams) (int, error)
	EditMessageText(ctx context.Context, params EditMessageParams) error
	AnswerCallbackQuery(ctx context.Context, params AnswerCallbackParams) error
	SetMenuCommands(ctx context.Context) error
}

// --- Bot Handler Port (Inbound) ---

// BotUpdate represents a simplified, generic update.
type BotUpdate struct {
	MessageID       int
	ChatID          int64
	UserID          int64
	Text            string
	Command         string
	CallbackQueryID string
	CallbackData    *string
	// ChannelPost marks a post in a broadcast channel; UserID is zero.
	ChannelPost bool
}

// CommandHandler defines the "plugin" interface for handling bot commands.
type CommandHandler interface {
	// Command returns the command string (e.g., "pending")
	Command() string
	// Handle processes the update.
	Handle(ctx context.Context, update *BotUpdate) error
}

// CallbackHandler defines the interface for handling callback queries.
type CallbackHandler interface {
	// Prefix returns the prefix for the callback (e.g., "approve_")
	Prefix() string
	// Handle processes the callback.
	Handle(ctx context.Context, update *BotUpdate) error
}
