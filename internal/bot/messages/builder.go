package messages

import (
	"GuildVerify/internal/core/ports"
	"strings"
)

// ParseModeMarkdownV2 is the Telegram MarkdownV2 parse mode.
const ParseModeMarkdownV2 = "MarkdownV2"

// Builder helps construct complex SendMessageParams.
type Builder struct {
	params ports.SendMessageParams
}

// NewBuilder creates a new message builder.
func NewBuilder(chatID int64) *Builder {
	return &Builder{
		params: ports.SendMessageParams{
			ChatID:    chatID,
			ParseMode: ParseModeMarkdownV2, // Default to Markdown
		},
	}
}

// WithText sets the message text.
func (b *Builder) WithText(text string) *Builder {
	b.params.Text = text
	return b
}

// WithParseMode overrides the default parse mode.
func (b *Builder) WithParseMode(mode string) *Builder {
	b.params.ParseMode = mode
	return b
}

// WithInlineButtons adds a set of inline buttons.
func (b *Builder) WithInlineButtons(buttons [][]ports.Button) *Builder {
	b.params.ReplyMarkup = &ports.ReplyMarkup{
		Buttons: buttons,
	}
	return b
}

// Build returns the final SendMessageParams struct.
func (b *Builder) Build() ports.SendMessageParams {
	return b.params
}

var markdownReplacer = strings.NewReplacer(
	"\\", "\\\\", "_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(", ")", "\\)",
	"~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
	"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
)

// EscapeMarkdown escapes user-supplied text for MarkdownV2.
func EscapeMarkdown(s string) string {
	return markdownReplacer.Replace(s)
}

var codeReplacer = strings.NewReplacer("\\", "\\\\", "`", "\\`")

// EscapeCode escapes text placed inside a MarkdownV2 code span.
func EscapeCode(s string) string {
	return codeReplacer.Replace(s)
}
