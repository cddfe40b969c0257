package moderator

import (
	"GuildVerify/internal/core/ports"
	"GuildVerify/internal/shared/config"
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockEventBus records published topics.
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, topic string, data any) error {
	args := m.Called(topic, data)
	return args.Error(0)
}
func (m *MockEventBus) Subscribe(topic string, handler ports.EventHandler) {
	m.Called(topic)
}

func TestServer_PublishesUpdateOnMatchingTopic(t *testing.T) {
	testCases := []struct {
		name   string
		update tgbotapi.Update
		topic  string
	}{
		{
			name:   "callback query",
			update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "cb"}},
			topic:  ports.TopicModCallbackQuery,
		},
		{
			name:   "group message",
			update: tgbotapi.Update{Message: &tgbotapi.Message{Text: "/pending"}},
			topic:  ports.TopicModMessage,
		},
		{
			name:   "channel post",
			update: tgbotapi.Update{ChannelPost: &tgbotapi.Message{Text: "/pending"}},
			topic:  ports.TopicModChannelPost,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nopLogger := zerolog.Nop()
			bus := new(MockEventBus)
			bus.On("Publish", tc.topic, tc.update).Return(nil).Once()
			server := NewModeratorServer(nil, &config.BotConnectionConfig{Mode: config.BotModePolling}, bus, &nopLogger)

			server.publishUpdateToBus(context.Background(), tc.update)

			bus.AssertExpectations(t)
		})
	}
}

func TestServer_IgnoresOtherUpdateKinds(t *testing.T) {
	nopLogger := zerolog.Nop()
	bus := new(MockEventBus)
	server := NewModeratorServer(nil, &config.BotConnectionConfig{Mode: config.BotModePolling}, bus, &nopLogger)

	server.publishUpdateToBus(context.Background(), tgbotapi.Update{EditedMessage: &tgbotapi.Message{}})

	bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestServer_SubscribesToChannelPosts(t *testing.T) {
	assert.Contains(t, allowedUpdates, "channel_post")
	assert.Contains(t, allowedUpdates, "callback_query")
	assert.Contains(t, allowedUpdates, "message")
}
