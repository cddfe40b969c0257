package moderator

import (
	"GuildVerify/internal/core/ports"
	"GuildVerify/internal/shared/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// allowedUpdates lists the update kinds the bot subscribes to. Commands typed
// in a broadcast channel arrive as channel_post.
var allowedUpdates = []string{"message", "callback_query", "channel_post"}

// ModeratorServer receives updates for the moderator bot and publishes them to the bus.
type ModeratorServer struct {
	api *tgbotapi.BotAPI
	cfg *config.BotConnectionConfig
	bus ports.EventBus
	log zerolog.Logger
}

// NewModeratorServer creates a new server instance
func NewModeratorServer(
	api *tgbotapi.BotAPI,
	cfg *config.BotConnectionConfig,
	bus ports.EventBus,
	baseLogger *zerolog.Logger,
) *ModeratorServer {
	return &ModeratorServer{
		api: api,
		cfg: cfg,
		bus: bus,
		log: baseLogger.With().Str("component", "moderator_server").Logger(),
	}
}

// Start blocks until ctx is cancelled.
func (s *ModeratorServer) Start(ctx context.Context) error {
	s.log.Info().Str("mode", s.cfg.Mode).Msg("Starting moderator server...")

	switch s.cfg.Mode {
	case config.BotModePolling:
		return s.startPolling(ctx)
	case config.BotModeWebhook:
		return s.startWebhook(ctx)
	default:
		return fmt.Errorf("unknown bot mode: %s", s.cfg.Mode)
	}
}

// startPolling long-polls Telegram and publishes each update to the bus.
func (s *ModeratorServer) startPolling(ctx context.Context) error {
	s.log.Info().Msg("Starting bot in POLLING mode")

	// 1. Clear any existing webhook
	deleteWebhookConfig := tgbotapi.DeleteWebhookConfig{
		DropPendingUpdates: false,
	}
	if _, err := s.api.Request(deleteWebhookConfig); err != nil {
		s.log.Warn().Err(err).Msg("Failed to delete webhook (continuing anyway)")
	} else {
		s.log.Info().Msg("Webhook deleted successfully")
	}

	// 2. Set up the update channel
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = allowedUpdates

	updates := s.api.GetUpdatesChan(u)

	s.log.Info().Msg("Polling update listener started")

	// 3. Main loop: Poll and Publish
	for {
		select {
		case <-ctx.Done():
			s.api.StopReceivingUpdates()
			s.log.Info().Msg("Polling stopped gracefully")
			return nil
		case update, ok := <-updates:
			if !ok {
				return errors.New("update channel closed")
			}
			s.publishUpdateToBus(ctx, update)
		}
	}
}

// startWebhook serves the Telegram webhook and publishes each update to the bus.
// TLS is expected to terminate at a reverse proxy in front of ListenPort.
func (s *ModeratorServer) startWebhook(ctx context.Context) error {
	s.log.Info().
		Int("port", s.cfg.Webhook.ListenPort).
		Msg("Starting bot in WEBHOOK mode")

	// 1. Set the webhook
	webhookPath := "/webhook/" + s.api.Token
	wh, err := tgbotapi.NewWebhook(s.cfg.Webhook.URL + webhookPath)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create webhook config")
		return err
	}
	wh.AllowedUpdates = allowedUpdates
	if _, err = s.api.Request(wh); err != nil {
		s.log.Error().Err(err).Msg("Failed to set webhook")
		return err
	}
	info, err := s.api.GetWebhookInfo()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to get webhook info")
		return err
	}
	if info.LastErrorDate != 0 {
		s.log.Error().
			Str("error_message", info.LastErrorMessage).
			Msg("Telegram webhook has a last error")
	} else {
		s.log.Info().Msg("Webhook set successfully, no last error")
	}

	// 2. Own mux so the API server's routes stay separate
	updates := make(chan tgbotapi.Update, 100)
	mux := http.NewServeMux()
	mux.HandleFunc(webhookPath, func(w http.ResponseWriter, r *http.Request) {
		update, err := s.api.HandleUpdate(r)
		if err != nil {
			s.log.Warn().Err(err).Msg("Rejected webhook payload")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		select {
		case updates <- *update:
		case <-r.Context().Done():
		}
	})

	// 3. Start HTTP server
	listenAddr := fmt.Sprintf("127.0.0.1:%d", s.cfg.Webhook.ListenPort)
	s.log.Info().Str("addr", listenAddr).Msg("Starting HTTP server for webhook")

	httpServer := &http.Server{Addr: listenAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	s.log.Info().Msg("Webhook update listener started")

	// 4. Main loop: Listen and Publish
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				s.log.Error().Err(err).Msg("HTTP server shutdown error")
			}
			s.log.Info().Msg("Webhook server stopped gracefully")
			return nil
		case err := <-serveErr:
			s.log.Error().Err(err).Msg("Webhook HTTP server failed")
			return err
		case update := <-updates:
			s.publishUpdateToBus(ctx, update)
		}
	}
}

// publishUpdateToBus inspects the update and publishes it to the correct topic.
func (s *ModeratorServer) publishUpdateToBus(ctx context.Context, update tgbotapi.Update) {
	var topic string
	switch {
	case update.CallbackQuery != nil:
		topic = ports.TopicModCallbackQuery
	case update.Message != nil:
		topic = ports.TopicModMessage
	case update.ChannelPost != nil:
		topic = ports.TopicModChannelPost
	default:
		return
	}
	if err := s.bus.Publish(ctx, topic, update); err != nil {
		s.log.Error().Err(err).Str("topic", topic).Msg("Failed to publish update")
	}
}
