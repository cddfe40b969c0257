package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Bot connection modes.
const (
	BotModePolling = "polling"
	BotModeWebhook = "webhook"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv       string
	HTTP         HTTPConfig
	Postgres     PostgresConfig
	Bot          BotConfig
	Mojang       MojangConfig
	Verification VerificationConfig
}

// HTTPConfig configures the public API server.
type HTTPConfig struct {
	Port           int
	AllowedOrigins []string
}

type PostgresConfig struct {
	URL      string
	MaxConns int32
}

// BotConfig configures the moderator bot and its operator channel.
type BotConfig struct {
	Token        string
	ChannelID    int64
	ModeratorIDs []int64 // Empty: anyone in the channel may act
	Connection   BotConnectionConfig
}

type BotConnectionConfig struct {
	Mode    string
	Webhook WebhookConfig
}

type WebhookConfig struct {
	URL        string
	ListenPort int
}

type MojangConfig struct {
	BaseURL string
	Timeout time.Duration
}

// VerificationConfig controls expiry of pending requests. A zero PendingTTL
// keeps requests until they are resolved or the process restarts.
type VerificationConfig struct {
	PendingTTL    time.Duration
	SweepInterval time.Duration
}

// IsDev reports whether the app runs in development mode.
func (c *Config) IsDev() bool {
	return c.AppEnv == "dev" || c.AppEnv == "development"
}

// bindings maps viper keys to the environment variables feeding them.
var bindings = map[string]string{
	"app.env":                     "APP_ENV",
	"http.port":                   "HTTP_PORT",
	"http.allowed_origins":        "CORS_ALLOWED_ORIGINS",
	"postgres.url":                "DATABASE_URL",
	"postgres.max_conns":          "DATABASE_MAX_CONNS",
	"bot.token":                   "TELEGRAM_BOT_TOKEN",
	"bot.channel_id":              "TELEGRAM_CHANNEL_ID",
	"bot.moderator_ids":           "TELEGRAM_MODERATOR_IDS",
	"bot.mode":                    "BOT_MODE",
	"bot.webhook.url":             "BOT_WEBHOOK_URL",
	"bot.webhook.port":            "BOT_WEBHOOK_PORT",
	"mojang.url":                  "MOJANG_API_URL",
	"mojang.timeout":              "MOJANG_TIMEOUT",
	"verification.pending_ttl":    "VERIFICATION_PENDING_TTL",
	"verification.sweep_interval": "VERIFICATION_SWEEP_INTERVAL",
}

// Load loads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	// 1. Load .env file into the process environment
	if err := godotenv.Load(); err != nil {
		// A missing file is fine; OS-set env vars are used instead.
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	// 2. Explicitly bind viper keys to env var names
	v := viper.New()
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	// 3. Set defaults
	v.SetDefault("app.env", "dev")
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.allowed_origins", "*")
	v.SetDefault("bot.mode", BotModePolling)
	v.SetDefault("bot.webhook.port", 8443)
	v.SetDefault("mojang.url", "https://api.mojang.com")
	v.SetDefault("mojang.timeout", "5s")
	v.SetDefault("verification.pending_ttl", "0s")
	v.SetDefault("verification.sweep_interval", "1m")

	// 4. Get values from viper
	cfg := Config{
		AppEnv: v.GetString("app.env"),
		HTTP: HTTPConfig{
			Port:           v.GetInt("http.port"),
			AllowedOrigins: splitList(v.GetString("http.allowed_origins")),
		},
		Postgres: PostgresConfig{
			URL:      v.GetString("postgres.url"),
			MaxConns: v.GetInt32("postgres.max_conns"),
		},
		Bot: BotConfig{
			Token:     v.GetString("bot.token"),
			ChannelID: v.GetInt64("bot.channel_id"),
			Connection: BotConnectionConfig{
				Mode: v.GetString("bot.mode"),
				Webhook: WebhookConfig{
					URL:        strings.TrimRight(v.GetString("bot.webhook.url"), "/"),
					ListenPort: v.GetInt("bot.webhook.port"),
				},
			},
		},
		Mojang: MojangConfig{
			BaseURL: v.GetString("mojang.url"),
			Timeout: v.GetDuration("mojang.timeout"),
		},
		Verification: VerificationConfig{
			PendingTTL:    v.GetDuration("verification.pending_ttl"),
			SweepInterval: v.GetDuration("verification.sweep_interval"),
		},
	}

	ids, err := parseIDs(v.GetString("bot.moderator_ids"))
	if err != nil {
		return nil, fmt.Errorf("TELEGRAM_MODERATOR_IDS: %w", err)
	}
	cfg.Bot.ModeratorIDs = ids

	// 5. Validation
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Postgres.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if c.Bot.Token == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is not set"))
	}
	if c.Bot.ChannelID == 0 {
		errs = append(errs, errors.New("TELEGRAM_CHANNEL_ID is not set or not an integer"))
	}
	switch c.Bot.Connection.Mode {
	case BotModePolling:
	case BotModeWebhook:
		if c.Bot.Connection.Webhook.URL == "" {
			errs = append(errs, errors.New("BOT_WEBHOOK_URL is required in webhook mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("BOT_MODE must be %q or %q, got %q", BotModePolling, BotModeWebhook, c.Bot.Connection.Mode))
	}
	if c.HTTP.Port <= 0 {
		errs = append(errs, fmt.Errorf("HTTP_PORT must be positive, got %d", c.HTTP.Port))
	}
	if c.Verification.PendingTTL < 0 {
		errs = append(errs, errors.New("VERIFICATION_PENDING_TTL must not be negative"))
	}
	if c.Verification.PendingTTL > 0 && c.Verification.SweepInterval <= 0 {
		errs = append(errs, errors.New("VERIFICATION_SWEEP_INTERVAL must be positive when a TTL is set"))
	}
	return errors.Join(errs...)
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range splitList(s) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
