package mojang

import (
	"GuildVerify/internal/core/domain"
	"GuildVerify/internal/core/ports"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public Mojang account API.
const DefaultBaseURL = "https://api.mojang.com"

// profileResponse is the body of a successful profile lookup.
type profileResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

var _ ports.IdentityLookup = (*client)(nil)

// NewClient creates a lookup adapter against the given API base URL.
func NewClient(baseURL string, timeout time.Duration, baseLogger *zerolog.Logger) ports.IdentityLookup {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     baseLogger.With().Str("component", "mojang_client").Logger(),
	}
}

// Lookup resolves a username to its canonical profile.
// Mojang answers 204 (older API) or 404 for unknown names.
func (c *client) Lookup(ctx context.Context, username string) (*domain.Profile, error) {
	endpoint := c.baseURL + "/users/profiles/minecraft/" + url.PathEscape(username)
	log := c.log.With().Str("username", username).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Profile request failed")
		return nil, fmt.Errorf("profile request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusNotFound:
		log.Info().Int("status", resp.StatusCode).Msg("Username not found")
		return nil, nil
	case http.StatusOK:
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("Unexpected profile response")
		return nil, fmt.Errorf("profile lookup: unexpected status %d", resp.StatusCode)
	}

	var profile profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		log.Error().Err(err).Msg("Failed to decode profile response")
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("decode profile: empty id")
	}

	return &domain.Profile{UUID: profile.ID, Username: profile.Name}, nil
}
