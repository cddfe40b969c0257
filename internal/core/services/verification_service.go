package services

import (
	"GuildVerify/internal/core/domain"
	"GuildVerify/internal/core/ports"
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// VerificationService composes the operations behind the public API.
type VerificationService interface {
	ListGuilds(ctx context.Context) ([]domain.Guild, error)
	CheckUsername(ctx context.Context, username string) (*domain.Profile, error)
	RequestVerification(ctx context.Context, username, userID, telegramChatID string) (string, error)
}

type verificationService struct {
	guildRepo ports.GuildRepository
	identity  ports.IdentityLookup
	registry  ports.VerificationRegistry
	notifier  ports.ApprovalNotifier
	log       zerolog.Logger
}

// NewVerificationService wires the API operations to their collaborators.
func NewVerificationService(
	guildRepo ports.GuildRepository,
	identity ports.IdentityLookup,
	registry ports.VerificationRegistry,
	notifier ports.ApprovalNotifier,
	baseLogger *zerolog.Logger,
) VerificationService {
	return &verificationService{
		guildRepo: guildRepo,
		identity:  identity,
		registry:  registry,
		notifier:  notifier,
		log:       baseLogger.With().Str("component", "verification_service").Logger(),
	}
}

// ListGuilds returns every guild record.
func (s *verificationService) ListGuilds(ctx context.Context) ([]domain.Guild, error) {
	guilds, err := s.guildRepo.ListAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list guilds")
		return nil, &domain.UpstreamError{Service: "guild store", Err: err}
	}
	if guilds == nil {
		guilds = []domain.Guild{}
	}
	return guilds, nil
}

// CheckUsername returns nil, nil when the username does not exist upstream.
func (s *verificationService) CheckUsername(ctx context.Context, username string) (*domain.Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &domain.ValidationError{Field: "username"}
	}

	profile, err := s.identity.Lookup(ctx, username)
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("Username lookup failed")
		return nil, &domain.UpstreamError{Service: "identity service", Err: err}
	}
	return profile, nil
}

// RequestVerification registers a pending request and posts it to the operator channel.
// If posting fails the request is withdrawn, since no moderator could ever act on it.
func (s *verificationService) RequestVerification(ctx context.Context, username, userID, telegramChatID string) (string, error) {
	username = strings.TrimSpace(username)
	userID = strings.TrimSpace(userID)
	telegramChatID = strings.TrimSpace(telegramChatID)

	switch {
	case username == "":
		return "", &domain.ValidationError{Field: "username"}
	case userID == "":
		return "", &domain.ValidationError{Field: "userId"}
	case telegramChatID == "":
		return "", &domain.ValidationError{Field: "telegramChatId"}
	}

	id, err := s.registry.Create(username, userID, telegramChatID)
	if err != nil {
		return "", err
	}
	log := s.log.With().Str("request_id", id).Str("username", username).Str("user_id", userID).Logger()

	req, ok := s.registry.Resolve(id)
	if !ok {
		log.Error().Msg("Request vanished before notification")
		return "", domain.ErrRequestNotFound
	}

	if _, err := s.notifier.Send(ctx, req); err != nil {
		s.registry.Finalize(id, domain.VerificationRejected)
		log.Error().Err(err).Msg("Failed to notify operators; request withdrawn")
		return "", &domain.UpstreamError{Service: "operator channel", Err: err}
	}

	log.Info().Msg("Verification request submitted")
	return id, nil
}
