package registry

import (
	"GuildVerify/internal/core/domain"
	"GuildVerify/internal/core/ports"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// memoryRegistry keeps pending verification requests in process memory.
// Entries are lost on restart.
type memoryRegistry struct {
	mu      sync.Mutex
	pending map[string]domain.VerificationRequest
	newID   func() (uuid.UUID, error)
	now     func() time.Time
	log     zerolog.Logger
}

var _ ports.VerificationRegistry = (*memoryRegistry)(nil) // Ensure compliance

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry(baseLogger *zerolog.Logger) ports.VerificationRegistry {
	return &memoryRegistry{
		pending: make(map[string]domain.VerificationRequest),
		newID:   uuid.NewRandom,
		now:     time.Now,
		log:     baseLogger.With().Str("component", "verification_registry").Logger(),
	}
}

// Create generates a random UUIDv4 and stores a pending request under it.
func (r *memoryRegistry) Create(username, userID, telegramChatID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var id string
	for {
		u, err := r.newID()
		if err != nil {
			r.log.Error().Err(err).Msg("Failed to generate request ID")
			return "", fmt.Errorf("generate request id: %w", err)
		}
		id = u.String()
		if _, live := r.pending[id]; !live {
			break
		}
		r.log.Warn().Str("request_id", id).Msg("Generated request ID collides with a live entry, retrying")
	}

	r.pending[id] = domain.VerificationRequest{
		ID:             id,
		Username:       username,
		UserID:         userID,
		TelegramChatID: telegramChatID,
		Status:         domain.VerificationPending,
		CreatedAt:      r.now(),
	}

	r.log.Info().
		Str("request_id", id).
		Str("username", username).
		Str("user_id", userID).
		Int("pending", len(r.pending)).
		Msg("Verification request created")
	return id, nil
}

// Resolve returns a copy of the pending request.
func (r *memoryRegistry) Resolve(id string) (domain.VerificationRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.pending[id]
	return req, ok
}

// Finalize removes the request and hands the caller a copy stamped with the outcome.
// A non-terminal outcome leaves the entry untouched.
func (r *memoryRegistry) Finalize(id string, outcome domain.VerificationStatus) (domain.VerificationRequest, bool) {
	if !outcome.IsTerminal() {
		r.log.Error().Str("request_id", id).Str("status", string(outcome)).Msg("Finalize called with non-terminal status")
		return domain.VerificationRequest{}, false
	}

	r.mu.Lock()
	req, ok := r.pending[id]
	if ok {
		delete(r.pending, id)
	}
	remaining := len(r.pending)
	r.mu.Unlock()

	if !ok {
		r.log.Info().Str("request_id", id).Msg("Finalize on absent request")
		return domain.VerificationRequest{}, false
	}

	req.Status = outcome
	r.log.Info().
		Str("request_id", id).
		Str("status", string(outcome)).
		Int("pending", remaining).
		Msg("Verification request finalized")
	return req, true
}

// Expire drops every pending request created before cutoff.
func (r *memoryRegistry) Expire(cutoff time.Time) []domain.VerificationRequest {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []domain.VerificationRequest
	for id, req := range r.pending {
		if req.CreatedAt.Before(cutoff) {
			delete(r.pending, id)
			expired = append(expired, req)
		}
	}
	return expired
}

// Len returns the number of pending requests.
func (r *memoryRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
