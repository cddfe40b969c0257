package ports

import (
	"GuildVerify/internal/core/domain"
	"time"
)

// VerificationRegistry holds verification requests while they wait for a moderator.
// Only pending requests are kept; an entry is removed the moment it is finalized.
type VerificationRegistry interface {
	// Create stores a new pending request and returns its fresh identifier.
	Create(username, userID, telegramChatID string) (string, error)

	// Resolve returns the pending request without removing it.
	Resolve(id string) (domain.VerificationRequest, bool)

	// Finalize atomically removes the request and returns it with the given outcome.
	// Concurrent calls for the same id: exactly one observes true.
	Finalize(id string, outcome domain.VerificationStatus) (domain.VerificationRequest, bool)

	// Expire removes pending requests created before the cutoff.
	Expire(cutoff time.Time) []domain.VerificationRequest

	// Len returns the number of pending requests.
	Len() int
}
