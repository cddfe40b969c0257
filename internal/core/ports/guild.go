package ports

import (
	"GuildVerify/internal/core/domain"
	"context"
)

// GuildRepository is the narrow read/update contract on persisted guild records.
type GuildRepository interface {
	// ListAll returns every guild record.
	ListAll(ctx context.Context) ([]domain.Guild, error)

	// UpdateStatus overwrites the status of the guild keyed by userID.
	// Returns domain.ErrGuildNotFound if no record matched.
	UpdateStatus(ctx context.Context, userID, status string) error
}
