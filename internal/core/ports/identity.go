package ports

import (
	"GuildVerify/internal/core/domain"
	"context"
)

// IdentityLookup checks whether a username exists on the game's account service.
type IdentityLookup interface {
	// Lookup returns nil, nil when the username does not exist.
	Lookup(ctx context.Context, username string) (*domain.Profile, error)
}
