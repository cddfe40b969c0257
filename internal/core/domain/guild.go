package domain

// GuildStatusVerified is written to a guild record when its owner is approved.
const GuildStatusVerified = "verified"

// Guild is the projection of a guild record exposed by the directory.
type Guild struct {
	ExternalSiteID *string // Nullable
	ID             string
	Name           string
	Tag            *string // Nullable
	LeaderName     *string // Nullable
	Status         *string // Nullable
}
