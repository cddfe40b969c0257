package api

const (
	// Health
	RouteHealth = "/health"

	// Public API
	RouteGuilds              = "/api/guilds"
	RouteCheckUsername       = "/api/check-username"
	RouteRequestVerification = "/api/request-verification"
)
