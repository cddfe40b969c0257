package domain

// Profile is the canonical identity returned by the game's account service.
type Profile struct {
	UUID     string
	Username string
}
