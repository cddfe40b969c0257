package domain

import "time"

// VerificationStatus is the lifecycle state of a verification request.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// IsTerminal reports whether the status ends the request's lifecycle.
func (s VerificationStatus) IsTerminal() bool {
	return s == VerificationApproved || s == VerificationRejected
}

// VerificationRequest is a claim that a game username belongs to a user,
// waiting for a moderator decision.
type VerificationRequest struct {
	ID             string
	Username       string
	UserID         string
	TelegramChatID string // Accepted from the front-end, not used for routing
	Status         VerificationStatus
	CreatedAt      time.Time
}

// ActionKind is the moderator's decision on a request.
type ActionKind string

const (
	ActionApprove ActionKind = "approve"
	ActionReject  ActionKind = "reject"
)

// Outcome maps the action to the terminal status it produces.
func (k ActionKind) Outcome() VerificationStatus {
	if k == ActionApprove {
		return VerificationApproved
	}
	return VerificationRejected
}
