package ports

import (
	"GuildVerify/internal/core/domain"
	"context"
)

// Callback data prefixes carried by the approval buttons: approve_<id>, reject_<id>.
const (
	ApprovePrefix = "approve_"
	RejectPrefix  = "reject_"
)

// ApprovalNotifier posts a pending request to the operator channel with
// approve/reject buttons tagged by the request ID.
type ApprovalNotifier interface {
	// Send returns the ID of the posted message.
	Send(ctx context.Context, req domain.VerificationRequest) (int, error)
}
