package api

import (
	"GuildVerify/internal/core/domain"
	"GuildVerify/internal/core/services"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// maxBodyBytes caps request bodies; every payload here is a few short strings.
const maxBodyBytes = 1 << 20

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Controller serves the public API.
type Controller struct {
	svc services.VerificationService
	db  Pinger
}

func NewController(svc services.VerificationService, db Pinger) *Controller {
	return &Controller{svc: svc, db: db}
}

// -----------------------------------------------------------------------------
// GET /health
// -----------------------------------------------------------------------------
func (c *Controller) Health(w http.ResponseWriter, r *http.Request) {
	if err := c.db.Ping(r.Context()); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeUnavailable, "Service unhealthy", err)
		return
	}
	respondJSON(w, http.StatusOK, HealthCheckResponse{Status: "ok"})
}

// -----------------------------------------------------------------------------
// GET /api/guilds
// -----------------------------------------------------------------------------
func (c *Controller) ListGuilds(w http.ResponseWriter, r *http.Request) {
	guilds, err := c.svc.ListGuilds(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeStoreUnavailable, "Guild store unavailable", err)
		return
	}
	respondJSON(w, http.StatusOK, newGuildResponses(guilds))
}

// -----------------------------------------------------------------------------
// POST /api/check-username
// -----------------------------------------------------------------------------
func (c *Controller) CheckUsername(w http.ResponseWriter, r *http.Request) {
	var req CheckUsernameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := c.svc.CheckUsername(r.Context(), req.Username)
	if err != nil {
		c.respondServiceError(w, r, err, ErrCodeLookupFailed, "Username check failed")
		return
	}
	if profile == nil {
		respondJSON(w, http.StatusOK, CheckUsernameResponse{
			Exists:  false,
			Message: "User not found",
		})
		return
	}
	respondJSON(w, http.StatusOK, CheckUsernameResponse{
		Exists:   true,
		UUID:     profile.UUID,
		Username: profile.Username,
	})
}

// -----------------------------------------------------------------------------
// POST /api/request-verification
// -----------------------------------------------------------------------------
func (c *Controller) RequestVerification(w http.ResponseWriter, r *http.Request) {
	var req RequestVerificationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	_, err := c.svc.RequestVerification(r.Context(), req.Username, string(req.UserID), string(req.TelegramChatID))
	if err != nil {
		c.respondServiceError(w, r, err, ErrCodeNotifyFailed, "Failed to submit verification request")
		return
	}
	respondJSON(w, http.StatusOK, RequestVerificationResponse{
		Success: true,
		Message: "Verification request sent",
	})
}

// -----------------------------------------------------------------------------
// shared helpers
// -----------------------------------------------------------------------------

// decodeAndValidate writes a 4xx and returns false on bad input.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "Request body too large", err)
			return false
		}
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidPayload, "Invalid JSON payload", err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, validationMessage(err), err)
		return false
	}
	return true
}

// validationMessage names the missing fields by their JSON names.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Required fields are missing"
	}
	return fmt.Sprintf("%s is required", jsonFieldName(fieldErrs[0].Field()))
}

func jsonFieldName(field string) string {
	switch field {
	case "Username":
		return "username"
	case "UserID":
		return "userId"
	case "TelegramChatID":
		return "telegramChatId"
	}
	return field
}

// respondServiceError maps domain errors to HTTP statuses.
func (c *Controller) respondServiceError(w http.ResponseWriter, r *http.Request, err error, upstreamCode, upstreamMessage string) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, vErr.Error(), err)
	case errors.Is(err, domain.ErrUpstream):
		respondError(w, r, http.StatusInternalServerError, upstreamCode, upstreamMessage, err)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", err)
	}
}
