package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

const (
	ErrCodeInvalidPayload   = "invalid_payload"
	ErrCodePayloadTooLarge  = "payload_too_large"
	ErrCodeValidation       = "validation_error"
	ErrCodeStoreUnavailable = "store_unavailable"
	ErrCodeLookupFailed     = "lookup_failed"
	ErrCodeNotifyFailed     = "notify_failed"
	ErrCodeUnavailable      = "service_unavailable"
	ErrCodeInternal         = "internal_server_error"
)

// respondError writes a JSON error body and logs the underlying cause.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, publicMessage string, cause error) {
	log := zerolog.Ctx(r.Context())
	ev := log.Warn()
	if status >= http.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Err(cause).Int("status", status).Str("code", code).Msg(publicMessage)

	respondJSON(w, status, ErrorResponse{Error: publicMessage, Code: code})
}

// respondJSON writes a successful JSON payload.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
