package api

import (
	"GuildVerify/internal/core/domain"
	"bytes"
	"encoding/json"
)

type CheckUsernameRequest struct {
	Username string `json:"username" validate:"required"`
}

type CheckUsernameResponse struct {
	Exists   bool   `json:"exists"`
	UUID     string `json:"uuid,omitempty"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
}

type RequestVerificationRequest struct {
	Username       string     `json:"username" validate:"required"`
	UserID         flexString `json:"userId" validate:"required"`
	TelegramChatID flexString `json:"telegramChatId" validate:"required"`
}

type RequestVerificationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// GuildResponse is the fixed projection of a guild record.
type GuildResponse struct {
	ExternalSiteID *string `json:"externalSiteId"`
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Tag            *string `json:"tag"`
	LeaderName     *string `json:"leaderName"`
	Status         *string `json:"status"`
}

type HealthCheckResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func newGuildResponses(guilds []domain.Guild) []GuildResponse {
	out := make([]GuildResponse, 0, len(guilds))
	for _, g := range guilds {
		out = append(out, GuildResponse{
			ExternalSiteID: g.ExternalSiteID,
			ID:             g.ID,
			Name:           g.Name,
			Tag:            g.Tag,
			LeaderName:     g.LeaderName,
			Status:         g.Status,
		})
	}
	return out
}

// flexString accepts a JSON string or number; front-ends send Telegram and
// site IDs either way.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
