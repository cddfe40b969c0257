package mojang

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Lookup(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		wantUUID string
		wantName string
		wantNil  bool
		wantErr  bool
	}{
		{
			name:     "found",
			status:   http.StatusOK,
			body:     `{"id":"069a79f444e94726a5befca90e38aaf5","name":"Notch"}`,
			wantUUID: "069a79f444e94726a5befca90e38aaf5",
			wantName: "Notch",
		},
		{name: "no content means not found", status: http.StatusNoContent, wantNil: true},
		{name: "404 means not found", status: http.StatusNotFound, body: `{"errorMessage":"Couldn't find any profile"}`, wantNil: true},
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantErr: true},
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: true},
		{name: "malformed body", status: http.StatusOK, body: `{"id":`, wantErr: true},
		{name: "empty id", status: http.StatusOK, body: `{"name":"Notch"}`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			nopLogger := zerolog.Nop()
			c := NewClient(srv.URL, time.Second, &nopLogger)

			profile, err := c.Lookup(context.Background(), "Notch")

			assert.Equal(t, "/users/profiles/minecraft/Notch", gotPath)
			if tc.wantErr {
				assert.Error(t, err)
				assert.Nil(t, profile)
				return
			}
			require.NoError(t, err)
			if tc.wantNil {
				assert.Nil(t, profile)
				return
			}
			require.NotNil(t, profile)
			assert.Equal(t, tc.wantUUID, profile.UUID)
			assert.Equal(t, tc.wantName, profile.Username)
		})
	}
}

func TestClient_Lookup_EscapesUsername(t *testing.T) {
	var gotRawPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRawPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	nopLogger := zerolog.Nop()
	c := NewClient(srv.URL+"/", time.Second, &nopLogger)

	_, err := c.Lookup(context.Background(), "a/b c")

	require.NoError(t, err)
	assert.Equal(t, "/users/profiles/minecraft/a%2Fb%20c", gotRawPath)
}

func TestClient_Lookup_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	nopLogger := zerolog.Nop()
	c := NewClient(url, time.Second, &nopLogger)

	profile, err := c.Lookup(context.Background(), "Notch")

	assert.Error(t, err)
	assert.Nil(t, profile)
}
