package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	apperrors "pool-api/pkg/errors"
	"pool-api/pkg/logger"
)

type googleStub struct {
	mu         sync.Mutex
	audience   string
	userinfo   map[string]interface{}
	status     int
	authHeader string
	tokeninfo  int
}

func (g *googleStub) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		g.authHeader = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		if g.status != 0 {
			w.WriteHeader(g.status)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{"code": g.status, "message": "rejected"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(g.userinfo)
	})
	mux.HandleFunc("/oauth2/v2/tokeninfo", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		g.tokeninfo++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"audience":  g.audience,
			"issued_to": g.audience,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func (g *googleStub) seen() (authHeader string, tokeninfoCalls int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.authHeader, g.tokeninfo
}

func newStubClient(t *testing.T, stub *googleStub, clientID string) *GoogleClient {
	srv := stub.server(t)
	return NewGoogleClient(clientID, logger.NewNop(), option.WithEndpoint(srv.URL+"/"))
}

func TestGoogleClient_FetchProfile(t *testing.T) {
	stub := &googleStub{
		userinfo: map[string]interface{}{
			"id":      "g-123",
			"email":   "ana@example.com",
			"name":    "Ana",
			"picture": "https://img.example.com/ana.png",
		},
	}
	client := newStubClient(t, stub, "")

	profile, err := client.FetchProfile(context.Background(), "ya29.token")
	require.NoError(t, err)
	assert.Equal(t, "g-123", profile.ID)
	assert.Equal(t, "ana@example.com", profile.Email)
	assert.Equal(t, "Ana", profile.Name)
	assert.Equal(t, "https://img.example.com/ana.png", profile.Picture)
	authHeader, tokeninfoCalls := stub.seen()
	assert.Equal(t, "Bearer ya29.token", authHeader)
	assert.Zero(t, tokeninfoCalls, "audience is not checked without a client id")
}

func TestGoogleClient_ChecksAudience(t *testing.T) {
	stub := &googleStub{
		audience: "other-app.apps.googleusercontent.com",
		userinfo: map[string]interface{}{"id": "g-123", "name": "Ana"},
	}
	client := newStubClient(t, stub, "pool-app.apps.googleusercontent.com")

	_, err := client.FetchProfile(context.Background(), "ya29.token")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeAuthentication, appErr.Type)
	authHeader, tokeninfoCalls := stub.seen()
	assert.Equal(t, 1, tokeninfoCalls)
	assert.Empty(t, authHeader, "userinfo is not fetched for a foreign token")

	stub.mu.Lock()
	stub.audience = "pool-app.apps.googleusercontent.com"
	stub.mu.Unlock()
	profile, err := client.FetchProfile(context.Background(), "ya29.token")
	require.NoError(t, err)
	assert.Equal(t, "g-123", profile.ID)
}

func TestGoogleClient_Errors(t *testing.T) {
	tests := []struct {
		name     string
		stub     *googleStub
		wantType apperrors.ErrorType
	}{
		{"rejected token", &googleStub{status: http.StatusUnauthorized}, apperrors.ErrorTypeAuthentication},
		{"upstream failure", &googleStub{status: http.StatusInternalServerError}, apperrors.ErrorTypeExternal},
		{"missing account id", &googleStub{userinfo: map[string]interface{}{"name": "Ana"}}, apperrors.ErrorTypeAuthentication},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newStubClient(t, tt.stub, "")
			_, err := client.FetchProfile(context.Background(), "ya29.token")

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantType, appErr.Type)
		})
	}
}
