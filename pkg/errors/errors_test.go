package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
		typ    ErrorType
	}{
		{"validation", NewValidationError("bad", nil), http.StatusBadRequest, ErrorTypeValidation},
		{"authentication", NewAuthenticationError("who"), http.StatusUnauthorized, ErrorTypeAuthentication},
		{"authorization", NewAuthorizationError("no"), http.StatusForbidden, ErrorTypeAuthorization},
		{"not found", NewNotFoundError("gone"), http.StatusNotFound, ErrorTypeNotFound},
		{"conflict", NewConflictError("twice"), http.StatusConflict, ErrorTypeConflict},
		{"unavailable", NewUnavailableError("busy", nil), http.StatusServiceUnavailable, ErrorTypeUnavailable},
		{"rate limit", NewRateLimitError("slow down", nil), http.StatusTooManyRequests, ErrorTypeRateLimit},
		{"internal", NewInternalError("oops", nil), http.StatusInternalServerError, ErrorTypeInternal},
		{"external", NewExternalError("google", nil), http.StatusBadGateway, ErrorTypeExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.typ, tt.err.Type)
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewInternalError("Internal server error", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "not_found: Pool not found", NewNotFoundError("Pool not found").Error())
}

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, NewConflictError("User already joined this pool"), "req-1")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrorTypeConflict, body.Error.Type)
	assert.Equal(t, "User already joined this pool", body.Error.Message)
	assert.Equal(t, "req-1", body.Error.RequestID)
	assert.NotEmpty(t, body.Error.Timestamp)
}
