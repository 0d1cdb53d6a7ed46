package middleware

import (
	"context"
	"net/http"
	"strings"

	"pool-api/internal/domain"
	"pool-api/internal/service"
	"pool-api/pkg/errors"
	"pool-api/pkg/logger"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// UserContextKey is the key for the verified *domain.AuthClaims in context
	UserContextKey ContextKey = "user"
	// RequestIDContextKey is the key for request ID in context
	RequestIDContextKey ContextKey = "request_id"
)

// Auth rejects requests without a valid bearer token
func Auth(verifier service.TokenVerifier, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, appErr := bearerToken(r)
			if appErr == nil && token == "" {
				appErr = errors.NewAuthenticationError("Authorization header is required")
			}
			if appErr != nil {
				writeErrorResponse(w, r, appErr, logger)
				return
			}

			ctx := r.Context()
			claims, err := verifier.VerifyToken(ctx, token)
			if err != nil {
				logger.WithError(err).Debug("Token validation failed")
				writeErrorResponse(w, r, errors.NewAuthenticationError("Invalid or expired token"), logger)
				return
			}

			logger.WithField("user_id", claims.Sub).Debug("User authenticated successfully")
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, UserContextKey, claims)))
		})
	}
}

// OptionalAuth attaches the caller's identity when a valid token is present.
// Requests without a token, or with one that fails verification, continue anonymously.
func OptionalAuth(verifier service.TokenVerifier, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, appErr := bearerToken(r)
			if appErr != nil || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			claims, err := verifier.VerifyToken(ctx, token)
			if err != nil {
				logger.WithError(err).Warn("Ignoring invalid token on optional auth route")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, UserContextKey, claims)))
		})
	}
}

// ClaimsFromContext returns the verified claims, or nil for anonymous requests
func ClaimsFromContext(ctx context.Context) *domain.AuthClaims {
	claims, _ := ctx.Value(UserContextKey).(*domain.AuthClaims)
	return claims
}

// UserIDFromContext returns the authenticated user ID, or "" for anonymous requests
func UserIDFromContext(ctx context.Context) string {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.Sub
	}
	return ""
}

// bearerToken extracts the token from the Authorization header. A missing header
// yields an empty token and no error.
func bearerToken(r *http.Request) (string, *errors.AppError) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", nil
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.NewAuthenticationError("Invalid authorization header format")
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", errors.NewAuthenticationError("Token is required")
	}
	return token, nil
}
