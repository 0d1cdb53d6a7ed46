package service

import (
	"context"
	"time"

	"pool-api/internal/domain"
)

// CodeGenerator produces candidate pool join codes. Uniqueness is enforced by the store.
type CodeGenerator interface {
	Generate() string
}

// TokenIssuer signs access tokens for signed-in users
type TokenIssuer interface {
	IssueToken(user *domain.User) (string, error)
}

// TokenVerifier validates access tokens and returns their claims
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*domain.AuthClaims, error)
}

// AuthService issues and verifies access tokens
type AuthService interface {
	TokenIssuer
	TokenVerifier
}

// GoogleProfileFetcher resolves a Google OAuth access token to the account profile
type GoogleProfileFetcher interface {
	FetchProfile(ctx context.Context, accessToken string) (*domain.GoogleProfile, error)
}

// Clock returns the current time. Guess cutoffs are evaluated against it.
type Clock func() time.Time
