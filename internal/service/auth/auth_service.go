package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pool-api/internal/domain"
	"pool-api/pkg/logger"
)

// DefaultTokenTTL is how long an issued access token stays valid
const DefaultTokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned for any token that fails verification
var ErrInvalidToken = errors.New("invalid or expired token")

type tokenClaims struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	jwt.RegisteredClaims
}

// Service issues and verifies HS256 access tokens
type Service struct {
	secret []byte
	ttl    time.Duration
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates a new auth service
func NewService(secret string, ttl time.Duration, logger *logger.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// IssueToken signs an access token whose subject is the user ID
func (s *Service) IssueToken(user *domain.User) (string, error) {
	if user == nil || user.ID == "" {
		return "", errors.New("cannot issue token without a user id")
	}

	now := s.now()
	claims := tokenClaims{
		Name: user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	if user.AvatarURL != nil {
		claims.AvatarURL = *user.AvatarURL
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates signature, algorithm and expiry and returns the claims
func (s *Service) VerifyToken(ctx context.Context, token string) (*domain.AuthClaims, error) {
	token = strings.TrimSpace(token)
	if !isJWTToken(token) {
		return nil, ErrInvalidToken
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		s.logger.WithError(err).Debug("Token verification failed")
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		s.logger.Debug("Token has no subject")
		return nil, ErrInvalidToken
	}

	out := &domain.AuthClaims{
		Sub:       claims.Subject,
		Name:      claims.Name,
		AvatarURL: claims.AvatarURL,
	}
	if claims.IssuedAt != nil {
		out.Iat = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		out.Exp = claims.ExpiresAt.Unix()
	}
	return out, nil
}

// isJWTToken checks the compact serialization shape: three dot separated segments
func isJWTToken(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
	}
	return true
}
