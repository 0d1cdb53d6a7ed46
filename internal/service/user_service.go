package service

import (
	"context"
	"fmt"
	"strings"

	"pool-api/internal/domain"
	"pool-api/internal/repository"
	"pool-api/pkg/logger"
)

// UserService signs users in with Google and exposes the user count
type UserService struct {
	users  repository.UserRepository
	google GoogleProfileFetcher
	tokens TokenIssuer
	cache  *CacheService
	log    *logger.Logger
}

func NewUserService(users repository.UserRepository, google GoogleProfileFetcher, tokens TokenIssuer, cache *CacheService, log *logger.Logger) *UserService {
	return &UserService{
		users:  users,
		google: google,
		tokens: tokens,
		cache:  cache,
		log:    log,
	}
}

// SignInWithGoogle exchanges a Google access token for one of our access tokens,
// creating the user on first sign-in
func (s *UserService) SignInWithGoogle(ctx context.Context, accessToken string) (string, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return "", fmt.Errorf("%w: access_token is required", domain.ErrInvalidInput)
	}

	profile, err := s.google.FetchProfile(ctx, accessToken)
	if err != nil {
		return "", err
	}

	user := &domain.User{
		Name:     profile.Name,
		Email:    profile.Email,
		GoogleID: &profile.ID,
	}
	if profile.Picture != "" {
		user.AvatarURL = &profile.Picture
	}

	if err := s.users.UpsertByGoogleID(ctx, user); err != nil {
		return "", fmt.Errorf("failed to save user: %w", err)
	}
	s.cache.Invalidate(ctx, CountUsers)

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.log.WithField("user_id", user.ID).Info("User signed in")
	return token, nil
}

// Count returns the total number of users
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.cache.Count(ctx, CountUsers, s.users.Count)
}
