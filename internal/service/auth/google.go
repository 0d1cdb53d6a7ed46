package auth

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"pool-api/internal/domain"
	apperrors "pool-api/pkg/errors"
	"pool-api/pkg/logger"
)

// GoogleClient resolves Google OAuth access tokens to account profiles
type GoogleClient struct {
	clientID string
	logger   *logger.Logger
	opts     []option.ClientOption
}

// NewGoogleClient creates a client. When clientID is set, tokens issued to any
// other OAuth client are rejected. Extra options are appended to every API call.
func NewGoogleClient(clientID string, logger *logger.Logger, opts ...option.ClientOption) *GoogleClient {
	return &GoogleClient{
		clientID: clientID,
		logger:   logger,
		opts:     opts,
	}
}

// FetchProfile loads the userinfo of the account that owns accessToken
func (c *GoogleClient) FetchProfile(ctx context.Context, accessToken string) (*domain.GoogleProfile, error) {
	token := &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	opts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, c.opts...)
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		c.logger.WithError(err).Error("Failed to create Google OAuth2 service")
		return nil, apperrors.NewInternalError("Failed to initialize Google client", err)
	}

	if c.clientID != "" {
		info, err := svc.Tokeninfo().AccessToken(accessToken).Context(ctx).Do()
		if err != nil {
			return nil, c.mapError(err, "Failed to inspect Google token")
		}
		if info.Audience != c.clientID && info.IssuedTo != c.clientID {
			c.logger.WithField("audience", info.Audience).Warn("Google token issued to a different client")
			return nil, apperrors.NewAuthenticationError("Google token was not issued for this application")
		}
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, c.mapError(err, "Failed to fetch Google profile")
	}
	if info.Id == "" {
		return nil, apperrors.NewAuthenticationError("Google profile has no account id")
	}

	c.logger.WithField("google_id", info.Id).Debug("Fetched Google profile")
	return &domain.GoogleProfile{
		ID:      info.Id,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}

func (c *GoogleClient) mapError(err error, message string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusBadRequest) {
		c.logger.WithError(err).Debug("Google rejected access token")
		return apperrors.NewAuthenticationError("Invalid Google access token")
	}
	c.logger.WithError(err).Error(message)
	return apperrors.NewExternalError(message, err)
}
