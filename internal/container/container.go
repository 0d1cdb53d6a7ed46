package container

import (
	"context"
	"fmt"
	"net/http"

	"pool-api/internal/config"
	"pool-api/internal/repository"
	"pool-api/internal/service"
	"pool-api/internal/service/auth"
	"pool-api/pkg/database"
	"pool-api/pkg/logger"
	"pool-api/pkg/metrics"
	"pool-api/pkg/redis"
)

// Services groups the application services built by the container
type Services struct {
	Polls       *service.PollService
	Memberships *service.MembershipService
	Games       *service.GameService
	Guesses     *service.GuessService
	Users       *service.UserService
	Auth        service.AuthService
	RateLimiter *service.RateLimiter
}

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              *database.PostgresDB
	RedisClient     *redis.Client
	Recorder        *metrics.Recorder
	MetricsHandler  http.Handler
	Repositories    *repository.Repositories
	Services        *Services
	metricsShutdown func(context.Context) error
}

// New creates a new dependency injection container. db may be nil in tests;
// Redis is optional and its failure only disables caching.
func New(ctx context.Context, cfg *config.Config, logger *logger.Logger, db *database.PostgresDB) (*Container, error) {
	// Initialize Redis client if Redis URL is configured
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, logger.Logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			logger.Info("Redis client initialized successfully")
		}
	} else {
		logger.Info("Redis URL not configured, proceeding without caching")
	}

	recorder, metricsHandler, shutdown, err := metrics.Setup(ctx, metrics.TelemetryConfig{
		Enabled:     cfg.MetricsEnabled,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}

	repos := &repository.Repositories{
		Pools:        repository.NewPoolRepository(db),
		Participants: repository.NewParticipantRepository(db),
		Games:        repository.NewGameRepository(db),
		Guesses:      repository.NewGuessRepository(db),
		Users:        repository.NewUserRepository(db),
	}

	cache := service.NewCacheService(redisClient, logger.Logger)
	authService := auth.NewService(cfg.JWTSecret, cfg.JWTTTL, logger)
	googleClient := auth.NewGoogleClient(cfg.GoogleClientID, logger)

	services := &Services{
		Polls:       service.NewPollService(repos.Pools, service.NewCodeGenerator(), cache, recorder, logger, cfg.CodeMaxAttempts),
		Memberships: service.NewMembershipService(repos.Pools, repos.Participants, recorder, logger),
		Games:       service.NewGameService(repos.Games),
		Guesses:     service.NewGuessService(repos.Participants, repos.Games, repos.Guesses, cache, recorder, logger, nil),
		Users:       service.NewUserService(repos.Users, googleClient, authService, cache, logger),
		Auth:        authService,
		RateLimiter: service.NewRateLimiter(redisClient, logger, cfg.RateLimitRequests, cfg.RateLimitWindow),
	}

	return &Container{
		Config:          cfg,
		Logger:          logger,
		DB:              db,
		RedisClient:     redisClient,
		Recorder:        recorder,
		MetricsHandler:  metricsHandler,
		Repositories:    repos,
		Services:        services,
		metricsShutdown: shutdown,
	}, nil
}

// GetAuthService returns the auth service
func (c *Container) GetAuthService() service.AuthService {
	return c.Services.Auth
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetRedisClient returns the Redis client (may be nil if not configured)
func (c *Container) GetRedisClient() *redis.Client {
	return c.RedisClient
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}

// ShutdownMetrics flushes and stops the meter provider
func (c *Container) ShutdownMetrics(ctx context.Context) error {
	if c.metricsShutdown == nil {
		return nil
	}
	return c.metricsShutdown(ctx)
}
