package service

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"pool-api/internal/domain"
	"pool-api/pkg/logger"
	"pool-api/pkg/redis"
)

// Rate limiting defaults for write endpoints
const (
	DefaultRateLimitWindow   = time.Hour
	DefaultRateLimitRequests = 30
)

// RateLimiter counts writes per client IP in fixed Redis windows. Without
// Redis every request is allowed.
type RateLimiter struct {
	redisClient *redis.Client
	logger      *logger.Logger
	limit       int64
	window      time.Duration
}

// NewRateLimiter creates a limiter allowing limit requests per window
func NewRateLimiter(redisClient *redis.Client, logger *logger.Logger, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = DefaultRateLimitRequests
	}
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	return &RateLimiter{
		redisClient: redisClient,
		logger:      logger,
		limit:       int64(limit),
		window:      window,
	}
}

// Allow records one request from ipAddress in scope and reports whether it fits the window
func (l *RateLimiter) Allow(ctx context.Context, scope, ipAddress string) (*domain.RateLimitInfo, error) {
	if l == nil {
		return &domain.RateLimitInfo{Scope: scope, IsAllowed: true}, nil
	}
	info := &domain.RateLimitInfo{
		Scope:     scope,
		Limit:     l.limit,
		ResetIn:   l.window,
		IsAllowed: true,
	}
	if l.redisClient == nil {
		return info, nil
	}

	key := l.redisClient.KeyBuilder.KeyRateLimit(scope, l.createIPHash(ipAddress))
	count, err := l.redisClient.IncrWindow(ctx, key, l.window)
	if err != nil {
		return nil, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	info.RequestCount = count
	info.IsAllowed = count <= l.limit

	if !info.IsAllowed {
		if ttl, err := l.redisClient.TTL(ctx, key); err == nil && ttl > 0 {
			info.ResetIn = ttl
		}
		l.logger.WithFields(map[string]interface{}{
			"scope":         scope,
			"request_count": count,
		}).Warn("Rate limit exceeded")
	}
	return info, nil
}

// createIPHash keeps raw client addresses out of Redis
func (l *RateLimiter) createIPHash(ipAddress string) string {
	hash := sha256.Sum256([]byte("ratelimit:" + ipAddress))
	return fmt.Sprintf("%x", hash[:12])
}
