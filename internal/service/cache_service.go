package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"pool-api/pkg/redis"
)

// CountKind names a cached aggregate
type CountKind string

const (
	CountPools   CountKind = "pools"
	CountGuesses CountKind = "guesses"
	CountUsers   CountKind = "users"
)

// CacheService caches aggregate counts in Redis with a cache-aside pattern.
// A nil *CacheService, or one without a client, always reads through.
type CacheService struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewCacheService creates a new cache service
func NewCacheService(redisClient *redis.Client, logger *zap.Logger) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{
		redis:  redisClient,
		logger: logger,
	}
}

func (c *CacheService) enabled() bool {
	return c != nil && c.redis != nil
}

func (c *CacheService) key(kind CountKind) string {
	switch kind {
	case CountPools:
		return c.redis.KeyBuilder.KeyPoolsCount()
	case CountGuesses:
		return c.redis.KeyBuilder.KeyGuessesCount()
	case CountUsers:
		return c.redis.KeyBuilder.KeyUsersCount()
	}
	return c.redis.KeyBuilder.BuildKey("counts:" + string(kind))
}

// Count returns the cached count for kind, loading and caching it on a miss.
// Cache errors are logged and fall back to load.
func (c *CacheService) Count(ctx context.Context, kind CountKind, load func(ctx context.Context) (int64, error)) (int64, error) {
	if !c.enabled() {
		return load(ctx)
	}

	cacheKey := c.key(kind)

	cached, err := c.redis.Get(ctx, cacheKey)
	switch {
	case err == nil:
		n, parseErr := strconv.ParseInt(cached, 10, 64)
		if parseErr == nil {
			c.logger.Debug("Count cache hit", zap.String("kind", string(kind)))
			return n, nil
		}
		c.logger.Warn("Count cache corrupted, falling back to database",
			zap.String("kind", string(kind)),
			zap.Error(parseErr))
	case errors.Is(err, redis.ErrCacheMiss):
		c.logger.Debug("Count cache miss", zap.String("kind", string(kind)))
	default:
		c.logger.Warn("Count cache error, falling back to database",
			zap.String("kind", string(kind)),
			zap.Error(err))
	}

	n, err := load(ctx)
	if err != nil {
		return 0, fmt.Errorf("database fallback failed: %w", err)
	}

	if err := c.redis.Set(ctx, cacheKey, n, redis.TTLCounts); err != nil {
		c.logger.Warn("Failed to cache count", zap.String("kind", string(kind)), zap.Error(err))
	}

	return n, nil
}

// Invalidate drops cached counts after a write changes them
func (c *CacheService) Invalidate(ctx context.Context, kinds ...CountKind) {
	if !c.enabled() || len(kinds) == 0 {
		return
	}

	keys := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		keys = append(keys, c.key(kind))
	}

	if err := c.redis.Delete(ctx, keys...); err != nil {
		c.logger.Error("Failed to invalidate count cache",
			zap.Strings("keys", keys),
			zap.Error(err))
	}
}
