package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pool-api/internal/domain"
	"pool-api/internal/repository"
	"pool-api/pkg/logger"
	"pool-api/pkg/metrics"
)

// DefaultCodeAttempts bounds code regeneration when a generated code is taken
const DefaultCodeAttempts = 5

// PollService creates pools and serves pool listings and counts
type PollService struct {
	pools           repository.PoolRepository
	codes           CodeGenerator
	cache           *CacheService
	metrics         *metrics.Recorder
	log             *logger.Logger
	maxCodeAttempts int
}

func NewPollService(pools repository.PoolRepository, codes CodeGenerator, cache *CacheService, recorder *metrics.Recorder, log *logger.Logger, maxCodeAttempts int) *PollService {
	if maxCodeAttempts <= 0 {
		maxCodeAttempts = DefaultCodeAttempts
	}
	return &PollService{
		pools:           pools,
		codes:           codes,
		cache:           cache,
		metrics:         recorder,
		log:             log,
		maxCodeAttempts: maxCodeAttempts,
	}
}

// Create creates a pool owned by ownerID, with ownerID as its first participant
func (s *PollService) Create(ctx context.Context, title, ownerID string) (string, error) {
	if ownerID == "" {
		return "", domain.ErrUnauthorized
	}
	return s.create(ctx, title, &ownerID)
}

// CreateAnonymous creates a pool with no owner and no participants. The first
// user to join it becomes its owner.
func (s *PollService) CreateAnonymous(ctx context.Context, title string) (string, error) {
	return s.create(ctx, title, nil)
}

func (s *PollService) create(ctx context.Context, title string, ownerID *string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	kind := "anonymous"
	if ownerID != nil {
		kind = "owned"
	}

	for attempt := 1; attempt <= s.maxCodeAttempts; attempt++ {
		pool := &domain.Pool{
			Title:   title,
			Code:    s.codes.Generate(),
			OwnerID: ownerID,
		}

		err := s.pools.Create(ctx, pool)
		if errors.Is(err, repository.ErrDuplicateCode) {
			s.metrics.RecordCodeCollision()
			s.log.WithField("attempt", attempt).Debug("Pool code collision, regenerating")
			continue
		}
		if err != nil {
			if ownerID != nil && errors.Is(err, repository.ErrForeignKeyViolation) {
				return "", fmt.Errorf("%w: unknown user", domain.ErrUnauthorized)
			}
			return "", fmt.Errorf("failed to create pool: %w", err)
		}

		s.cache.Invalidate(ctx, CountPools)
		s.metrics.RecordPoolCreated(kind)
		s.log.WithFields(map[string]interface{}{
			"pool_id": pool.ID,
			"code":    pool.Code,
			"kind":    kind,
		}).Info("Pool created")

		return pool.Code, nil
	}

	s.log.WithField("attempts", s.maxCodeAttempts).Error("Exhausted pool code attempts")
	return "", domain.ErrCodeSpaceExhausted
}

// Count returns the total number of pools
func (s *PollService) Count(ctx context.Context) (int64, error) {
	return s.cache.Count(ctx, CountPools, s.pools.Count)
}

// ListForUser returns the pools userID participates in
func (s *PollService) ListForUser(ctx context.Context, userID string) ([]domain.PoolSummary, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	pools, err := s.pools.ListSummariesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}
	if pools == nil {
		pools = []domain.PoolSummary{}
	}

	return pools, nil
}

// GetByID returns a pool summary. Any signed-in user may read any pool.
func (s *PollService) GetByID(ctx context.Context, id, userID string) (*domain.PoolSummary, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	pool, err := s.pools.FindSummaryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}
	if pool == nil {
		return nil, domain.ErrPoolNotFound
	}

	return pool, nil
}
