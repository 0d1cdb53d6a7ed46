package service

import (
	"context"
	"errors"
	"fmt"

	"pool-api/internal/domain"
	"pool-api/internal/repository"
	"pool-api/pkg/logger"
	"pool-api/pkg/metrics"
)

// MembershipService admits users into pools by join code
type MembershipService struct {
	pools        repository.PoolRepository
	participants repository.ParticipantRepository
	metrics      *metrics.Recorder
	log          *logger.Logger
}

func NewMembershipService(pools repository.PoolRepository, participants repository.ParticipantRepository, recorder *metrics.Recorder, log *logger.Logger) *MembershipService {
	return &MembershipService{
		pools:        pools,
		participants: participants,
		metrics:      recorder,
		log:          log,
	}
}

// Join adds userID to the pool with the given code. If the pool has no owner
// the joining user becomes its owner.
func (s *MembershipService) Join(ctx context.Context, code, userID string) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}
	code = NormalizeCode(code)
	if code == "" {
		return fmt.Errorf("%w: code is required", domain.ErrInvalidInput)
	}

	log := s.log.WithFields(map[string]interface{}{"code": code, "user_id": userID})

	pool, err := s.pools.FindByCode(ctx, code)
	if err != nil {
		s.metrics.RecordJoin(metrics.OutcomeError)
		return fmt.Errorf("failed to find pool: %w", err)
	}
	if pool == nil {
		s.metrics.RecordJoin(metrics.OutcomeRejected)
		log.Debug("Join rejected: pool not found")
		return domain.ErrPoolNotFound
	}

	existing, err := s.participants.FindByUserAndPool(ctx, userID, pool.ID)
	if err != nil {
		s.metrics.RecordJoin(metrics.OutcomeError)
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		s.metrics.RecordJoin(metrics.OutcomeRejected)
		log.Debug("Join rejected: already a participant")
		return domain.ErrAlreadyJoined
	}

	claimed, err := s.participants.Join(ctx, &domain.Participant{UserID: userID, PollID: pool.ID})
	if errors.Is(err, repository.ErrAlreadyExists) {
		s.metrics.RecordJoin(metrics.OutcomeRejected)
		log.Debug("Join rejected: lost race to concurrent join")
		return domain.ErrAlreadyJoined
	}
	if err != nil {
		s.metrics.RecordJoin(metrics.OutcomeError)
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return fmt.Errorf("%w: unknown user", domain.ErrUnauthorized)
		}
		return fmt.Errorf("failed to join pool: %w", err)
	}

	s.metrics.RecordJoin(metrics.OutcomeOK)
	log.WithFields(map[string]interface{}{
		"pool_id":           pool.ID,
		"claimed_ownership": claimed,
	}).Info("User joined pool")

	return nil
}
