package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pool-api/internal/domain"
	"pool-api/internal/repository"
	"pool-api/pkg/logger"
	"pool-api/pkg/metrics"
)

// GuessService records score guesses from pool participants
type GuessService struct {
	participants repository.ParticipantRepository
	games        repository.GameRepository
	guesses      repository.GuessRepository
	cache        *CacheService
	metrics      *metrics.Recorder
	log          *logger.Logger
	now          Clock
}

func NewGuessService(participants repository.ParticipantRepository, games repository.GameRepository, guesses repository.GuessRepository, cache *CacheService, recorder *metrics.Recorder, log *logger.Logger, clock Clock) *GuessService {
	if clock == nil {
		clock = time.Now
	}
	return &GuessService{
		participants: participants,
		games:        games,
		guesses:      guesses,
		cache:        cache,
		metrics:      recorder,
		log:          log,
		now:          clock,
	}
}

// Submit records userID's guess for gameID within pollID.
//
// Checks run in this order: input, membership, game existence, kickoff, then
// duplicate. A started game is reported as started even when the user has
// already guessed it.
func (s *GuessService) Submit(ctx context.Context, userID, pollID, gameID string, req domain.SubmitGuessRequest) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}
	if req.FirstTeamPoints == nil || req.SecondTeamPoints == nil {
		return fmt.Errorf("%w: firstTeamPoints and secondTeamPoints are required", domain.ErrInvalidInput)
	}
	if !domain.ValidScore(*req.FirstTeamPoints) || !domain.ValidScore(*req.SecondTeamPoints) {
		return fmt.Errorf("%w: scores must be between %d and %d", domain.ErrInvalidInput, domain.MinScore, domain.MaxScore)
	}

	log := s.log.WithFields(map[string]interface{}{
		"user_id": userID,
		"pool_id": pollID,
		"game_id": gameID,
	})

	participant, err := s.participants.FindByUserAndPool(ctx, userID, pollID)
	if err != nil {
		return s.fail(fmt.Errorf("failed to get participant: %w", err))
	}
	if participant == nil {
		return s.reject(log, domain.ErrParticipantNotFound)
	}

	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return s.fail(fmt.Errorf("failed to get game: %w", err))
	}
	if game == nil {
		return s.reject(log, domain.ErrGameNotFound)
	}
	if game.HasStarted(s.now()) {
		return s.reject(log, domain.ErrGameAlreadyStarted)
	}

	existing, err := s.guesses.FindByParticipantAndGame(ctx, participant.ID, game.ID)
	if err != nil {
		return s.fail(fmt.Errorf("failed to check existing guess: %w", err))
	}
	if existing != nil {
		return s.reject(log, domain.ErrDuplicateGuess)
	}

	guess := &domain.Guess{
		ParticipantID:    participant.ID,
		GameID:           game.ID,
		FirstTeamPoints:  *req.FirstTeamPoints,
		SecondTeamPoints: *req.SecondTeamPoints,
	}
	err = s.guesses.Create(ctx, guess)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return s.reject(log, domain.ErrDuplicateGuess)
	}
	if err != nil {
		return s.fail(fmt.Errorf("failed to create guess: %w", err))
	}

	s.cache.Invalidate(ctx, CountGuesses)
	s.metrics.RecordGuess(metrics.OutcomeOK)
	log.WithField("guess_id", guess.ID).Info("Guess submitted")

	return nil
}

// Count returns the total number of guesses
func (s *GuessService) Count(ctx context.Context) (int64, error) {
	return s.cache.Count(ctx, CountGuesses, s.guesses.Count)
}

func (s *GuessService) reject(log *logger.Logger, err error) error {
	s.metrics.RecordGuess(metrics.OutcomeRejected)
	log.WithError(err).Debug("Guess rejected")
	return err
}

func (s *GuessService) fail(err error) error {
	s.metrics.RecordGuess(metrics.OutcomeError)
	return err
}
