package service

import (
	"context"
	"fmt"

	"pool-api/internal/domain"
	"pool-api/internal/repository"
)

// GameService lists games alongside the caller's guesses
type GameService struct {
	games repository.GameRepository
}

func NewGameService(games repository.GameRepository) *GameService {
	return &GameService{games: games}
}

// ListForPool returns every game with userID's guess in pollID, or a nil guess
func (s *GameService) ListForPool(ctx context.Context, pollID, userID string) ([]domain.GameWithGuess, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	games, err := s.games.ListForPool(ctx, pollID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	if games == nil {
		games = []domain.GameWithGuess{}
	}

	return games, nil
}
