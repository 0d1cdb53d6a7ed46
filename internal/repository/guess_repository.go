package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pool-api/internal/domain"
	"pool-api/pkg/database"
)

// guessRepository implements GuessRepository with PostgreSQL
type guessRepository struct {
	db *database.PostgresDB
}

func NewGuessRepository(db *database.PostgresDB) GuessRepository {
	return &guessRepository{db: db}
}

func (r *guessRepository) FindByParticipantAndGame(ctx context.Context, participantID, gameID string) (*domain.Guess, error) {
	var g domain.Guess
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, participant_id, game_id, first_team_points, second_team_points, created_at
		FROM guesses
		WHERE participant_id = $1 AND game_id = $2
	`, participantID, gameID).Scan(&g.ID, &g.ParticipantID, &g.GameID, &g.FirstTeamPoints, &g.SecondTeamPoints, &g.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guess: %w", err)
	}

	return &g, nil
}

// Create inserts the guess; an existing guess for the same game is never overwritten
func (r *guessRepository) Create(ctx context.Context, guess *domain.Guess) error {
	if guess.ID == "" {
		guess.ID = uuid.NewString()
	}

	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO guesses (id, participant_id, game_id, first_team_points, second_team_points)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (participant_id, game_id) DO NOTHING
		RETURNING created_at
	`, guess.ID, guess.ParticipantID, guess.GameID, guess.FirstTeamPoints, guess.SecondTeamPoints).Scan(&guess.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAlreadyExists
	}
	if err != nil {
		err = mapPgError(err)
		if violates(err, constraintGuessPerGame) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create guess: %w", err)
	}

	return nil
}

func (r *guessRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM guesses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count guesses: %w", err)
	}
	return count, nil
}
