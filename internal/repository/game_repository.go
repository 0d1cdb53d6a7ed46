package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"pool-api/internal/domain"
	"pool-api/pkg/database"
)

type gameRepository struct {
	db *database.PostgresDB
}

func NewGameRepository(db *database.PostgresDB) GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) FindByID(ctx context.Context, id string) (*domain.Game, error) {
	var g domain.Game
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, date, first_team_country_code, second_team_country_code
		FROM games
		WHERE id = $1
	`, id).Scan(&g.ID, &g.Date, &g.FirstTeamCountryCode, &g.SecondTeamCountryCode)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return &g, nil
}

// ListForPool returns all games by date, each joined with the user's guess in the pool
func (r *gameRepository) ListForPool(ctx context.Context, pollID, userID string) ([]domain.GameWithGuess, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT g.id, g.date, g.first_team_country_code, g.second_team_country_code,
		       gs.id, gs.participant_id, gs.first_team_points, gs.second_team_points, gs.created_at
		FROM games g
		LEFT JOIN participants pa ON pa.poll_id = $1 AND pa.user_id = $2
		LEFT JOIN guesses gs ON gs.game_id = g.id AND gs.participant_id = pa.id
		ORDER BY g.date, g.id
	`, pollID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	games, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.GameWithGuess, error) {
		var g domain.GameWithGuess
		var (
			guessID       *string
			participantID *string
			first, second *int
			createdAt     *time.Time
		)
		err := row.Scan(&g.ID, &g.Date, &g.FirstTeamCountryCode, &g.SecondTeamCountryCode,
			&guessID, &participantID, &first, &second, &createdAt)
		if err != nil {
			return g, err
		}
		if guessID != nil {
			g.Guess = &domain.Guess{
				ID:               *guessID,
				ParticipantID:    *participantID,
				GameID:           g.ID,
				FirstTeamPoints:  *first,
				SecondTeamPoints: *second,
				CreatedAt:        *createdAt,
			}
		}
		return g, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return games, nil
}
