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

// participantRepository implements ParticipantRepository with PostgreSQL
type participantRepository struct {
	db *database.PostgresDB
}

func NewParticipantRepository(db *database.PostgresDB) ParticipantRepository {
	return &participantRepository{db: db}
}

// FindByUserAndPool retrieves the membership of a user in a pool
func (r *participantRepository) FindByUserAndPool(ctx context.Context, userID, pollID string) (*domain.Participant, error) {
	var p domain.Participant
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, user_id, poll_id, created_at
		FROM participants
		WHERE user_id = $1 AND poll_id = $2
	`, userID, pollID).Scan(&p.ID, &p.UserID, &p.PollID, &p.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	return &p, nil
}

// Join inserts the participant and claims ownership of an ownerless pool in
// one transaction. The owner update only matches while owner_id is NULL, so
// concurrent first joiners cannot both become owner.
func (r *participantRepository) Join(ctx context.Context, participant *domain.Participant) (bool, error) {
	if participant.ID == "" {
		participant.ID = uuid.NewString()
	}

	var claimed bool
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO participants (id, user_id, poll_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, poll_id) DO NOTHING
			RETURNING created_at
		`, participant.ID, participant.UserID, participant.PollID).Scan(&participant.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAlreadyExists
		}
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `
			UPDATE pools SET owner_id = $1
			WHERE id = $2 AND owner_id IS NULL
		`, participant.UserID, participant.PollID)
		if err != nil {
			return err
		}
		claimed = tag.RowsAffected() == 1
		return nil
	})

	if errors.Is(err, ErrAlreadyExists) {
		return false, ErrAlreadyExists
	}
	if err != nil {
		err = mapPgError(err)
		if violates(err, constraintParticipantUser) {
			return false, ErrAlreadyExists
		}
		return false, fmt.Errorf("failed to join pool: %w", err)
	}

	return claimed, nil
}
