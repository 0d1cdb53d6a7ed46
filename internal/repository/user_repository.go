package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"pool-api/internal/domain"
	"pool-api/pkg/database"
)

type userRepository struct {
	db *database.PostgresDB
}

func NewUserRepository(db *database.PostgresDB) UserRepository {
	return &userRepository{db: db}
}

// UpsertByGoogleID creates the user on first sign-in and refreshes profile fields afterwards
func (r *userRepository) UpsertByGoogleID(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, google_id, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (google_id) DO UPDATE
		SET name = EXCLUDED.name, avatar_url = EXCLUDED.avatar_url
		RETURNING id, created_at
	`, user.ID, user.Name, user.Email, user.GoogleID, user.AvatarURL).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", mapPgError(err))
	}

	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
