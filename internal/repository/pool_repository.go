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

// poolRepository implements PoolRepository with PostgreSQL
type poolRepository struct {
	db *database.PostgresDB
}

func NewPoolRepository(db *database.PostgresDB) PoolRepository {
	return &poolRepository{db: db}
}

// Create inserts a pool and, for owned pools, the owner's participant row
func (r *poolRepository) Create(ctx context.Context, pool *domain.Pool) error {
	if pool.ID == "" {
		pool.ID = uuid.NewString()
	}

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO pools (id, title, code, owner_id)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at
		`, pool.ID, pool.Title, pool.Code, pool.OwnerID).Scan(&pool.CreatedAt)
		if err != nil {
			return err
		}

		if !pool.HasOwner() {
			return nil
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO participants (id, user_id, poll_id, created_at)
			VALUES ($1, $2, $3, $4)
		`, uuid.NewString(), *pool.OwnerID, pool.ID, pool.CreatedAt)
		return err
	})
	if err != nil {
		err = mapPgError(err)
		if violates(err, constraintPoolCode) {
			return ErrDuplicateCode
		}
		return fmt.Errorf("failed to create pool: %w", err)
	}

	return nil
}

// FindByCode retrieves a pool by its join code
func (r *poolRepository) FindByCode(ctx context.Context, code string) (*domain.Pool, error) {
	var pool domain.Pool
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, title, code, owner_id, created_at
		FROM pools
		WHERE code = $1
	`, code).Scan(&pool.ID, &pool.Title, &pool.Code, &pool.OwnerID, &pool.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pool by code: %w", err)
	}

	return &pool, nil
}

const poolSummarySelect = `
	SELECT p.id, p.title, p.code, p.owner_id, p.created_at, o.name,
	       (SELECT COUNT(*) FROM participants c WHERE c.poll_id = p.id)
	FROM pools p
	LEFT JOIN users o ON o.id = p.owner_id
`

// FindSummaryByID retrieves a pool with its owner and participant previews
func (r *poolRepository) FindSummaryByID(ctx context.Context, id string) (*domain.PoolSummary, error) {
	rows, err := r.db.Pool.Query(ctx, poolSummarySelect+` WHERE p.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}

	summaries, err := r.collectSummaries(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}
	if len(summaries) == 0 {
		return nil, nil
	}

	return &summaries[0], nil
}

// ListSummariesForUser returns the pools the user participates in, oldest first
func (r *poolRepository) ListSummariesForUser(ctx context.Context, userID string) ([]domain.PoolSummary, error) {
	rows, err := r.db.Pool.Query(ctx, poolSummarySelect+`
		WHERE EXISTS (
			SELECT 1 FROM participants m WHERE m.poll_id = p.id AND m.user_id = $1
		)
		ORDER BY p.created_at, p.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}

	summaries, err := r.collectSummaries(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}

	return summaries, nil
}

// Count returns the number of pools
func (r *poolRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM pools`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pools: %w", err)
	}
	return count, nil
}

func (r *poolRepository) collectSummaries(ctx context.Context, rows pgx.Rows) ([]domain.PoolSummary, error) {
	summaries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PoolSummary, error) {
		var s domain.PoolSummary
		var ownerName *string
		err := row.Scan(&s.ID, &s.Title, &s.Code, &s.OwnerID, &s.CreatedAt, &ownerName, &s.ParticipantCount)
		if err != nil {
			return s, err
		}
		if s.HasOwner() {
			s.Owner = &domain.PoolOwner{ID: *s.OwnerID}
			if ownerName != nil {
				s.Owner.Name = *ownerName
			}
		}
		s.Participants = []domain.ParticipantPreview{}
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return summaries, nil
	}

	ids := make([]string, len(summaries))
	index := make(map[string]int, len(summaries))
	for i, s := range summaries {
		ids[i] = s.ID
		index[s.ID] = i
	}

	previews, err := r.db.Pool.Query(ctx, `
		SELECT poll_id, id, avatar_url
		FROM (
			SELECT pa.poll_id, pa.id, u.avatar_url,
			       ROW_NUMBER() OVER (PARTITION BY pa.poll_id ORDER BY pa.created_at, pa.id) AS rn
			FROM participants pa
			JOIN users u ON u.id = pa.user_id
			WHERE pa.poll_id = ANY($1)
		) ranked
		WHERE rn <= $2
		ORDER BY poll_id, rn
	`, ids, domain.MaxParticipantPreviews)
	if err != nil {
		return nil, err
	}
	defer previews.Close()

	for previews.Next() {
		var pollID string
		var p domain.ParticipantPreview
		if err := previews.Scan(&pollID, &p.ID, &p.AvatarURL); err != nil {
			return nil, err
		}
		i := index[pollID]
		summaries[i].Participants = append(summaries[i].Participants, p)
	}

	return summaries, previews.Err()
}
