package repository

import (
	"context"

	"pool-api/internal/domain"
)

// Lookups return (nil, nil) when no row matches.

// PoolRepository defines pool persistence
type PoolRepository interface {
	// Create inserts the pool. When the pool has an owner, the owner's
	// participant row is inserted in the same transaction. Returns
	// ErrDuplicateCode if the code is taken.
	Create(ctx context.Context, pool *domain.Pool) error

	// FindByCode retrieves a pool by its join code
	FindByCode(ctx context.Context, code string) (*domain.Pool, error)

	// FindSummaryByID retrieves a pool with owner and participant previews
	FindSummaryByID(ctx context.Context, id string) (*domain.PoolSummary, error)

	// ListSummariesForUser returns the pools the user participates in, oldest first
	ListSummariesForUser(ctx context.Context, userID string) ([]domain.PoolSummary, error)

	// Count returns the number of pools
	Count(ctx context.Context) (int64, error)
}

// ParticipantRepository defines membership persistence
type ParticipantRepository interface {
	// FindByUserAndPool retrieves the membership of a user in a pool
	FindByUserAndPool(ctx context.Context, userID, pollID string) (*domain.Participant, error)

	// Join inserts the participant unless one already exists for the same
	// (user, pool), returning ErrAlreadyExists in that case. In the same
	// transaction it sets the pool owner to the user if the pool has none,
	// reporting whether that claim happened.
	Join(ctx context.Context, participant *domain.Participant) (claimedOwnership bool, err error)
}

// GameRepository defines read access to games
type GameRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Game, error)

	// ListForPool returns every game by date with the user's guess in the pool, if any
	ListForPool(ctx context.Context, pollID, userID string) ([]domain.GameWithGuess, error)
}

// GuessRepository defines guess persistence
type GuessRepository interface {
	FindByParticipantAndGame(ctx context.Context, participantID, gameID string) (*domain.Guess, error)

	// Create inserts the guess unless one exists for the same (participant,
	// game), returning ErrAlreadyExists in that case.
	Create(ctx context.Context, guess *domain.Guess) error

	Count(ctx context.Context) (int64, error)
}

// UserRepository defines user persistence
type UserRepository interface {
	// UpsertByGoogleID creates the user or refreshes name and avatar for an
	// existing Google account. ID and CreatedAt are filled in.
	UpsertByGoogleID(ctx context.Context, user *domain.User) error

	Count(ctx context.Context) (int64, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Pools        PoolRepository
	Participants ParticipantRepository
	Games        GameRepository
	Guesses      GuessRepository
	Users        UserRepository
}
