package handler

import (
	"context"

	"pool-api/internal/domain"
)

// PollService is what PollHandler needs from the pool and membership services
type PollService interface {
	Create(ctx context.Context, title, ownerID string) (string, error)
	CreateAnonymous(ctx context.Context, title string) (string, error)
	Count(ctx context.Context) (int64, error)
	ListForUser(ctx context.Context, userID string) ([]domain.PoolSummary, error)
	GetByID(ctx context.Context, id, userID string) (*domain.PoolSummary, error)
}

type MembershipService interface {
	Join(ctx context.Context, code, userID string) error
}

type GameService interface {
	ListForPool(ctx context.Context, pollID, userID string) ([]domain.GameWithGuess, error)
}

type GuessService interface {
	Submit(ctx context.Context, userID, pollID, gameID string, req domain.SubmitGuessRequest) error
	Count(ctx context.Context) (int64, error)
}

type UserService interface {
	SignInWithGoogle(ctx context.Context, accessToken string) (string, error)
	Count(ctx context.Context) (int64, error)
}

// HealthChecker is implemented by the database and Redis clients
type HealthChecker interface {
	Health(ctx context.Context) error
}
