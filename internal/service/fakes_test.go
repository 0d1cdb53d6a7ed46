package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"pool-api/internal/domain"
	"pool-api/internal/repository"
)

// memStore is an in-memory stand-in for Postgres that enforces the same
// unique constraints and the conditional owner claim under one lock.
type memStore struct {
	mu           sync.Mutex
	seq          int
	users        map[string]*domain.User
	pools        map[string]*domain.Pool
	participants []*domain.Participant
	games        map[string]*domain.Game
	guesses      []*domain.Guess

	// staleReads makes membership and guess lookups miss, as a concurrent
	// request that read before another committed would
	staleReads bool
	// takenCodes makes pool inserts with these codes fail as duplicates
	takenCodes map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[string]*domain.User),
		pools:      make(map[string]*domain.Pool),
		games:      make(map[string]*domain.Game),
		takenCodes: make(map[string]bool),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) addUser(id, name string, avatar string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &domain.User{ID: id, Name: name, Email: id + "@example.com"}
	if avatar != "" {
		u.AvatarURL = &avatar
	}
	s.users[id] = u
}

func (s *memStore) addGame(id string, date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[id] = &domain.Game{ID: id, Date: date, FirstTeamCountryCode: "BR", SecondTeamCountryCode: "AR"}
}

func (s *memStore) poolByCode(code string) *domain.Pool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pools {
		if p.Code == code {
			cp := *p
			return &cp
		}
	}
	return nil
}

func (s *memStore) participantCount(pollID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.participants {
		if p.PollID == pollID {
			n++
		}
	}
	return n
}

func (s *memStore) guessCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.guesses)
}

// PoolRepository

type memPools struct{ s *memStore }

func (r memPools) Create(_ context.Context, pool *domain.Pool) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.takenCodes[pool.Code] {
		return repository.ErrDuplicateCode
	}
	for _, p := range s.pools {
		if p.Code == pool.Code {
			return repository.ErrDuplicateCode
		}
	}
	if pool.HasOwner() {
		if _, ok := s.users[*pool.OwnerID]; !ok {
			return &repository.ConstraintError{Kind: repository.ErrForeignKeyViolation, Constraint: "pools_owner_id_fkey"}
		}
	}

	pool.ID = s.nextID("pool")
	pool.CreatedAt = time.Now()
	cp := *pool
	s.pools[pool.ID] = &cp

	if pool.HasOwner() {
		s.participants = append(s.participants, &domain.Participant{
			ID: s.nextID("participant"), UserID: *pool.OwnerID, PollID: pool.ID, CreatedAt: pool.CreatedAt,
		})
	}
	return nil
}

func (r memPools) FindByCode(_ context.Context, code string) (*domain.Pool, error) {
	return r.s.poolByCode(code), nil
}

func (r memPools) summary(p *domain.Pool) domain.PoolSummary {
	s := r.s
	sum := domain.PoolSummary{Pool: *p, Participants: []domain.ParticipantPreview{}}
	if p.HasOwner() {
		sum.Owner = &domain.PoolOwner{ID: *p.OwnerID}
		if u, ok := s.users[*p.OwnerID]; ok {
			sum.Owner.Name = u.Name
		}
	}
	for _, pa := range s.participants {
		if pa.PollID != p.ID {
			continue
		}
		sum.ParticipantCount++
		if len(sum.Participants) < domain.MaxParticipantPreviews {
			var avatar *string
			if u, ok := s.users[pa.UserID]; ok {
				avatar = u.AvatarURL
			}
			sum.Participants = append(sum.Participants, domain.ParticipantPreview{ID: pa.ID, AvatarURL: avatar})
		}
	}
	return sum
}

func (r memPools) FindSummaryByID(_ context.Context, id string) (*domain.PoolSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.pools[id]
	if !ok {
		return nil, nil
	}
	sum := r.summary(p)
	return &sum, nil
}

func (r memPools) ListSummariesForUser(_ context.Context, userID string) ([]domain.PoolSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var pools []*domain.Pool
	for _, pa := range r.s.participants {
		if pa.UserID == userID {
			pools = append(pools, r.s.pools[pa.PollID])
		}
	}
	sort.SliceStable(pools, func(i, j int) bool { return pools[i].CreatedAt.Before(pools[j].CreatedAt) })

	var out []domain.PoolSummary
	for _, p := range pools {
		out = append(out, r.summary(p))
	}
	return out, nil
}

func (r memPools) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.pools)), nil
}

// ParticipantRepository

type memParticipants struct{ s *memStore }

func (r memParticipants) FindByUserAndPool(_ context.Context, userID, pollID string) (*domain.Participant, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.staleReads {
		return nil, nil
	}
	return s.findParticipant(userID, pollID), nil
}

func (s *memStore) findParticipant(userID, pollID string) *domain.Participant {
	for _, p := range s.participants {
		if p.UserID == userID && p.PollID == pollID {
			cp := *p
			return &cp
		}
	}
	return nil
}

func (r memParticipants) Join(_ context.Context, participant *domain.Participant) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findParticipant(participant.UserID, participant.PollID) != nil {
		return false, repository.ErrAlreadyExists
	}
	if _, ok := s.users[participant.UserID]; !ok {
		return false, &repository.ConstraintError{Kind: repository.ErrForeignKeyViolation, Constraint: "participants_user_id_fkey"}
	}

	participant.ID = s.nextID("participant")
	participant.CreatedAt = time.Now()
	cp := *participant
	s.participants = append(s.participants, &cp)

	pool := s.pools[participant.PollID]
	if pool.OwnerID == nil {
		owner := participant.UserID
		pool.OwnerID = &owner
		return true, nil
	}
	return false, nil
}

// GameRepository

type memGames struct{ s *memStore }

func (r memGames) FindByID(_ context.Context, id string) (*domain.Game, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.games[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (r memGames) ListForPool(_ context.Context, pollID, userID string) ([]domain.GameWithGuess, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	participant := s.findParticipant(userID, pollID)
	var out []domain.GameWithGuess
	for _, g := range s.games {
		item := domain.GameWithGuess{Game: *g}
		if participant != nil {
			for _, gs := range s.guesses {
				if gs.ParticipantID == participant.ID && gs.GameID == g.ID {
					cp := *gs
					item.Guess = &cp
				}
			}
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// GuessRepository

type memGuesses struct{ s *memStore }

func (r memGuesses) FindByParticipantAndGame(_ context.Context, participantID, gameID string) (*domain.Guess, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.staleReads {
		return nil, nil
	}
	return s.findGuess(participantID, gameID), nil
}

func (s *memStore) findGuess(participantID, gameID string) *domain.Guess {
	for _, g := range s.guesses {
		if g.ParticipantID == participantID && g.GameID == gameID {
			cp := *g
			return &cp
		}
	}
	return nil
}

func (r memGuesses) Create(_ context.Context, guess *domain.Guess) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findGuess(guess.ParticipantID, guess.GameID) != nil {
		return repository.ErrAlreadyExists
	}
	guess.ID = s.nextID("guess")
	guess.CreatedAt = time.Now()
	cp := *guess
	s.guesses = append(s.guesses, &cp)
	return nil
}

func (r memGuesses) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.guesses)), nil
}

// UserRepository

type memUsers struct{ s *memStore }

func (r memUsers) UpsertByGoogleID(_ context.Context, user *domain.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.GoogleID != nil && user.GoogleID != nil && *u.GoogleID == *user.GoogleID {
			u.Name = user.Name
			u.AvatarURL = user.AvatarURL
			user.ID = u.ID
			user.CreatedAt = u.CreatedAt
			return nil
		}
	}
	user.ID = s.nextID("user")
	user.CreatedAt = time.Now()
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (r memUsers) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

// sequenceCodes returns the given codes in order, then repeats the last one
type sequenceCodes struct {
	mu    sync.Mutex
	codes []string
	calls int
}

func (g *sequenceCodes) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.calls
	if i >= len(g.codes) {
		i = len(g.codes) - 1
	}
	g.calls++
	return g.codes[i]
}

// mockPoolRepository is used where a store failure has to be injected
type mockPoolRepository struct {
	mock.Mock
}

func (m *mockPoolRepository) Create(ctx context.Context, pool *domain.Pool) error {
	args := m.Called(ctx, pool)
	return args.Error(0)
}

func (m *mockPoolRepository) FindByCode(ctx context.Context, code string) (*domain.Pool, error) {
	args := m.Called(ctx, code)
	pool, _ := args.Get(0).(*domain.Pool)
	return pool, args.Error(1)
}

func (m *mockPoolRepository) FindSummaryByID(ctx context.Context, id string) (*domain.PoolSummary, error) {
	args := m.Called(ctx, id)
	sum, _ := args.Get(0).(*domain.PoolSummary)
	return sum, args.Error(1)
}

func (m *mockPoolRepository) ListSummariesForUser(ctx context.Context, userID string) ([]domain.PoolSummary, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]domain.PoolSummary)
	return list, args.Error(1)
}

func (m *mockPoolRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
