package domain

import "errors"

// Errors returned by the pool, membership and guess services. Callers match
// them with errors.Is.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrPoolNotFound        = errors.New("pool not found")
	ErrAlreadyJoined       = errors.New("user already joined this pool")
	ErrParticipantNotFound = errors.New("participant not found in this pool")
	ErrDuplicateGuess      = errors.New("user already guessed this game")
	ErrGameNotFound        = errors.New("game not found")
	ErrGameAlreadyStarted  = errors.New("game already started")
	ErrCodeSpaceExhausted  = errors.New("could not allocate a unique pool code")
)
