package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes we translate
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Constraint names declared in the migrations
const (
	constraintPoolCode        = "pools_code_key"
	constraintParticipantUser = "participants_user_poll_key"
	constraintGuessPerGame    = "guesses_participant_game_key"
)

var (
	// ErrUniqueViolation matches any unique constraint failure
	ErrUniqueViolation = errors.New("unique constraint violation")
	// ErrForeignKeyViolation matches a reference to a missing row
	ErrForeignKeyViolation = errors.New("foreign key violation")
	// ErrDuplicateCode is returned when a pool code is already in use
	ErrDuplicateCode = errors.New("pool code already in use")
	// ErrAlreadyExists is returned by insert-if-absent writes that inserted nothing
	ErrAlreadyExists = errors.New("row already exists")
)

// ConstraintError is a constraint failure reported by Postgres
type ConstraintError struct {
	Kind       error
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%v on %s: %v", e.Kind, e.Constraint, e.Err)
}

func (e *ConstraintError) Is(target error) bool {
	return target == e.Kind
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// mapPgError converts constraint failures to ConstraintError and leaves other errors untouched
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return &ConstraintError{Kind: ErrUniqueViolation, Constraint: pgErr.ConstraintName, Err: err}
	case pgForeignKeyViolation:
		return &ConstraintError{Kind: ErrForeignKeyViolation, Constraint: pgErr.ConstraintName, Err: err}
	}
	return err
}

// violates reports whether err is a unique violation of the named constraint
func violates(err error, constraint string) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && errors.Is(ce.Kind, ErrUniqueViolation) && ce.Constraint == constraint
}
