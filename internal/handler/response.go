package handler

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"pool-api/internal/domain"
	"pool-api/internal/middleware"
	"pool-api/pkg/errors"
	"pool-api/pkg/logger"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes err as a JSON error, translating domain errors to their status
func respondError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	appErr := toAppError(err)
	entry := log.WithError(err).WithFields(map[string]interface{}{
		"request_id": middleware.RequestIDFromContext(r.Context()),
		"path":       r.URL.Path,
		"status":     appErr.StatusCode,
	})
	if appErr.StatusCode >= http.StatusInternalServerError {
		entry.Error("Request error")
	} else {
		entry.Debug("Request rejected")
	}
	errors.Write(w, appErr, middleware.RequestIDFromContext(r.Context()))
}

func toAppError(err error) *errors.AppError {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stderrors.Is(err, domain.ErrInvalidInput):
		return errors.NewValidationError(err.Error(), nil)
	case stderrors.Is(err, domain.ErrUnauthorized):
		return errors.NewAuthenticationError(err.Error())
	case stderrors.Is(err, domain.ErrPoolNotFound):
		return errors.NewNotFoundError("Pool not found")
	case stderrors.Is(err, domain.ErrGameNotFound):
		return errors.NewNotFoundError("Game not found")
	case stderrors.Is(err, domain.ErrAlreadyJoined):
		return errors.NewConflictError("User already joined this pool")
	case stderrors.Is(err, domain.ErrDuplicateGuess):
		return errors.NewConflictError("User already guessed this game")
	case stderrors.Is(err, domain.ErrParticipantNotFound):
		return errors.NewAuthorizationError("Participant not found in this pool")
	case stderrors.Is(err, domain.ErrGameAlreadyStarted):
		return errors.NewAuthorizationError("Game already started")
	case stderrors.Is(err, domain.ErrCodeSpaceExhausted):
		return errors.NewUnavailableError("Could not allocate a pool code", err)
	default:
		return errors.NewInternalError("Internal server error", err)
	}
}

// decodeJSON reads the body into dst and runs struct validation
func decodeJSON(r *http.Request, dst interface{}) *errors.AppError {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return errors.NewValidationError("Invalid request body", map[string]interface{}{"reason": err.Error()})
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) *errors.AppError {
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewValidationError("Invalid request body", nil)
	}
	details := make(map[string]interface{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[jsonFieldName(fe)] = fmt.Sprintf("failed on '%s'", fe.Tag())
	}
	return errors.NewValidationError("Invalid request body", details)
}

// jsonFieldName turns FirstTeamPoints into firstTeamPoints for error details
func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}
