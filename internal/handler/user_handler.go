package handler

import (
	"net/http"

	"pool-api/internal/domain"
	"pool-api/internal/middleware"
	"pool-api/pkg/errors"
	"pool-api/pkg/logger"
)

// UserHandler handles sign-in and user related requests
type UserHandler struct {
	users UserService
	log   *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// SignInResponse carries the access token for subsequent requests
type SignInResponse struct {
	Token string `json:"token"`
}

// SignIn handles POST /users
func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req domain.SignInRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		respondError(w, r, h.log, appErr)
		return
	}

	token, err := h.users.SignInWithGoogle(r.Context(), req.AccessToken)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, SignInResponse{Token: token})
}

// Count handles GET /users/count
func (h *UserHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.users.Count(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, domain.CountResponse{Count: count})
}

// Me handles GET /me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, r, h.log, errors.NewAuthenticationError("User not authenticated"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"user": claims})
}
