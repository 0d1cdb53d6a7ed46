package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pool-api/internal/domain"
	"pool-api/internal/middleware"
	"pool-api/pkg/logger"
)

type GuessHandler struct {
	guesses GuessService
	log     *logger.Logger
}

func NewGuessHandler(guesses GuessService, log *logger.Logger) *GuessHandler {
	return &GuessHandler{guesses: guesses, log: log}
}

// Submit handles POST /polls/{id}/games/{gameId}/guesses
func (h *GuessHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req domain.SubmitGuessRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		respondError(w, r, h.log, appErr)
		return
	}

	ctx := r.Context()
	err := h.guesses.Submit(ctx,
		middleware.UserIDFromContext(ctx),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "gameId"),
		req,
	)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Count handles GET /guesses/count
func (h *GuessHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.guesses.Count(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, domain.CountResponse{Count: count})
}
