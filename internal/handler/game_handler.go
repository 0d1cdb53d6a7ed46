package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pool-api/internal/middleware"
	"pool-api/pkg/logger"
)

type GameHandler struct {
	games GameService
	log   *logger.Logger
}

func NewGameHandler(games GameService, log *logger.Logger) *GameHandler {
	return &GameHandler{games: games, log: log}
}

// List handles GET /polls/{id}/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	games, err := h.games.ListForPool(ctx, chi.URLParam(r, "id"), middleware.UserIDFromContext(ctx))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"games": games})
}
