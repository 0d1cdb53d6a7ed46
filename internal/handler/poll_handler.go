package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pool-api/internal/domain"
	"pool-api/internal/middleware"
	"pool-api/pkg/logger"
)

// PollHandler serves pool creation, listing, detail and join
type PollHandler struct {
	polls       PollService
	memberships MembershipService
	log         *logger.Logger
}

// NewPollHandler creates a new poll handler
func NewPollHandler(polls PollService, memberships MembershipService, log *logger.Logger) *PollHandler {
	return &PollHandler{
		polls:       polls,
		memberships: memberships,
		log:         log,
	}
}

// Create handles POST /polls. Authenticated callers become owner and first
// participant; anonymous callers create an ownerless pool.
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePoolRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		respondError(w, r, h.log, appErr)
		return
	}

	ctx := r.Context()
	var (
		code string
		err  error
	)
	if userID := middleware.UserIDFromContext(ctx); userID != "" {
		code, err = h.polls.Create(ctx, req.Title, userID)
	} else {
		code, err = h.polls.CreateAnonymous(ctx, req.Title)
	}
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, domain.CreatePoolResponse{Code: code})
}

// Count handles GET /polls/count
func (h *PollHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.polls.Count(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, domain.CountResponse{Count: count})
}

// Join handles POST /polls/join
func (h *PollHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req domain.JoinPoolRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		respondError(w, r, h.log, appErr)
		return
	}

	ctx := r.Context()
	if err := h.memberships.Join(ctx, req.Code, middleware.UserIDFromContext(ctx)); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// List handles GET /polls
func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pools, err := h.polls.ListForUser(ctx, middleware.UserIDFromContext(ctx))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"polls": pools})
}

// Get handles GET /polls/{id}
func (h *PollHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pool, err := h.polls.GetByID(ctx, chi.URLParam(r, "id"), middleware.UserIDFromContext(ctx))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"poll": pool})
}
