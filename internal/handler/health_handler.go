package handler

import (
	"context"
	"net/http"
	"time"

	"pool-api/pkg/logger"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	checks  map[string]HealthChecker
	service string
	log     *logger.Logger
}

// NewHealthHandler creates a new health handler. Nil checkers are skipped.
func NewHealthHandler(service string, log *logger.Logger, checks map[string]HealthChecker) *HealthHandler {
	active := make(map[string]HealthChecker, len(checks))
	for name, c := range checks {
		if c != nil {
			active[name] = c
		}
	}
	return &HealthHandler{
		checks:  active,
		service: service,
		log:     log,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.service,
		Checks:    make(map[string]string, len(h.checks)),
	}
	status := http.StatusOK

	for name, c := range h.checks {
		if err := c.Health(ctx); err != nil {
			h.log.WithError(err).WithField("dependency", name).Warn("Health check failed")
			response.Checks[name] = "unhealthy"
			response.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		response.Checks[name] = "healthy"
	}

	respondJSON(w, status, response)
}
