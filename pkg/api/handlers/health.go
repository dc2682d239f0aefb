package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker is the subset of the store used by health probes.
type HealthChecker interface {
	Healthcheck(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	store HealthChecker
}

// NewHealthHandler creates a new HealthHandler. store may be nil, in which
// case readiness only reports process liveness.
func NewHealthHandler(store HealthChecker) *HealthHandler {
	return &HealthHandler{store: store}
}

// healthResponse is the response body for health endpoints.
type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}

func healthy() healthResponse {
	return healthResponse{Status: "healthy", Timestamp: time.Now().UTC()}
}

// Liveness handles GET /health.
// Reports whether the process is running; never touches dependencies.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	WriteJSONOK(w, healthy())
}

// Readiness handles GET /health/ready.
// Reports whether the server can reach its database.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		WriteJSONOK(w, healthy())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Healthcheck(ctx); err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:    "unhealthy",
			Timestamp: time.Now().UTC(),
			Error:     err.Error(),
		})
		return
	}

	WriteJSONOK(w, healthy())
}
