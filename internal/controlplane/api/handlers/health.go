package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthCheckTimeout bounds the database ping of the readiness check.
const HealthCheckTimeout = 5 * time.Second

// Pinger is the part of the store the readiness check needs.
type Pinger interface {
	Healthcheck(ctx context.Context) error
}

// HealthHandler serves the unauthenticated liveness and readiness endpoints.
type HealthHandler struct {
	db        Pinger
	startTime time.Time
}

// NewHealthHandler creates a new health handler. db may be nil, in which
// case the readiness check reports unhealthy.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		startTime: time.Now(),
	}
}

// Liveness handles GET /health. It succeeds as long as the HTTP server is
// responsive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startTime)
	WriteJSON(w, http.StatusOK, healthyResponse(map[string]any{
		"service":    "dittonas",
		"started_at": h.startTime.UTC().Format(time.RFC3339),
		"uptime":     uptime.Round(time.Second).String(),
		"uptime_sec": int64(uptime.Seconds()),
	}))
}

// Readiness handles GET /health/ready: 200 when the database answers a
// ping within HealthCheckTimeout, 503 otherwise.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		WriteJSON(w, http.StatusServiceUnavailable, unhealthyResponse("store not initialized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), HealthCheckTimeout)
	defer cancel()

	start := time.Now()
	if err := h.db.Healthcheck(ctx); err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, unhealthyResponse(err.Error()))
		return
	}
	WriteJSON(w, http.StatusOK, healthyResponse(map[string]any{
		"database": "healthy",
		"latency":  time.Since(start).String(),
	}))
}
