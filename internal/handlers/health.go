package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const pingTimeout = 2 * time.Second

// pinger reports whether a backing store is reachable
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	logger *slog.Logger
	store  pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(logger *slog.Logger, store pinger) *HealthHandler {
	return &HealthHandler{
		logger: logger,
		store:  store,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
	}
	status := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.WarnContext(r.Context(), "store ping failed", "error", err)
		response.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	WriteJSON(w, status, response, h.logger)
}
