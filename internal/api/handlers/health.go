package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// Version is reported by the health endpoint
const Version = "1.0.0"

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
	}

	respondJSON(w, http.StatusOK, response)
}

// ReadinessCheck probes one dependency
type ReadinessCheck func(ctx context.Context) error

// ReadyHandler reports whether every dependency answers
type ReadyHandler struct {
	checks map[string]ReadinessCheck
}

// NewReadyHandler creates a readiness handler over the named checks
func NewReadyHandler(checks map[string]ReadinessCheck) *ReadyHandler {
	return &ReadyHandler{checks: checks}
}

// Ready handles GET /ready (for kubernetes readiness probe)
func (h *ReadyHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	respondJSON(w, status, map[string]interface{}{"status": state, "checks": results})
}
