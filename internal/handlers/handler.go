package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/handlers/response"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck checks one backing dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler reports whether the service and its dependencies are reachable
type HealthHandler struct {
	checks map[string]HealthCheck
	logger primary.Logger
}

func NewHealthHandler(checks map[string]HealthCheck, logger primary.Logger) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		logger: logger,
	}
}

// RegisterRoutes registers the API routes for HealthHandler
func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/healthz", h.Health).Methods("GET")
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("Health check failed", "dependency", name, "error", err)
			results[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}

	response.WriteJSON(w, status, map[string]interface{}{
		"status":       http.StatusText(status),
		"dependencies": results,
	})
}
