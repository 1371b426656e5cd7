package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"atlascli/pkg/contracts"
)

// HealthHandler handles health and version HTTP requests
type HealthHandler struct {
	store  StoreReader
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store StoreReader, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		logger: logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck handles GET /healthz
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK

	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "store ping failed",
			slog.String("error", err.Error()))
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}

	render.Status(r, code)
	render.JSON(w, r, map[string]interface{}{
		"status":    status,
		"version":   contracts.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, contracts.GetVersionInfo())
}
