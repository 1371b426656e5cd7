package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "atlascli/internal/errors"
)

// TableHandler serves store introspection requests
type TableHandler struct {
	store        StoreReader
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewTableHandler creates a new table introspection handler
func NewTableHandler(store StoreReader, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *TableHandler {
	return &TableHandler{
		store:        store,
		logger:       logger.With(slog.String("component", "table_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the table introspection routes
func (h *TableHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListTables)
	r.Get("/{name}", h.GetTableInfo)

	return r
}

// ListTables handles GET /api/tables
func (h *TableHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.store.ListTables(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list tables",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   tables,
		"count":  len(tables),
	})
}

// GetTableInfo handles GET /api/tables/{name}
func (h *TableHandler) GetTableInfo(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	info, err := h.store.TableInfo(r.Context(), name)
	if err != nil {
		h.logger.WarnContext(r.Context(), "failed to describe table",
			slog.String("table", name),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   info,
	})
}
