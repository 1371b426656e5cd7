package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "atlascli/internal/errors"
	"atlascli/internal/middleware"
	"atlascli/pkg/contracts/domain"
)

// maxPageSize caps limit/offset query parameters.
const maxPageSize = 100000

// MarketHandler serves snapshot, phase and execution queries with RFC 7807
// error responses.
type MarketHandler struct {
	store        StoreReader
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	params       *middleware.QueryParamValidator
}

// NewMarketHandler creates a new market data handler
func NewMarketHandler(store StoreReader, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *MarketHandler {
	return &MarketHandler{
		store:        store,
		logger:       logger.With(slog.String("component", "market_handler")),
		errorHandler: errorHandler,
		params:       middleware.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the market data routes
func (h *MarketHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/snapshots", h.GetSnapshots)
	r.Get("/snapshots/summary", h.GetSnapshotSummary)
	r.Get("/phases", h.GetPhases)
	r.Get("/executions", h.GetExecutions)

	return r
}

// GetSnapshots handles GET /api/snapshots
func (h *MarketHandler) GetSnapshots(w http.ResponseWriter, r *http.Request) {
	var f domain.SnapshotFilter

	date, ok := h.params.ValidateDate(w, r, "date")
	if !ok {
		return
	}
	if !date.IsZero() {
		f.Date = &date
	}

	start, end, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	f.DateFrom, f.DateTo = start, end

	ticker, ok := h.params.ValidateTicker(w, r, "ticker")
	if !ok {
		return
	}
	if ticker != "" {
		f.Tickers = []string{ticker}
	}

	f.STOnly = boolParam(r, "st")
	f.LimitUpOnly = boolParam(r, "limit_up")
	f.LimitDownOnly = boolParam(r, "limit_down")

	if f.Limit, ok = h.params.ValidateInt(w, r, "limit", 0, maxPageSize, 0); !ok {
		return
	}
	if f.Offset, ok = h.params.ValidateInt(w, r, "offset", 0, maxPageSize, 0); !ok {
		return
	}

	rows, err := h.store.Snapshots(r.Context(), f)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to query snapshots",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, listResponse(rows))
}

// GetSnapshotSummary handles GET /api/snapshots/summary
func (h *MarketHandler) GetSnapshotSummary(w http.ResponseWriter, r *http.Request) {
	date, ok := h.params.ValidateDate(w, r, "date")
	if !ok {
		return
	}
	if date.IsZero() {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("date", "date is required"))
		return
	}

	sum, err := h.store.SnapshotSummary(r.Context(), date)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to summarize snapshots",
			slog.String("error", err.Error()),
			slog.Time("date", date))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   sum,
	})
}

// GetPhases handles GET /api/phases
func (h *MarketHandler) GetPhases(w http.ResponseWriter, r *http.Request) {
	var f domain.PhaseFilter

	start, end, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	f.DateFrom, f.DateTo = start, end
	f.Phase = r.URL.Query().Get("phase")

	if f.Limit, ok = h.params.ValidateInt(w, r, "limit", 0, maxPageSize, 0); !ok {
		return
	}
	if f.Offset, ok = h.params.ValidateInt(w, r, "offset", 0, maxPageSize, 0); !ok {
		return
	}

	rows, err := h.store.Phases(r.Context(), f)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to query phases",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, listResponse(rows))
}

// GetExecutions handles GET /api/executions
func (h *MarketHandler) GetExecutions(w http.ResponseWriter, r *http.Request) {
	var f domain.ExecutionFilter

	ticker, ok := h.params.ValidateTicker(w, r, "ticker")
	if !ok {
		return
	}
	if ticker != "" {
		f.Tickers = []string{ticker}
	}

	start, end, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	f.DateFrom, f.DateTo = start, end
	f.PathType = r.URL.Query().Get("path")
	f.OpenOnly = boolParam(r, "open")

	if f.Limit, ok = h.params.ValidateInt(w, r, "limit", 0, maxPageSize, 0); !ok {
		return
	}
	if f.Offset, ok = h.params.ValidateInt(w, r, "offset", 0, maxPageSize, 0); !ok {
		return
	}

	rows, err := h.store.Executions(r.Context(), f)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to query executions",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, listResponse(rows))
}

// dateRange parses the optional start/end query parameters.
func (h *MarketHandler) dateRange(w http.ResponseWriter, r *http.Request) (*time.Time, *time.Time, bool) {
	var from, to *time.Time

	start, ok := h.params.ValidateDate(w, r, "start")
	if !ok {
		return nil, nil, false
	}
	if !start.IsZero() {
		from = &start
	}

	end, ok := h.params.ValidateDate(w, r, "end")
	if !ok {
		return nil, nil, false
	}
	if !end.IsZero() {
		to = &end
	}

	if from != nil && to != nil && to.Before(*from) {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("end", "end must not be before start"))
		return nil, nil, false
	}

	return from, to, true
}

func boolParam(r *http.Request, name string) bool {
	return r.URL.Query().Get(name) == "true"
}

func listResponse[T any](rows []T) map[string]interface{} {
	return map[string]interface{}{
		"status": "success",
		"data":   rows,
		"count":  len(rows),
	}
}
