package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "atlascli/internal/errors"
	"atlascli/internal/exporter"
	"atlascli/internal/middleware"
	"atlascli/pkg/contracts/domain"
	"atlascli/pkg/contracts/schema"
)

// ExportHandler streams canonical CSV or XLSX downloads of a stored table
type ExportHandler struct {
	store        StoreReader
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	params       *middleware.QueryParamValidator
}

// NewExportHandler creates a new export handler
func NewExportHandler(store StoreReader, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		store:        store,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
		params:       middleware.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{table}", h.ExportTable)
	return r
}

// ExportTable handles GET /api/export/{table}?format=csv|xlsx
func (h *ExportHandler) ExportTable(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	if _, err := schema.Get(table); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	format, ok := h.params.ValidateEnum(w, r, "format", []string{"csv", "xlsx"}, "csv")
	if !ok {
		return
	}

	headers, records, ok := h.buildRecords(w, r, table)
	if !ok {
		return
	}

	filename := fmt.Sprintf("%s_%s.%s", table, time.Now().Format("2006-01-02"), format)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	var err error
	switch format {
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = exporter.WriteXLSXTo(w, table, headers, records)
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		err = exporter.WriteCSVTo(w, headers, records)
	}
	if err != nil {
		// Headers are already on the wire; log and drop the connection.
		h.logger.ErrorContext(r.Context(), "failed to stream export",
			slog.String("table", table),
			slog.String("format", format),
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "export streamed",
		slog.String("table", table),
		slog.String("format", format),
		slog.Int("rows", len(records)))
}

// buildRecords queries the requested table and flattens it to export records.
func (h *ExportHandler) buildRecords(w http.ResponseWriter, r *http.Request, table string) ([]string, [][]string, bool) {
	date, ok := h.params.ValidateDate(w, r, "date")
	if !ok {
		return nil, nil, false
	}
	start, ok := h.params.ValidateDate(w, r, "start")
	if !ok {
		return nil, nil, false
	}
	end, ok := h.params.ValidateDate(w, r, "end")
	if !ok {
		return nil, nil, false
	}
	ticker, ok := h.params.ValidateTicker(w, r, "ticker")
	if !ok {
		return nil, nil, false
	}

	var from, to *time.Time
	if !start.IsZero() {
		from = &start
	}
	if !end.IsZero() {
		to = &end
	}

	ctx := r.Context()

	switch table {
	case schema.DailyMarketSnapshot:
		f := domain.SnapshotFilter{DateFrom: from, DateTo: to}
		if !date.IsZero() {
			f.Date = &date
		}
		if ticker != "" {
			f.Tickers = []string{ticker}
		}
		rows, err := h.store.Snapshots(ctx, f)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return nil, nil, false
		}
		headers, records := exporter.SnapshotRecords(rows)
		return headers, records, true

	case schema.MarketPhase:
		f := domain.PhaseFilter{DateFrom: from, DateTo: to}
		if !date.IsZero() {
			f.DateFrom, f.DateTo = &date, &date
		}
		rows, err := h.store.Phases(ctx, f)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return nil, nil, false
		}
		headers, records := exporter.PhaseRecords(rows)
		return headers, records, true

	default:
		f := domain.ExecutionFilter{DateFrom: from, DateTo: to}
		if ticker != "" {
			f.Tickers = []string{ticker}
		}
		rows, err := h.store.Executions(ctx, f)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return nil, nil, false
		}
		headers, records := exporter.ExecutionRecords(rows)
		return headers, records, true
	}
}
