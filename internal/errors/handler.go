package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"atlascli/pkg/contracts/conventions"
	"atlascli/pkg/contracts/mappings"
	"atlascli/pkg/contracts/schema"
	"atlascli/pkg/contracts/validate"
)

// Common error types following RFC 7807
const (
	TypeValidation      = "/errors/validation"
	TypeNotFound        = "/errors/not-found"
	TypeForbidden       = "/errors/forbidden"
	TypeRateLimit       = "/errors/rate-limit"
	TypeInternal        = "/errors/internal"
	TypeServiceDown     = "/errors/service-unavailable"
	TypeTimeout         = "/errors/timeout"
	TypeConflict        = "/errors/conflict"
	TypePayloadTooLarge = "/errors/payload-too-large"
)

// Domain-specific error types
const (
	TypeTableNotFound = "/errors/schema/table-not-found"
	TypeSchemaMissing = "/errors/schema/missing-columns"
	TypeSchemaExtra   = "/errors/schema/extra-columns"
	TypeCoercion      = "/errors/schema/coercion-failed"
	TypeSourceUnknown = "/errors/mappings/unknown-source"
	TypeTickerInvalid = "/errors/conventions/invalid-ticker"
	TypeDateInvalid   = "/errors/conventions/invalid-date"
	TypeLoadFailed    = "/errors/load/failed"
	TypeDuplicateKey  = "/errors/load/duplicate-key"
	TypeStoreFailure  = "/errors/store/failure"
	TypeStoreReadOnly = "/errors/store/read-only"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	// Get request ID for tracing
	reqID := middleware.GetReqID(r.Context())

	// Log the error with full context
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("remote_addr", r.RemoteAddr),
	)

	// Convert to problem details
	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", reqID)

	// Add stack trace in development
	if h.includeStack {
		problem.WithExtension("stack", getStackTrace())
	}

	// Render the error response
	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	// Check for context errors first
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	// Check for our custom API errors
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, r)
	}

	// Contract violations carry typed errors with structured fields
	var missing *validate.MissingColumnsError
	if errors.As(err, &missing) {
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeSchemaMissing,
			"Missing Required Columns",
			missing.Error(),
			r.URL.Path,
		).WithExtension("table", missing.Table).
			WithExtension("missing_columns", missing.Missing)
	}

	var extra *validate.ExtraColumnsError
	if errors.As(err, &extra) {
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeSchemaExtra,
			"Unexpected Columns",
			extra.Error(),
			r.URL.Path,
		).WithExtension("table", extra.Table).
			WithExtension("extra_columns", extra.Extra)
	}

	var conv *validate.TypeConversionError
	if errors.As(err, &conv) {
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeCoercion,
			"Column Coercion Failed",
			conv.Error(),
			r.URL.Path,
		).WithExtension("table", conv.Table).
			WithExtension("column", conv.Column).
			WithExtension("target_type", conv.Type).
			WithExtension("failures", conv.Failures)
	}

	var unknownTable *schema.UnknownTableError
	if errors.As(err, &unknownTable) {
		return NewProblemDetails(
			http.StatusNotFound,
			TypeTableNotFound,
			"Table Not Found",
			unknownTable.Error(),
			r.URL.Path,
		).WithExtension("table", unknownTable.Table).
			WithExtension("available_tables", unknownTable.Available)
	}

	var unknownSource *mappings.UnknownSourceError
	if errors.As(err, &unknownSource) {
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeSourceUnknown,
			"Unknown Mapping Source",
			unknownSource.Error(),
			r.URL.Path,
		).WithExtension("source", unknownSource.Source).
			WithExtension("known_sources", unknownSource.Known)
	}

	var badTicker *conventions.IdentifierError
	if errors.As(err, &badTicker) {
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeTickerInvalid,
			"Invalid Ticker",
			badTicker.Error(),
			r.URL.Path,
		).WithExtension("ticker", badTicker.Ticker)
	}

	var badDate *conventions.DateParseError
	if errors.As(err, &badDate) {
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeDateInvalid,
			"Invalid Date",
			badDate.Error(),
			r.URL.Path,
		).WithExtension("value", badDate.Value).
			WithExtension("accepted_formats", conventions.DateFormats)
	}

	// Domain-specific error handling
	switch {
	case strings.Contains(err.Error(), "not found"):
		return NewProblemDetails(
			http.StatusNotFound,
			TypeNotFound,
			"Resource Not Found",
			err.Error(),
			r.URL.Path,
		)

	case strings.Contains(err.Error(), "duplicate key"):
		return NewProblemDetails(
			http.StatusConflict,
			TypeDuplicateKey,
			"Duplicate Primary Key",
			err.Error(),
			r.URL.Path,
		)

	case strings.Contains(err.Error(), "read-only"):
		return NewProblemDetails(
			http.StatusForbidden,
			TypeStoreReadOnly,
			"Store Is Read-Only",
			"The store was opened in read-only mode and rejects writes.",
			r.URL.Path,
		)

	case strings.Contains(err.Error(), "rate limit"):
		return NewProblemDetails(
			http.StatusTooManyRequests,
			TypeRateLimit,
			"Rate Limit Exceeded",
			"Too many requests. Please try again later.",
			r.URL.Path,
		).WithExtension("retry_after", 60)

	case strings.Contains(err.Error(), "conflict"):
		return NewProblemDetails(
			http.StatusConflict,
			TypeConflict,
			"Conflict",
			err.Error(),
			r.URL.Path,
		)

	case strings.Contains(err.Error(), "payload too large"):
		return NewProblemDetails(
			http.StatusRequestEntityTooLarge,
			TypePayloadTooLarge,
			"Payload Too Large",
			"The request body exceeds the maximum allowed size",
			r.URL.Path,
		)

	default:
		// Generic internal error
		return NewProblemDetails(
			http.StatusInternalServerError,
			TypeInternal,
			"Internal Server Error",
			"An unexpected error occurred while processing your request",
			r.URL.Path,
		)
	}
}

// apiErrorToProblem converts APIError to ProblemDetails
func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	// Map error codes to problem types
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case "VALIDATION_FAILED", "INVALID_REQUEST", "MISSING_PARAMETER", "INVALID_PARAMETER", "INVALID_TICKER", "INVALID_DATE":
		problemType = TypeValidation
	case "NOT_FOUND", "TABLE_NOT_FOUND", "FILE_NOT_FOUND":
		problemType = TypeNotFound
	case "CONFLICT":
		problemType = TypeConflict
	case "COERCION_FAILED":
		problemType = TypeCoercion
	case "RATE_LIMIT_EXCEEDED":
		problemType = TypeRateLimit
	case "SERVICE_UNAVAILABLE":
		problemType = TypeServiceDown
	case "LOAD_FAILED":
		problemType = TypeLoadFailed
	case "STORE_ERROR":
		problemType = TypeStoreFailure
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		r.URL.Path,
	).WithExtension("error_code", apiErr.ErrorCode)

	// Add details if present
	if apiErr.Details != nil {
		if valErrors, ok := apiErr.Details.(ValidationErrors); ok {
			problem.WithExtension("errors", valErrors.Errors)
		} else {
			problem.WithExtension("details", apiErr.Details)
		}
	}

	return problem
}

// HandlePanic recovers from panics and returns RFC 7807 error
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	reqID := middleware.GetReqID(r.Context())

	// Log the panic
	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	// Create problem details
	problem := NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	).WithExtension("trace_id", reqID)

	// Add panic details in development
	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		TypeNotFound,
		"Not Found",
		"The requested resource was not found",
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusMethodNotAllowed,
		TypeInternal,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

// getStackTrace returns the current stack trace
func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

// Middleware returns an error handling middleware
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Wrap the response writer to capture errors
		ww := &errorResponseWriter{
			ResponseWriter: w,
			handler:        h,
			request:        r,
		}

		// Defer panic recovery
		defer func() {
			if err := recover(); err != nil {
				h.HandlePanic(ww, r, err)
			}
		}()

		next.ServeHTTP(ww, r)
	})
}

// errorResponseWriter wraps http.ResponseWriter to capture errors
type errorResponseWriter struct {
	http.ResponseWriter
	handler *ErrorHandler
	request *http.Request
	written bool
	status  int
}

func (w *errorResponseWriter) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true

		// Intercept error status codes
		if status >= 400 && status < 600 {
			// Log error responses
			w.handler.logger.WarnContext(w.request.Context(), "error response",
				slog.Int("status", status),
				slog.String("path", w.request.URL.Path),
				slog.String("method", w.request.Method),
			)
		}

		w.ResponseWriter.WriteHeader(status)
	}
}

func (w *errorResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// JSON helper for consistent JSON error responses
func (h *ErrorHandler) JSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	render.Status(r, status)
	render.JSON(w, r, v)
}
