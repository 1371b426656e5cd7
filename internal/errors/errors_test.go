package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		apiError *APIError
		want     string
	}{
		{
			name: "simple message",
			apiError: &APIError{
				StatusCode: http.StatusBadRequest,
				ErrorCode:  "INVALID_REQUEST",
				Message:    "Invalid request format",
			},
			want: "Invalid request format",
		},
		{
			name: "empty message",
			apiError: &APIError{
				StatusCode: http.StatusInternalServerError,
				ErrorCode:  "INTERNAL_SERVER_ERROR",
				Message:    "",
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.apiError.Error()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	got := New(http.StatusBadRequest, "INVALID_TICKER", "Ticker matches no exchange prefix rule")

	assert.Equal(t, &APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  "INVALID_TICKER",
		Message:    "Ticker matches no exchange prefix rule",
	}, got)
}

func TestNewWithDetails(t *testing.T) {
	got := NewWithDetails(http.StatusNotFound, "TABLE_NOT_FOUND", "Table not registered in schema", "daily_snapshot")

	assert.Equal(t, http.StatusNotFound, got.StatusCode)
	assert.Equal(t, "TABLE_NOT_FOUND", got.ErrorCode)
	assert.Equal(t, "daily_snapshot", got.Details)
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name       string
		apiError   *APIError
		wantStatus int
		wantCode   string
	}{
		{"invalid request", ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
		{"validation failed", ErrValidationFailed, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"invalid ticker", ErrInvalidTicker, http.StatusBadRequest, "INVALID_TICKER"},
		{"invalid date", ErrInvalidDate, http.StatusBadRequest, "INVALID_DATE"},
		{"not found", ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"table not found", ErrTableNotFound, http.StatusNotFound, "TABLE_NOT_FOUND"},
		{"file not found", ErrFileNotFound, http.StatusNotFound, "FILE_NOT_FOUND"},
		{"coercion failed", ErrCoercionFailed, http.StatusUnprocessableEntity, "COERCION_FAILED"},
		{"rate limit exceeded", ErrRateLimitExceeded, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{"load failed", ErrLoadFailed, http.StatusInternalServerError, "LOAD_FAILED"},
		{"store failure", ErrStoreFailure, http.StatusInternalServerError, "STORE_ERROR"},
		{"export failed", ErrExportFailed, http.StatusInternalServerError, "EXPORT_FAILED"},
		{"service unavailable", ErrServiceUnavailable, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.apiError.StatusCode)
			assert.Equal(t, tt.wantCode, tt.apiError.ErrorCode)
			assert.NotEmpty(t, tt.apiError.Message)
		})
	}
}

func TestHelperConstructors(t *testing.T) {
	t.Run("InvalidRequestWithError", func(t *testing.T) {
		err := InvalidRequestWithError(fmt.Errorf("bad json"))
		assert.Equal(t, http.StatusBadRequest, err.StatusCode)
		assert.Equal(t, "INVALID_REQUEST", err.ErrorCode)
		assert.Equal(t, "bad json", err.Details)
	})

	t.Run("ErrValidation carries field detail", func(t *testing.T) {
		err := ErrValidation("date", "must be YYYY-MM-DD")
		assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)

		detail, ok := err.Details.(ValidationError)
		require.True(t, ok)
		assert.Equal(t, "date", detail.Field)
		assert.Equal(t, "must be YYYY-MM-DD", detail.Message)
	})

	t.Run("NotFoundError names the resource", func(t *testing.T) {
		err := NotFoundError("snapshot")
		assert.Equal(t, http.StatusNotFound, err.StatusCode)
		assert.Equal(t, "snapshot not found", err.Message)
	})

	t.Run("TableNotFoundError wraps cause", func(t *testing.T) {
		err := TableNotFoundError(fmt.Errorf("unknown table \"foo\""))
		assert.Equal(t, "TABLE_NOT_FOUND", err.ErrorCode)
		assert.Equal(t, "unknown table \"foo\"", err.Details)
	})

	t.Run("StoreFailureError names the operation", func(t *testing.T) {
		err := StoreFailureError("save snapshots", fmt.Errorf("disk full"))
		assert.Equal(t, "STORE_ERROR", err.ErrorCode)
		assert.Contains(t, err.Message, "save snapshots")
	})

	t.Run("FileSystemError names the operation", func(t *testing.T) {
		err := FileSystemError("discover files", fmt.Errorf("permission denied"))
		assert.Equal(t, "FILESYSTEM_ERROR", err.ErrorCode)
		assert.Contains(t, err.Message, "discover files")
	})

	t.Run("ErrLoadExecution", func(t *testing.T) {
		err := ErrLoadExecution(fmt.Errorf("empty batch"))
		assert.Equal(t, "LOAD_FAILED", err.ErrorCode)
		assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	})
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "start", Message: "unparseable date"},
		{Field: "limit", Message: "must be non-negative"},
	})

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)

	details, ok := err.Details.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, details.Errors, 2)
}

func TestErrPanic(t *testing.T) {
	err := ErrPanic("index out of range")

	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", err.ErrorCode)

	rec, ok := err.Details.(PanicRecovery)
	require.True(t, ok)
	assert.Equal(t, "index out of range", rec.Message)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, ErrTableNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "TABLE_NOT_FOUND", resp.Error.ErrorCode)
}

func TestAPIError_Render(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/tables/foo", nil)

	err := ErrTableNotFound.Render(w, r)
	assert.NoError(t, err)
}
