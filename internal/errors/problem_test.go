package errors

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProblemDetails(t *testing.T) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		TypeTableNotFound,
		"Table Not Found",
		"unknown table \"foo\"",
		"/api/tables/foo",
	)

	assert.Equal(t, http.StatusNotFound, problem.Status)
	assert.Equal(t, TypeTableNotFound, problem.Type)
	assert.Equal(t, "Table Not Found", problem.Title)
	assert.Equal(t, "/api/tables/foo", problem.Instance)
	assert.NotNil(t, problem.Extensions)
}

func TestProblemDetails_WithExtension(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", "", "/api/load")

	got := problem.WithExtension("table", "market_phase").
		WithExtension("missing_columns", []string{"trade_date"})

	// Chaining returns the same instance
	assert.Same(t, problem, got)
	assert.Equal(t, "market_phase", problem.Extensions["table"])
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	t.Run("flattens extensions", func(t *testing.T) {
		problem := NewProblemDetails(http.StatusConflict, TypeDuplicateKey, "Duplicate Primary Key", "dup", "/api/load").
			WithExtension("trace_id", "abc-123")

		data, err := json.Marshal(problem)
		require.NoError(t, err)

		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &m))

		assert.Equal(t, TypeDuplicateKey, m["type"])
		assert.Equal(t, float64(http.StatusConflict), m["status"])
		assert.Equal(t, "abc-123", m["trace_id"])
	})

	t.Run("omits empty detail and instance", func(t *testing.T) {
		problem := NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error", "", "")

		data, err := json.Marshal(problem)
		require.NoError(t, err)

		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &m))

		assert.NotContains(t, m, "detail")
		assert.NotContains(t, m, "instance")
	})
}
