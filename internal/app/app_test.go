package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlascli/internal/config"
	"atlascli/internal/infrastructure"
	"atlascli/internal/shared/testutil"
	"atlascli/internal/store"
)

// The prometheus exporter registers with the process-global registry, so
// OTel providers are created once and shared across tests.
var (
	otelOnce      sync.Once
	testProviders *infrastructure.OTelProviders
	testMetrics   *infrastructure.BusinessMetrics
	otelErr       error
)

func sharedOTel(t *testing.T) (*infrastructure.OTelProviders, *infrastructure.BusinessMetrics) {
	t.Helper()
	otelOnce.Do(func() {
		logger, _ := testutil.NewTestLogger(t)
		testProviders, otelErr = infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
		if otelErr != nil {
			return
		}
		testMetrics, otelErr = infrastructure.CreateBusinessMetrics(testProviders.Meter)
	})
	require.NoError(t, otelErr)
	return testProviders, testMetrics
}

// newTestApp wires an Application around a seeded read-only store without
// going through config.Load, so tests stay independent of the environment.
func newTestApp(t *testing.T) *Application {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "market.duckdb")

	rw, err := store.Open(dbPath, store.Options{})
	require.NoError(t, err)
	require.NoError(t, rw.InitSchema(ctx))
	_, err = rw.SaveSnapshots(ctx, testutil.SnapshotBatch(t), false)
	require.NoError(t, err)
	require.NoError(t, rw.Close())

	logger, _ := testutil.NewTestLogger(t)
	providers, metrics := sharedOTel(t)

	ro, err := store.Open(dbPath, store.Options{ReadOnly: true, Logger: logger, Metrics: metrics})
	require.NoError(t, err)
	t.Cleanup(func() { ro.Close() })

	cfg := config.Default()
	cfg.Store.Path = dbPath

	app := &Application{
		Config:          cfg,
		Logger:          logger,
		OTelProviders:   providers,
		BusinessMetrics: metrics,
		Store:           ro,
	}
	app.setupRouter()
	app.createServer()
	return app
}

func TestApplication_HealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestApplication_SnapshotQuery(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/snapshots?date=2024-01-02", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.Greater(t, body["count"].(float64), float64(0))
}

func TestApplication_TablesAndVersion(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.NotEmpty(t, info["version"])
	assert.NotEmpty(t, info["go_version"])
}

func TestApplication_ExportDownload(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export/daily_market_snapshot?format=csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "trade_date")
}

func TestApplication_UnknownTableIsProblemJSON(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables/not_a_table", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestApplication_MetricsEndpoint(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApplication_SecurityHeaders(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestApplication_GracefulStop(t *testing.T) {
	app := newTestApp(t)
	app.Config.Server.Port = 0 // let the OS pick

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, app.Start(ctx, cancel))
	require.NoError(t, app.Stop(context.Background()))
}
