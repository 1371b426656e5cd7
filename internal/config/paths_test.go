package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetPaths tests executable-relative path resolution
func TestGetPaths(t *testing.T) {
	t.Run("basic path resolution", func(t *testing.T) {
		paths, err := GetPaths()
		require.NoError(t, err)
		require.NotNil(t, paths)

		assert.True(t, filepath.IsAbs(paths.ExecutableDir), "ExecutableDir should be absolute")
		assert.True(t, filepath.IsAbs(paths.DataDir), "DataDir should be absolute")
		assert.True(t, filepath.IsAbs(paths.LogsDir), "LogsDir should be absolute")
		assert.True(t, filepath.IsAbs(paths.DatabaseFile), "DatabaseFile should be absolute")

		assert.Equal(t, filepath.Join(paths.ExecutableDir, "data"), paths.DataDir)
		assert.Equal(t, filepath.Join(paths.ExecutableDir, "logs"), paths.LogsDir)
	})

	t.Run("consistent calls return same paths", func(t *testing.T) {
		paths1, err1 := GetPaths()
		require.NoError(t, err1)

		paths2, err2 := GetPaths()
		require.NoError(t, err2)

		assert.Equal(t, paths1.ExecutableDir, paths2.ExecutableDir)
		assert.Equal(t, paths1.DataDir, paths2.DataDir)
		assert.Equal(t, paths1.DatabaseFile, paths2.DatabaseFile)
	})

	t.Run("nested directory structure", func(t *testing.T) {
		paths, err := GetPaths()
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(paths.DataDir, "daily"), paths.DailyDir)
		assert.Equal(t, filepath.Join(paths.DataDir, "history"), paths.HistoryDir)
		assert.Equal(t, filepath.Join(paths.DataDir, "db"), paths.DBDir)
		assert.Equal(t, filepath.Join(paths.DataDir, "exports"), paths.ExportsDir)
	})

	t.Run("database file lives in db dir", func(t *testing.T) {
		paths, err := GetPaths()
		require.NoError(t, err)

		assert.Equal(t, paths.DBDir, filepath.Dir(paths.DatabaseFile))
		assert.Equal(t, DefaultDatabaseFile, filepath.Base(paths.DatabaseFile))
	})
}

// TestEnsureDirectories tests directory creation functionality
func TestEnsureDirectories(t *testing.T) {
	tempDir := t.TempDir()

	paths := &Paths{
		ExecutableDir: tempDir,
		DataDir:       filepath.Join(tempDir, "data"),
		DailyDir:      filepath.Join(tempDir, "data", "daily"),
		HistoryDir:    filepath.Join(tempDir, "data", "history"),
		DBDir:         filepath.Join(tempDir, "data", "db"),
		ExportsDir:    filepath.Join(tempDir, "data", "exports"),
		LogsDir:       filepath.Join(tempDir, "logs"),
		DatabaseFile:  filepath.Join(tempDir, "data", "db", DefaultDatabaseFile),
	}

	t.Run("creates all directories", func(t *testing.T) {
		err := paths.EnsureDirectories()
		require.NoError(t, err)

		assert.DirExists(t, paths.DataDir)
		assert.DirExists(t, paths.DailyDir)
		assert.DirExists(t, paths.HistoryDir)
		assert.DirExists(t, paths.DBDir)
		assert.DirExists(t, paths.ExportsDir)
		assert.DirExists(t, paths.LogsDir)
	})

	t.Run("idempotent - can be called multiple times", func(t *testing.T) {
		require.NoError(t, paths.EnsureDirectories())
		require.NoError(t, paths.EnsureDirectories())

		assert.DirExists(t, paths.DataDir)
		assert.DirExists(t, paths.LogsDir)
	})
}

func TestPathHelpers(t *testing.T) {
	paths := &Paths{
		ExecutableDir: "/opt/atlas",
		DailyDir:      "/opt/atlas/data/daily",
		HistoryDir:    "/opt/atlas/data/history",
		ExportsDir:    "/opt/atlas/data/exports",
		LogsDir:       "/opt/atlas/logs",
	}

	date := time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "/opt/atlas/data/daily/2024/2024-05-17_Astock.csv", paths.GetDailyCSVPath(date))
	assert.Equal(t, "/opt/atlas/data/daily/2024", paths.GetDailyYearDir(2024))
	assert.Equal(t, "/opt/atlas/data/history/600000.csv", paths.GetHistoryCSVPath("600000.csv"))
	assert.Equal(t, "/opt/atlas/data/exports/snapshots.csv", paths.GetExportPath("snapshots.csv"))
	assert.Equal(t, "/opt/atlas/logs/app.log", paths.GetLogPath("app.log"))
	assert.Equal(t, "/opt/atlas/config.yaml", paths.GetRelativePath("config.yaml"))
}
