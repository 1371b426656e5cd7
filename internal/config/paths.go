package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	ExecutableDir string
	DataDir       string
	DailyDir      string
	HistoryDir    string
	DBDir         string
	ExportsDir    string
	LogsDir       string

	// Well-known files
	DatabaseFile string
}

// GetPaths returns the application paths relative to the executable location
// All paths are ALWAYS relative to the executable directory, never the current working directory
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	// All paths are relative to the executable directory.
	// Directory structure:
	//   data/
	//     ├── daily/     (raw daily snapshot CSVs: YYYY-MM-DD_Astock.csv)
	//     ├── history/   (per-ticker history CSVs)
	//     ├── db/        (DuckDB database files)
	//     └── exports/   (generated CSV/XLSX exports)
	//   logs/            (application logs)

	dataDir := filepath.Join(exeDir, "data")
	dbDir := filepath.Join(dataDir, "db")

	paths := &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		DailyDir:      filepath.Join(dataDir, "daily"),
		HistoryDir:    filepath.Join(dataDir, "history"),
		DBDir:         dbDir,
		ExportsDir:    filepath.Join(dataDir, "exports"),
		LogsDir:       filepath.Join(exeDir, "logs"),

		DatabaseFile: filepath.Join(dbDir, DefaultDatabaseFile),
	}

	return paths, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.DailyDir,
		p.HistoryDir,
		p.DBDir,
		p.ExportsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// GetRelativePath returns a path relative to the executable directory
func (p *Paths) GetRelativePath(subpath string) string {
	return filepath.Join(p.ExecutableDir, subpath)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetDailyCSVPath returns the path for a daily snapshot CSV file. Daily
// files are grouped under per-year subdirectories
// (e.g., data/daily/2024/2024-05-17_Astock.csv).
func (p *Paths) GetDailyCSVPath(date time.Time) string {
	filename := fmt.Sprintf("%s%s", date.Format("2006-01-02"), DailySnapshotSuffix)
	return filepath.Join(p.DailyDir, date.Format("2006"), filename)
}

// GetDailyYearDir returns the directory holding one year's snapshot files.
func (p *Paths) GetDailyYearDir(year int) string {
	return filepath.Join(p.DailyDir, fmt.Sprintf("%04d", year))
}

// GetHistoryCSVPath returns the path for a per-ticker history CSV file
func (p *Paths) GetHistoryCSVPath(filename string) string {
	return filepath.Join(p.HistoryDir, filename)
}

// GetExportPath returns the path for an export file
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetDatabasePath returns the database file path
// This ONLY uses the executable directory path - no current working directory fallback
func GetDatabasePath() (string, error) {
	paths, err := GetPaths()
	if err != nil {
		return "", fmt.Errorf("failed to get paths: %w", err)
	}

	logger := slog.Default()
	if logger != nil {
		absPath, _ := filepath.Abs(paths.DatabaseFile)
		logger.Debug("Database path resolved",
			slog.String("configured", paths.DatabaseFile),
			slog.String("absolute", absPath),
			slog.Bool("file_exists", FileExists(paths.DatabaseFile)))
	}

	return paths.DatabaseFile, nil
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("daily", p.DailyDir),
			slog.String("history", p.HistoryDir),
			slog.String("db", p.DBDir),
			slog.String("exports", p.ExportsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("files",
			slog.String("database", p.DatabaseFile),
		))
}
