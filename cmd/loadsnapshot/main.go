package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"atlascli/internal/config"
	"atlascli/internal/files"
	"atlascli/internal/infrastructure"
	"atlascli/internal/pipeline"
	"atlascli/internal/store"
	"atlascli/pkg/contracts/conventions"
)

func main() {
	filePath := flag.String("file", "", "load a specific snapshot CSV file")
	dateArg := flag.String("date", "", "load the snapshot for a trade date (YYYY-MM-DD)")
	yearArg := flag.Int("year", 0, "load every snapshot file of a year")
	limit := flag.Int("limit", 0, "load at most N files (0 = all)")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Store.Path = paths.DatabaseFile
		cfg.Logging.FilePath = paths.GetLogPath("loadsnapshot.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	exclusive := 0
	for _, set := range []bool{*filePath != "", *dateArg != "", *yearArg != 0} {
		if set {
			exclusive++
		}
	}
	if exclusive > 1 {
		logger.Error("--file, --date and --year are mutually exclusive")
		os.Exit(1)
	}

	csvPaths, err := resolveSnapshotPaths(paths, *filePath, *dateArg, *yearArg)
	if err != nil {
		logger.Error("Failed to resolve snapshot files", slog.String("error", err.Error()))
		os.Exit(1)
	}

	s, err := store.Open(cfg.Store.Path, store.Options{
		MaxOpenConns: cfg.Store.MaxOpenConns,
		MaxIdleConns: cfg.Store.MaxIdleConns,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("Failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.InitSchema(ctx); err != nil {
		logger.Error("Failed to initialize schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *limit == 0 {
		*limit = cfg.Pipeline.LoadLimit
	}

	cleaner := pipeline.NewCleaner(logger, pipeline.CleanerConfig{
		LimitTolerance: cfg.Pipeline.LimitTolerance,
		DateFormat:     cfg.Pipeline.DateFormat,
		StrictColumns:  cfg.Pipeline.StrictColumns,
	})

	start := time.Now()
	results, err := s.LoadFiles(ctx, cleaner, pipeline.SnapshotSource(), csvPaths, *limit)
	if err != nil {
		logger.Error("Snapshot load failed, transaction rolled back",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	total := 0
	for _, res := range results {
		total += res.Rows
		logger.Info("Loaded snapshot file",
			slog.String("path", res.Path),
			slog.Int("rows", res.Rows))
	}

	logger.Info("Snapshot load complete",
		slog.Int("files", len(results)),
		slog.Int("rows", total),
		slog.Duration("duration", time.Since(start)))
}

// resolveSnapshotPaths turns the flag combination into a list of CSV files.
// With no flags, the most recently dated snapshot under data/daily wins.
func resolveSnapshotPaths(paths *config.Paths, file, dateArg string, year int) ([]string, error) {
	switch {
	case file != "":
		if _, err := os.Stat(file); err != nil {
			return nil, err
		}
		return []string{file}, nil

	case dateArg != "":
		date, err := time.Parse(conventions.DateFormat, dateArg)
		if err != nil {
			return nil, err
		}
		path := paths.GetDailyCSVPath(date)
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
		return []string{path}, nil

	case year != 0:
		discovery := files.NewDiscovery("")
		infos, err := discovery.SnapshotsForYear(paths.DailyDir, year)
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(infos))
		for _, fi := range infos {
			out = append(out, fi.Path)
		}
		return out, nil

	default:
		discovery := files.NewDiscovery("")
		latest, found, err := discovery.LatestSnapshot(paths.DailyDir)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, os.ErrNotExist
		}
		return []string{latest.Path}, nil
	}
}
