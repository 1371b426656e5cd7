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
)

func main() {
	filePath := flag.String("file", "", "load a specific history CSV file")
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
		cfg.Logging.FilePath = paths.GetLogPath("loadhistory.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	var csvPaths []string
	if *filePath != "" {
		if _, err := os.Stat(*filePath); err != nil {
			logger.Error("History file not found", slog.String("path", *filePath))
			os.Exit(1)
		}
		csvPaths = []string{*filePath}
	} else {
		discovery := files.NewDiscovery("")
		infos, err := discovery.FindCSVFiles(paths.HistoryDir)
		if err != nil {
			logger.Error("Failed to list history files", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if len(infos) == 0 {
			logger.Error("No history CSV files found", slog.String("dir", paths.HistoryDir))
			os.Exit(1)
		}
		for _, fi := range infos {
			csvPaths = append(csvPaths, fi.Path)
		}
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
	results, err := s.LoadFiles(ctx, cleaner, pipeline.HistorySource(), csvPaths, *limit)
	if err != nil {
		logger.Error("History load failed, transaction rolled back",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	total := 0
	for _, res := range results {
		total += res.Rows
		logger.Info("Loaded history file",
			slog.String("path", res.Path),
			slog.Int("rows", res.Rows))
	}

	logger.Info("History load complete",
		slog.Int("files", len(results)),
		slog.Int("rows", total),
		slog.Duration("duration", time.Since(start)))
}
