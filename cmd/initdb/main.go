package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"atlascli/internal/config"
	"atlascli/internal/infrastructure"
	"atlascli/internal/store"
)

func main() {
	dbPath := flag.String("db", "", "database file (defaults to data/db/market.duckdb)")
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
		cfg.Logging.FilePath = paths.GetLogPath("initdb.log")
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	s, err := store.Open(cfg.Store.Path, store.Options{Logger: logger})
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

	// Upgrade pre-existing databases created before pre_close was stored.
	if err := s.EnsurePreCloseColumn(ctx); err != nil {
		logger.Error("Failed to upgrade snapshot table", slog.String("error", err.Error()))
		os.Exit(1)
	}

	tables, err := s.ListTables(ctx)
	if err != nil {
		logger.Error("Failed to list tables", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Database initialized",
		slog.String("path", s.Path()),
		slog.Any("tables", tables))
}
