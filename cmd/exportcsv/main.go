package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"atlascli/internal/config"
	"atlascli/internal/exporter"
	"atlascli/internal/infrastructure"
	"atlascli/internal/store"
	"atlascli/pkg/contracts/conventions"
	"atlascli/pkg/contracts/domain"
	"atlascli/pkg/contracts/schema"
)

func main() {
	table := flag.String("table", schema.DailyMarketSnapshot, "table to export")
	format := flag.String("format", "csv", "output format: csv or xlsx")
	dateArg := flag.String("date", "", "restrict to one trade date (YYYY-MM-DD)")
	ticker := flag.String("ticker", "", "restrict to one normalized ticker")
	startArg := flag.String("start", "", "range start (YYYY-MM-DD, inclusive)")
	endArg := flag.String("end", "", "range end (YYYY-MM-DD, inclusive)")
	output := flag.String("output", "", "output file (defaults into data/exports)")
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
		cfg.Logging.FilePath = paths.GetLogPath("exportcsv.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	if _, err := schema.Get(*table); err != nil {
		logger.Error("Unknown table", slog.String("table", *table), slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *format != "csv" && *format != "xlsx" {
		logger.Error("Unsupported format, want csv or xlsx", slog.String("format", *format))
		os.Exit(1)
	}
	if *ticker != "" && !conventions.TickerPattern.MatchString(*ticker) {
		logger.Error("Ticker must be normalized, like 600000.SH", slog.String("ticker", *ticker))
		os.Exit(1)
	}

	date, from, to, err := parseDates(*dateArg, *startArg, *endArg)
	if err != nil {
		logger.Error("Invalid date flag", slog.String("error", err.Error()))
		os.Exit(1)
	}

	s, err := store.Open(cfg.Store.Path, store.Options{
		ReadOnly:     true,
		MaxOpenConns: cfg.Store.MaxOpenConns,
		MaxIdleConns: cfg.Store.MaxIdleConns,
		QueryTimeout: cfg.Store.QueryTimeout,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("Failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer s.Close()

	ctx := context.Background()

	headers, records, err := buildRecords(ctx, s, *table, date, from, to, *ticker)
	if err != nil {
		logger.Error("Failed to query table",
			slog.String("table", *table),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	outPath := *output
	if outPath == "" {
		outPath = fmt.Sprintf("%s_%s.%s", *table, time.Now().Format("2006-01-02"), *format)
	}

	switch *format {
	case "xlsx":
		err = exporter.NewXLSXWriter(paths).WriteTable(outPath, *table, headers, records)
	default:
		err = exporter.NewCSVWriter(paths).WriteSimpleCSV(outPath, headers, records)
	}
	if err != nil {
		logger.Error("Failed to write export",
			slog.String("output", outPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Export complete",
		slog.String("table", *table),
		slog.String("format", *format),
		slog.String("output", outPath),
		slog.Int("rows", len(records)))
}

func parseDates(dateArg, startArg, endArg string) (date, from, to *time.Time, err error) {
	parse := func(v string) (*time.Time, error) {
		if v == "" {
			return nil, nil
		}
		t, err := time.Parse(conventions.DateFormat, v)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}

	if date, err = parse(dateArg); err != nil {
		return nil, nil, nil, err
	}
	if from, err = parse(startArg); err != nil {
		return nil, nil, nil, err
	}
	if to, err = parse(endArg); err != nil {
		return nil, nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, nil, fmt.Errorf("end %s is before start %s", endArg, startArg)
	}
	return date, from, to, nil
}

func buildRecords(ctx context.Context, s *store.Store, table string, date, from, to *time.Time, ticker string) ([]string, [][]string, error) {
	switch table {
	case schema.DailyMarketSnapshot:
		f := domain.SnapshotFilter{Date: date, DateFrom: from, DateTo: to}
		if ticker != "" {
			f.Tickers = []string{ticker}
		}
		rows, err := s.Snapshots(ctx, f)
		if err != nil {
			return nil, nil, err
		}
		headers, records := exporter.SnapshotRecords(rows)
		return headers, records, nil

	case schema.MarketPhase:
		f := domain.PhaseFilter{DateFrom: from, DateTo: to}
		if date != nil {
			f.DateFrom, f.DateTo = date, date
		}
		rows, err := s.Phases(ctx, f)
		if err != nil {
			return nil, nil, err
		}
		headers, records := exporter.PhaseRecords(rows)
		return headers, records, nil

	default:
		f := domain.ExecutionFilter{DateFrom: from, DateTo: to}
		if ticker != "" {
			f.Tickers = []string{ticker}
		}
		rows, err := s.Executions(ctx, f)
		if err != nil {
			return nil, nil, err
		}
		headers, records := exporter.ExecutionRecords(rows)
		return headers, records, nil
	}
}
