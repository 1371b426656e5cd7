package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"atlascli/internal/infrastructure"
	"atlascli/internal/pipeline"
	"atlascli/pkg/contracts/domain"
	"atlascli/pkg/contracts/schema"
)

// LoadFiles cleans an ordered list of source files and upserts each one
// inside a single transaction. Any file's failure, validation or storage,
// rolls back the entire load; no partial set of files is ever committed.
// Re-running a load is safe because the upsert is idempotent on the primary
// key. A positive limit caps the number of files taken from paths.
func (s *Store) LoadFiles(ctx context.Context, cleaner *pipeline.Cleaner, source pipeline.Source, paths []string, limit int) ([]domain.LoadResult, error) {
	if s.readOnly {
		return nil, wrapOp("load", ErrReadOnly)
	}
	if limit > 0 && len(paths) > limit {
		paths = paths[:limit]
	}
	if len(paths) == 0 {
		return nil, nil
	}

	table, err := schema.Get(source.Table)
	if err != nil {
		return nil, err
	}

	infrastructure.RecordActiveLoadChange(ctx, s.metrics, 1)
	defer infrastructure.RecordActiveLoadChange(ctx, s.metrics, -1)

	s.logger.InfoContext(ctx, "starting multi-file load",
		slog.String("source", source.Name),
		slog.String("table", source.Table),
		slog.Int("files", len(paths)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapOp("load", err)
	}
	defer tx.Rollback()

	results := make([]domain.LoadResult, 0, len(paths))
	for _, path := range paths {
		start := time.Now()

		b, err := cleaner.Clean(ctx, path, source)
		if err == nil {
			err = saveTx(ctx, tx, table, b, false)
		}
		var rows int64
		if b != nil {
			rows = int64(b.Len())
		}
		infrastructure.RecordLoadMetrics(ctx, s.metrics, source.Table, rows, time.Since(start), err)

		if err != nil {
			s.logger.ErrorContext(ctx, "load aborted, rolling back",
				slog.String("path", path),
				slog.String("error", err.Error()),
				slog.Int("files_rolled_back", len(results)))
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}

		results = append(results, domain.LoadResult{
			Path:  path,
			Table: source.Table,
			Rows:  b.Len(),
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapOp("load", err)
	}

	total := 0
	for _, r := range results {
		total += r.Rows
	}
	s.logger.InfoContext(ctx, "multi-file load committed",
		slog.String("table", source.Table),
		slog.Int("files", len(results)),
		slog.Int("rows", total))

	return results, nil
}
