package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"

	"atlascli/internal/infrastructure"
	"atlascli/pkg/contracts/schema"
)

// Options configure an opened store. Zero values select the defaults.
type Options struct {
	// ReadOnly opens the database file with access_mode=read_only. Every
	// write method fails with ErrReadOnly.
	ReadOnly bool

	// MaxOpenConns caps the connection pool; zero means 4. Read-only
	// stores may serve concurrent readers, writers assume exclusive
	// access to the file.
	MaxOpenConns int

	// MaxIdleConns caps idle pooled connections; zero means 2.
	MaxIdleConns int

	// QueryTimeout bounds each read query; zero means no deadline beyond
	// the caller's context.
	QueryTimeout time.Duration

	Logger  *slog.Logger
	Metrics *infrastructure.BusinessMetrics
}

// Store owns one DuckDB database file: connection lifecycle, schema
// initialization, saves, multi-file loads, and read accessors.
type Store struct {
	db           *sql.DB
	path         string
	readOnly     bool
	queryTimeout time.Duration
	logger       *slog.Logger
	metrics      *infrastructure.BusinessMetrics
}

// Open bootstraps the database directory, opens the DuckDB file, and
// verifies the connection. The caller owns the returned store and must
// Close it on every exit path.
func Open(path string, opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "store"))

	if !opts.ReadOnly {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, wrapOp("open", fmt.Errorf("failed to create database directory: %w", err))
		}
	}

	dsn := path
	if opts.ReadOnly {
		dsn += "?access_mode=read_only"
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, wrapOp("open", err)
	}

	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 4
	}
	maxIdle := opts.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 2
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, wrapOp("open", err)
	}

	logger.Debug("store opened",
		slog.String("path", path),
		slog.Bool("read_only", opts.ReadOnly))

	return &Store{
		db:           db,
		path:         path,
		readOnly:     opts.ReadOnly,
		queryTimeout: opts.QueryTimeout,
		logger:       logger,
		metrics:      opts.Metrics,
	}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return wrapOp("close", err)
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// ReadOnly reports whether the store rejects writes.
func (s *Store) ReadOnly() bool { return s.readOnly }

// queryCtx derives a deadline context for a read query when a query
// timeout is configured.
func (s *Store) queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// Ping verifies the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return wrapOp("ping", s.db.PingContext(ctx))
}

// InitSchema idempotently creates every registered table.
func (s *Store) InitSchema(ctx context.Context) error {
	if s.readOnly {
		return wrapOp("init", ErrReadOnly)
	}
	if err := schema.InitializeAll(ctx, s.db); err != nil {
		return wrapOp("init", err)
	}
	s.logger.InfoContext(ctx, "store schema initialized",
		slog.Any("tables", schema.Names()))
	return nil
}
