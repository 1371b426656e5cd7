package http

import (
	"context"
	"time"

	"atlascli/pkg/contracts/domain"
)

// StoreReader defines the read-side store operations the API serves.
// *store.Store satisfies it; tests substitute a stub.
type StoreReader interface {
	Snapshots(ctx context.Context, f domain.SnapshotFilter) ([]domain.DailySnapshot, error)
	SnapshotSummary(ctx context.Context, date time.Time) (domain.SnapshotSummary, error)
	Phases(ctx context.Context, f domain.PhaseFilter) ([]domain.MarketPhase, error)
	Executions(ctx context.Context, f domain.ExecutionFilter) ([]domain.TradeExecution, error)
	ListTables(ctx context.Context) ([]string, error)
	TableInfo(ctx context.Context, name string) (*domain.TableInfo, error)
	Ping(ctx context.Context) error
}
