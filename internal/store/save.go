package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"atlascli/internal/infrastructure"
	"atlascli/pkg/contracts/batch"
	"atlascli/pkg/contracts/fields"
	"atlascli/pkg/contracts/schema"
	"atlascli/pkg/contracts/validate"
)

// SaveSnapshots persists a canonical daily snapshot batch. With replace the
// batch's (trade_date, ticker) keys are deleted first and the rows inserted
// plain; otherwise the rows are upserted. Returns the number of rows written.
func (s *Store) SaveSnapshots(ctx context.Context, b *batch.Batch, replace bool) (int, error) {
	return s.save(ctx, schema.DailyMarketSnapshot, b, replace)
}

// SavePhases persists a market phase batch, keyed by trade_date.
func (s *Store) SavePhases(ctx context.Context, b *batch.Batch, replace bool) (int, error) {
	return s.save(ctx, schema.MarketPhase, b, replace)
}

// SaveExecutions persists a trade execution batch. Rows with a blank
// trade_id get a generated UUID before validation.
func (s *Store) SaveExecutions(ctx context.Context, b *batch.Batch, replace bool) (int, error) {
	b = b.Clone()
	if b.HasColumn(fields.TradeID) {
		for i := 0; i < b.Len(); i++ {
			id, _ := b.Cell(i, fields.TradeID).(string)
			if strings.TrimSpace(id) == "" {
				b.SetCell(i, fields.TradeID, uuid.NewString())
			}
		}
	}
	return s.save(ctx, schema.TradeExecution, b, replace)
}

// save validates a batch against the registry, coerces its cell types, and
// writes it inside one transaction.
func (s *Store) save(ctx context.Context, tableName string, b *batch.Batch, replace bool) (n int, err error) {
	op := "upsert"
	if replace {
		op = "replace"
	}
	start := time.Now()
	defer func() {
		infrastructure.RecordStoreQueryMetrics(ctx, s.metrics, tableName, op, time.Since(start), err)
	}()

	if s.readOnly {
		return 0, wrapOp(op, ErrReadOnly)
	}

	table, err := schema.Get(tableName)
	if err != nil {
		return 0, err
	}

	// Validation mutates cells during coercion; work on a copy so the
	// caller's batch stays untouched.
	b = b.Clone()
	if err = validate.QuickValidate(b, tableName, false, true); err != nil {
		return 0, err
	}
	if b.Len() == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, wrapOp(op, err)
	}
	defer tx.Rollback()

	if err = saveTx(ctx, tx, table, b, replace); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, wrapOp(op, err)
	}

	s.logger.InfoContext(ctx, "batch saved",
		slog.String("table", tableName),
		slog.String("mode", op),
		slog.Int("rows", b.Len()))

	return b.Len(), nil
}

// saveTx writes one validated batch through an open transaction. The caller
// owns commit and rollback.
func saveTx(ctx context.Context, tx *sql.Tx, table schema.Table, b *batch.Batch, replace bool) error {
	columns := table.InsertColumns()

	if replace {
		del, err := tx.PrepareContext(ctx, deleteKeySQL(table))
		if err != nil {
			return wrapOp("replace", err)
		}
		defer del.Close()

		for row := 0; row < b.Len(); row++ {
			keys, err := b.Values(row, table.PrimaryKey)
			if err != nil {
				return wrapOp("replace", err)
			}
			if _, err := del.ExecContext(ctx, keys...); err != nil {
				return wrapOp("replace", fmt.Errorf("failed to delete key of row %d: %w", row, err))
			}
		}
	}

	stmtSQL := upsertSQL(table)
	if replace {
		stmtSQL = insertSQL(table)
	}
	ins, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		return wrapOp("insert", err)
	}
	defer ins.Close()

	for row := 0; row < b.Len(); row++ {
		values, err := b.Values(row, columns)
		if err != nil {
			return wrapOp("insert", err)
		}
		if _, err := ins.ExecContext(ctx, values...); err != nil {
			return wrapOp("insert", fmt.Errorf("failed to write row %d: %w", row, err))
		}
	}
	return nil
}

// insertSQL renders a plain positional insert over the insertable columns.
func insertSQL(t schema.Table) string {
	columns := t.InsertColumns()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.Name, strings.Join(columns, ", "), placeholders)
}

// upsertSQL renders the insert-or-overwrite statement: on a primary key
// conflict every non-key column takes the incoming value, last write wins.
func upsertSQL(t schema.Table) string {
	assignments := make([]string, 0, len(t.Columns))
	for _, c := range t.NonKeyInsertColumns() {
		assignments = append(assignments, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	return fmt.Sprintf("%s ON CONFLICT (%s) DO UPDATE SET %s",
		insertSQL(t), strings.Join(t.PrimaryKey, ", "), strings.Join(assignments, ", "))
}

// deleteKeySQL renders a single-key delete used by replace mode.
func deleteKeySQL(t schema.Table) string {
	preds := make([]string, len(t.PrimaryKey))
	for i, k := range t.PrimaryKey {
		preds[i] = k + " = ?"
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s", t.Name, strings.Join(preds, " AND "))
}
