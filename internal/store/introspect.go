package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"atlascli/pkg/contracts/domain"
	"atlascli/pkg/contracts/fields"
	"atlascli/pkg/contracts/schema"
)

// ListTables returns the names of the tables present in the database file,
// sorted. Legacy stores may hold tables outside the registry; they are
// listed as found.
func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT table_name FROM information_schema.tables
		WHERE table_schema = 'main' ORDER BY table_name`)
	if err != nil {
		return nil, wrapOp("list tables", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, wrapOp("list tables", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapOp("list tables", err)
	}
	return names, nil
}

// TableInfo describes a registered table as it exists in the database:
// columns from PRAGMA table_info plus the current row count. The name must
// be registered; that check also keeps it out of the interpolated SQL.
func (s *Store) TableInfo(ctx context.Context, name string) (*domain.TableInfo, error) {
	if _, err := schema.Get(name); err != nil {
		return nil, err
	}

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", name))
	if err != nil {
		return nil, wrapOp("table info", err)
	}
	defer rows.Close()

	info := &domain.TableInfo{Name: name}
	for rows.Next() {
		var (
			cid     int
			colName string
			colType string
			notNull bool
			dflt    sql.NullString
			pk      bool
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, wrapOp("table info", err)
		}
		info.Columns = append(info.Columns, domain.ColumnInfo{
			Name:       colName,
			Type:       colType,
			Nullable:   !notNull,
			PrimaryKey: pk,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, wrapOp("table info", err)
	}

	row := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT count(*) FROM %s", name))
	if err := row.Scan(&info.RowCount); err != nil {
		return nil, wrapOp("table info", err)
	}
	return info, nil
}

// EnsurePreCloseColumn migrates legacy snapshot tables created before the
// pre_close column existed. Current schemas are left untouched.
func (s *Store) EnsurePreCloseColumn(ctx context.Context) error {
	if s.readOnly {
		return wrapOp("migrate", ErrReadOnly)
	}

	var present int
	row := s.db.QueryRowContext(ctx, `SELECT count(*) FROM information_schema.columns
		WHERE table_name = ? AND column_name = ?`, schema.DailyMarketSnapshot, fields.PreClose)
	if err := row.Scan(&present); err != nil {
		return wrapOp("migrate", err)
	}
	if present > 0 {
		return nil
	}

	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s DOUBLE", schema.DailyMarketSnapshot, fields.PreClose)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return wrapOp("migrate", err)
	}
	s.logger.InfoContext(ctx, "added missing pre_close column",
		slog.String("table", schema.DailyMarketSnapshot))
	return nil
}
