// Package schema is the single source of truth for store table definitions:
// column names, DuckDB types, nullability, and primary keys. The validator
// checks batches against these definitions and the store adapter derives its
// DDL and upsert statements from them; no other package defines column names.
package schema

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// Column describes one table column. Generated columns (created_at) are
// populated by a store default and excluded from batch validation and
// inserts.
type Column struct {
	Name      string
	Type      string
	Nullable  bool
	Generated bool
}

// Table is an immutable table definition.
type Table struct {
	Name       string
	Columns    []Column
	PrimaryKey []string
}

// UnknownTableError reports a registry lookup for a table that was never
// registered.
type UnknownTableError struct {
	Table     string
	Available []string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("unknown table %q, available: %v", e.Table, e.Available)
}

// ColumnNames returns every column name in declaration order.
func (t Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// InsertColumns returns the column names a canonical batch must carry, in
// declaration order: every column except the store-generated ones.
func (t Table) InsertColumns() []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !c.Generated {
			out = append(out, c.Name)
		}
	}
	return out
}

// Column returns the definition of a named column.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// IsPrimaryKey reports whether the named column belongs to the primary key.
func (t Table) IsPrimaryKey(name string) bool {
	for _, k := range t.PrimaryKey {
		if k == name {
			return true
		}
	}
	return false
}

// NonKeyInsertColumns returns the insertable columns outside the primary key,
// the set an upsert overwrites on conflict.
func (t Table) NonKeyInsertColumns() []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !c.Generated && !t.IsPrimaryKey(c.Name) {
			out = append(out, c.Name)
		}
	}
	return out
}

// CreateSQL renders the CREATE TABLE IF NOT EXISTS statement. A single-column
// primary key is inlined on its column; a multi-column key becomes a trailing
// table constraint. Generated created_at columns carry the store default.
// Nullability is metadata for callers; the primary key constraint is what the
// store enforces.
func (t Table) CreateSQL() string {
	defs := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		def := fmt.Sprintf("  %s %s", c.Name, c.Type)
		if len(t.PrimaryKey) == 1 && t.PrimaryKey[0] == c.Name {
			def += " PRIMARY KEY"
		}
		if c.Name == "created_at" && c.Generated {
			def += " DEFAULT CURRENT_TIMESTAMP"
		}
		defs = append(defs, def)
	}
	if len(t.PrimaryKey) > 1 {
		defs = append(defs, fmt.Sprintf("  PRIMARY KEY (%s)", strings.Join(t.PrimaryKey, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);", t.Name, strings.Join(defs, ",\n"))
}

// Executor is the statement-execution surface InitializeAll needs; *sql.DB,
// *sql.Conn, and *sql.Tx all satisfy it.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Get returns the registered definition for a table name.
func Get(name string) (Table, error) {
	t, ok := tableByName[name]
	if !ok {
		return Table{}, &UnknownTableError{Table: name, Available: Names()}
	}
	return t, nil
}

// All returns every registered table in registration order.
func All() []Table {
	out := make([]Table, len(allTables))
	copy(out, allTables)
	return out
}

// Names returns the registered table names, sorted.
func Names() []string {
	out := make([]string, 0, len(tableByName))
	for name := range tableByName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// InitializeAll idempotently creates every registered table.
func InitializeAll(ctx context.Context, exec Executor) error {
	for _, t := range allTables {
		if _, err := exec.ExecContext(ctx, t.CreateSQL()); err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.Name, err)
		}
	}
	return nil
}
