// Package batch provides the in-memory record set the validator, cleaning
// pipeline, and store adapter all operate on: an ordered list of named
// columns over rows of typed cells. Cell values are one of nil, string,
// float64, int64, bool, or time.Time.
package batch

import (
	"fmt"
	"sort"
	"time"
)

// Batch is an ordered, named-column record set. The zero value is not usable;
// construct with New or FromRows.
type Batch struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// New creates an empty batch with the given column order.
func New(columns ...string) (*Batch, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Batch{columns: cols, index: index}, nil
}

// FromRows creates a batch from a column list and row data. Every row must
// have exactly one cell per column.
func FromRows(columns []string, rows [][]any) (*Batch, error) {
	b, err := New(columns...)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := b.AppendRow(row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return b, nil
}

// Len returns the number of rows.
func (b *Batch) Len() int { return len(b.rows) }

// Columns returns the column names in order.
func (b *Batch) Columns() []string {
	out := make([]string, len(b.columns))
	copy(out, b.columns)
	return out
}

// HasColumn reports whether the batch has a column with the given name.
func (b *Batch) HasColumn(name string) bool {
	_, ok := b.index[name]
	return ok
}

// AppendRow adds one row. The cell count must match the column count.
func (b *Batch) AppendRow(cells []any) error {
	if len(cells) != len(b.columns) {
		return fmt.Errorf("row has %d cells, batch has %d columns", len(cells), len(b.columns))
	}
	row := make([]any, len(cells))
	copy(row, cells)
	b.rows = append(b.rows, row)
	return nil
}

// Cell returns the value at (row, column). It panics on an unknown column,
// consistent with slice indexing; callers check HasColumn first when the
// column is dynamic.
func (b *Batch) Cell(row int, column string) any {
	i, ok := b.index[column]
	if !ok {
		panic(fmt.Sprintf("batch: unknown column %q", column))
	}
	return b.rows[row][i]
}

// SetCell overwrites the value at (row, column).
func (b *Batch) SetCell(row int, column string, v any) {
	i, ok := b.index[column]
	if !ok {
		panic(fmt.Sprintf("batch: unknown column %q", column))
	}
	b.rows[row][i] = v
}

// Row returns a copy of the cells of one row in column order.
func (b *Batch) Row(row int) []any {
	out := make([]any, len(b.columns))
	copy(out, b.rows[row])
	return out
}

// Values returns the cells of one row projected onto the given columns.
func (b *Batch) Values(row int, columns []string) ([]any, error) {
	out := make([]any, len(columns))
	for i, c := range columns {
		idx, ok := b.index[c]
		if !ok {
			return nil, fmt.Errorf("unknown column %q", c)
		}
		out[i] = b.rows[row][idx]
	}
	return out, nil
}

// RenameColumns renames every column present in the mapping; columns not in
// the mapping keep their name.
func (b *Batch) RenameColumns(mapping map[string]string) error {
	renamed := make([]string, len(b.columns))
	for i, c := range b.columns {
		if to, ok := mapping[c]; ok {
			renamed[i] = to
		} else {
			renamed[i] = c
		}
	}
	index := make(map[string]int, len(renamed))
	for i, c := range renamed {
		if _, dup := index[c]; dup {
			return fmt.Errorf("rename produces duplicate column %q", c)
		}
		index[c] = i
	}
	b.columns = renamed
	b.index = index
	return nil
}

// AddColumn appends a new column filled with the given value on every row.
func (b *Batch) AddColumn(name string, fill any) error {
	return b.insertColumn(len(b.columns), name, fill)
}

// PrependColumn inserts a new column at position 0 filled with the given
// value on every row.
func (b *Batch) PrependColumn(name string, fill any) error {
	return b.insertColumn(0, name, fill)
}

func (b *Batch) insertColumn(pos int, name string, fill any) error {
	if _, dup := b.index[name]; dup {
		return fmt.Errorf("column %q already exists", name)
	}
	b.columns = append(b.columns, "")
	copy(b.columns[pos+1:], b.columns[pos:])
	b.columns[pos] = name

	b.index = make(map[string]int, len(b.columns))
	for i, c := range b.columns {
		b.index[c] = i
	}
	for i, row := range b.rows {
		next := make([]any, 0, len(row)+1)
		next = append(next, row[:pos]...)
		next = append(next, fill)
		next = append(next, row[pos:]...)
		b.rows[i] = next
	}
	return nil
}

// DropColumns removes the named columns; unknown names are ignored.
func (b *Batch) DropColumns(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	keep := make([]string, 0, len(b.columns))
	keepIdx := make([]int, 0, len(b.columns))
	for i, c := range b.columns {
		if !drop[c] {
			keep = append(keep, c)
			keepIdx = append(keepIdx, i)
		}
	}
	for r, row := range b.rows {
		next := make([]any, len(keepIdx))
		for j, i := range keepIdx {
			next[j] = row[i]
		}
		b.rows[r] = next
	}
	b.columns = keep
	b.index = make(map[string]int, len(keep))
	for i, c := range keep {
		b.index[c] = i
	}
}

// Select reorders the batch to exactly the given columns, dropping everything
// else. Every requested column must exist.
func (b *Batch) Select(columns []string) error {
	idx := make([]int, len(columns))
	for i, c := range columns {
		j, ok := b.index[c]
		if !ok {
			return fmt.Errorf("unknown column %q", c)
		}
		idx[i] = j
	}
	for r, row := range b.rows {
		next := make([]any, len(idx))
		for i, j := range idx {
			next[i] = row[j]
		}
		b.rows[r] = next
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	b.columns = cols
	b.index = make(map[string]int, len(cols))
	for i, c := range cols {
		b.index[c] = i
	}
	return nil
}

// SortBy stably sorts rows by the given columns, ascending, nil cells first.
func (b *Batch) SortBy(columns ...string) error {
	idx := make([]int, len(columns))
	for i, c := range columns {
		j, ok := b.index[c]
		if !ok {
			return fmt.Errorf("unknown column %q", c)
		}
		idx[i] = j
	}
	sort.SliceStable(b.rows, func(x, y int) bool {
		for _, j := range idx {
			c := CompareCells(b.rows[x][j], b.rows[y][j])
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
	return nil
}

// Clone returns a deep copy of the batch structure. Cell values themselves
// are immutable types and are shared.
func (b *Batch) Clone() *Batch {
	out := &Batch{
		columns: make([]string, len(b.columns)),
		index:   make(map[string]int, len(b.index)),
		rows:    make([][]any, len(b.rows)),
	}
	copy(out.columns, b.columns)
	for k, v := range b.index {
		out.index[k] = v
	}
	for i, row := range b.rows {
		r := make([]any, len(row))
		copy(r, row)
		out.rows[i] = r
	}
	return out
}

// CompareCells orders two cell values: nil sorts first, then by value within
// a type family. Numeric cells compare across int64/float64.
func CompareCells(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if af, aok := numericCell(a); aok {
		if bf, bok := numericCell(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return compareTypeNames(a, b)
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return compareTypeNames(a, b)
		}
		switch {
		case !av && bv:
			return -1
		case av && !bv:
			return 1
		}
		return 0
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return compareTypeNames(a, b)
		}
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		}
		return 0
	}
	return compareTypeNames(a, b)
}

func numericCell(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

func compareTypeNames(a, b any) int {
	at, bt := fmt.Sprintf("%T", a), fmt.Sprintf("%T", b)
	switch {
	case at < bt:
		return -1
	case at > bt:
		return 1
	}
	return 0
}
