package domain

// ColumnInfo describes one column of a stored table.
type ColumnInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primary_key"`
}

// TableInfo describes a stored table: its columns and current row count.
type TableInfo struct {
	Name     string       `json:"name"`
	Columns  []ColumnInfo `json:"columns"`
	RowCount int64        `json:"row_count"`
}

// LoadResult summarizes one file loaded into the store.
type LoadResult struct {
	Path     string `json:"path"`
	Table    string `json:"table"`
	Rows     int    `json:"rows"`
	Replaced bool   `json:"replaced"`
}
