package pipeline

import (
	"atlascli/pkg/contracts/fields"
	"atlascli/pkg/contracts/mappings"
	"atlascli/pkg/contracts/schema"
)

// Source describes one raw CSV layout the cleaner accepts.
type Source struct {
	// Name identifies the layout in errors and logs.
	Name string

	// Table is the registry table the cleaned batch must satisfy.
	Table string

	// Mapping names the registered rename map for the layout's raw
	// headers; empty means the headers already use canonical names.
	Mapping string

	// Required lists the canonical columns the file must supply, directly
	// or through the rename map. trade_date is never listed here: it is
	// checked separately because snapshot files may encode it in the
	// filename instead of a column.
	Required []string

	// DateFromFilename marks layouts whose filename carries the trading
	// date of every row.
	DateFromFilename bool
}

// SnapshotSource returns the descriptor for whole-market daily snapshot
// files: YYYY-MM-DD_Astock.csv with Chinese vendor headers.
func SnapshotSource() Source {
	return Source{
		Name:    mappings.AstockSnapshot,
		Table:   schema.DailyMarketSnapshot,
		Mapping: mappings.AstockSnapshot,
		Required: []string{
			fields.Ticker, fields.Name, fields.Open, fields.High,
			fields.Low, fields.Close, fields.PctChange, fields.Volume,
			fields.Amount, fields.Turnover, fields.MarketCap,
			fields.FloatCap, fields.PreClose,
		},
		DateFromFilename: true,
	}
}

// HistorySource returns the descriptor for per-instrument history files
// with canonical English headers. The name column is optional; when it is
// absent every row's is_st derives to false.
func HistorySource() Source {
	return Source{
		Name:  "stock_history",
		Table: schema.DailyMarketSnapshot,
		Required: []string{
			fields.Ticker, fields.Open, fields.High, fields.Low,
			fields.Close, fields.PreClose, fields.PctChange,
			fields.Volume, fields.Amount, fields.Turnover,
			fields.MarketCap, fields.FloatCap,
		},
	}
}
