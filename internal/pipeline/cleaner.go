package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"atlascli/internal/files"
	"atlascli/pkg/contracts/batch"
	"atlascli/pkg/contracts/conventions"
	"atlascli/pkg/contracts/fields"
	"atlascli/pkg/contracts/mappings"
	"atlascli/pkg/contracts/schema"
	"atlascli/pkg/contracts/validate"
)

// CleanerConfig configures a Cleaner. Zero values select the documented
// defaults.
type CleanerConfig struct {
	// LimitTolerance widens the limit-flag comparison to absorb upstream
	// rounding. Nil selects conventions.DefaultLimitTolerance; an explicit
	// zero compares exactly.
	LimitTolerance *float64

	// DateFormat forces a single trade_date layout; empty tries the
	// canonical candidate layouts in order.
	DateFormat string

	// StrictColumns rejects source columns the rename map does not cover.
	// By default they ride through the pipeline and drop out at canonical
	// column selection, the way mappings.Apply leaves them alone.
	StrictColumns bool
}

// Cleaner turns raw market CSV batches into canonical batches ready for
// the store. One Cleaner serves every Source layout and can be reused
// across files.
type Cleaner struct {
	logger        *slog.Logger
	tolerance     float64
	dateFormat    string
	strictColumns bool
}

// NewCleaner creates a Cleaner with the given configuration.
func NewCleaner(logger *slog.Logger, cfg CleanerConfig) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}

	tolerance := conventions.DefaultLimitTolerance
	if cfg.LimitTolerance != nil {
		tolerance = *cfg.LimitTolerance
	}

	return &Cleaner{
		logger:        logger.With(slog.String("component", "pipeline")),
		tolerance:     tolerance,
		dateFormat:    cfg.DateFormat,
		strictColumns: cfg.StrictColumns,
	}
}

// Clean reads the CSV file at path and returns its canonical batch.
func (c *Cleaner) Clean(ctx context.Context, path string, source Source) (*batch.Batch, error) {
	raw, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	return c.CleanBatch(ctx, raw, path, source)
}

// CleanBatch runs the fixed cleaning order on a raw batch. The input batch
// is left untouched; the result is fully canonical or nil with a typed
// error. path supplies filename date recovery and error context and may be
// empty for batches that never lived on disk.
func (c *Cleaner) CleanBatch(ctx context.Context, raw *batch.Batch, path string, source Source) (*batch.Batch, error) {
	if raw == nil || raw.Len() == 0 {
		return nil, &EmptyBatchError{Path: path}
	}

	c.logger.DebugContext(ctx, "cleaning batch",
		slog.String("source", source.Name),
		slog.String("path", path),
		slog.Int("rows", raw.Len()))

	b := raw.Clone()

	if source.Mapping != "" {
		if err := mappings.Apply(b, source.Mapping, false); err != nil {
			return nil, err
		}
	}

	if err := validate.CheckMissingColumns(b, source.Required, source.Name); err != nil {
		return nil, err
	}

	fileDate, hasFileDate := files.SnapshotDate(path)
	if !b.HasColumn(fields.TradeDate) {
		if !source.DateFromFilename || !hasFileDate {
			return nil, &validate.MissingColumnsError{
				Table:   source.Name,
				Missing: []string{fields.TradeDate},
			}
		}
		if err := b.PrependColumn(fields.TradeDate, fileDate); err != nil {
			return nil, err
		}
	}

	if err := normalizeTickers(b); err != nil {
		return nil, err
	}

	validate.ConvertNumeric(b)

	if err := c.parseTradeDates(b, path); err != nil {
		return nil, err
	}

	if err := deriveSpecialTreatment(b); err != nil {
		return nil, err
	}
	if err := c.deriveLimitFlags(b); err != nil {
		return nil, err
	}

	if err := finalize(b, source, c.strictColumns); err != nil {
		return nil, err
	}

	if source.DateFromFilename && hasFileDate {
		if err := checkDateConsistency(b, path, fileDate); err != nil {
			return nil, err
		}
	}

	c.logger.InfoContext(ctx, "batch cleaned",
		slog.String("source", source.Name),
		slog.String("path", path),
		slog.Int("rows", b.Len()))

	return b, nil
}

// normalizeTickers rewrites every ticker cell to the canonical suffixed
// form. A code whose board prefix matches no rule fails the batch; UNKNOWN
// placeholders are never produced.
func normalizeTickers(b *batch.Batch) error {
	for i := 0; i < b.Len(); i++ {
		cell := b.Cell(i, fields.Ticker)
		if cell == nil {
			return fmt.Errorf("row %d: %w", i, &conventions.IdentifierError{Ticker: ""})
		}

		raw, ok := cell.(string)
		if !ok {
			raw = fmt.Sprint(cell)
		}

		ticker, err := conventions.NormalizeTicker(raw)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		b.SetCell(i, fields.Ticker, ticker)
	}
	return nil
}

// parseTradeDates coerces trade_date cells to time.Time. Unlike numeric
// coercion this is strict: a date that cannot be read fails the batch.
func (c *Cleaner) parseTradeDates(b *batch.Batch, path string) error {
	for i := 0; i < b.Len(); i++ {
		cell := b.Cell(i, fields.TradeDate)
		switch v := cell.(type) {
		case time.Time:
			continue
		case nil:
			return &DateError{Path: path, Reason: DateReasonParse, Value: ""}
		default:
			raw := fmt.Sprint(v)
			t, err := conventions.ParseDate(raw, c.dateFormat)
			if err != nil {
				return &DateError{Path: path, Reason: DateReasonParse, Value: raw}
			}
			b.SetCell(i, fields.TradeDate, t)
		}
	}
	return nil
}

// deriveSpecialTreatment fills is_st from the instrument name. A missing
// or entirely null name column derives to false for every row.
func deriveSpecialTreatment(b *batch.Batch) error {
	if !b.HasColumn(fields.Name) {
		if err := b.AddColumn(fields.Name, nil); err != nil {
			return err
		}
	}
	if !b.HasColumn(fields.IsST) {
		if err := b.AddColumn(fields.IsST, nil); err != nil {
			return err
		}
	}

	for i := 0; i < b.Len(); i++ {
		name, _ := b.Cell(i, fields.Name).(string)
		b.SetCell(i, fields.IsST, conventions.IsSpecialTreatment(name))
	}
	return nil
}

// deriveLimitFlags computes is_limit_up and is_limit_down from pre_close
// and close using the board's limit percentage. Rows without both prices
// keep null flags.
func (c *Cleaner) deriveLimitFlags(b *batch.Batch) error {
	for _, col := range []string{fields.IsLimitUp, fields.IsLimitDown} {
		if !b.HasColumn(col) {
			if err := b.AddColumn(col, nil); err != nil {
				return err
			}
		}
	}

	for i := 0; i < b.Len(); i++ {
		ticker, _ := b.Cell(i, fields.Ticker).(string)
		isST, _ := b.Cell(i, fields.IsST).(bool)
		limitPct := conventions.LimitPercent(conventions.ClassifyBoard(ticker), isST)

		preClose, okPre := floatCell(b.Cell(i, fields.PreClose))
		closePx, okClose := floatCell(b.Cell(i, fields.Close))
		if !okPre || !okClose || preClose <= 0 {
			b.SetCell(i, fields.IsLimitUp, nil)
			b.SetCell(i, fields.IsLimitDown, nil)
			continue
		}

		up, down := conventions.LimitPrices(preClose, limitPct)
		b.SetCell(i, fields.IsLimitUp, closePx >= up-c.tolerance)
		b.SetCell(i, fields.IsLimitDown, closePx <= down+c.tolerance)
	}
	return nil
}

// finalize sorts the batch into canonical row and column order, checks it
// against the registry, and rejects duplicate primary keys and malformed
// tickers. Columns outside the registry fail the batch when strict and are
// dropped by the canonical selection otherwise.
func finalize(b *batch.Batch, source Source, strict bool) error {
	if err := b.SortBy(fields.TradeDate, fields.Ticker); err != nil {
		return err
	}

	table, err := schema.Get(source.Table)
	if err != nil {
		return err
	}

	if _, err := validate.ValidateSchema(b, source.Table, !strict); err != nil {
		return err
	}
	if err := b.Select(table.InsertColumns()); err != nil {
		return err
	}

	checkTicker := b.HasColumn(fields.Ticker)
	seen := make(map[string]bool, b.Len())
	var dups []string
	for i := 0; i < b.Len(); i++ {
		if checkTicker {
			ticker, _ := b.Cell(i, fields.Ticker).(string)
			if !conventions.TickerPattern.MatchString(ticker) {
				return &conventions.IdentifierError{Ticker: ticker}
			}
		}

		key := rowKey(b, i, table.PrimaryKey)
		if seen[key] {
			// Rows are sorted, so colliding keys are adjacent.
			if len(dups) == 0 || dups[len(dups)-1] != key {
				dups = append(dups, key)
			}
			continue
		}
		seen[key] = true
	}
	if len(dups) > 0 {
		return &DuplicateKeyError{Table: source.Table, Keys: dups}
	}
	return nil
}

func rowKey(b *batch.Batch, row int, keyColumns []string) string {
	parts := make([]string, len(keyColumns))
	for i, col := range keyColumns {
		switch v := b.Cell(row, col).(type) {
		case time.Time:
			parts[i] = v.Format(conventions.DateFormat)
		case nil:
			parts[i] = ""
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(parts, " ")
}

// checkDateConsistency demands that every row's trade_date equal the date
// encoded in the filename.
func checkDateConsistency(b *batch.Batch, path string, want time.Time) error {
	for i := 0; i < b.Len(); i++ {
		date, _ := b.Cell(i, fields.TradeDate).(time.Time)
		if !date.Equal(want) {
			return &DateError{
				Path:   path,
				Reason: DateReasonConsistency,
				Value:  date.Format(conventions.DateFormat),
				Want:   want.Format(conventions.DateFormat),
			}
		}
	}
	return nil
}

func floatCell(v any) (float64, bool) {
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

// readCSV loads a CSV file into a raw string batch, turning an empty file
// into the pipeline's typed error.
func readCSV(path string) (*batch.Batch, error) {
	b, err := batch.ReadCSVFile(path)
	if errors.Is(err, batch.ErrEmptyInput) {
		return nil, &EmptyBatchError{Path: path}
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
