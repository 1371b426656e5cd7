package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlascli/internal/shared/testutil"
	"atlascli/pkg/contracts/batch"
	"atlascli/pkg/contracts/conventions"
	"atlascli/pkg/contracts/fields"
	"atlascli/pkg/contracts/validate"
)

// canonicalSnapshotColumns is the exact insertable column order of
// daily_market_snapshot. Spelled out so a registry change that silently
// reorders the wire contract fails here.
var canonicalSnapshotColumns = []string{
	"trade_date", "ticker", "name", "open", "high", "low", "close",
	"pct_change", "pre_close", "volume", "amount", "turnover",
	"market_cap", "float_cap", "is_st", "is_limit_up", "is_limit_down",
}

func TestCleaner_Clean_Snapshot(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	cleaner := NewCleaner(logger, CleanerConfig{})

	path := testutil.WriteDailyCSV(t, t.TempDir(), "2024-05-17", testutil.SampleDailyRows())

	b, err := cleaner.Clean(context.Background(), path, SnapshotSource())
	require.NoError(t, err)
	require.Equal(t, 5, b.Len())
	assert.Equal(t, canonicalSnapshotColumns, b.Columns())

	// Rows sort by ticker within the single day; codes are zero-padded
	// and suffixed, and trade_date comes from the filename.
	wantTickers := []string{"000001.SZ", "300750.SZ", "600157.SH", "600519.SH", "920002.BJ"}
	day := testutil.Day(t, "2024-05-17")
	for i, want := range wantTickers {
		assert.Equal(t, want, b.Cell(i, fields.Ticker), "ticker row %d", i)
		assert.Equal(t, day, b.Cell(i, fields.TradeDate), "trade_date row %d", i)
	}

	assert.Equal(t, "平安银行", b.Cell(0, fields.Name))
	assert.Equal(t, 10.54, b.Cell(0, fields.PreClose))
	assert.Equal(t, 154321987.0, b.Cell(0, fields.Volume))

	// Only the ST instrument carries the flag, and it closed exactly at
	// its 5% band: 1.20 * 1.05 = 1.26.
	for i, want := range wantTickers {
		assert.Equal(t, want == "600157.SH", b.Cell(i, fields.IsST), "is_st row %d", i)
		assert.Equal(t, want == "600157.SH", b.Cell(i, fields.IsLimitUp), "is_limit_up row %d", i)
		assert.Equal(t, false, b.Cell(i, fields.IsLimitDown), "is_limit_down row %d", i)
	}

	assert.True(t, handler.ContainsMessage("batch cleaned"))
}

func TestCleaner_Clean_Snapshot_Idempotent(t *testing.T) {
	cleaner := NewCleaner(nil, CleanerConfig{})
	path := testutil.WriteDailyCSV(t, t.TempDir(), "2024-05-17", testutil.SampleDailyRows())

	first, err := cleaner.Clean(context.Background(), path, SnapshotSource())
	require.NoError(t, err)

	second, err := cleaner.CleanBatch(context.Background(), first, path, SnapshotSource())
	require.NoError(t, err)

	assert.Equal(t, first.Columns(), second.Columns())
	require.Equal(t, first.Len(), second.Len())
	for i := 0; i < first.Len(); i++ {
		assert.Equal(t, first.Row(i), second.Row(i), "row %d", i)
	}
}

func TestCleaner_Clean_History(t *testing.T) {
	cleaner := NewCleaner(nil, CleanerConfig{})

	t.Run("without name column", func(t *testing.T) {
		path := testutil.WriteHistoryCSV(t, t.TempDir(), "600519.csv",
			testutil.HistoryCSVHeader(false), testutil.SampleHistoryRows("600519"))

		b, err := cleaner.Clean(context.Background(), path, HistorySource())
		require.NoError(t, err)
		require.Equal(t, 3, b.Len())
		assert.Equal(t, canonicalSnapshotColumns, b.Columns())

		for i := 0; i < b.Len(); i++ {
			assert.Equal(t, "600519.SH", b.Cell(i, fields.Ticker), "row %d", i)
			assert.Nil(t, b.Cell(i, fields.Name), "row %d", i)
			assert.Equal(t, false, b.Cell(i, fields.IsST), "row %d", i)
		}

		// Rows sorted by date. The last day closed exactly at the 10%
		// band: 10.50 * 1.10 = 11.55.
		assert.Equal(t, testutil.Day(t, "2024-01-02"), b.Cell(0, fields.TradeDate))
		assert.Equal(t, testutil.Day(t, "2024-01-04"), b.Cell(2, fields.TradeDate))
		assert.Equal(t, false, b.Cell(0, fields.IsLimitUp))
		assert.Equal(t, false, b.Cell(1, fields.IsLimitUp))
		assert.Equal(t, true, b.Cell(2, fields.IsLimitUp))
	})

	t.Run("with entirely null name column", func(t *testing.T) {
		var rows [][]string
		for _, r := range testutil.SampleHistoryRows("600519") {
			row := append([]string{}, r[:2]...)
			row = append(row, "")
			row = append(row, r[2:]...)
			rows = append(rows, row)
		}
		path := testutil.WriteHistoryCSV(t, t.TempDir(), "600519.csv",
			testutil.HistoryCSVHeader(true), rows)

		b, err := cleaner.Clean(context.Background(), path, HistorySource())
		require.NoError(t, err)
		for i := 0; i < b.Len(); i++ {
			assert.Nil(t, b.Cell(i, fields.Name), "row %d", i)
			assert.Equal(t, false, b.Cell(i, fields.IsST), "row %d", i)
		}
	})

	t.Run("idempotent on own output", func(t *testing.T) {
		path := testutil.WriteHistoryCSV(t, t.TempDir(), "600519.csv",
			testutil.HistoryCSVHeader(false), testutil.SampleHistoryRows("600519"))

		first, err := cleaner.Clean(context.Background(), path, HistorySource())
		require.NoError(t, err)

		second, err := cleaner.CleanBatch(context.Background(), first, path, HistorySource())
		require.NoError(t, err)
		require.Equal(t, first.Len(), second.Len())
		for i := 0; i < first.Len(); i++ {
			assert.Equal(t, first.Row(i), second.Row(i), "row %d", i)
		}
	})
}

func TestCleaner_Clean_STNameVariants(t *testing.T) {
	cleaner := NewCleaner(nil, CleanerConfig{})

	tests := []struct {
		name   string
		stock  string
		wantST bool
	}{
		{"plain ST prefix", "ST永泰", true},
		{"star ST prefix", "*ST景峰", true},
		{"lowercase st", "st银广夏", true},
		{"no designation", "贵州茅台", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := [][]string{{
				"2024-01-02", "600519", tt.stock, "10.00", "10.40", "9.90",
				"10.20", "10.00", "2.00", "1000", "10000.0", "0.1", "1.0", "1.0",
			}}
			path := testutil.WriteHistoryCSV(t, t.TempDir(), "600519.csv",
				testutil.HistoryCSVHeader(true), rows)

			b, err := cleaner.Clean(context.Background(), path, HistorySource())
			require.NoError(t, err)
			assert.Equal(t, tt.wantST, b.Cell(0, fields.IsST))
		})
	}
}

func TestCleaner_LimitFlagTolerance(t *testing.T) {
	// Main-board non-ST instrument with pre_close 10.00: the bands sit at
	// 11.00 and 9.00. A nil tolerance selects the 0.001 default; an
	// explicit zero demands an exact band hit.
	tol := func(v float64) *float64 { return &v }
	tests := []struct {
		name      string
		tolerance *float64
		close     float64
		wantUp    bool
		wantDown  bool
	}{
		{"close exactly at upper band", nil, 11.00, true, false},
		{"close within default tolerance", nil, 10.9995, true, false},
		{"close below tolerance window", nil, 10.99, false, false},
		{"close above upper band", nil, 11.02, true, false},
		{"widened tolerance", tol(0.05), 10.96, true, false},
		{"zero tolerance rejects near miss", tol(0), 10.9995, false, false},
		{"zero tolerance exact hit", tol(0), 11.00, true, false},
		{"close exactly at lower band", nil, 9.00, false, true},
		{"close within lower tolerance", nil, 9.0005, false, true},
		{"close above lower window", nil, 9.01, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := batch.FromRows(
				testutil.HistoryCSVHeader(false),
				[][]any{{
					"2024-01-02", "600000", 10.0, tt.close, 9.0, tt.close,
					10.00, 0.0, int64(1000), 10000.0, 0.1, 1.0, 1.0,
				}},
			)
			require.NoError(t, err)

			cleaner := NewCleaner(nil, CleanerConfig{LimitTolerance: tt.tolerance})
			out, err := cleaner.CleanBatch(context.Background(), b, "", HistorySource())
			require.NoError(t, err)

			assert.Equal(t, tt.wantUp, out.Cell(0, fields.IsLimitUp), "is_limit_up")
			assert.Equal(t, tt.wantDown, out.Cell(0, fields.IsLimitDown), "is_limit_down")
		})
	}
}

func TestCleaner_LimitFlags_NullPrices(t *testing.T) {
	rows := [][]string{{
		"2024-01-02", "600519", "10.00", "10.40", "9.90", "",
		"10.00", "2.00", "1000", "10000.0", "0.1", "1.0", "1.0",
	}}
	path := testutil.WriteHistoryCSV(t, t.TempDir(), "600519.csv",
		testutil.HistoryCSVHeader(false), rows)

	cleaner := NewCleaner(nil, CleanerConfig{})
	b, err := cleaner.Clean(context.Background(), path, HistorySource())
	require.NoError(t, err)

	assert.Nil(t, b.Cell(0, fields.Close))
	assert.Nil(t, b.Cell(0, fields.IsLimitUp))
	assert.Nil(t, b.Cell(0, fields.IsLimitDown))
}

func TestCleaner_Clean_NumericCoercionIsLenient(t *testing.T) {
	rows := testutil.SampleHistoryRows("600519")
	rows[0][8] = "n/a" // volume

	path := testutil.WriteHistoryCSV(t, t.TempDir(), "600519.csv",
		testutil.HistoryCSVHeader(false), rows)

	cleaner := NewCleaner(nil, CleanerConfig{})
	b, err := cleaner.Clean(context.Background(), path, HistorySource())
	require.NoError(t, err)
	assert.Nil(t, b.Cell(0, fields.Volume))
	assert.Equal(t, 10.2, b.Cell(0, fields.Close))
}

func TestCleaner_Clean_MissingColumns(t *testing.T) {
	cleaner := NewCleaner(nil, CleanerConfig{})

	header := testutil.DailyCSVHeader()
	header = append(header[:3:3], header[4:]...) // drop 最高 (high)
	var rows [][]string
	for _, r := range testutil.SampleDailyRows() {
		rows = append(rows, append(append([]string{}, r[:3]...), r[4:]...))
	}
	path := testutil.WriteHistoryCSV(t, t.TempDir(), "2024-05-17_Astock.csv", header, rows)

	_, err := cleaner.Clean(context.Background(), path, SnapshotSource())
	var missingErr *validate.MissingColumnsError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "astock_snapshot", missingErr.Table)
	assert.Contains(t, missingErr.Missing, "high")
}

func TestCleaner_Clean_TradeDateRecovery(t *testing.T) {
	cleaner := NewCleaner(nil, CleanerConfig{})

	t.Run("unrecoverable filename is fatal", func(t *testing.T) {
		path := testutil.WriteHistoryCSV(t, t.TempDir(), "stray.csv",
			testutil.DailyCSVHeader(), testutil.SampleDailyRows())

		_, err := cleaner.Clean(context.Background(), path, SnapshotSource())
		var missingErr *validate.MissingColumnsError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, []string{"trade_date"}, missingErr.Missing)
	})

	t.Run("explicit trade_date column needs no filename", func(t *testing.T) {
		header := append(testutil.DailyCSVHeader(), "trade_date")
		var rows [][]string
		for _, r := range testutil.SampleDailyRows() {
			rows = append(rows, append(append([]string{}, r...), "2024-05-17"))
		}
		path := testutil.WriteHistoryCSV(t, t.TempDir(), "stray.csv", header, rows)

		b, err := cleaner.Clean(context.Background(), path, SnapshotSource())
		require.NoError(t, err)
		assert.Equal(t, testutil.Day(t, "2024-05-17"), b.Cell(0, fields.TradeDate))
	})
}

func TestCleaner_Clean_DateConsistency(t *testing.T) {
	header := append(testutil.DailyCSVHeader(), "trade_date")
	var rows [][]string
	for _, r := range testutil.SampleDailyRows() {
		rows = append(rows, append(append([]string{}, r...), "2024-01-03"))
	}
	path := testutil.WriteHistoryCSV(t, t.TempDir(), "2024-01-02_Astock.csv", header, rows)

	cleaner := NewCleaner(nil, CleanerConfig{})
	_, err := cleaner.Clean(context.Background(), path, SnapshotSource())

	var dateErr *DateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, DateReasonConsistency, dateErr.Reason)
	assert.Equal(t, "2024-01-03", dateErr.Value)
	assert.Equal(t, "2024-01-02", dateErr.Want)
	assert.Contains(t, err.Error(), "does not match filename date")
}

func TestCleaner_Clean_UnparsableDate(t *testing.T) {
	rows := testutil.SampleHistoryRows("600519")
	rows[1][0] = "bad-date"

	path := testutil.WriteHistoryCSV(t, t.TempDir(), "600519.csv",
		testutil.HistoryCSVHeader(false), rows)

	cleaner := NewCleaner(nil, CleanerConfig{})
	_, err := cleaner.Clean(context.Background(), path, HistorySource())

	var dateErr *DateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, DateReasonParse, dateErr.Reason)
	assert.Equal(t, "bad-date", dateErr.Value)
}

func TestCleaner_DateFormatOverride(t *testing.T) {
	rows := testutil.SampleHistoryRows("600519")
	rows[0][0] = "20240102"
	rows[1][0] = "20240103"
	rows[2][0] = "20240104"
	path := testutil.WriteHistoryCSV(t, t.TempDir(), "600519.csv",
		testutil.HistoryCSVHeader(false), rows)

	compact := NewCleaner(nil, CleanerConfig{DateFormat: "20060102"})
	b, err := compact.Clean(context.Background(), path, HistorySource())
	require.NoError(t, err)
	assert.Equal(t, testutil.Day(t, "2024-01-02"), b.Cell(0, fields.TradeDate))

	// A forced layout stops accepting the other candidate layouts.
	canonical := testutil.WriteHistoryCSV(t, t.TempDir(), "canonical.csv",
		testutil.HistoryCSVHeader(false), testutil.SampleHistoryRows("600519"))
	_, err = compact.Clean(context.Background(), canonical, HistorySource())
	var dateErr *DateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, DateReasonParse, dateErr.Reason)
}

func TestCleaner_Clean_DuplicateKeys(t *testing.T) {
	rows := testutil.SampleHistoryRows("600519")
	rows = append(rows, rows[0])

	path := testutil.WriteHistoryCSV(t, t.TempDir(), "600519.csv",
		testutil.HistoryCSVHeader(false), rows)

	cleaner := NewCleaner(nil, CleanerConfig{})
	_, err := cleaner.Clean(context.Background(), path, HistorySource())

	var dupErr *DuplicateKeyError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "daily_market_snapshot", dupErr.Table)
	assert.Equal(t, []string{"2024-01-02 600519.SH"}, dupErr.Keys)
	assert.Contains(t, err.Error(), "duplicate key")
}

func TestCleaner_Clean_UnknownTickerPrefix(t *testing.T) {
	rows := testutil.SampleDailyRows()
	rows[0][0] = "999999"

	path := testutil.WriteDailyCSV(t, t.TempDir(), "2024-05-17", rows)

	cleaner := NewCleaner(nil, CleanerConfig{})
	_, err := cleaner.Clean(context.Background(), path, SnapshotSource())

	var idErr *conventions.IdentifierError
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, "999999", idErr.Ticker)
}

func TestCleaner_Clean_ExtraColumns(t *testing.T) {
	header := append(testutil.DailyCSVHeader(), "备注")
	var rows [][]string
	for _, r := range testutil.SampleDailyRows() {
		rows = append(rows, append(append([]string{}, r...), "x"))
	}
	path := testutil.WriteHistoryCSV(t, t.TempDir(), "2024-05-17_Astock.csv", header, rows)

	// Unmapped columns ride through cleaning and fall out at the canonical
	// column selection.
	cleaner := NewCleaner(nil, CleanerConfig{})
	b, err := cleaner.Clean(context.Background(), path, SnapshotSource())
	require.NoError(t, err)
	assert.Equal(t, canonicalSnapshotColumns, b.Columns())

	// Strict mode rejects them instead.
	strict := NewCleaner(nil, CleanerConfig{StrictColumns: true})
	_, err = strict.Clean(context.Background(), path, SnapshotSource())
	var extraErr *validate.ExtraColumnsError
	require.ErrorAs(t, err, &extraErr)
	assert.Contains(t, extraErr.Extra, "备注")
}

func TestCleaner_CleanBatch_Empty(t *testing.T) {
	cleaner := NewCleaner(nil, CleanerConfig{})

	var emptyErr *EmptyBatchError

	_, err := cleaner.CleanBatch(context.Background(), nil, "x.csv", HistorySource())
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, "x.csv", emptyErr.Path)

	b, err := batch.New(testutil.HistoryCSVHeader(false)...)
	require.NoError(t, err)
	_, cleanErr := cleaner.CleanBatch(context.Background(), b, "", HistorySource())
	assert.ErrorAs(t, cleanErr, &emptyErr)
}

func TestCleaner_Clean_EmptyFiles(t *testing.T) {
	cleaner := NewCleaner(nil, CleanerConfig{})
	tmpDir := t.TempDir()

	var emptyErr *EmptyBatchError

	// Header-only file.
	headerOnly := testutil.WriteHistoryCSV(t, tmpDir, "600519.csv",
		testutil.HistoryCSVHeader(false), nil)
	_, err := cleaner.Clean(context.Background(), headerOnly, HistorySource())
	require.ErrorAs(t, err, &emptyErr)
	assert.Contains(t, err.Error(), "600519.csv")

	// Zero-byte file.
	zeroByte := filepath.Join(tmpDir, "empty.csv")
	require.NoError(t, os.WriteFile(zeroByte, nil, 0644))
	_, err = cleaner.Clean(context.Background(), zeroByte, HistorySource())
	assert.ErrorAs(t, err, &emptyErr)
}

func TestCleaner_Clean_MissingFile(t *testing.T) {
	cleaner := NewCleaner(nil, CleanerConfig{})
	_, err := cleaner.Clean(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), HistorySource())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open")
}
