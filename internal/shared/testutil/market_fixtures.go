package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"atlascli/pkg/contracts/batch"
	"atlascli/pkg/contracts/fields"
)

// UTF8BOM is the byte-order mark carried by the raw market CSV files.
var UTF8BOM = []byte{0xEF, 0xBB, 0xBF}

// DailyCSVHeader returns the raw column header of a per-day whole-market
// snapshot file. The layout matches the astock_snapshot mapping source side;
// trade_date is absent and must be recovered from the filename.
func DailyCSVHeader() []string {
	return []string{
		"代码", "名称", "今开", "最高", "最低", "最新价", "涨跌幅",
		"成交量", "成交额", "换手率", "总市值", "流通市值", "昨收",
	}
}

// SampleDailyRows returns raw snapshot rows covering all three exchanges,
// an ST instrument, and unpadded ticker codes as upstream emits them.
func SampleDailyRows() [][]string {
	return [][]string{
		{"600519", "贵州茅台", "1700.00", "1725.50", "1688.00", "1710.10", "2.05", "3123456", "5341234567.89", "0.25", "2147890000000", "2147890000000", "1675.75"},
		{"1", "平安银行", "10.51", "10.88", "10.43", "10.75", "1.99", "154321987", "1669876543.21", "0.79", "208765000000", "208700000000", "10.54"},
		{"300750", "宁德时代", "182.00", "189.90", "181.20", "188.88", "4.32", "87654321", "16354321098.70", "0.41", "830123000000", "729876000000", "181.06"},
		{"920002", "万达轴承", "20.10", "21.95", "19.88", "21.50", "7.18", "1234567", "26543210.98", "1.32", "2987000000", "1543000000", "20.06"},
		{"600157", "ST永泰", "1.20", "1.26", "1.19", "1.26", "5.00", "98765432", "121234567.80", "0.44", "26700000000", "26500000000", "1.20"},
	}
}

// WriteDailyCSV writes a raw daily snapshot file named <date>_Astock.csv into
// dir, with a UTF-8 BOM the way the upstream exporter emits it, and returns
// the full path.
func WriteDailyCSV(t *testing.T, dir, date string, rows [][]string) string {
	t.Helper()
	return writeCSV(t, filepath.Join(dir, date+"_Astock.csv"), DailyCSVHeader(), rows)
}

// HistoryCSVHeader returns the canonical English header of a per-instrument
// full-history file. Pass withName to include the optional name column.
func HistoryCSVHeader(withName bool) []string {
	h := []string{
		fields.TradeDate, fields.Ticker, fields.Open, fields.High, fields.Low,
		fields.Close, fields.PreClose, fields.PctChange, fields.Volume,
		fields.Amount, fields.Turnover, fields.MarketCap, fields.FloatCap,
	}
	if withName {
		h = append(h[:2:2], append([]string{fields.Name}, h[2:]...)...)
	}
	return h
}

// SampleHistoryRows returns three consecutive trading days for one
// instrument, matching HistoryCSVHeader(false).
func SampleHistoryRows(ticker string) [][]string {
	return [][]string{
		{"2024-01-02", ticker, "10.00", "10.40", "9.90", "10.20", "10.00", "2.00", "12345678", "125678901.20", "0.65", "20100000000", "19800000000"},
		{"2024-01-03", ticker, "10.25", "10.55", "10.10", "10.50", "10.20", "2.94", "14567890", "150123456.70", "0.77", "20700000000", "20400000000"},
		{"2024-01-04", ticker, "10.48", "11.55", "10.45", "11.55", "10.50", "10.00", "22345678", "251234567.80", "1.18", "22800000000", "22400000000"},
	}
}

// WriteHistoryCSV writes a per-instrument history file into dir and returns
// the full path.
func WriteHistoryCSV(t *testing.T, dir, name string, header []string, rows [][]string) string {
	t.Helper()
	return writeCSV(t, filepath.Join(dir, name), header, rows)
}

func writeCSV(t *testing.T, path string, header []string, rows [][]string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create fixture directory: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create fixture file: %v", err)
	}
	defer f.Close()

	if _, err := f.Write(UTF8BOM); err != nil {
		t.Fatalf("failed to write BOM: %v", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			t.Fatalf("failed to write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("failed to flush fixture file: %v", err)
	}
	return path
}

// Day returns a UTC midnight time for a YYYY-MM-DD literal.
func Day(t *testing.T, date string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatalf("bad fixture date %q: %v", date, err)
	}
	return d
}

// SnapshotBatch returns a fully canonical two-row snapshot batch in registry
// column order, typed the way the cleaning pipeline emits it. Rows are dated
// 2024-01-02 for tickers 600519.SH and 000001.SZ.
func SnapshotBatch(t *testing.T) *batch.Batch {
	t.Helper()

	day := Day(t, "2024-01-02")
	b, err := batch.FromRows(
		[]string{
			fields.TradeDate, fields.Ticker, fields.Name, fields.Open,
			fields.High, fields.Low, fields.Close, fields.PctChange,
			fields.PreClose, fields.Volume, fields.Amount, fields.Turnover,
			fields.MarketCap, fields.FloatCap, fields.IsST,
			fields.IsLimitUp, fields.IsLimitDown,
		},
		[][]any{
			{day, "600519.SH", "贵州茅台", 1700.0, 1725.5, 1688.0, 1710.1, 2.05,
				1675.75, int64(3123456), 5341234567.89, 0.25,
				2147890000000.0, 2147890000000.0, false, false, false},
			{day, "000001.SZ", "平安银行", 10.51, 10.88, 10.43, 10.75, 1.99,
				10.54, int64(154321987), 1669876543.21, 0.79,
				208765000000.0, 208700000000.0, false, false, false},
		},
	)
	if err != nil {
		t.Fatalf("failed to build snapshot batch: %v", err)
	}
	return b
}

// PhaseBatch returns a one-row market phase batch in registry column order,
// dated 2024-01-02.
func PhaseBatch(t *testing.T) *batch.Batch {
	t.Helper()

	b, err := batch.FromRows(
		[]string{
			fields.TradeDate, fields.Phase, fields.M1Core, fields.M2Front,
			fields.M3Identifiable, fields.VTriggered, fields.Notes,
		},
		[][]any{
			{Day(t, "2024-01-02"), "M2", true, true, false, false, "breadth improving"},
		},
	)
	if err != nil {
		t.Fatalf("failed to build phase batch: %v", err)
	}
	return b
}

// ExecutionBatch returns a two-row trade execution batch in registry column
// order: one open position with a blank trade_id and one closed trade.
func ExecutionBatch(t *testing.T) *batch.Batch {
	t.Helper()

	b, err := batch.FromRows(
		[]string{
			fields.TradeID, fields.Ticker, fields.EntryDate, fields.EntryPrice,
			fields.PathType, fields.HalfSellTrigger, fields.HalfSellDate,
			fields.HalfSellPrice, fields.ExitDate, fields.ExitPrice,
			fields.PositionPct, fields.Notes,
		},
		[][]any{
			{"", "600519.SH", Day(t, "2024-01-02"), 1700.0, "breakout",
				nil, nil, nil, nil, nil, 0.5, "open position"},
			{"T-20240102-0001", "000001.SZ", Day(t, "2024-01-02"), 10.51, "pullback",
				10.9, Day(t, "2024-01-03"), 10.95, Day(t, "2024-01-04"), 11.2,
				1.0, "closed"},
		},
	)
	if err != nil {
		t.Fatalf("failed to build execution batch: %v", err)
	}
	return b
}
