package batch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsDuplicateColumns(t *testing.T) {
	_, err := New("a", "b", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"a"`)
}

func TestAppendRowArity(t *testing.T) {
	b, err := New("a", "b")
	require.NoError(t, err)

	require.NoError(t, b.AppendRow([]any{1, 2}))
	err = b.AppendRow([]any{1})
	require.Error(t, err)
	assert.Equal(t, 1, b.Len())
}

func TestRenameColumns(t *testing.T) {
	b, err := FromRows([]string{"代码", "最新价", "extra"}, [][]any{{"600000", "10.5", "x"}})
	require.NoError(t, err)

	require.NoError(t, b.RenameColumns(map[string]string{"代码": "ticker", "最新价": "close"}))
	assert.Equal(t, []string{"ticker", "close", "extra"}, b.Columns())
	assert.Equal(t, "600000", b.Cell(0, "ticker"))

	err = b.RenameColumns(map[string]string{"extra": "close"})
	require.Error(t, err, "rename collapsing two columns must fail")
}

func TestPrependAndDropColumns(t *testing.T) {
	b, err := FromRows([]string{"ticker", "close"}, [][]any{
		{"600000.SH", 10.5},
		{"000001.SZ", 8.2},
	})
	require.NoError(t, err)

	require.NoError(t, b.PrependColumn("trade_date", "2024-01-02"))
	assert.Equal(t, []string{"trade_date", "ticker", "close"}, b.Columns())
	assert.Equal(t, "2024-01-02", b.Cell(1, "trade_date"))

	require.NoError(t, b.AddColumn("limit_pct", 10.0))
	b.DropColumns("limit_pct", "never_existed")
	assert.Equal(t, []string{"trade_date", "ticker", "close"}, b.Columns())
}

func TestSelectReordersAndDrops(t *testing.T) {
	b, err := FromRows([]string{"b", "a", "junk"}, [][]any{{2, 1, "x"}})
	require.NoError(t, err)

	require.NoError(t, b.Select([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, b.Columns())
	assert.Equal(t, []any{1, 2}, b.Row(0))

	err = b.Select([]string{"a", "missing"})
	require.Error(t, err)
}

func TestSortBy(t *testing.T) {
	d1 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	b, err := FromRows([]string{"trade_date", "ticker"}, [][]any{
		{d2, "000001.SZ"},
		{d1, "600000.SH"},
		{d1, "000001.SZ"},
	})
	require.NoError(t, err)

	require.NoError(t, b.SortBy("trade_date", "ticker"))
	assert.Equal(t, []any{d1, "000001.SZ"}, b.Row(0))
	assert.Equal(t, []any{d1, "600000.SH"}, b.Row(1))
	assert.Equal(t, []any{d2, "000001.SZ"}, b.Row(2))
}

func TestValuesProjection(t *testing.T) {
	b, err := FromRows([]string{"a", "b", "c"}, [][]any{{1, 2, 3}})
	require.NoError(t, err)

	got, err := b.Values(0, []string{"c", "a"})
	require.NoError(t, err)
	assert.Equal(t, []any{3, 1}, got)

	_, err = b.Values(0, []string{"z"})
	require.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	b, err := FromRows([]string{"a"}, [][]any{{"x"}})
	require.NoError(t, err)

	c := b.Clone()
	c.SetCell(0, "a", "y")
	require.NoError(t, c.RenameColumns(map[string]string{"a": "z"}))

	assert.Equal(t, "x", b.Cell(0, "a"))
	assert.Equal(t, []string{"a"}, b.Columns())
}

func TestCompareCells(t *testing.T) {
	tests := []struct {
		name     string
		a, b     any
		expected int
	}{
		{name: "nil first", a: nil, b: "x", expected: -1},
		{name: "both nil", a: nil, b: nil, expected: 0},
		{name: "strings", a: "a", b: "b", expected: -1},
		{name: "numeric cross-type", a: int64(2), b: 2.5, expected: -1},
		{name: "numeric equal cross-type", a: int64(2), b: 2.0, expected: 0},
		{name: "bools", a: false, b: true, expected: -1},
		{
			name:     "times",
			a:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			b:        time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			expected: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompareCells(tt.a, tt.b))
		})
	}
}

func TestReadCSVStripsBOMAndNullsEmptyCells(t *testing.T) {
	raw := "\xEF\xBB\xBF代码,名称,最新价\n600000,浦发银行,10.50\n000001,,8.20\n"

	b, err := ReadCSV(strings.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, []string{"代码", "名称", "最新价"}, b.Columns())
	require.Equal(t, 2, b.Len())
	assert.Equal(t, "600000", b.Cell(0, "代码"))
	assert.Nil(t, b.Cell(1, "名称"))
}

func TestReadCSVWithoutBOM(t *testing.T) {
	b, err := ReadCSV(strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, "1", b.Cell(0, "a"))
}

func TestReadCSVEmptyInput(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestReadCSVTrimsWhitespace(t *testing.T) {
	raw := " 代码 , 名称\n 600000 ,  浦发银行 \n000001,   \n"

	b, err := ReadCSV(strings.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, []string{"代码", "名称"}, b.Columns())
	require.Equal(t, 2, b.Len())
	assert.Equal(t, "600000", b.Cell(0, "代码"))
	assert.Equal(t, "浦发银行", b.Cell(0, "名称"))
	assert.Nil(t, b.Cell(1, "名称"), "whitespace-only cell becomes nil")
}

func TestReadCSVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\nx,y\n"), 0o644))

	b, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Len())

	_, err = ReadCSVFile(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
}
