package schema

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlascli/pkg/contracts/fields"
)

func TestGet(t *testing.T) {
	table, err := Get(DailyMarketSnapshot)
	require.NoError(t, err)
	assert.Equal(t, DailyMarketSnapshot, table.Name)
	assert.Equal(t, []string{fields.TradeDate, fields.Ticker}, table.PrimaryKey)
}

func TestGetUnknownTable(t *testing.T) {
	_, err := Get("no_such_table")
	require.Error(t, err)

	var unknownErr *UnknownTableError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "no_such_table", unknownErr.Table)
	assert.Equal(t, []string{DailyMarketSnapshot, MarketPhase, TradeExecution}, unknownErr.Available)
}

func TestDailySnapshotColumnOrder(t *testing.T) {
	table, err := Get(DailyMarketSnapshot)
	require.NoError(t, err)

	expected := []string{
		"trade_date", "ticker", "name", "open", "high", "low", "close",
		"pct_change", "pre_close", "volume", "amount", "turnover",
		"market_cap", "float_cap", "is_st", "is_limit_up", "is_limit_down",
		"created_at",
	}
	assert.Equal(t, expected, table.ColumnNames())

	// created_at is store-generated and never part of a canonical batch.
	assert.Equal(t, expected[:len(expected)-1], table.InsertColumns())
}

func TestNonKeyInsertColumns(t *testing.T) {
	table, err := Get(DailyMarketSnapshot)
	require.NoError(t, err)

	nonKey := table.NonKeyInsertColumns()
	assert.NotContains(t, nonKey, fields.TradeDate)
	assert.NotContains(t, nonKey, fields.Ticker)
	assert.NotContains(t, nonKey, fields.CreatedAt)
	assert.Contains(t, nonKey, fields.Close)
	assert.Len(t, nonKey, 15)
}

func TestCreateSQLMultiColumnKey(t *testing.T) {
	table, err := Get(DailyMarketSnapshot)
	require.NoError(t, err)

	ddl := table.CreateSQL()
	assert.True(t, strings.HasPrefix(ddl, "CREATE TABLE IF NOT EXISTS daily_market_snapshot ("))
	assert.Contains(t, ddl, "trade_date DATE,")
	assert.Contains(t, ddl, "ticker VARCHAR,")
	assert.Contains(t, ddl, "created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP")
	assert.Contains(t, ddl, "PRIMARY KEY (trade_date, ticker)")
	assert.NotContains(t, ddl, "trade_date DATE PRIMARY KEY")
}

func TestCreateSQLSingleColumnKeyInlined(t *testing.T) {
	phase, err := Get(MarketPhase)
	require.NoError(t, err)
	ddl := phase.CreateSQL()
	assert.Contains(t, ddl, "trade_date DATE PRIMARY KEY")
	assert.NotContains(t, ddl, "PRIMARY KEY (")
	assert.Contains(t, ddl, "M1_core BOOLEAN")
	assert.Contains(t, ddl, "V_triggered BOOLEAN")

	execs, err := Get(TradeExecution)
	require.NoError(t, err)
	ddl = execs.CreateSQL()
	assert.Contains(t, ddl, "trade_id VARCHAR PRIMARY KEY")
	assert.NotContains(t, ddl, "created_at")
}

func TestColumnLookup(t *testing.T) {
	table, err := Get(TradeExecution)
	require.NoError(t, err)

	col, ok := table.Column(fields.EntryPrice)
	require.True(t, ok)
	assert.Equal(t, "DOUBLE", col.Type)

	_, ok = table.Column("nope")
	assert.False(t, ok)

	assert.True(t, table.IsPrimaryKey(fields.TradeID))
	assert.False(t, table.IsPrimaryKey(fields.Ticker))
}

type recordingExecutor struct {
	statements []string
	failOn     string
}

func (r *recordingExecutor) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	if r.failOn != "" && strings.Contains(query, r.failOn) {
		return nil, assert.AnError
	}
	r.statements = append(r.statements, query)
	return nil, nil
}

func TestInitializeAll(t *testing.T) {
	exec := &recordingExecutor{}
	require.NoError(t, InitializeAll(context.Background(), exec))
	require.Len(t, exec.statements, 3)
	assert.Contains(t, exec.statements[0], "daily_market_snapshot")
	assert.Contains(t, exec.statements[1], "market_phase")
	assert.Contains(t, exec.statements[2], "trade_execution")
}

func TestInitializeAllPropagatesFailure(t *testing.T) {
	exec := &recordingExecutor{failOn: "market_phase"}
	err := InitializeAll(context.Background(), exec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create table market_phase")
}
