package schema

import "atlascli/pkg/contracts/fields"

// Registered table names.
const (
	DailyMarketSnapshot = "daily_market_snapshot"
	MarketPhase         = "market_phase"
	TradeExecution      = "trade_execution"
)

// dailyMarketSnapshot holds one row per (trade_date, ticker): the canonical
// whole-market daily record with derived ST and limit flags.
var dailyMarketSnapshot = Table{
	Name: DailyMarketSnapshot,
	Columns: []Column{
		{Name: fields.TradeDate, Type: "DATE", Nullable: false},
		{Name: fields.Ticker, Type: "VARCHAR", Nullable: false},
		{Name: fields.Name, Type: "VARCHAR", Nullable: true},
		{Name: fields.Open, Type: "DOUBLE", Nullable: true},
		{Name: fields.High, Type: "DOUBLE", Nullable: true},
		{Name: fields.Low, Type: "DOUBLE", Nullable: true},
		{Name: fields.Close, Type: "DOUBLE", Nullable: true},
		{Name: fields.PctChange, Type: "DOUBLE", Nullable: true},
		{Name: fields.PreClose, Type: "DOUBLE", Nullable: true},
		{Name: fields.Volume, Type: "BIGINT", Nullable: true},
		{Name: fields.Amount, Type: "DOUBLE", Nullable: true},
		{Name: fields.Turnover, Type: "DOUBLE", Nullable: true},
		{Name: fields.MarketCap, Type: "DOUBLE", Nullable: true},
		{Name: fields.FloatCap, Type: "DOUBLE", Nullable: true},
		{Name: fields.IsST, Type: "BOOLEAN", Nullable: true},
		{Name: fields.IsLimitUp, Type: "BOOLEAN", Nullable: true},
		{Name: fields.IsLimitDown, Type: "BOOLEAN", Nullable: true},
		{Name: fields.CreatedAt, Type: "TIMESTAMP", Nullable: true, Generated: true},
	},
	PrimaryKey: []string{fields.TradeDate, fields.Ticker},
}

// marketPhase holds one market-regime assessment per trading day.
var marketPhase = Table{
	Name: MarketPhase,
	Columns: []Column{
		{Name: fields.TradeDate, Type: "DATE", Nullable: false},
		{Name: fields.Phase, Type: "VARCHAR", Nullable: true},
		{Name: fields.M1Core, Type: "BOOLEAN", Nullable: true},
		{Name: fields.M2Front, Type: "BOOLEAN", Nullable: true},
		{Name: fields.M3Identifiable, Type: "BOOLEAN", Nullable: true},
		{Name: fields.VTriggered, Type: "BOOLEAN", Nullable: true},
		{Name: fields.Notes, Type: "VARCHAR", Nullable: true},
		{Name: fields.CreatedAt, Type: "TIMESTAMP", Nullable: true, Generated: true},
	},
	PrimaryKey: []string{fields.TradeDate},
}

// tradeExecution holds one row per executed trade, keyed by trade id.
var tradeExecution = Table{
	Name: TradeExecution,
	Columns: []Column{
		{Name: fields.TradeID, Type: "VARCHAR", Nullable: false},
		{Name: fields.Ticker, Type: "VARCHAR", Nullable: true},
		{Name: fields.EntryDate, Type: "DATE", Nullable: true},
		{Name: fields.EntryPrice, Type: "DOUBLE", Nullable: true},
		{Name: fields.PathType, Type: "VARCHAR", Nullable: true},
		{Name: fields.HalfSellTrigger, Type: "DOUBLE", Nullable: true},
		{Name: fields.HalfSellDate, Type: "DATE", Nullable: true},
		{Name: fields.HalfSellPrice, Type: "DOUBLE", Nullable: true},
		{Name: fields.ExitDate, Type: "DATE", Nullable: true},
		{Name: fields.ExitPrice, Type: "DOUBLE", Nullable: true},
		{Name: fields.PositionPct, Type: "DOUBLE", Nullable: true},
		{Name: fields.Notes, Type: "VARCHAR", Nullable: true},
	},
	PrimaryKey: []string{fields.TradeID},
}

var allTables = []Table{dailyMarketSnapshot, marketPhase, tradeExecution}

var tableByName = func() map[string]Table {
	m := make(map[string]Table, len(allTables))
	for _, t := range allTables {
		m[t.Name] = t
	}
	return m
}()
