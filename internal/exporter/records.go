package exporter

import (
	"atlascli/pkg/contracts/domain"
	"atlascli/pkg/contracts/schema"
)

// SnapshotRecords converts daily snapshot rows into a CSV header and record
// list. The header is the registry's insertable column order, so an export
// can be re-loaded through the history source unchanged.
func SnapshotRecords(rows []domain.DailySnapshot) ([]string, [][]string) {
	header := mustTable(schema.DailyMarketSnapshot).InsertColumns()

	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			formatDate(r.TradeDate),
			r.Ticker,
			optString(r.Name),
			optFloat(r.Open),
			optFloat(r.High),
			optFloat(r.Low),
			optFloat(r.Close),
			optFloat(r.PctChange),
			optFloat(r.PreClose),
			optInt(r.Volume),
			optFloat(r.Amount),
			optFloat(r.Turnover),
			optFloat(r.MarketCap),
			optFloat(r.FloatCap),
			optBool(r.IsST),
			optBool(r.IsLimitUp),
			optBool(r.IsLimitDown),
		})
	}
	return header, records
}

// PhaseRecords converts market phase rows into a CSV header and record list.
func PhaseRecords(rows []domain.MarketPhase) ([]string, [][]string) {
	header := mustTable(schema.MarketPhase).InsertColumns()

	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			formatDate(r.TradeDate),
			optString(r.Phase),
			optBool(r.M1Core),
			optBool(r.M2Front),
			optBool(r.M3Identifiable),
			optBool(r.VTriggered),
			optString(r.Notes),
		})
	}
	return header, records
}

// ExecutionRecords converts trade execution rows into a CSV header and
// record list.
func ExecutionRecords(rows []domain.TradeExecution) ([]string, [][]string) {
	header := mustTable(schema.TradeExecution).InsertColumns()

	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.TradeID,
			optString(r.Ticker),
			optDate(r.EntryDate),
			optFloat(r.EntryPrice),
			optString(r.PathType),
			optFloat(r.HalfSellTrigger),
			optDate(r.HalfSellDate),
			optFloat(r.HalfSellPrice),
			optDate(r.ExitDate),
			optFloat(r.ExitPrice),
			optFloat(r.PositionPct),
			optString(r.Notes),
		})
	}
	return header, records
}

// mustTable looks up a table name this package itself spelled out; a miss
// is a programming error.
func mustTable(name string) schema.Table {
	t, err := schema.Get(name)
	if err != nil {
		panic(err)
	}
	return t
}
