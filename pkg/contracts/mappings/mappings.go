// Package mappings registers the source-to-canonical column rename maps, one
// per known upstream provider format. Applying a mapping renames matched
// columns only; unmapped columns are preserved by default so downstream
// validation surfaces them as unexpected fields instead of silently losing
// data.
package mappings

import (
	"fmt"
	"sort"

	"atlascli/pkg/contracts/batch"
	"atlascli/pkg/contracts/fields"
)

// Source names accepted by Get and Apply.
const (
	EastmoneyDailyBar = "eastmoney_daily_bar"
	EastmoneySnapshot = "eastmoney_snapshot"
	AkshareDailyBar   = "akshare_daily_bar"
	AkshareRealtime   = "akshare_realtime"
	AstockSnapshot    = "astock_snapshot"
)

var eastmoneyDailyBar = map[string]string{
	"代码":   fields.Ticker,
	"日期":   fields.TradeDate,
	"股票名称": fields.Name,
	"开盘":   fields.Open,
	"最高":   fields.High,
	"最低":   fields.Low,
	"收盘":   fields.Close,
	"成交量":  fields.Volume,
	"成交额":  fields.Amount,
	"涨跌幅":  fields.PctChange,
	"换手率":  fields.Turnover,
}

var eastmoneySnapshot = map[string]string{
	"代码":   fields.Ticker,
	"股票名称": fields.Name,
	"最新价":  fields.Close,
	"涨跌幅":  fields.PctChange,
	"成交量":  fields.Volume,
	"成交额":  fields.Amount,
	"换手率":  fields.Turnover,
	"总市值":  fields.MarketCap,
	"流通市值": fields.FloatCap,
	"今开":   fields.Open,
	"最高":   fields.High,
	"最低":   fields.Low,
}

var akshareDailyBar = map[string]string{
	"代码":  fields.Ticker,
	"日期":  fields.TradeDate,
	"开盘":  fields.Open,
	"最高":  fields.High,
	"最低":  fields.Low,
	"收盘":  fields.Close,
	"成交量": fields.Volume,
	"成交额": fields.Amount,
	"涨跌幅": fields.PctChange,
	"换手率": fields.Turnover,
}

var akshareRealtime = map[string]string{
	"代码":   fields.Ticker,
	"名称":   fields.Name,
	"最新价":  fields.Close,
	"涨跌幅":  fields.PctChange,
	"成交量":  fields.Volume,
	"成交额":  fields.Amount,
	"换手率":  fields.Turnover,
	"总市值":  fields.MarketCap,
	"流通市值": fields.FloatCap,
}

// astockSnapshot is the layout of the per-day whole-market files
// (YYYY-MM-DD_Astock.csv). It is the realtime snapshot layout plus session
// open/high/low and the previous close, with trade_date either present or
// recovered from the filename.
var astockSnapshot = map[string]string{
	"trade_date": fields.TradeDate,
	"代码":         fields.Ticker,
	"名称":         fields.Name,
	"今开":         fields.Open,
	"最高":         fields.High,
	"最低":         fields.Low,
	"最新价":        fields.Close,
	"涨跌幅":        fields.PctChange,
	"成交量":        fields.Volume,
	"成交额":        fields.Amount,
	"换手率":        fields.Turnover,
	"总市值":        fields.MarketCap,
	"流通市值":       fields.FloatCap,
	"昨收":         fields.PreClose,
}

var sourceMappings = map[string]map[string]string{
	EastmoneyDailyBar: eastmoneyDailyBar,
	EastmoneySnapshot: eastmoneySnapshot,
	AkshareDailyBar:   akshareDailyBar,
	AkshareRealtime:   akshareRealtime,
	AstockSnapshot:    astockSnapshot,
}

// UnknownSourceError reports a mapping lookup for a source that was never
// registered.
type UnknownSourceError struct {
	Source string
	Known  []string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown source %q, known sources: %v", e.Source, e.Known)
}

// Get returns a copy of the rename map registered for the source.
func Get(source string) (map[string]string, error) {
	m, ok := sourceMappings[source]
	if !ok {
		return nil, &UnknownSourceError{Source: source, Known: Sources()}
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out, nil
}

// Sources lists the registered source names, sorted.
func Sources() []string {
	out := make([]string, 0, len(sourceMappings))
	for name := range sourceMappings {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SourceColumns returns the source-side column names of a registered mapping,
// sorted. These are the columns a raw file of that format must carry.
func SourceColumns(source string) ([]string, error) {
	m, ok := sourceMappings[source]
	if !ok {
		return nil, &UnknownSourceError{Source: source, Known: Sources()}
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

// Apply renames the batch's columns per the source's registered mapping.
// Columns not covered by the mapping are preserved unless dropExtra is set,
// in which case every column outside the mapping's canonical target set is
// removed.
func Apply(b *batch.Batch, source string, dropExtra bool) error {
	m, ok := sourceMappings[source]
	if !ok {
		return &UnknownSourceError{Source: source, Known: Sources()}
	}
	if err := b.RenameColumns(m); err != nil {
		return fmt.Errorf("failed to apply %s mapping: %w", source, err)
	}
	if dropExtra {
		canonical := make(map[string]bool, len(m))
		for _, to := range m {
			canonical[to] = true
		}
		var extra []string
		for _, c := range b.Columns() {
			if !canonical[c] {
				extra = append(extra, c)
			}
		}
		b.DropColumns(extra...)
	}
	return nil
}

// BuildCustom validates an ad-hoc source→canonical map for formats without a
// registered mapping. Every target must be a canonical field name.
func BuildCustom(pairs map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for from, to := range pairs {
		if !isCanonical(to) {
			return nil, fmt.Errorf("target %q of column %q is not a canonical field", to, from)
		}
		out[from] = to
	}
	return out, nil
}

func isCanonical(name string) bool {
	if fields.IsNumeric(name) || fields.IsBoolean(name) || fields.IsDate(name) {
		return true
	}
	switch name {
	case fields.Ticker, fields.TradeID, fields.Name, fields.CreatedAt,
		fields.Phase, fields.Notes, fields.PathType:
		return true
	}
	return false
}
