// Package fields defines the canonical field-name vocabulary shared by every
// component that touches market data. Mappings rename provider columns to
// these names, the schema registry builds tables from them, and the validator
// coerces cell types by the semantic groups declared here. No other package
// may invent column names.
package fields

// Identity and descriptive fields.
const (
	Ticker    = "ticker"
	TradeDate = "trade_date"
	Name      = "name"
	CreatedAt = "created_at"
)

// Daily market snapshot fields.
const (
	Open      = "open"
	High      = "high"
	Low       = "low"
	Close     = "close"
	PreClose  = "pre_close"
	PctChange = "pct_change"
	Volume    = "volume"
	Amount    = "amount"
	Turnover  = "turnover"
	MarketCap = "market_cap"
	FloatCap  = "float_cap"
)

// Derived snapshot flags.
const (
	IsST        = "is_st"
	IsLimitUp   = "is_limit_up"
	IsLimitDown = "is_limit_down"
)

// Market phase assessment fields. The M*/V columns keep their historical
// mixed-case spelling; they predate this toolkit and live in existing stores.
const (
	Phase          = "phase"
	M1Core         = "M1_core"
	M2Front        = "M2_front"
	M3Identifiable = "M3_identifiable"
	VTriggered     = "V_triggered"
	Notes          = "notes"
)

// Trade execution record fields.
const (
	TradeID         = "trade_id"
	EntryDate       = "entry_date"
	EntryPrice      = "entry_price"
	PathType        = "path_type"
	HalfSellTrigger = "half_sell_trigger"
	HalfSellDate    = "half_sell_date"
	HalfSellPrice   = "half_sell_price"
	ExitDate        = "exit_date"
	ExitPrice       = "exit_price"
	PositionPct     = "position_pct"
)

// Numeric lists every field whose cells are coerced to float64 (or kept as
// int64) during canonicalization.
var Numeric = []string{
	Open, High, Low, Close, Volume, Amount,
	PctChange, Turnover, MarketCap, FloatCap, PreClose,
	EntryPrice, ExitPrice, HalfSellPrice,
	HalfSellTrigger, PositionPct,
}

// Boolean lists every field coerced through the boolean token vocabulary.
var Boolean = []string{
	IsST, IsLimitUp, IsLimitDown,
	M1Core, M2Front, M3Identifiable, VTriggered,
}

// Date lists every field parsed as a calendar date.
var Date = []string{
	TradeDate, EntryDate, ExitDate, HalfSellDate,
}

// String lists fields that stay as plain strings.
var String = []string{
	Ticker, TradeID, Name,
}

// IsNumeric reports whether name belongs to the numeric group.
func IsNumeric(name string) bool { return contains(Numeric, name) }

// IsBoolean reports whether name belongs to the boolean group.
func IsBoolean(name string) bool { return contains(Boolean, name) }

// IsDate reports whether name belongs to the date group.
func IsDate(name string) bool { return contains(Date, name) }

func contains(group []string, name string) bool {
	for _, g := range group {
		if g == name {
			return true
		}
	}
	return false
}
