package domain

import "time"

// TradeExecution represents one executed trade, keyed by trade id. Dates and
// prices of legs that have not happened yet are nil.
type TradeExecution struct {
	TradeID         string     `json:"trade_id" db:"trade_id" validate:"required"`
	Ticker          *string    `json:"ticker" db:"ticker"`
	EntryDate       *time.Time `json:"entry_date" db:"entry_date"`
	EntryPrice      *float64   `json:"entry_price" db:"entry_price"`
	PathType        *string    `json:"path_type" db:"path_type"`
	HalfSellTrigger *float64   `json:"half_sell_trigger" db:"half_sell_trigger"`
	HalfSellDate    *time.Time `json:"half_sell_date" db:"half_sell_date"`
	HalfSellPrice   *float64   `json:"half_sell_price" db:"half_sell_price"`
	ExitDate        *time.Time `json:"exit_date" db:"exit_date"`
	ExitPrice       *float64   `json:"exit_price" db:"exit_price"`
	PositionPct     *float64   `json:"position_pct" db:"position_pct"`
	Notes           *string    `json:"notes" db:"notes"`
}

// Closed reports whether the trade has fully exited.
func (t *TradeExecution) Closed() bool {
	return t.ExitDate != nil
}

// ExecutionFilter represents filters for trade execution queries.
type ExecutionFilter struct {
	Tickers  []string   `json:"tickers,omitempty"`
	PathType string     `json:"path_type,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
	OpenOnly bool       `json:"open_only,omitempty"`
	Limit    int        `json:"limit,omitempty" validate:"min=0,max=100000"`
	Offset   int        `json:"offset,omitempty" validate:"min=0"`
}
