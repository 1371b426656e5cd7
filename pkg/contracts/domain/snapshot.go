// Package domain defines the typed records served by the query API and the
// store adapter. Nullable table columns map to pointer fields so missing
// values survive the round trip through the database and JSON.
package domain

import (
	"time"

	"atlascli/pkg/contracts/conventions"
)

// DailySnapshot represents one ticker's canonical end-of-day record.
type DailySnapshot struct {
	TradeDate   time.Time `json:"trade_date" db:"trade_date" validate:"required"`
	Ticker      string    `json:"ticker" db:"ticker" validate:"required"`
	Name        *string   `json:"name" db:"name"`
	Open        *float64  `json:"open" db:"open"`
	High        *float64  `json:"high" db:"high"`
	Low         *float64  `json:"low" db:"low"`
	Close       *float64  `json:"close" db:"close"`
	PctChange   *float64  `json:"pct_change" db:"pct_change"`
	PreClose    *float64  `json:"pre_close" db:"pre_close"`
	Volume      *int64    `json:"volume" db:"volume"`
	Amount      *float64  `json:"amount" db:"amount"`
	Turnover    *float64  `json:"turnover" db:"turnover"`
	MarketCap   *float64  `json:"market_cap" db:"market_cap"`
	FloatCap    *float64  `json:"float_cap" db:"float_cap"`
	IsST        *bool     `json:"is_st" db:"is_st"`
	IsLimitUp   *bool     `json:"is_limit_up" db:"is_limit_up"`
	IsLimitDown *bool     `json:"is_limit_down" db:"is_limit_down"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Exchange returns the exchange segment of the snapshot's ticker.
func (s *DailySnapshot) Exchange() conventions.Exchange {
	return conventions.ClassifyExchange(s.Ticker)
}

// LimitPercent returns the daily price limit percentage that applied to this
// snapshot, derived from the ticker's board and the ST flag.
func (s *DailySnapshot) LimitPercent() float64 {
	st := s.IsST != nil && *s.IsST
	return conventions.LimitPercent(conventions.ClassifyBoard(s.Ticker), st)
}

// SnapshotFilter represents filters for daily snapshot queries.
type SnapshotFilter struct {
	Tickers       []string   `json:"tickers,omitempty"`
	Date          *time.Time `json:"date,omitempty"`
	DateFrom      *time.Time `json:"date_from,omitempty"`
	DateTo        *time.Time `json:"date_to,omitempty"`
	STOnly        bool       `json:"st_only,omitempty"`
	LimitUpOnly   bool       `json:"limit_up_only,omitempty"`
	LimitDownOnly bool       `json:"limit_down_only,omitempty"`
	Limit         int        `json:"limit,omitempty" validate:"min=0,max=100000"`
	Offset        int        `json:"offset,omitempty" validate:"min=0"`
}

// SnapshotSummary represents aggregated statistics for one trading day.
type SnapshotSummary struct {
	TradeDate       time.Time `json:"trade_date"`
	TotalTickers    int       `json:"total_tickers"`
	AdvancingStocks int       `json:"advancing_stocks"`
	DecliningStocks int       `json:"declining_stocks"`
	LimitUpCount    int       `json:"limit_up_count"`
	LimitDownCount  int       `json:"limit_down_count"`
	STCount         int       `json:"st_count"`
	TotalVolume     int64     `json:"total_volume"`
	TotalAmount     float64   `json:"total_amount"`
}
