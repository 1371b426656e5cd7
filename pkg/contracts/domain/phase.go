package domain

import "time"

// MarketPhase represents one trading day's market-regime assessment. The
// M*/V column spellings are kept mixed-case to match existing stores.
type MarketPhase struct {
	TradeDate      time.Time `json:"trade_date" db:"trade_date" validate:"required"`
	Phase          *string   `json:"phase" db:"phase"`
	M1Core         *bool     `json:"M1_core" db:"M1_core"`
	M2Front        *bool     `json:"M2_front" db:"M2_front"`
	M3Identifiable *bool     `json:"M3_identifiable" db:"M3_identifiable"`
	VTriggered     *bool     `json:"V_triggered" db:"V_triggered"`
	Notes          *string   `json:"notes" db:"notes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// PhaseFilter represents filters for market phase queries.
type PhaseFilter struct {
	Phase    string     `json:"phase,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
	Limit    int        `json:"limit,omitempty" validate:"min=0,max=100000"`
	Offset   int        `json:"offset,omitempty" validate:"min=0"`
}
