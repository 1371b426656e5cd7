package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupMembership(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		numeric bool
		boolean bool
		date    bool
	}{
		{name: "close is numeric", field: Close, numeric: true},
		{name: "volume is numeric", field: Volume, numeric: true},
		{name: "pre_close is numeric", field: PreClose, numeric: true},
		{name: "is_st is boolean", field: IsST, boolean: true},
		{name: "V_triggered is boolean", field: VTriggered, boolean: true},
		{name: "trade_date is date", field: TradeDate, date: true},
		{name: "half_sell_date is date", field: HalfSellDate, date: true},
		{name: "ticker is none of the coerced groups", field: Ticker},
		{name: "name is none of the coerced groups", field: Name},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.numeric, IsNumeric(tt.field))
			assert.Equal(t, tt.boolean, IsBoolean(tt.field))
			assert.Equal(t, tt.date, IsDate(tt.field))
		})
	}
}

func TestGroupsAreDisjoint(t *testing.T) {
	seen := make(map[string]string)
	for _, f := range Numeric {
		seen[f] = "numeric"
	}
	for _, f := range Boolean {
		assert.NotContains(t, seen, f, "boolean field %q also in %s group", f, seen[f])
		seen[f] = "boolean"
	}
	for _, f := range Date {
		assert.NotContains(t, seen, f, "date field %q also in %s group", f, seen[f])
		seen[f] = "date"
	}
	for _, f := range String {
		assert.NotContains(t, seen, f, "string field %q also in %s group", f, seen[f])
	}
}

func TestPhaseColumnsKeepHistoricalSpelling(t *testing.T) {
	assert.Equal(t, "M1_core", M1Core)
	assert.Equal(t, "M2_front", M2Front)
	assert.Equal(t, "M3_identifiable", M3Identifiable)
	assert.Equal(t, "V_triggered", VTriggered)
}
