package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"atlascli/pkg/contracts/conventions"
)

func boolPtr(v bool) *bool { return &v }

func TestDailySnapshotExchange(t *testing.T) {
	tests := []struct {
		ticker string
		want   conventions.Exchange
	}{
		{"600000.SH", conventions.ExchangeSH},
		{"000001.SZ", conventions.ExchangeSZ},
		{"835174.BJ", conventions.ExchangeBJ},
	}
	for _, tt := range tests {
		t.Run(tt.ticker, func(t *testing.T) {
			s := DailySnapshot{Ticker: tt.ticker}
			assert.Equal(t, tt.want, s.Exchange())
		})
	}
}

func TestDailySnapshotLimitPercent(t *testing.T) {
	tests := []struct {
		name string
		s    DailySnapshot
		want float64
	}{
		{"main board", DailySnapshot{Ticker: "600000.SH"}, 10},
		{"main board st", DailySnapshot{Ticker: "600000.SH", IsST: boolPtr(true)}, 5},
		{"chinext st keeps 20", DailySnapshot{Ticker: "300750.SZ", IsST: boolPtr(true)}, 20},
		{"star", DailySnapshot{Ticker: "688111.SH"}, 20},
		{"nil st flag", DailySnapshot{Ticker: "000001.SZ", IsST: nil}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.LimitPercent())
		})
	}
}

func TestTradeExecutionClosed(t *testing.T) {
	open := TradeExecution{TradeID: "a"}
	assert.False(t, open.Closed())

	exit := time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	closed := TradeExecution{TradeID: "b", ExitDate: &exit}
	assert.True(t, closed.Closed())
}
