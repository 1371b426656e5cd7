package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceDescriptors(t *testing.T) {
	snap := SnapshotSource()
	assert.Equal(t, "astock_snapshot", snap.Name)
	assert.Equal(t, "astock_snapshot", snap.Mapping)
	assert.Equal(t, "daily_market_snapshot", snap.Table)
	assert.True(t, snap.DateFromFilename)
	assert.NotContains(t, snap.Required, "trade_date")
	assert.Contains(t, snap.Required, "pre_close")

	hist := HistorySource()
	assert.Equal(t, "stock_history", hist.Name)
	assert.Empty(t, hist.Mapping)
	assert.Equal(t, "daily_market_snapshot", hist.Table)
	assert.False(t, hist.DateFromFilename)
	assert.NotContains(t, hist.Required, "trade_date")
	assert.NotContains(t, hist.Required, "name")
}
