package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	open := time.Date(2024, 3, 15, 4, 0, 45, 0, time.UTC)
	trade := closedTrade("01HRZ8K2ABCDEF", open)
	trade.Broker = "angelone"
	trade.StopLoss = 96
	trade.Notes = "gap up on results"

	result := FormatTradeOrg(trade)

	assert.Contains(t, result, "** CLOSED BUY INFY (01HRZ8K2)")
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":ID: 01HRZ8K2ABCDEF")
	assert.Contains(t, result, ":BROKER: angelone")
	assert.Contains(t, result, ":QUANTITY: 10")
	assert.Contains(t, result, ":ENTRY_PRICE: 100.00")
	assert.Contains(t, result, ":STOP_LOSS: 96.00")
	assert.NotContains(t, result, ":TARGET:")
	assert.Contains(t, result, ":OPEN_TIME: 2024-03-15T04:00:45Z")
	assert.Contains(t, result, ":CLOSE_TIME: 2024-03-15T06:00:45Z")
	assert.Contains(t, result, ":BROKERAGE: 40.00")
	assert.Contains(t, result, ":TOTAL_CHARGES: 47.58")
	assert.Contains(t, result, ":NET_PNL: 52.42")
	assert.Contains(t, result, ":END:")
	assert.Contains(t, result, "*** Thesis\n- gap up on results")
	assert.Contains(t, result, "*** Review")
}

func TestFormatTradeOrgOpen(t *testing.T) {
	t.Parallel()

	trade := closedTrade("short", time.Date(2024, 3, 15, 4, 0, 0, 0, time.UTC))
	trade.ExitPrice, trade.CloseTime = 0, time.Time{}

	result := FormatTradeOrg(trade)
	assert.Contains(t, result, "** OPEN BUY INFY (short)")
	assert.NotContains(t, result, ":NET_PNL:")
	assert.NotContains(t, result, ":CLOSE_TIME:")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	out := FormatTradesOrg(sampleTrades())
	assert.Equal(t, 3, strings.Count(out, ":PROPERTIES:"))
	assert.Equal(t, "", FormatTradesOrg(nil))
}
