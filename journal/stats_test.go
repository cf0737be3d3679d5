package journal

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradebook/risk"
)

func sampleTrades() []TradeRecord {
	base := time.Date(2024, 8, 1, 9, 15, 0, 0, time.UTC)
	win := closedTrade("W", base)
	loss := closedTrade("L", base.Add(time.Hour))
	loss.ExitPrice = 95
	open := closedTrade("O", base.Add(2*time.Hour))
	open.ExitPrice, open.CloseTime = 0, time.Time{}
	return []TradeRecord{win, loss, open}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	const (
		winNet  = 52.4193034
		lossNet = -97.5377897
	)

	s, err := Summarize(sampleTrades())
	require.NoError(t, err)

	assert.Equal(t, 3, s.Trades)
	assert.Equal(t, 1, s.Open)
	assert.Equal(t, 2, s.Closed)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 50, s.WinRate)

	assert.InDelta(t, 50.0, s.GrossPnl, 1e-9)
	assert.InDelta(t, 47.5806966+47.5377897, s.TotalCharges, 1e-6)
	assert.InDelta(t, winNet+lossNet, s.NetPnl, 1e-6)
	assert.InDelta(t, 2000.0, s.Invested, 1e-9)
	assert.Equal(t, risk.StatusOK, s.PnlPercentStatus)
	assert.Equal(t, -2.26, s.PnlPercent)

	assert.InDelta(t, (winNet+lossNet)/2, s.AvgNet, 1e-6)
	assert.InDelta(t, math.Abs(winNet-lossNet)/math.Sqrt2, s.StdDevNet, 1e-6)
	assert.InDelta(t, winNet, s.BestNet, 1e-6)
	assert.InDelta(t, lossNet, s.WorstNet, 1e-6)
	assert.InDelta(t, winNet/-lossNet, s.ProfitFactor, 1e-6)
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	s, err := Summarize(nil)
	require.NoError(t, err)
	assert.Zero(t, s.WinRate)
	assert.Zero(t, s.PnlPercent)
	assert.Equal(t, risk.StatusDegenerate, s.PnlPercentStatus)
	assert.Contains(t, FormatSummaryOrg(s), "| net P&L % | n/a |")
}

func TestSummarizeRoundsWinRate(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 8, 1, 9, 15, 0, 0, time.UTC)
	loss := closedTrade("L", base)
	loss.ExitPrice = 90
	recs := []TradeRecord{closedTrade("A", base), closedTrade("B", base), loss}

	s, err := Summarize(recs)
	require.NoError(t, err)
	assert.Equal(t, 67, s.WinRate)
}
