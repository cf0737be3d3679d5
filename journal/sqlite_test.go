package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradebook/charges"
	"github.com/rustyeddy/tradebook/pkg/id"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func closedTrade(tradeID string, open time.Time) TradeRecord {
	return TradeRecord{
		TradeID:    tradeID,
		Symbol:     "INFY",
		Side:       charges.Buy,
		Exchange:   charges.NSE,
		Segment:    charges.Intraday,
		Quantity:   10,
		EntryPrice: 100,
		ExitPrice:  110,
		OpenTime:   open,
		CloseTime:  open.Add(2 * time.Hour),
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name = 'trades'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "trades", name)
}

func TestSQLiteRecordTrade(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, path := newTestSQLite(t)

	open := time.Date(2024, 1, 2, 3, 45, 5, 0, time.UTC)
	rec := closedTrade("T1", open)
	rec.Broker = "zerodha"
	rec.StopLoss = 95
	rec.Target = 115
	rec.Notes = "breakout"

	gotID, err := j.RecordTrade(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, "T1", gotID)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		symbol, side, exchange, segment, broker string
		qty                                     int64
		entry, exit                             float64
		openTime, closeTime                     time.Time
	)
	err = db.QueryRow(`
        SELECT symbol, side, exchange, segment, broker, quantity, entry_price, exit_price, open_time, close_time
        FROM trades WHERE trade_id = 'T1'`).Scan(
		&symbol, &side, &exchange, &segment, &broker, &qty, &entry, &exit, &openTime, &closeTime,
	)
	require.NoError(t, err)

	assert.Equal(t, "INFY", symbol)
	assert.Equal(t, "BUY", side)
	assert.Equal(t, "NSE", exchange)
	assert.Equal(t, "INTRADAY", segment)
	assert.Equal(t, "zerodha", broker)
	assert.Equal(t, int64(10), qty)
	assert.InDelta(t, 100.0, entry, 1e-9)
	assert.InDelta(t, 110.0, exit, 1e-9)
	assert.True(t, openTime.Equal(open))
	assert.True(t, closeTime.Equal(open.Add(2*time.Hour)))
}

func TestSQLiteRecordTradeAssignsID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	defer j.Close()

	open := time.Date(2024, 3, 1, 9, 20, 0, 0, time.UTC)
	rec := TradeRecord{Symbol: " tcs ", Side: "buy", Exchange: "nse", Quantity: 5, EntryPrice: 3500, OpenTime: open}

	tradeID, err := j.RecordTrade(ctx, rec)
	require.NoError(t, err)

	ts, err := id.Time(tradeID)
	require.NoError(t, err)
	assert.True(t, ts.Equal(open))

	got, err := j.GetTrade(ctx, tradeID)
	require.NoError(t, err)
	assert.Equal(t, "TCS", got.Symbol)
	assert.Equal(t, charges.Buy, got.Side)
	assert.Equal(t, charges.Intraday, got.Segment)
	assert.True(t, got.IsOpen())
	assert.True(t, got.CloseTime.IsZero())
}

func TestSQLiteRecordTradeValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	defer j.Close()

	tests := []struct {
		name string
		rec  TradeRecord
	}{
		{"no symbol", TradeRecord{Side: charges.Buy, Exchange: charges.NSE, Quantity: 1, EntryPrice: 10}},
		{"bad side", TradeRecord{Symbol: "X", Side: "LONG", Exchange: charges.NSE, Quantity: 1, EntryPrice: 10}},
		{"zero qty", TradeRecord{Symbol: "X", Side: charges.Buy, Exchange: charges.NSE, EntryPrice: 10}},
		{"negative exit", TradeRecord{Symbol: "X", Side: charges.Buy, Exchange: charges.NSE, Quantity: 1, EntryPrice: 10, ExitPrice: -3}},
	}

	for _, tt := range tests {
		_, err := j.RecordTrade(ctx, tt.rec)
		assert.True(t, charges.IsValidationError(err), tt.name)
	}

	all, err := j.ListTrades(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLiteCloseTrade(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	defer j.Close()

	open := time.Date(2024, 4, 10, 9, 15, 0, 0, time.UTC)
	rec := closedTrade("T9", open)
	rec.ExitPrice, rec.CloseTime = 0, time.Time{}
	_, err := j.RecordTrade(ctx, rec)
	require.NoError(t, err)

	closeAt := open.Add(5 * time.Hour)
	closed, err := j.CloseTrade(ctx, "T9", 110, closeAt)
	require.NoError(t, err)
	assert.False(t, closed.IsOpen())

	got, err := j.GetTrade(ctx, "T9")
	require.NoError(t, err)
	assert.InDelta(t, 110.0, got.ExitPrice, 1e-9)
	assert.True(t, got.CloseTime.Equal(closeAt))

	res, err := got.NetPnl()
	require.NoError(t, err)
	assert.InDelta(t, 52.4193034, res.NetPnl, 1e-9)

	_, err = j.CloseTrade(ctx, "T9", 111, closeAt)
	assert.ErrorIs(t, err, ErrAlreadyClosed)

	_, err = j.CloseTrade(ctx, "missing", 111, closeAt)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteCloseTradeRejectsBadExit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	defer j.Close()

	rec := closedTrade("T1", time.Date(2024, 4, 10, 9, 15, 0, 0, time.UTC))
	rec.ExitPrice, rec.CloseTime = 0, time.Time{}
	_, err := j.RecordTrade(ctx, rec)
	require.NoError(t, err)

	_, err = j.CloseTrade(ctx, "T1", -5, time.Now())
	assert.True(t, charges.IsValidationError(err))

	got, err := j.GetTrade(ctx, "T1")
	require.NoError(t, err)
	assert.True(t, got.IsOpen())
}

func TestSQLiteDeleteTrade(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	defer j.Close()

	_, err := j.RecordTrade(ctx, closedTrade("T1", time.Date(2024, 4, 10, 9, 15, 0, 0, time.UTC)))
	require.NoError(t, err)

	require.NoError(t, j.DeleteTrade(ctx, "T1"))
	assert.ErrorIs(t, j.DeleteTrade(ctx, "T1"), ErrNotFound)
}

func TestSQLiteRecordTradeRejectsPreEpochOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	defer j.Close()

	rec := closedTrade("", time.Date(1960, 1, 1, 10, 0, 0, 0, time.UTC))
	_, err := j.RecordTrade(ctx, rec)
	require.Error(t, err)

	var ve *charges.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "openTime", ve.Field)

	all, err := j.ListTrades(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLiteRecordTradeRejectsCloseBeforeOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	defer j.Close()

	rec := closedTrade("T1", time.Date(2024, 3, 5, 9, 15, 0, 0, time.UTC))
	rec.CloseTime = time.Date(2024, 2, 4, 15, 0, 0, 0, time.UTC)
	_, err := j.RecordTrade(ctx, rec)

	var ve *charges.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "closeTime", ve.Field)

	_, err = j.GetTrade(ctx, "T1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteCloseTradeRejectsCloseBeforeOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	defer j.Close()

	open := time.Date(2024, 3, 5, 9, 15, 0, 0, time.UTC)
	rec := closedTrade("T1", open)
	rec.ExitPrice, rec.CloseTime = 0, time.Time{}
	_, err := j.RecordTrade(ctx, rec)
	require.NoError(t, err)

	_, err = j.CloseTrade(ctx, "T1", 110, time.Date(2024, 2, 4, 15, 0, 0, 0, time.UTC))
	var ve *charges.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "closeTime", ve.Field)

	got, err := j.GetTrade(ctx, "T1")
	require.NoError(t, err)
	assert.True(t, got.IsOpen())

	day, err := j.DayPnL(ctx, time.Date(2024, 2, 4, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, day.Realized)

	_, err = j.CloseTrade(ctx, "T1", 110, open)
	assert.NoError(t, err)
}
