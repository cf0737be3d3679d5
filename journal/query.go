package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/tradebook/charges"
	"github.com/rustyeddy/tradebook/risk"
)

const selectTrades = `
	SELECT trade_id, symbol, side, exchange, segment, broker, quantity, entry_price, exit_price,
	       stop_loss, target, open_time, close_time, notes
	FROM trades`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(r rowScanner) (TradeRecord, error) {
	var (
		rec                     TradeRecord
		side, exchange, segment string
		exit                    sql.NullFloat64
		closeTime               sql.NullTime
	)
	err := r.Scan(
		&rec.TradeID,
		&rec.Symbol,
		&side,
		&exchange,
		&segment,
		&rec.Broker,
		&rec.Quantity,
		&rec.EntryPrice,
		&exit,
		&rec.StopLoss,
		&rec.Target,
		&rec.OpenTime,
		&closeTime,
		&rec.Notes,
	)
	if err != nil {
		return TradeRecord{}, err
	}
	rec.Side = charges.Side(side)
	rec.Exchange = charges.Exchange(exchange)
	rec.Segment = charges.Segment(segment)
	rec.ExitPrice = exit.Float64
	if closeTime.Valid {
		rec.CloseTime = closeTime.Time
	}
	return rec, nil
}

func (j *SQLite) list(ctx context.Context, where string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, selectTrades+" "+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(ctx context.Context, tradeID string) (TradeRecord, error) {
	row := j.db.QueryRowContext(ctx, selectTrades+" WHERE trade_id = ?", tradeID)
	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesClosedBetween returns trades whose close_time is within [start, end).
func (j *SQLite) ListTradesClosedBetween(ctx context.Context, start, end time.Time) ([]TradeRecord, error) {
	return j.list(ctx, `
		WHERE close_time >= ? AND close_time < ?
		ORDER BY close_time ASC`, start.UTC(), end.UTC())
}

// ListOpenTrades returns trades without an exit, oldest first.
func (j *SQLite) ListOpenTrades(ctx context.Context) ([]TradeRecord, error) {
	return j.list(ctx, `WHERE exit_price IS NULL ORDER BY open_time ASC`)
}

// ListTrades returns every trade, oldest first.
func (j *SQLite) ListTrades(ctx context.Context) ([]TradeRecord, error) {
	return j.list(ctx, `ORDER BY open_time ASC, trade_id ASC`)
}

// RealizedNetBetween sums net P&L of trades closed in [start, end).
func (j *SQLite) RealizedNetBetween(ctx context.Context, start, end time.Time) (float64, error) {
	recs, err := j.ListTradesClosedBetween(ctx, start, end)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, r := range recs {
		res, err := r.NetPnl()
		if err != nil {
			return 0, fmt.Errorf("trade %s: %w", r.TradeID, err)
		}
		total += res.NetPnl
	}
	return total, nil
}

// DayPnL is the realized net P&L for the calendar day containing day,
// in day's location. It feeds the daily loss-limit guard.
func (j *SQLite) DayPnL(ctx context.Context, day time.Time) (risk.DayPnL, error) {
	start, end := DayBounds(day)
	net, err := j.RealizedNetBetween(ctx, start, end)
	if err != nil {
		return risk.DayPnL{}, err
	}
	return risk.DayPnL{Realized: net}, nil
}

// DayBounds returns midnight-to-midnight around t in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// ParseDay parses YYYY-MM-DD in loc and returns its bounds.
func ParseDay(day string, loc *time.Location) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, end := DayBounds(t)
	return start, end, nil
}
