package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradebook/pkg/id"
)

// SQLite is the journal backed by a single database file.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// RecordTrade validates t, assigns an ID when it has none and stores it.
func (j *SQLite) RecordTrade(ctx context.Context, t TradeRecord) (string, error) {
	if err := t.normalize(); err != nil {
		return "", err
	}
	if t.TradeID == "" {
		tradeID, err := id.NewAt(t.OpenTime)
		if err != nil {
			return "", err
		}
		t.TradeID = tradeID
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO trades
		(trade_id, symbol, side, exchange, segment, broker, quantity, entry_price, exit_price,
		 stop_loss, target, open_time, close_time, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Symbol, string(t.Side), string(t.Exchange), string(t.Segment), t.Broker,
		t.Quantity, t.EntryPrice, nullFloat(t.ExitPrice),
		t.StopLoss, t.Target, t.OpenTime, nullTime(t.CloseTime), t.Notes,
	)
	if err != nil {
		return "", fmt.Errorf("insert trade %s: %w", t.TradeID, err)
	}
	return t.TradeID, nil
}

// CloseTrade sets the exit of an open trade.
func (j *SQLite) CloseTrade(ctx context.Context, tradeID string, exitPrice float64, at time.Time) (TradeRecord, error) {
	rec, err := j.GetTrade(ctx, tradeID)
	if err != nil {
		return TradeRecord{}, err
	}
	if !rec.IsOpen() {
		return rec, fmt.Errorf("close %s: %w", tradeID, ErrAlreadyClosed)
	}

	rec.ExitPrice = exitPrice
	rec.CloseTime = at
	if at.IsZero() {
		rec.CloseTime = time.Now()
	}
	rec.CloseTime = rec.CloseTime.UTC()
	if err := checkCloseTime(rec.OpenTime, rec.CloseTime); err != nil {
		return TradeRecord{}, err
	}
	if _, err := rec.NetPnl(); err != nil {
		return TradeRecord{}, err
	}

	res, err := j.db.ExecContext(ctx, `
		UPDATE trades SET exit_price = ?, close_time = ?
		WHERE trade_id = ? AND exit_price IS NULL`,
		rec.ExitPrice, rec.CloseTime, tradeID)
	if err != nil {
		return TradeRecord{}, fmt.Errorf("close %s: %w", tradeID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return TradeRecord{}, fmt.Errorf("close %s: %w", tradeID, ErrAlreadyClosed)
	}
	return rec, nil
}

// DeleteTrade removes a trade entered by mistake.
func (j *SQLite) DeleteTrade(ctx context.Context, tradeID string) error {
	res, err := j.db.ExecContext(ctx, `DELETE FROM trades WHERE trade_id = ?`, tradeID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
	}
	return nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: v != 0}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
