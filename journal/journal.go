// Package journal stores the user's equity trades and derives their net
// P&L, statistics and exports from the charges engine.
package journal

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rustyeddy/tradebook/charges"
	"github.com/rustyeddy/tradebook/pkg/id"
	"github.com/rustyeddy/tradebook/risk"
)

var (
	ErrNotFound      = errors.New("trade not found")
	ErrAlreadyClosed = errors.New("trade already closed")
)

// TradeRecord is one journaled trade. ExitPrice and CloseTime stay zero
// while the trade is open. Net P&L is never stored; see NetPnl.
type TradeRecord struct {
	TradeID    string           `json:"tradeId"`
	Symbol     string           `json:"symbol"`
	Side       charges.Side     `json:"side"`
	Exchange   charges.Exchange `json:"exchange"`
	Segment    charges.Segment  `json:"segment"`
	Broker     string           `json:"broker,omitempty"`
	Quantity   int64            `json:"quantity"`
	EntryPrice float64          `json:"entryPrice"`
	ExitPrice  float64          `json:"exitPrice,omitempty"`
	StopLoss   float64          `json:"stopLoss,omitempty"`
	Target     float64          `json:"target,omitempty"`
	OpenTime   time.Time        `json:"openTime"`
	CloseTime  time.Time        `json:"closeTime,omitempty"`
	Notes      string           `json:"notes,omitempty"`
}

func (t TradeRecord) IsOpen() bool {
	return t.ExitPrice == 0
}

func (t TradeRecord) Trade() charges.Trade {
	return charges.Trade{
		Side:       t.Side,
		EntryPrice: t.EntryPrice,
		ExitPrice:  t.ExitPrice,
		Quantity:   t.Quantity,
		Exchange:   t.Exchange,
		Segment:    t.Segment,
	}
}

// Profile resolves the broker's charge schedule.
func (t TradeRecord) Profile() charges.BrokerChargeProfile {
	return charges.ProfileForBroker(t.Broker)
}

// NetPnl runs the trade through the charges engine.
func (t TradeRecord) NetPnl() (charges.Result, error) {
	p := t.Profile()
	return charges.CalculateNetPnl(t.Trade(), &p)
}

// Invested is the entry-leg value.
func (t TradeRecord) Invested() float64 {
	return t.EntryPrice * float64(t.Quantity)
}

func (t *TradeRecord) normalize() error {
	t.Symbol = strings.ToUpper(strings.TrimSpace(t.Symbol))
	if t.Symbol == "" {
		return &charges.ValidationError{Field: "symbol", Value: t.Symbol, Msg: "symbol is required"}
	}
	var err error
	if t.Side, err = charges.ParseSide(string(t.Side)); err != nil {
		return err
	}
	if t.Exchange, err = charges.ParseExchange(string(t.Exchange)); err != nil {
		return err
	}
	if t.Segment, err = charges.ParseSegment(string(t.Segment)); err != nil {
		return err
	}
	if t.Quantity <= 0 {
		return &charges.ValidationError{Field: "quantity", Value: t.Quantity, Msg: "must be greater than zero"}
	}
	if !(t.EntryPrice > 0) {
		return &charges.ValidationError{Field: "entryPrice", Value: t.EntryPrice, Msg: "must be greater than zero"}
	}
	if t.OpenTime.IsZero() {
		t.OpenTime = time.Now()
	}
	if !id.InRange(t.OpenTime) {
		return &charges.ValidationError{Field: "openTime", Value: t.OpenTime, Msg: "out of range, must be on or after 1970-01-01"}
	}
	t.OpenTime = t.OpenTime.UTC()
	if !t.IsOpen() {
		if _, err := t.NetPnl(); err != nil {
			return err
		}
		if t.CloseTime.IsZero() {
			t.CloseTime = t.OpenTime
		}
		if err := checkCloseTime(t.OpenTime, t.CloseTime); err != nil {
			return err
		}
		t.CloseTime = t.CloseTime.UTC()
	}
	return nil
}

func checkCloseTime(open, closed time.Time) error {
	if closed.Before(open) {
		return &charges.ValidationError{Field: "closeTime", Value: closed, Msg: "must not be before the open time"}
	}
	return nil
}

// Journal is the write side used by the CLI and server.
type Journal interface {
	RecordTrade(ctx context.Context, t TradeRecord) (string, error)
	CloseTrade(ctx context.Context, tradeID string, exitPrice float64, at time.Time) (TradeRecord, error)
	Close() error
}

// Reader is the query side.
type Reader interface {
	GetTrade(ctx context.Context, tradeID string) (TradeRecord, error)
	ListTradesClosedBetween(ctx context.Context, start, end time.Time) ([]TradeRecord, error)
	ListOpenTrades(ctx context.Context) ([]TradeRecord, error)
	DayPnL(ctx context.Context, day time.Time) (risk.DayPnL, error)
}

var (
	_ Journal = (*SQLite)(nil)
	_ Reader  = (*SQLite)(nil)
)
