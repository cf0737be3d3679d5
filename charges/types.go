// Package charges computes brokerage, statutory charges and net P&L for
// equity trades on Indian exchanges.
//
// Every function here is pure: callers hand in fully formed trades and
// broker profiles and get value objects back. Monetary results are kept at
// full precision; use Round2 or Result.Rounded when displaying them.
package charges

import (
	"fmt"
	"strings"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	}
	return "", &ValidationError{Field: "side", Value: s, Msg: "side must be BUY or SELL"}
}

type Exchange string

const (
	NSE Exchange = "NSE"
	BSE Exchange = "BSE"
)

func ParseExchange(s string) (Exchange, error) {
	switch Exchange(strings.ToUpper(strings.TrimSpace(s))) {
	case NSE:
		return NSE, nil
	case BSE:
		return BSE, nil
	}
	return "", &ValidationError{Field: "exchange", Value: s, Msg: "exchange must be NSE or BSE"}
}

// Segment selects the regulatory schedule. The empty segment is intraday.
type Segment string

const (
	Intraday Segment = "INTRADAY"
	Delivery Segment = "DELIVERY"
)

func ParseSegment(s string) (Segment, error) {
	switch Segment(strings.ToUpper(strings.TrimSpace(s))) {
	case "", Intraday:
		return Intraday, nil
	case Delivery:
		return Delivery, nil
	}
	return "", &ValidationError{Field: "segment", Value: s, Msg: "segment must be INTRADAY or DELIVERY"}
}

// ChargeBreakdown is the per-component cost of a round trip.
type ChargeBreakdown struct {
	Brokerage       float64 `json:"brokerage"`
	STT             float64 `json:"stt"`
	ExchangeCharges float64 `json:"exchangeCharges"`
	GST             float64 `json:"gst"`
	SEBICharges     float64 `json:"sebiCharges"`
	StampDuty       float64 `json:"stampDuty"`
	TotalCharges    float64 `json:"totalCharges"`
}

func (b ChargeBreakdown) sum() float64 {
	return b.Brokerage + b.STT + b.ExchangeCharges + b.GST + b.SEBICharges + b.StampDuty
}

// Rounded returns the breakdown with every component rounded to paise.
// TotalCharges is rounded from the exact total, not re-summed.
func (b ChargeBreakdown) Rounded() ChargeBreakdown {
	return ChargeBreakdown{
		Brokerage:       Round2(b.Brokerage),
		STT:             Round2(b.STT),
		ExchangeCharges: Round2(b.ExchangeCharges),
		GST:             Round2(b.GST),
		SEBICharges:     Round2(b.SEBICharges),
		StampDuty:       Round2(b.StampDuty),
		TotalCharges:    Round2(b.TotalCharges),
	}
}

// Trade is the subset of a journal entry the calculator needs.
// ExitPrice == 0 means the trade is still open.
type Trade struct {
	Side       Side     `json:"side"`
	EntryPrice float64  `json:"entryPrice"`
	ExitPrice  float64  `json:"exitPrice"`
	Quantity   int64    `json:"quantity"`
	Exchange   Exchange `json:"exchange"`
	Segment    Segment  `json:"segment,omitempty"`
}

func (t Trade) IsOpen() bool {
	return t.ExitPrice == 0
}

// legs returns the buy-side and sell-side values. A SELL trade is a short,
// so its entry is the sell leg.
func (t Trade) legs() (buyValue, sellValue float64) {
	q := float64(t.Quantity)
	if t.Side == Sell {
		return t.ExitPrice * q, t.EntryPrice * q
	}
	return t.EntryPrice * q, t.ExitPrice * q
}

// Result is the outcome of CalculateNetPnl.
type Result struct {
	GrossPnl float64         `json:"grossPnl"`
	NetPnl   float64         `json:"netPnl"`
	Turnover float64         `json:"turnover"`
	Charges  ChargeBreakdown `json:"charges"`
}

// Rounded is the display form of r.
func (r Result) Rounded() Result {
	return Result{
		GrossPnl: Round2(r.GrossPnl),
		NetPnl:   Round2(r.NetPnl),
		Turnover: Round2(r.Turnover),
		Charges:  r.Charges.Rounded(),
	}
}

func (r Result) String() string {
	d := r.Rounded()
	return fmt.Sprintf("gross=%.2f charges=%.2f net=%.2f", d.GrossPnl, d.Charges.TotalCharges, d.NetPnl)
}
