package charges

import (
	"math"
)

// Round2 rounds x to two decimals, halves away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func (t Trade) validate() error {
	if t.Side != Buy && t.Side != Sell {
		return &ValidationError{Field: "side", Value: t.Side, Msg: "side must be BUY or SELL"}
	}
	if t.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Value: t.Quantity, Msg: "must be greater than zero"}
	}
	if err := positive("entryPrice", t.EntryPrice); err != nil {
		return err
	}
	if _, ok := RatesFor(t.Segment, t.Exchange); !ok {
		if t.Exchange != NSE && t.Exchange != BSE {
			return &ValidationError{Field: "exchange", Value: t.Exchange, Msg: "exchange must be NSE or BSE"}
		}
		return &ValidationError{Field: "segment", Value: t.Segment, Msg: "segment must be INTRADAY or DELIVERY"}
	}
	if t.IsOpen() {
		return ErrOpenTrade
	}
	return positive("exitPrice", t.ExitPrice)
}

// GrossPnl is the P&L before charges. SELL trades are shorts and profit
// when price falls.
func GrossPnl(side Side, entry, exit float64, qty int64) float64 {
	if side == Sell {
		return (entry - exit) * float64(qty)
	}
	return (exit - entry) * float64(qty)
}

// Breakdown computes the charges for a closed trade.
func Breakdown(t Trade, p *BrokerChargeProfile) (ChargeBreakdown, error) {
	if err := t.validate(); err != nil {
		return ChargeBreakdown{}, err
	}
	prof := DefaultProfile
	if p != nil {
		if err := p.Validate(); err != nil {
			return ChargeBreakdown{}, err
		}
		prof = *p
	}
	rates, _ := RatesFor(t.Segment, t.Exchange)
	return breakdown(t, prof, rates), nil
}

func breakdown(t Trade, prof BrokerChargeProfile, rates Rates) ChargeBreakdown {
	buyValue, sellValue := t.legs()
	turnover := buyValue + sellValue

	var b ChargeBreakdown
	b.Brokerage = prof.Brokerage(turnover)
	switch rates.STTBasis {
	case STTOnTurnover:
		b.STT = turnover * rates.STT
	default:
		b.STT = sellValue * rates.STT
	}
	b.ExchangeCharges = turnover * rates.Exchange
	b.GST = GSTRate * (b.Brokerage + b.ExchangeCharges)
	b.SEBICharges = turnover * rates.SEBI
	b.StampDuty = buyValue * rates.Stamp
	b.TotalCharges = b.sum()
	return b
}

// CalculateNetPnl returns gross P&L, the charge breakdown and net P&L for
// a closed trade. A nil profile uses DefaultProfile. Open trades return
// ErrOpenTrade; malformed inputs return a *ValidationError.
func CalculateNetPnl(t Trade, p *BrokerChargeProfile) (Result, error) {
	if t.Segment == "" {
		t.Segment = Intraday
	}
	b, err := Breakdown(t, p)
	if err != nil {
		return Result{}, err
	}
	gross := GrossPnl(t.Side, t.EntryPrice, t.ExitPrice, t.Quantity)
	return Result{
		GrossPnl: gross,
		NetPnl:   gross - b.TotalCharges,
		Turnover: (t.EntryPrice + t.ExitPrice) * float64(t.Quantity),
		Charges:  b,
	}, nil
}

// CalculateDeliveryCharges is the delivery-segment breakdown for buying at
// buyPrice and selling at sellPrice. STT applies to both legs.
func CalculateDeliveryCharges(buyPrice, sellPrice float64, qty int64, ex Exchange, p *BrokerChargeProfile) (ChargeBreakdown, error) {
	return Breakdown(Trade{
		Side:       Buy,
		EntryPrice: buyPrice,
		ExitPrice:  sellPrice,
		Quantity:   qty,
		Exchange:   ex,
		Segment:    Delivery,
	}, p)
}
