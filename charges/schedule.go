package charges

// STTBasis says which trade value securities transaction tax is levied on.
type STTBasis int

const (
	STTOnSell STTBasis = iota
	STTOnTurnover
)

// Rates holds the statutory rates for one segment/exchange pair. All rates
// are fractions of the value they apply to.
type Rates struct {
	STT      float64
	STTBasis STTBasis
	Exchange float64 // turnover
	SEBI     float64 // turnover
	Stamp    float64 // buy value
}

// GSTRate applies to brokerage plus exchange transaction charges.
const GSTRate = 0.18

const (
	nseTxn      = 0.0000297
	bseTxn      = 0.0000375
	sebiPerCr   = 0.000001 // ₹10 per crore
	intradaySTT = 0.00025
	deliverySTT = 0.001
)

type scheduleKey struct {
	seg Segment
	ex  Exchange
}

// Schedule is the regulatory fee table. Intraday and delivery differ in STT
// basis and stamp duty; exchanges differ in transaction charges.
var Schedule = map[scheduleKey]Rates{
	{Intraday, NSE}: {STT: intradaySTT, STTBasis: STTOnSell, Exchange: nseTxn, SEBI: sebiPerCr, Stamp: 0.00003},
	{Intraday, BSE}: {STT: intradaySTT, STTBasis: STTOnSell, Exchange: bseTxn, SEBI: sebiPerCr, Stamp: 0.00003},
	{Delivery, NSE}: {STT: deliverySTT, STTBasis: STTOnTurnover, Exchange: nseTxn, SEBI: sebiPerCr, Stamp: 0.00015},
	{Delivery, BSE}: {STT: deliverySTT, STTBasis: STTOnTurnover, Exchange: bseTxn, SEBI: sebiPerCr, Stamp: 0.00015},
}

// RatesFor returns the schedule row for seg and ex.
func RatesFor(seg Segment, ex Exchange) (Rates, bool) {
	if seg == "" {
		seg = Intraday
	}
	r, ok := Schedule[scheduleKey{seg, ex}]
	return r, ok
}
