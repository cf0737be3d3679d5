package risk

// Policy is the trader's standing risk rules. Percentages are whole
// percent (1 = 1%) to match the calculator inputs.
type Policy struct {
	Capital float64

	RiskPercent    float64 // default per-trade risk, e.g. 1
	MaxRiskPercent float64 // hard ceiling, e.g. 2

	// Circuit breaker, in account currency
	DailyLossLimit float64

	MaxCapitalPerTrade float64 // fraction, 0.10
	MinRR              float64 // 1.5
}

func DefaultPolicy(capital float64) Policy {
	return Policy{
		Capital:            capital,
		RiskPercent:        1,
		MaxRiskPercent:     2,
		DailyLossLimit:     capital * 0.02,
		MaxCapitalPerTrade: MaxCapitalPerTrade,
		MinRR:              1.5,
	}
}

// TradePlan is a trade the user is about to place.
type TradePlan struct {
	Symbol   string
	Quantity int64
	Entry    float64
	StopLoss float64
	Target   float64
}

// DayPnL is the realized net P&L so far today; losses are negative.
type DayPnL struct {
	Realized float64
}
