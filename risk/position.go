package risk

type PositionSizeInput struct {
	Capital        float64 `json:"capital"`
	RiskPercentage float64 `json:"riskPercentage"` // 1 means 1% of capital
	EntryPrice     float64 `json:"entryPrice"`
	StopLossPrice  float64 `json:"stopLossPrice"`
	TargetPrice    float64 `json:"targetPrice,omitempty"` // optional
}

type RiskCalculation struct {
	Status            Status  `json:"status"`
	PositionSize      int64   `json:"positionSize"`
	CapitalRequired   float64 `json:"capitalRequired"`
	MaxLoss           float64 `json:"maxLoss"`
	MaxRiskAmount     float64 `json:"maxRiskAmount"`
	RiskPerShare      float64 `json:"riskPerShare"`
	PotentialProfit   float64 `json:"potentialProfit"`
	RiskRewardRatio   float64 `json:"riskRewardRatio"`
	CapitalPercentage float64 `json:"capitalPercentage"`
	RiskPercentage    float64 `json:"riskPercentage"`
}

func (in PositionSizeInput) validate() error {
	if err := positive("capital", in.Capital); err != nil {
		return err
	}
	if err := positive("riskPercentage", in.RiskPercentage); err != nil {
		return err
	}
	if in.RiskPercentage > 100 {
		return &ValidationError{Field: "riskPercentage", Value: in.RiskPercentage, Msg: "must not exceed 100"}
	}
	if err := positive("entryPrice", in.EntryPrice); err != nil {
		return err
	}
	if err := positive("stopLossPrice", in.StopLossPrice); err != nil {
		return err
	}
	if in.TargetPrice != 0 {
		return positive("targetPrice", in.TargetPrice)
	}
	return nil
}

// CalculatePositionSize returns how many whole shares fit the risk budget.
// Rounding down means the loss at the stop never exceeds the budget.
func CalculatePositionSize(in PositionSizeInput) (RiskCalculation, error) {
	if err := in.validate(); err != nil {
		return RiskCalculation{}, err
	}

	riskPerShare := abs(in.EntryPrice - in.StopLossPrice)
	if riskPerShare <= 0 {
		return RiskCalculation{Status: StatusDegenerate}, nil
	}

	maxRisk := in.Capital * in.RiskPercentage / 100
	size, err := wholeShares("positionSize", maxRisk/riskPerShare)
	if err != nil {
		return RiskCalculation{}, err
	}

	out := RiskCalculation{
		PositionSize:    size,
		MaxRiskAmount:   maxRisk,
		RiskPerShare:    riskPerShare,
		CapitalRequired: float64(size) * in.EntryPrice,
		MaxLoss:         float64(size) * riskPerShare,
	}
	if in.TargetPrice > 0 {
		out.PotentialProfit = float64(size) * abs(in.TargetPrice-in.EntryPrice)
		out.RiskRewardRatio = RR(in.EntryPrice, in.StopLossPrice, in.TargetPrice)
	}
	out.CapitalPercentage = out.CapitalRequired / in.Capital * 100
	out.RiskPercentage = out.MaxLoss / in.Capital * 100
	return out, nil
}
