package risk

import "fmt"

// MaxCapitalPerTrade caps a single position at 10% of capital.
const MaxCapitalPerTrade = 0.10

// Binding names the constraint that limited a recommendation.
type Binding string

const (
	BindingLossLimit  Binding = "LOSS_LIMIT"
	BindingRiskBudget Binding = "RISK_BUDGET"
	BindingCapitalCap Binding = "CAPITAL_CAP"
	BindingDegenerate Binding = "DEGENERATE"
)

type RecommendationInput struct {
	Capital        float64 `json:"capital"`
	DailyLossLimit float64 `json:"dailyLossLimit"`
	CurrentDayLoss float64 `json:"currentDayLoss"` // sign is ignored
	EntryPrice     float64 `json:"entryPrice"`
	StopLossPrice  float64 `json:"stopLossPrice"`
}

type Recommendation struct {
	RecommendedQty int64   `json:"recommendedQty"`
	MaxQty         int64   `json:"maxQty"`
	MaxByCapital   int64   `json:"maxByCapital"`
	RemainingRisk  float64 `json:"remainingRisk"`
	Binding        Binding `json:"binding"`
	Reason         string  `json:"reason"`
}

// PositionSizeRecommendation sizes the next trade against what is left of
// the day's loss limit and the per-trade capital cap. Once the day's loss
// reaches the limit it always recommends zero.
func PositionSizeRecommendation(in RecommendationInput) (Recommendation, error) {
	if err := positive("capital", in.Capital); err != nil {
		return Recommendation{}, err
	}
	if err := finite("dailyLossLimit", in.DailyLossLimit); err != nil {
		return Recommendation{}, err
	}
	if err := finite("currentDayLoss", in.CurrentDayLoss); err != nil {
		return Recommendation{}, err
	}
	if err := positive("entryPrice", in.EntryPrice); err != nil {
		return Recommendation{}, err
	}
	if err := positive("stopLossPrice", in.StopLossPrice); err != nil {
		return Recommendation{}, err
	}

	remaining := in.DailyLossLimit - abs(in.CurrentDayLoss)
	if remaining <= 0 {
		return Recommendation{
			RemainingRisk: remaining,
			Binding:       BindingLossLimit,
			Reason: fmt.Sprintf("daily loss limit of %.2f reached (day loss %.2f); no new positions today",
				in.DailyLossLimit, abs(in.CurrentDayLoss)),
		}, nil
	}

	riskPerShare := abs(in.EntryPrice - in.StopLossPrice)
	if riskPerShare <= 0 {
		return Recommendation{
			RemainingRisk: remaining,
			Binding:       BindingDegenerate,
			Reason:        "stop-loss equals entry price; set a stop-loss to size the position",
		}, nil
	}

	maxQty, err := wholeShares("maxQty", remaining/riskPerShare)
	if err != nil {
		return Recommendation{}, err
	}
	maxByCapital, err := wholeShares("maxByCapital", in.Capital*MaxCapitalPerTrade/in.EntryPrice)
	if err != nil {
		return Recommendation{}, err
	}

	out := Recommendation{
		MaxQty:        maxQty,
		MaxByCapital:  maxByCapital,
		RemainingRisk: remaining,
	}
	if out.MaxByCapital < out.MaxQty {
		out.RecommendedQty = out.MaxByCapital
		out.Binding = BindingCapitalCap
		out.Reason = fmt.Sprintf("capped at %.0f%% of capital (%d shares); risk budget allows %d",
			MaxCapitalPerTrade*100, out.MaxByCapital, out.MaxQty)
	} else {
		out.RecommendedQty = out.MaxQty
		out.Binding = BindingRiskBudget
		out.Reason = fmt.Sprintf("remaining daily risk %.2f at %.2f per share allows %d shares",
			remaining, riskPerShare, out.MaxQty)
	}
	return out, nil
}
