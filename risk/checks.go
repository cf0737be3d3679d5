package risk

import (
	"fmt"
)

type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

type Decision struct {
	Allowed    bool        `json:"allowed"`
	Violations []Violation `json:"violations,omitempty"`

	PlannedRisk    float64 `json:"plannedRisk"`
	PlannedRiskPct float64 `json:"plannedRiskPct"`
	PlannedRR      float64 `json:"plannedRR"`
	CapitalPct     float64 `json:"capitalPct"`
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Has reports whether the decision carries a violation with code.
func (d Decision) Has(code string) bool {
	for _, v := range d.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// Evaluate checks a planned trade against p. Every rule is checked so the
// caller sees all violations at once.
func Evaluate(p Policy, plan TradePlan, day DayPnL) Decision {
	d := Decision{Allowed: true}

	if plan.Entry <= 0 || plan.StopLoss <= 0 {
		d.add("NO_STOP_OR_ENTRY", "entry and stop-loss must be set")
		return d
	}
	if plan.Quantity <= 0 {
		d.add("NO_QUANTITY", "quantity must be positive")
		return d
	}

	q := float64(plan.Quantity)
	d.PlannedRisk = abs(plan.Entry-plan.StopLoss) * q
	if p.Capital > 0 {
		d.PlannedRiskPct = d.PlannedRisk / p.Capital * 100
		d.CapitalPct = plan.Entry * q / p.Capital * 100
	}
	if plan.Target > 0 {
		d.PlannedRR = RR(plan.Entry, plan.StopLoss, plan.Target)
	}

	if p.MaxRiskPercent > 0 && d.PlannedRiskPct > p.MaxRiskPercent {
		d.add("RISK_TOO_HIGH",
			fmt.Sprintf("planned risk %.2f%% exceeds max %.2f%%", d.PlannedRiskPct, p.MaxRiskPercent))
	}
	if p.MinRR > 0 && plan.Target > 0 && d.PlannedRR < p.MinRR {
		d.add("RR_TOO_LOW",
			fmt.Sprintf("RR %.2f below minimum %.2f", d.PlannedRR, p.MinRR))
	}
	if p.MaxCapitalPerTrade > 0 && d.CapitalPct > p.MaxCapitalPerTrade*100 {
		d.add("CAPITAL_CAP",
			fmt.Sprintf("position uses %.2f%% of capital, max %.2f%%", d.CapitalPct, p.MaxCapitalPerTrade*100))
	}

	// Circuit breaker
	if p.DailyLossLimit > 0 && -day.Realized >= p.DailyLossLimit {
		d.add("DAILY_LOSS_LIMIT",
			fmt.Sprintf("day realized %.2f reached limit -%.2f", day.Realized, p.DailyLossLimit))
	}

	return d
}
