package risk

import (
	"errors"
	"fmt"
	"math"
)

// Status tags a calculation. Degenerate means the stop-loss equals the
// entry, so no risk boundary exists and every derived figure is zero.
type Status int

const (
	StatusOK Status = iota
	StatusDegenerate
)

func (s Status) String() string {
	if s == StatusDegenerate {
		return "degenerate"
	}
	return "ok"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "ok":
		*s = StatusOK
	case "degenerate":
		*s = StatusDegenerate
	default:
		return fmt.Errorf("unknown status %q", b)
	}
	return nil
}

type ValidationError struct {
	Field string
	Value float64
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Msg)
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Value: v, Msg: "must be a finite number"}
	}
	return nil
}

func positive(field string, v float64) error {
	if err := finite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return &ValidationError{Field: field, Value: v, Msg: "must be greater than zero"}
	}
	return nil
}

// wholeShares floors x to a share count. Counts beyond int64 are rejected
// rather than wrapped.
func wholeShares(field string, x float64) (int64, error) {
	if err := finite(field, x); err != nil {
		return 0, err
	}
	if x >= float64(math.MaxInt64) {
		return 0, &ValidationError{Field: field, Value: x, Msg: "share count out of range"}
	}
	return int64(math.Floor(x)), nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// RR is reward over risk per share. Zero when entry equals stop.
func RR(entry, stop, target float64) float64 {
	risk := abs(entry - stop)
	reward := abs(target - entry)
	if risk == 0 {
		return 0
	}
	return reward / risk
}

type RiskRewardInput struct {
	EntryPrice    float64 `json:"entryPrice"`
	TargetPrice   float64 `json:"targetPrice"`
	StopLossPrice float64 `json:"stopLossPrice"`
	Quantity      int64   `json:"quantity"`
}

type RiskReward struct {
	Status          Status  `json:"status"`
	RiskRewardRatio float64 `json:"riskRewardRatio"`
	MaxLoss         float64 `json:"maxLoss"`
	PotentialProfit float64 `json:"potentialProfit"`
	RiskPerShare    float64 `json:"riskPerShare"`
	RewardPerShare  float64 `json:"rewardPerShare"`
}

// CalculateRiskReward sizes the loss and profit of a planned trade.
func CalculateRiskReward(in RiskRewardInput) (RiskReward, error) {
	if err := positive("entryPrice", in.EntryPrice); err != nil {
		return RiskReward{}, err
	}
	if err := positive("targetPrice", in.TargetPrice); err != nil {
		return RiskReward{}, err
	}
	if err := positive("stopLossPrice", in.StopLossPrice); err != nil {
		return RiskReward{}, err
	}
	if in.Quantity < 0 {
		return RiskReward{}, &ValidationError{Field: "quantity", Value: float64(in.Quantity), Msg: "must not be negative"}
	}

	q := float64(in.Quantity)
	out := RiskReward{
		RiskPerShare:   abs(in.EntryPrice - in.StopLossPrice),
		RewardPerShare: abs(in.TargetPrice - in.EntryPrice),
	}
	out.MaxLoss = out.RiskPerShare * q
	out.PotentialProfit = out.RewardPerShare * q
	if out.RiskPerShare == 0 {
		out.Status = StatusDegenerate
		return out, nil
	}
	out.RiskRewardRatio = out.RewardPerShare / out.RiskPerShare
	return out, nil
}
