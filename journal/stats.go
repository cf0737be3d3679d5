package journal

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/rustyeddy/tradebook/charges"
	"github.com/rustyeddy/tradebook/risk"
)

// Summary aggregates closed trades. Money fields are exact; round them for
// display. WinRate is a whole percent, PnlPercent has two decimals.
type Summary struct {
	Trades int `json:"trades"`
	Open   int `json:"open"`
	Closed int `json:"closed"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`

	WinRate int `json:"winRate"`

	GrossPnl     float64 `json:"grossPnl"`
	TotalCharges float64 `json:"totalCharges"`
	NetPnl       float64 `json:"netPnl"`
	Invested     float64 `json:"invested"`

	// Degenerate when nothing was invested.
	PnlPercentStatus risk.Status `json:"pnlPercentStatus"`
	PnlPercent       float64     `json:"pnlPercent"`

	AvgNet       float64 `json:"avgNet"`
	StdDevNet    float64 `json:"stdDevNet"`
	BestNet      float64 `json:"bestNet"`
	WorstNet     float64 `json:"worstNet"`
	ProfitFactor float64 `json:"profitFactor"`
}

// Summarize computes statistics over recs. Open trades are only counted.
func Summarize(recs []TradeRecord) (Summary, error) {
	var (
		s                      Summary
		nets                   []float64
		grossProfit, grossLoss float64
	)
	s.Trades = len(recs)
	for _, r := range recs {
		if r.IsOpen() {
			s.Open++
			continue
		}
		res, err := r.NetPnl()
		if err != nil {
			return Summary{}, fmt.Errorf("trade %s: %w", r.TradeID, err)
		}
		s.Closed++
		s.GrossPnl += res.GrossPnl
		s.TotalCharges += res.Charges.TotalCharges
		s.NetPnl += res.NetPnl
		s.Invested += r.Invested()
		nets = append(nets, res.NetPnl)

		switch {
		case res.NetPnl > 0:
			s.Wins++
			grossProfit += res.NetPnl
		case res.NetPnl < 0:
			s.Losses++
			grossLoss -= res.NetPnl
		}
	}

	if s.Closed > 0 {
		s.WinRate = int(math.Round(float64(s.Wins) / float64(s.Closed) * 100))
		s.AvgNet = stat.Mean(nets, nil)
		s.BestNet, s.WorstNet = nets[0], nets[0]
		for _, n := range nets[1:] {
			s.BestNet = math.Max(s.BestNet, n)
			s.WorstNet = math.Min(s.WorstNet, n)
		}
	}
	if len(nets) > 1 {
		s.StdDevNet = stat.StdDev(nets, nil)
	}
	if grossLoss > 0 {
		s.ProfitFactor = grossProfit / grossLoss
	}

	if s.Invested > 0 {
		s.PnlPercent = charges.Round2(s.NetPnl / s.Invested * 100)
	} else {
		s.PnlPercentStatus = risk.StatusDegenerate
	}
	return s, nil
}
