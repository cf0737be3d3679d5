package server

import (
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rustyeddy/tradebook/charges"
	"github.com/rustyeddy/tradebook/risk"
)

type netPnlRequest struct {
	Side          string                       `json:"side"`
	EntryPrice    float64                      `json:"entryPrice"`
	ExitPrice     float64                      `json:"exitPrice"`
	Quantity      int64                        `json:"quantity"`
	Exchange      string                       `json:"exchange"`
	Segment       string                       `json:"segment,omitempty"`
	Broker        string                       `json:"broker,omitempty"`
	ChargeProfile *charges.BrokerChargeProfile `json:"chargeProfile,omitempty"`
}

type deliveryRequest struct {
	BuyPrice      float64                      `json:"buyPrice"`
	SellPrice     float64                      `json:"sellPrice"`
	Quantity      int64                        `json:"quantity"`
	Exchange      string                       `json:"exchange"`
	Broker        string                       `json:"broker,omitempty"`
	ChargeProfile *charges.BrokerChargeProfile `json:"chargeProfile,omitempty"`
}

// resolveProfile picks an explicit profile, then a named broker, then the
// server's configured profile.
func (s *Server) resolveProfile(explicit *charges.BrokerChargeProfile, broker string) (*charges.BrokerChargeProfile, error) {
	if explicit != nil {
		return explicit, nil
	}
	if broker != "" {
		p, ok := charges.LookupBroker(broker)
		if !ok {
			return nil, badRequest("unknown broker " + broker)
		}
		return &p, nil
	}
	return s.profile, nil
}

func (s *Server) handleNetPnl(w http.ResponseWriter, r *http.Request) {
	var req netPnlRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	side, err := charges.ParseSide(req.Side)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ex, err := charges.ParseExchange(req.Exchange)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	seg, err := charges.ParseSegment(req.Segment)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	prof, err := s.resolveProfile(req.ChargeProfile, req.Broker)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := charges.CalculateNetPnl(charges.Trade{
		Side:       side,
		EntryPrice: req.EntryPrice,
		ExitPrice:  req.ExitPrice,
		Quantity:   req.Quantity,
		Exchange:   ex,
		Segment:    seg,
	}, prof)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Rounded())
}

func (s *Server) handleDelivery(w http.ResponseWriter, r *http.Request) {
	var req deliveryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ex, err := charges.ParseExchange(req.Exchange)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	prof, err := s.resolveProfile(req.ChargeProfile, req.Broker)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	b, err := charges.CalculateDeliveryCharges(req.BuyPrice, req.SellPrice, req.Quantity, ex, prof)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b.Rounded())
}

func (s *Server) handleBrokers(w http.ResponseWriter, r *http.Request) {
	names := charges.Brokers()
	out := make([]charges.BrokerChargeProfile, 0, len(names))
	for _, n := range names {
		out = append(out, charges.ProfileForBroker(n))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBroker(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, ok := charges.LookupBroker(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "unknown broker " + name})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePositionSize(w http.ResponseWriter, r *http.Request) {
	var in risk.PositionSizeInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := risk.CalculatePositionSize(in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if out.Status == risk.StatusDegenerate {
		s.metrics.Degenerate.WithLabelValues("position_size").Inc()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRiskReward(w http.ResponseWriter, r *http.Request) {
	var in risk.RiskRewardInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := risk.CalculateRiskReward(in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if out.Status == risk.StatusDegenerate {
		s.metrics.Degenerate.WithLabelValues("risk_reward").Inc()
	}
	writeJSON(w, http.StatusOK, out)
}

type recommendationRequest struct {
	risk.RecommendationInput
	// FromJournal fills capital and the loss limit from the account policy
	// when they are zero, and the day loss from today's closed trades.
	FromJournal bool `json:"fromJournal,omitempty"`
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	in := req.RecommendationInput
	if req.FromJournal {
		if s.store == nil {
			s.writeError(w, r, errUnavailable)
			return
		}
		day, err := s.store.DayPnL(r.Context(), s.now().In(s.loc))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		in.CurrentDayLoss = math.Max(0, -day.Realized)
		if in.Capital == 0 {
			in.Capital = s.policy.Capital
		}
		if in.DailyLossLimit == 0 {
			in.DailyLossLimit = s.policy.DailyLossLimit
		}
	}

	out, err := risk.PositionSizeRecommendation(in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if out.Binding == risk.BindingDegenerate {
		s.metrics.Degenerate.WithLabelValues("recommendation").Inc()
	}
	writeJSON(w, http.StatusOK, out)
}

type checkRequest struct {
	Symbol     string  `json:"symbol"`
	Quantity   int64   `json:"quantity"`
	EntryPrice float64 `json:"entryPrice"`
	StopLoss   float64 `json:"stopLoss"`
	Target     float64 `json:"target,omitempty"`
}

// handleRiskCheck evaluates a planned trade against the account policy and
// today's realized P&L.
func (s *Server) handleRiskCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var day risk.DayPnL
	if s.store != nil {
		var err error
		if day, err = s.store.DayPnL(r.Context(), s.now().In(s.loc)); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	d := risk.Evaluate(s.policy, risk.TradePlan{
		Symbol:   req.Symbol,
		Quantity: req.Quantity,
		Entry:    req.EntryPrice,
		StopLoss: req.StopLoss,
		Target:   req.Target,
	}, day)
	writeJSON(w, http.StatusOK, d)
}
