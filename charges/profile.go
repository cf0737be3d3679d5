package charges

import (
	"math"
	"sort"
	"strings"
)

type ProfileKind string

const (
	Flat       ProfileKind = "flat"
	Percentage ProfileKind = "percentage"
)

// BrokerChargeProfile is a broker's brokerage schedule, charged per order.
//
// Flat profiles use FlatFee. Percentage profiles use Percentage (a fraction
// of turnover, 0.0003 is 0.03%) capped at MaxBrokerage per order; the cap
// is required and must be positive.
type BrokerChargeProfile struct {
	Broker       string      `json:"broker,omitempty" yaml:"broker,omitempty"`
	Kind         ProfileKind `json:"kind" yaml:"kind"`
	FlatFee      float64     `json:"flatFee,omitempty" yaml:"flat_fee,omitempty"`
	Percentage   float64     `json:"percentage,omitempty" yaml:"percentage,omitempty"`
	MaxBrokerage float64     `json:"maxBrokerage,omitempty" yaml:"max_brokerage,omitempty"`
}

// DefaultFlatFee is charged per order when a broker is unknown.
const DefaultFlatFee = 20.0

// DefaultProfile is the broker-neutral schedule: ₹20 per executed order.
var DefaultProfile = BrokerChargeProfile{Broker: "default", Kind: Flat, FlatFee: DefaultFlatFee}

func FlatProfile(fee float64) BrokerChargeProfile {
	return BrokerChargeProfile{Kind: Flat, FlatFee: fee}
}

func PercentageProfile(pct, maxPerOrder float64) BrokerChargeProfile {
	return BrokerChargeProfile{Kind: Percentage, Percentage: pct, MaxBrokerage: maxPerOrder}
}

// Validate checks that exactly one pricing mode is configured.
func (p BrokerChargeProfile) Validate() error {
	switch p.Kind {
	case Flat:
		if err := nonNegative("flatFee", p.FlatFee); err != nil {
			return err
		}
		if p.Percentage != 0 || p.MaxBrokerage != 0 {
			return &ValidationError{Field: "kind", Value: p.Kind, Msg: "flat profile cannot carry percentage fields"}
		}
	case Percentage:
		if err := nonNegative("percentage", p.Percentage); err != nil {
			return err
		}
		if p.Percentage >= 1 {
			return &ValidationError{Field: "percentage", Value: p.Percentage, Msg: "must be a fraction below 1"}
		}
		if err := positive("maxBrokerage", p.MaxBrokerage); err != nil {
			return err
		}
		if p.FlatFee != 0 {
			return &ValidationError{Field: "kind", Value: p.Kind, Msg: "percentage profile cannot carry a flat fee"}
		}
	default:
		return &ValidationError{Field: "kind", Value: p.Kind, Msg: "kind must be flat or percentage"}
	}
	return nil
}

// Brokerage is the round-trip brokerage: one order per leg.
func (p BrokerChargeProfile) Brokerage(turnover float64) float64 {
	if p.Kind == Percentage {
		return math.Min(turnover*p.Percentage, 2*p.MaxBrokerage)
	}
	return 2 * p.FlatFee
}

var brokerProfiles = map[string]BrokerChargeProfile{
	"zerodha":     {Broker: "zerodha", Kind: Percentage, Percentage: 0.0003, MaxBrokerage: 20},
	"upstox":      {Broker: "upstox", Kind: Percentage, Percentage: 0.0005, MaxBrokerage: 20},
	"groww":       {Broker: "groww", Kind: Percentage, Percentage: 0.0005, MaxBrokerage: 20},
	"dhan":        {Broker: "dhan", Kind: Percentage, Percentage: 0.0003, MaxBrokerage: 20},
	"fyers":       {Broker: "fyers", Kind: Percentage, Percentage: 0.0003, MaxBrokerage: 20},
	"angelone":    {Broker: "angelone", Kind: Flat, FlatFee: 20},
	"5paisa":      {Broker: "5paisa", Kind: Flat, FlatFee: 20},
	"kotakneo":    {Broker: "kotakneo", Kind: Flat, FlatFee: 10},
	"icicidirect": {Broker: "icicidirect", Kind: Flat, FlatFee: 20},
}

func normalizeBroker(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(name)
}

// ProfileForBroker resolves a broker name. Unknown names get DefaultProfile.
func ProfileForBroker(name string) BrokerChargeProfile {
	p, _ := LookupBroker(name)
	return p
}

// LookupBroker is ProfileForBroker that also reports whether name was known.
func LookupBroker(name string) (BrokerChargeProfile, bool) {
	if p, ok := brokerProfiles[normalizeBroker(name)]; ok {
		return p, true
	}
	return DefaultProfile, false
}

// Brokers returns the known broker keys in order.
func Brokers() []string {
	out := make([]string, 0, len(brokerProfiles))
	for k := range brokerProfiles {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
