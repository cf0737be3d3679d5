package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionSizeRecommendation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      RecommendationInput
		qty     int64
		maxQty  int64
		binding Binding
	}{
		{
			name:    "loss limit exceeded",
			in:      RecommendationInput{Capital: 100000, DailyLossLimit: 2000, CurrentDayLoss: 2500, EntryPrice: 100, StopLossPrice: 95},
			qty:     0,
			binding: BindingLossLimit,
		},
		{
			name:    "loss limit exactly reached, negative loss sign",
			in:      RecommendationInput{Capital: 100000, DailyLossLimit: 2000, CurrentDayLoss: -2000, EntryPrice: 100, StopLossPrice: 95},
			qty:     0,
			binding: BindingLossLimit,
		},
		{
			name:    "risk budget binds",
			in:      RecommendationInput{Capital: 100000, DailyLossLimit: 2000, CurrentDayLoss: 1800, EntryPrice: 100, StopLossPrice: 95},
			qty:     40,
			maxQty:  40,
			binding: BindingRiskBudget,
		},
		{
			name:    "capital cap binds",
			in:      RecommendationInput{Capital: 100000, DailyLossLimit: 5000, CurrentDayLoss: 0, EntryPrice: 100, StopLossPrice: 99},
			qty:     100,
			maxQty:  5000,
			binding: BindingCapitalCap,
		},
		{
			name:    "stop equals entry",
			in:      RecommendationInput{Capital: 100000, DailyLossLimit: 5000, EntryPrice: 100, StopLossPrice: 100},
			qty:     0,
			binding: BindingDegenerate,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := PositionSizeRecommendation(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.qty, got.RecommendedQty)
			assert.Equal(t, tt.maxQty, got.MaxQty)
			assert.Equal(t, tt.binding, got.Binding)
			assert.NotEmpty(t, got.Reason)
		})
	}
}

func TestPositionSizeRecommendation_NeverExceedsEitherBound(t *testing.T) {
	t.Parallel()

	for _, stop := range []float64{90, 97.5, 99, 99.9} {
		got, err := PositionSizeRecommendation(RecommendationInput{
			Capital: 250000, DailyLossLimit: 3000, CurrentDayLoss: 500, EntryPrice: 100, StopLossPrice: stop,
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, got.RecommendedQty, got.MaxQty)
		assert.LessOrEqual(t, got.RecommendedQty, got.MaxByCapital)
		assert.Equal(t, int64(250), got.MaxByCapital)
	}
}

func TestPositionSizeRecommendation_Validation(t *testing.T) {
	t.Parallel()

	_, err := PositionSizeRecommendation(RecommendationInput{Capital: -1, DailyLossLimit: 100, EntryPrice: 10, StopLossPrice: 9})
	assert.True(t, IsValidationError(err))

	_, err = PositionSizeRecommendation(RecommendationInput{Capital: 1000, DailyLossLimit: 100, EntryPrice: 0, StopLossPrice: 9})
	assert.True(t, IsValidationError(err))
}

func TestPositionSizeRecommendation_ShareCountOutOfRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    RecommendationInput
		field string
	}{
		{"risk budget", RecommendationInput{Capital: 1000, DailyLossLimit: 1e22, EntryPrice: 100, StopLossPrice: 99.99}, "maxQty"},
		{"capital cap", RecommendationInput{Capital: 1e22, DailyLossLimit: 2000, EntryPrice: 100, StopLossPrice: 95}, "maxByCapital"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := PositionSizeRecommendation(tt.in)
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Zero(t, got.RecommendedQty)
		})
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy(100000)

	tests := []struct {
		name    string
		plan    TradePlan
		day     DayPnL
		allowed bool
		codes   []string
	}{
		{
			name:    "clean",
			plan:    TradePlan{Symbol: "INFY", Quantity: 50, Entry: 100, StopLoss: 95, Target: 110},
			allowed: true,
		},
		{
			name:  "no stop",
			plan:  TradePlan{Symbol: "INFY", Quantity: 50, Entry: 100},
			codes: []string{"NO_STOP_OR_ENTRY"},
		},
		{
			name:  "no quantity",
			plan:  TradePlan{Symbol: "INFY", Entry: 100, StopLoss: 95},
			codes: []string{"NO_QUANTITY"},
		},
		{
			name:  "too much risk and capital",
			plan:  TradePlan{Symbol: "INFY", Quantity: 500, Entry: 100, StopLoss: 90, Target: 130},
			codes: []string{"RISK_TOO_HIGH", "CAPITAL_CAP"},
		},
		{
			name:  "poor reward",
			plan:  TradePlan{Symbol: "INFY", Quantity: 50, Entry: 100, StopLoss: 95, Target: 102},
			codes: []string{"RR_TOO_LOW"},
		},
		{
			name:  "daily loss breached",
			plan:  TradePlan{Symbol: "INFY", Quantity: 50, Entry: 100, StopLoss: 95, Target: 110},
			day:   DayPnL{Realized: -2500},
			codes: []string{"DAILY_LOSS_LIMIT"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := Evaluate(p, tt.plan, tt.day)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Len(t, d.Violations, len(tt.codes))
			for _, c := range tt.codes {
				assert.True(t, d.Has(c), c)
			}
		})
	}
}
