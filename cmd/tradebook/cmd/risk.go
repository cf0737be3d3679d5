package cmd

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/risk"
)

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Position sizing and risk checks",
	Long: `Size positions and check planned trades against the risk policy.

Subcommands:
  size       - Shares to buy for a risk percentage and stop-loss
  rr         - Risk/reward of a planned trade
  recommend  - Next position size under the daily loss limit
  check      - Check a planned trade against every policy rule

Capital, risk percentage and daily loss limit default to the config.

Examples:
  tradebook risk size --entry 100 --stop 95
  tradebook risk rr --entry 100 --stop 95 --target 110 --qty 200
  tradebook risk recommend --entry 100 --stop 95 --from-journal
  tradebook risk check --symbol TCS --qty 50 --entry 3900 --stop 3860 --target 3980`,
}

var riskSizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Calculate position size from capital and stop-loss",
	Args:  cobra.NoArgs,
	RunE:  runRiskSize,
}

var riskRRCmd = &cobra.Command{
	Use:   "rr",
	Short: "Calculate risk/reward for a planned trade",
	Args:  cobra.NoArgs,
	RunE:  runRiskRR,
}

var riskRecommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend a position size under the daily loss limit",
	Args:  cobra.NoArgs,
	RunE:  runRiskRecommend,
}

var riskCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a planned trade against the risk policy",
	Args:  cobra.NoArgs,
	RunE:  runRiskCheck,
}

var riskOpts struct {
	capital     float64
	riskPct     float64
	limit       float64
	dayLoss     float64
	entry       float64
	stop        float64
	target      float64
	qty         int64
	symbol      string
	fromJournal bool
	asJSON      bool
}

func init() {
	rootCmd.AddCommand(riskCmd)
	riskCmd.AddCommand(riskSizeCmd, riskRRCmd, riskRecommendCmd, riskCheckCmd)

	pf := riskCmd.PersistentFlags()
	pf.Float64Var(&riskOpts.entry, "entry", 0, "entry price")
	pf.Float64Var(&riskOpts.stop, "stop", 0, "stop-loss price")
	pf.BoolVar(&riskOpts.asJSON, "json", false, "print JSON")

	riskSizeCmd.Flags().Float64Var(&riskOpts.capital, "capital", 0, "trading capital (default: account capital)")
	riskSizeCmd.Flags().Float64Var(&riskOpts.riskPct, "risk", 0, "risk per trade in percent (default: config)")
	riskSizeCmd.Flags().Float64Var(&riskOpts.target, "target", 0, "target price (optional)")

	riskRRCmd.Flags().Float64Var(&riskOpts.target, "target", 0, "target price")
	riskRRCmd.Flags().Int64Var(&riskOpts.qty, "qty", 0, "quantity in shares")

	riskRecommendCmd.Flags().Float64Var(&riskOpts.capital, "capital", 0, "trading capital (default: account capital)")
	riskRecommendCmd.Flags().Float64Var(&riskOpts.limit, "limit", 0, "daily loss limit (default: config)")
	riskRecommendCmd.Flags().Float64Var(&riskOpts.dayLoss, "day-loss", 0, "loss already taken today")
	riskRecommendCmd.Flags().BoolVar(&riskOpts.fromJournal, "from-journal", false, "take today's loss from the journal")

	riskCheckCmd.Flags().StringVar(&riskOpts.symbol, "symbol", "", "symbol")
	riskCheckCmd.Flags().Int64Var(&riskOpts.qty, "qty", 0, "quantity in shares")
	riskCheckCmd.Flags().Float64Var(&riskOpts.target, "target", 0, "target price (optional)")
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func runRiskSize(cmd *cobra.Command, args []string) error {
	res, err := risk.CalculatePositionSize(risk.PositionSizeInput{
		Capital:        orDefault(riskOpts.capital, appCfg.Account.Capital),
		RiskPercentage: orDefault(riskOpts.riskPct, appCfg.Risk.RiskPercent),
		EntryPrice:     riskOpts.entry,
		StopLossPrice:  riskOpts.stop,
		TargetPrice:    riskOpts.target,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if riskOpts.asJSON {
		return printJSON(out, res)
	}
	if res.Status == risk.StatusDegenerate {
		fmt.Fprintln(out, "Stop-loss equals entry: no risk boundary, nothing to size.")
		return nil
	}
	fmt.Fprintf(out, "Position size:    %d shares\n", res.PositionSize)
	fmt.Fprintf(out, "Capital required: %.2f (%.2f%% of capital)\n", res.CapitalRequired, res.CapitalPercentage)
	fmt.Fprintf(out, "Max loss:         %.2f (budget %.2f, %.2f/share)\n", res.MaxLoss, res.MaxRiskAmount, res.RiskPerShare)
	if res.PotentialProfit > 0 {
		fmt.Fprintf(out, "Potential profit: %.2f (R:R %.2f)\n", res.PotentialProfit, res.RiskRewardRatio)
	}
	return nil
}

func runRiskRR(cmd *cobra.Command, args []string) error {
	res, err := risk.CalculateRiskReward(risk.RiskRewardInput{
		EntryPrice:    riskOpts.entry,
		StopLossPrice: riskOpts.stop,
		TargetPrice:   riskOpts.target,
		Quantity:      riskOpts.qty,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if riskOpts.asJSON {
		return printJSON(out, res)
	}
	if res.Status == risk.StatusDegenerate {
		fmt.Fprintln(out, "Stop-loss equals entry: risk/reward is undefined.")
		return nil
	}
	fmt.Fprintf(out, "R:R 1:%.2f  risk %.2f/share  reward %.2f/share\n", res.RiskRewardRatio, res.RiskPerShare, res.RewardPerShare)
	if riskOpts.qty > 0 {
		fmt.Fprintf(out, "Max loss %.2f  potential profit %.2f\n", res.MaxLoss, res.PotentialProfit)
	}
	return nil
}

// todayLoss reads today's realized loss from the journal as a positive number.
func todayLoss(cmd *cobra.Command) (risk.DayPnL, error) {
	j, err := openJournal()
	if err != nil {
		return risk.DayPnL{}, err
	}
	defer j.Close()
	return j.DayPnL(cmd.Context(), time.Now().In(location()))
}

func runRiskRecommend(cmd *cobra.Command, args []string) error {
	in := risk.RecommendationInput{
		Capital:        orDefault(riskOpts.capital, appCfg.Account.Capital),
		DailyLossLimit: appCfg.Risk.DailyLossLimit,
		CurrentDayLoss: riskOpts.dayLoss,
		EntryPrice:     riskOpts.entry,
		StopLossPrice:  riskOpts.stop,
	}
	if cmd.Flags().Changed("limit") {
		in.DailyLossLimit = riskOpts.limit
	}
	if riskOpts.fromJournal {
		day, err := todayLoss(cmd)
		if err != nil {
			return err
		}
		in.CurrentDayLoss = math.Max(0, -day.Realized)
	}

	res, err := risk.PositionSizeRecommendation(in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if riskOpts.asJSON {
		return printJSON(out, res)
	}
	fmt.Fprintf(out, "Recommended: %d shares [%s]\n", res.RecommendedQty, res.Binding)
	fmt.Fprintln(out, res.Reason)
	return nil
}

func runRiskCheck(cmd *cobra.Command, args []string) error {
	day, err := todayLoss(cmd)
	if err != nil {
		return err
	}

	d := risk.Evaluate(appCfg.Policy(), risk.TradePlan{
		Symbol:   riskOpts.symbol,
		Quantity: riskOpts.qty,
		Entry:    riskOpts.entry,
		StopLoss: riskOpts.stop,
		Target:   riskOpts.target,
	}, day)

	out := cmd.OutOrStdout()
	if riskOpts.asJSON {
		return printJSON(out, d)
	}
	if d.Allowed {
		fmt.Fprintf(out, "✓ ALLOWED  risk %.2f (%.2f%%)  capital %.2f%%\n", d.PlannedRisk, d.PlannedRiskPct, d.CapitalPct)
		return nil
	}
	fmt.Fprintln(out, "✗ BLOCKED")
	for _, v := range d.Violations {
		fmt.Fprintf(out, "  %-16s %s\n", v.Code, v.Msg)
	}
	return nil
}
