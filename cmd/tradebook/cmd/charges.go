package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/charges"
)

var chargesCmd = &cobra.Command{
	Use:   "charges",
	Short: "Calculate charges and net P&L for a round trip",
	Long: `Price a completed trade with the broker's brokerage schedule and the
statutory charges of its exchange and segment.

A SELL side is a short: entry is the sell price and exit the buy-back.

Examples:
  tradebook charges --side BUY --entry 100 --exit 110 --qty 10
  tradebook charges --side SELL --entry 2450 --exit 2410 --qty 50 --broker upstox
  tradebook charges --entry 100 --exit 110 --qty 10 --segment delivery --json`,
	Args: cobra.NoArgs,
	RunE: runCharges,
}

var chargesOpts struct {
	side     string
	exchange string
	segment  string
	broker   string
	entry    float64
	exit     float64
	qty      int64
	asJSON   bool
}

func init() {
	rootCmd.AddCommand(chargesCmd)

	f := chargesCmd.Flags()
	f.StringVar(&chargesOpts.side, "side", "BUY", "BUY or SELL")
	f.StringVar(&chargesOpts.exchange, "exchange", "NSE", "NSE or BSE")
	f.StringVar(&chargesOpts.segment, "segment", "intraday", "intraday or delivery")
	f.StringVar(&chargesOpts.broker, "broker", "", "broker name (default: configured broker)")
	f.Float64Var(&chargesOpts.entry, "entry", 0, "entry price")
	f.Float64Var(&chargesOpts.exit, "exit", 0, "exit price")
	f.Int64Var(&chargesOpts.qty, "qty", 0, "quantity in shares")
	f.BoolVar(&chargesOpts.asJSON, "json", false, "print JSON")
}

// profileFor resolves a --broker flag, falling back to the configured one.
func profileFor(name string) (charges.BrokerChargeProfile, error) {
	if name == "" {
		return appCfg.BrokerProfile(), nil
	}
	p, ok := charges.LookupBroker(name)
	if !ok {
		return charges.BrokerChargeProfile{}, fmt.Errorf("unknown broker %q (see 'tradebook brokers')", name)
	}
	return p, nil
}

func runCharges(cmd *cobra.Command, args []string) error {
	o := chargesOpts
	side, err := charges.ParseSide(o.side)
	if err != nil {
		return err
	}
	ex, err := charges.ParseExchange(o.exchange)
	if err != nil {
		return err
	}
	seg, err := charges.ParseSegment(o.segment)
	if err != nil {
		return err
	}
	prof, err := profileFor(o.broker)
	if err != nil {
		return err
	}

	res, err := charges.CalculateNetPnl(charges.Trade{
		Side:       side,
		EntryPrice: o.entry,
		ExitPrice:  o.exit,
		Quantity:   o.qty,
		Exchange:   ex,
		Segment:    seg,
	}, &prof)
	if err != nil {
		return err
	}

	if o.asJSON {
		return printJSON(cmd.OutOrStdout(), res.Rounded())
	}
	return printResult(cmd.OutOrStdout(), res)
}

func printResult(out io.Writer, res charges.Result) error {
	d := res.Rounded()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	rows := []struct {
		label string
		v     float64
	}{
		{"Turnover", d.Turnover},
		{"Gross P&L", d.GrossPnl},
		{"Brokerage", d.Charges.Brokerage},
		{"STT", d.Charges.STT},
		{"Exchange charges", d.Charges.ExchangeCharges},
		{"GST", d.Charges.GST},
		{"SEBI charges", d.Charges.SEBICharges},
		{"Stamp duty", d.Charges.StampDuty},
		{"Total charges", d.Charges.TotalCharges},
		{"Net P&L", d.NetPnl},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%.2f\t\n", r.label, r.v)
	}
	return w.Flush()
}
