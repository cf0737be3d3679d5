package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/charges"
)

var brokersCmd = &cobra.Command{
	Use:   "brokers [name]",
	Short: "List broker charge schedules",
	Long: `Show the brokerage schedule of every known broker, or of one.

Names are matched ignoring case, spaces, dashes and underscores.

Examples:
  tradebook brokers
  tradebook brokers "Kotak Neo"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrokers,
}

func init() {
	rootCmd.AddCommand(brokersCmd)
}

func describeProfile(p charges.BrokerChargeProfile) string {
	if p.Kind == charges.Percentage {
		return fmt.Sprintf("%.3f%% of turnover, max ₹%.2f/order", p.Percentage*100, p.MaxBrokerage)
	}
	return fmt.Sprintf("₹%.2f/order", p.FlatFee)
}

func runBrokers(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 1 {
		p, ok := charges.LookupBroker(args[0])
		if !ok {
			return fmt.Errorf("unknown broker %q", args[0])
		}
		fmt.Fprintf(out, "%s: %s %s\n", p.Broker, p.Kind, describeProfile(p))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BROKER\tKIND\tBROKERAGE")
	for _, name := range charges.Brokers() {
		p := charges.ProfileForBroker(name)
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, p.Kind, describeProfile(p))
	}
	return w.Flush()
}
