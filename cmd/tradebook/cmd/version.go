package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the tradebook CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "tradebook version %s\n", version)
		fmt.Fprintln(out, "Trade journal, charge calculator and risk sizing for Indian equities")
		fmt.Fprintln(out, "https://github.com/rustyeddy/tradebook")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
