package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/cache"
	"github.com/rustyeddy/tradebook/funds"
)

var fundsCmd = &cobra.Command{
	Use:   "funds",
	Short: "Look up mutual fund schemes",
	Long: `Search the mutual fund scheme list by name or look up a scheme code.

The list is cached in memory, or in Redis when cache.redis_addr is set.

Examples:
  tradebook funds search nifty 50 index
  tradebook funds show 120716`,
}

var fundsSearchCmd = &cobra.Command{
	Use:   "search <words...>",
	Short: "Search schemes whose name contains every word",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFundsSearch,
}

var fundsShowCmd = &cobra.Command{
	Use:   "show <scheme-code>",
	Short: "Show a scheme by its code",
	Args:  cobra.ExactArgs(1),
	RunE:  runFundsShow,
}

var fundsLimit int

func init() {
	rootCmd.AddCommand(fundsCmd)
	fundsCmd.AddCommand(fundsSearchCmd, fundsShowCmd)

	fundsSearchCmd.Flags().IntVarP(&fundsLimit, "limit", "n", 20, "maximum results, 0 for all")
}

// newFundDirectory wires the directory to the configured cache. The returned
// func releases the cache connection.
func newFundDirectory(ctx context.Context) (*funds.Directory, func(), error) {
	ttl, err := appCfg.Cache.CacheTTL()
	if err != nil {
		return nil, nil, err
	}
	src := funds.NewHTTPSource(appCfg.Funds.URL)

	if appCfg.Cache.RedisAddr == "" {
		return funds.NewDirectory(src, cache.NewMemory[[]funds.Scheme](), ttl, appLog), func() {}, nil
	}

	client, err := cache.DialRedis(ctx, appCfg.Cache.RedisAddr, appCfg.Cache.RedisPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("redis: %w", err)
	}
	c := cache.NewRedis[[]funds.Scheme](client, "tradebook:funds:")
	return funds.NewDirectory(src, c, ttl, appLog), func() { _ = client.Close() }, nil
}

func runFundsSearch(cmd *cobra.Command, args []string) error {
	dir, closeCache, err := newFundDirectory(cmd.Context())
	if err != nil {
		return err
	}
	defer closeCache()

	res, err := dir.Search(cmd.Context(), strings.Join(args, " "), fundsLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(res) == 0 {
		fmt.Fprintln(out, "No matching schemes")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tSCHEME")
	for _, s := range res {
		fmt.Fprintf(w, "%d\t%s\n", s.Code, s.Name)
	}
	return w.Flush()
}

func runFundsShow(cmd *cobra.Command, args []string) error {
	code, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("scheme code must be a number: %q", args[0])
	}

	dir, closeCache, err := newFundDirectory(cmd.Context())
	if err != nil {
		return err
	}
	defer closeCache()

	s, ok, err := dir.Lookup(cmd.Context(), code)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("scheme %d not found", code)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d  %s\n", s.Code, s.Name)
	return nil
}
