package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/charges"
	"github.com/rustyeddy/tradebook/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Record and query the trade journal",
	Long: `Record trades and query the SQLite trade journal.

Subcommands:
  add     - Record a trade (open, or closed when --exit is given)
  close   - Close an open trade
  delete  - Remove a trade entered by mistake
  trade   - Get details of a specific trade by ID
  today   - List trades closed today
  day     - List trades closed on a specific day
  open    - List open trades
  stats   - Summarize closed trades
  export  - Write trades as CSV

Examples:
  tradebook journal add --symbol INFY --side BUY --qty 10 --entry 1500 --stop 1485
  tradebook journal close <trade-id> --exit 1530
  tradebook journal today
  tradebook journal day 2024-01-15
  tradebook journal stats --from 2024-01-01 --to 2024-01-31`,
}

var journalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a trade",
	Args:  cobra.NoArgs,
	RunE:  runJournalAdd,
}

var journalCloseCmd = &cobra.Command{
	Use:   "close <trade-id>",
	Short: "Close an open trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalClose,
}

var journalDeleteCmd = &cobra.Command{
	Use:   "delete <trade-id>",
	Short: "Delete a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDelete,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades closed today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades closed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "List open trades",
	Args:  cobra.NoArgs,
	RunE:  runJournalOpen,
}

var journalStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize closed trades",
	Args:  cobra.NoArgs,
	RunE:  runJournalStats,
}

var journalExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export trades to CSV",
	Args:  cobra.NoArgs,
	RunE:  runJournalExport,
}

var addOpts struct {
	rec     journal.TradeRecord
	side    string
	exch    string
	segment string
	openAt  string
	closeAt string
}

var (
	closeExit  float64
	closeAt    string
	rangeFrom  string
	rangeTo    string
	exportPath string
	statsJSON  bool
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalAddCmd, journalCloseCmd, journalDeleteCmd, journalTradeCmd,
		journalTodayCmd, journalDayCmd, journalOpenCmd, journalStatsCmd, journalExportCmd)

	f := journalAddCmd.Flags()
	f.StringVar(&addOpts.rec.Symbol, "symbol", "", "symbol, e.g. INFY (required)")
	f.StringVar(&addOpts.side, "side", "BUY", "BUY or SELL")
	f.StringVar(&addOpts.exch, "exchange", "NSE", "NSE or BSE")
	f.StringVar(&addOpts.segment, "segment", "intraday", "intraday or delivery")
	f.StringVar(&addOpts.rec.Broker, "broker", "", "broker (default: configured broker)")
	f.Int64Var(&addOpts.rec.Quantity, "qty", 0, "quantity in shares")
	f.Float64Var(&addOpts.rec.EntryPrice, "entry", 0, "entry price")
	f.Float64Var(&addOpts.rec.ExitPrice, "exit", 0, "exit price; omit for an open trade")
	f.Float64Var(&addOpts.rec.StopLoss, "stop", 0, "stop-loss price")
	f.Float64Var(&addOpts.rec.Target, "target", 0, "target price")
	f.StringVar(&addOpts.rec.Notes, "notes", "", "thesis or notes")
	f.StringVar(&addOpts.openAt, "at", "", "open time (default: now)")
	f.StringVar(&addOpts.closeAt, "closed-at", "", "close time for a closed trade (default: open time)")
	_ = journalAddCmd.MarkFlagRequired("symbol")

	journalCloseCmd.Flags().Float64Var(&closeExit, "exit", 0, "exit price (required)")
	journalCloseCmd.Flags().StringVar(&closeAt, "at", "", "close time (default: now)")
	_ = journalCloseCmd.MarkFlagRequired("exit")

	for _, c := range []*cobra.Command{journalStatsCmd, journalExportCmd} {
		c.Flags().StringVar(&rangeFrom, "from", "", "first close day, YYYY-MM-DD")
		c.Flags().StringVar(&rangeTo, "to", "", "last close day, YYYY-MM-DD")
	}
	journalStatsCmd.Flags().BoolVar(&statsJSON, "json", false, "print JSON")
	journalExportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "CSV file, - for stdout (default: journal.export_file or trades.csv)")
}

func runJournalAdd(cmd *cobra.Command, args []string) error {
	loc := location()
	rec := addOpts.rec
	rec.Side = charges.Side(addOpts.side)
	rec.Exchange = charges.Exchange(addOpts.exch)
	rec.Segment = charges.Segment(addOpts.segment)
	if rec.Broker == "" {
		rec.Broker = appCfg.Broker.Name
	}

	var err error
	if rec.OpenTime, err = parseTime(addOpts.openAt, loc); err != nil {
		return err
	}
	if rec.CloseTime, err = parseTime(addOpts.closeAt, loc); err != nil {
		return err
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	tradeID, err := j.RecordTrade(cmd.Context(), rec)
	if err != nil {
		return fmt.Errorf("record trade: %w", err)
	}
	appLog.Info().Str("trade_id", tradeID).Str("symbol", rec.Symbol).Msg("trade recorded")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Recorded trade %s\n", tradeID)
	if !rec.IsOpen() {
		saved, err := j.GetTrade(cmd.Context(), tradeID)
		if err != nil {
			return err
		}
		res, err := saved.NetPnl()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %s\n", res)
	}
	return nil
}

func runJournalClose(cmd *cobra.Command, args []string) error {
	at, err := parseTime(closeAt, location())
	if err != nil {
		return err
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.CloseTrade(cmd.Context(), args[0], closeExit, at)
	if err != nil {
		return fmt.Errorf("close trade: %w", err)
	}
	res, err := rec.NetPnl()
	if err != nil {
		return err
	}
	appLog.Info().Str("trade_id", rec.TradeID).Float64("net", res.NetPnl).Msg("trade closed")

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Closed %s %s: %s\n", rec.Symbol, rec.TradeID, res)
	return nil
}

func runJournalDelete(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	if err := j.DeleteTrade(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted trade %s\n", args[0])
	return nil
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetTrade(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
	return nil
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	start, end := journal.DayBounds(time.Now().In(location()))
	return printClosedBetween(cmd, start, end)
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	start, end, err := journal.ParseDay(args[0], location())
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	return printClosedBetween(cmd, start, end)
}

func printClosedBetween(cmd *cobra.Command, start, end time.Time) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListTradesClosedBetween(cmd.Context(), start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(recs) == 0 {
		fmt.Fprintf(out, "No trades closed on %s\n", start.Format("2006-01-02"))
		return nil
	}
	sum, err := journal.Summarize(recs)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, journal.FormatTradesOrg(recs))
	fmt.Fprintln(out)
	fmt.Fprint(out, journal.FormatSummaryOrg(sum))
	return nil
}

func runJournalOpen(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListOpenTrades(cmd.Context())
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	if len(recs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No open trades")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
	return nil
}

// rangeTrades returns trades closed within --from/--to, or every trade when
// neither is set.
func rangeTrades(cmd *cobra.Command, j *journal.SQLite) ([]journal.TradeRecord, error) {
	if rangeFrom == "" && rangeTo == "" {
		return j.ListTrades(cmd.Context())
	}
	loc := location()
	from, to := rangeFrom, rangeTo
	if from == "" {
		from = to
	}
	if to == "" {
		to = time.Now().In(loc).Format("2006-01-02")
	}
	start, _, err := journal.ParseDay(from, loc)
	if err != nil {
		return nil, fmt.Errorf("--from: %w", err)
	}
	_, end, err := journal.ParseDay(to, loc)
	if err != nil {
		return nil, fmt.Errorf("--to: %w", err)
	}
	return j.ListTradesClosedBetween(cmd.Context(), start, end)
}

func runJournalStats(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := rangeTrades(cmd, j)
	if err != nil {
		return err
	}
	sum, err := journal.Summarize(recs)
	if err != nil {
		return err
	}
	if statsJSON {
		return printJSON(cmd.OutOrStdout(), sum)
	}
	fmt.Fprint(cmd.OutOrStdout(), journal.FormatSummaryOrg(sum))
	return nil
}

func runJournalExport(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := rangeTrades(cmd, j)
	if err != nil {
		return err
	}

	path := exportPath
	if path == "" {
		path = appCfg.Journal.ExportFile
	}
	if path == "" {
		path = "trades.csv"
	}
	if path == "-" {
		return journal.WriteCSV(cmd.OutOrStdout(), recs)
	}
	if err := journal.ExportCSV(path, recs); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %d trades to %s\n", len(recs), path)
	return nil
}
