package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/config"
	"github.com/rustyeddy/tradebook/journal"
	"github.com/rustyeddy/tradebook/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tradebook",
	Short: "Trade journal, charge calculator and risk sizing for Indian equities",
	Long: `Tradebook keeps a journal of NSE/BSE equity trades and works out what
they really made after brokerage and statutory charges.

It provides tools for:
  - Net P&L after brokerage, STT, exchange charges, GST, SEBI fees and stamp duty
  - Broker charge schedules for the common discount and full-service brokers
  - Position sizing from capital, risk percentage and stop-loss
  - A daily loss limit guard fed by the journal
  - Mutual fund scheme lookup
  - A JSON API serving all of the above`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	cfgFile   string
	logLevel  string
	prettyLog bool
	dbPath    string

	appCfg *config.Config
	appLog = zerolog.Nop()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file, YAML or JSON (default: built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&prettyLog, "pretty", false, "human-readable log output")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite journal DB (overrides config)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if prettyLog {
		cfg.Log.Pretty = true
	}
	if dbPath != "" {
		cfg.Journal.DBPath = dbPath
	}

	appCfg = cfg
	appLog = logger.New(cfg.Log)
	logger.SetGlobalLogger(appLog)
	return nil
}

func openJournal() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(appCfg.Journal.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

// location is validated by config.Load, so the error is not expected.
func location() *time.Location {
	loc, err := appCfg.Journal.Location()
	if err != nil {
		return time.Local
	}
	return loc
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseTime accepts RFC3339, "2006-01-02 15:04" or a bare date in loc.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q", s)
}
