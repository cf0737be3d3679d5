package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/scheduler"
	"github.com/rustyeddy/tradebook/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API server",
	Long: `Serve the charge, risk, journal and fund lookups over HTTP.

Also runs the scheduled fund list refresh and end-of-day summary.

Example:
  tradebook serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	dir, closeCache, err := newFundDirectory(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	loc := location()
	prof := appCfg.BrokerProfile()
	addr := serveAddr
	if addr == "" {
		addr = appCfg.Server.Addr
	}

	srv := server.New(server.Config{
		Addr:        addr,
		Log:         appLog,
		Journal:     j,
		Funds:       dir,
		Profile:     &prof,
		Policy:      appCfg.Policy(),
		Location:    loc,
		CORSOrigins: appCfg.Server.CORSOrigins,
	})

	sched := scheduler.New(appLog, loc)
	if err := sched.AddJob(appCfg.Schedule.FundRefresh, scheduler.RefreshJob{
		JobName: "fund-refresh",
		Target:  dir,
		Timeout: time.Minute,
	}); err != nil {
		return err
	}
	if err := sched.AddJob(appCfg.Schedule.DaySummary, scheduler.DaySummaryJob{
		Journal:  j,
		Location: loc,
		Log:      appLog,
	}); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}
	appLog.Info().Msg("Server stopped")
	return nil
}
