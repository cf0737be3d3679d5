package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradebook/journal"
)

// FuncJob adapts a function to Job.
type FuncJob struct {
	JobName string
	Fn      func() error
}

func (f FuncJob) Name() string { return f.JobName }
func (f FuncJob) Run() error   { return f.Fn() }

// Refresher is anything that can reload a cached data set.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshJob reloads a cache such as the fund scheme list.
type RefreshJob struct {
	JobName string
	Target  Refresher
	Timeout time.Duration
}

func (j RefreshJob) Name() string { return j.JobName }

func (j RefreshJob) Run() error {
	ctx := context.Background()
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}
	return j.Target.Refresh(ctx)
}

// ClosedLister is the part of the journal the day summary reads.
type ClosedLister interface {
	ListTradesClosedBetween(ctx context.Context, start, end time.Time) ([]journal.TradeRecord, error)
}

// DaySummaryJob logs the statistics of trades closed today.
type DaySummaryJob struct {
	Journal  ClosedLister
	Location *time.Location
	Log      zerolog.Logger
	Now      func() time.Time
}

func (j DaySummaryJob) Name() string { return "day-summary" }

func (j DaySummaryJob) Run() error {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	loc := j.Location
	if loc == nil {
		loc = time.Local
	}

	start, end := journal.DayBounds(now().In(loc))
	recs, err := j.Journal.ListTradesClosedBetween(context.Background(), start, end)
	if err != nil {
		return err
	}
	s, err := journal.Summarize(recs)
	if err != nil {
		return err
	}

	j.Log.Info().
		Str("day", start.Format("2006-01-02")).
		Int("closed", s.Closed).
		Int("wins", s.Wins).
		Int("losses", s.Losses).
		Int("win_rate", s.WinRate).
		Float64("gross", s.GrossPnl).
		Float64("charges", s.TotalCharges).
		Float64("net", s.NetPnl).
		Msg("day summary")
	return nil
}
