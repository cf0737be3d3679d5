package scheduler

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradebook/charges"
	"github.com/rustyeddy/tradebook/journal"
)

type countingRefresher struct {
	calls int
	err   error
}

func (c *countingRefresher) Refresh(ctx context.Context) error {
	c.calls++
	return c.err
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	t.Parallel()

	s := New(zerolog.Nop(), time.UTC)
	job := FuncJob{JobName: "noop", Fn: func() error { return nil }}

	require.NoError(t, s.AddJob("0 0 6 * * *", job))
	require.NoError(t, s.AddJob("", job))
	assert.Error(t, s.AddJob("not a schedule", job))
	assert.Len(t, s.cron.Entries(), 1)
}

func TestRunNow(t *testing.T) {
	t.Parallel()

	r := &countingRefresher{}
	s := New(zerolog.Nop(), nil)
	require.NoError(t, s.RunNow(RefreshJob{JobName: "funds", Target: r, Timeout: time.Second}))
	assert.Equal(t, 1, r.calls)

	r.err = errors.New("source down")
	assert.EqualError(t, s.RunNow(RefreshJob{JobName: "funds", Target: r}), "source down")
}

func TestScheduledJobRuns(t *testing.T) {
	t.Parallel()

	done := make(chan struct{}, 1)
	s := New(zerolog.Nop(), time.UTC)
	require.NoError(t, s.AddJob("@every 1s", FuncJob{JobName: "tick", Fn: func() error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	}}))

	s.Start()
	defer s.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}
}

type fakeLister struct {
	start, end time.Time
	recs       []journal.TradeRecord
}

func (f *fakeLister) ListTradesClosedBetween(ctx context.Context, start, end time.Time) ([]journal.TradeRecord, error) {
	f.start, f.end = start, end
	return f.recs, nil
}

func TestDaySummaryJob(t *testing.T) {
	t.Parallel()

	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2024, 3, 15, 15, 45, 0, 0, ist)
	lister := &fakeLister{recs: []journal.TradeRecord{{
		TradeID: "a", Symbol: "INFY", Side: charges.Buy, Exchange: charges.NSE,
		Quantity: 10, EntryPrice: 100, ExitPrice: 110,
	}}}

	var buf bytes.Buffer
	job := DaySummaryJob{
		Journal:  lister,
		Location: ist,
		Log:      zerolog.New(&buf),
		Now:      func() time.Time { return now },
	}
	require.NoError(t, job.Run())

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, ist), lister.start)
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, ist), lister.end)
	assert.Contains(t, buf.String(), `"day":"2024-03-15"`)
	assert.Contains(t, buf.String(), `"closed":1`)
	assert.Contains(t, buf.String(), `"win_rate":100`)
}
