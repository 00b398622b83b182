package jobs_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/straye-as/offer-workflow/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingSweeper struct{ calls int }

func (s *countingSweeper) SweepIdle() int {
	s.calls++
	return 2
}

type recordingPurger struct {
	cutoff time.Time
	err    error
}

func (p *recordingPurger) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	p.cutoff = cutoff
	return 3, p.err
}

func TestCleanupJob_SweepsAndPurges(t *testing.T) {
	sweeper := &countingSweeper{}
	purger := &recordingPurger{}
	job := jobs.NewCleanupJob(sweeper, purger, 30*24*time.Hour, zap.NewNop())

	before := time.Now()
	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, 1, sweeper.calls)
	assert.WithinDuration(t, before.Add(-30*24*time.Hour), purger.cutoff, time.Second)
}

func TestCleanupJob_PurgeDisabled(t *testing.T) {
	sweeper := &countingSweeper{}
	purger := &recordingPurger{}

	require.NoError(t, jobs.NewCleanupJob(sweeper, purger, 0, zap.NewNop()).Run(context.Background()))
	require.NoError(t, jobs.NewCleanupJob(sweeper, nil, time.Hour, zap.NewNop()).Run(context.Background()))

	assert.Equal(t, 2, sweeper.calls)
	assert.True(t, purger.cutoff.IsZero())
}

func TestCleanupJob_PurgeErrorStillSweeps(t *testing.T) {
	sweeper := &countingSweeper{}
	job := jobs.NewCleanupJob(sweeper, &recordingPurger{err: errors.New("db down")}, time.Hour, zap.NewNop())

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.Equal(t, 1, sweeper.calls)
}

func TestScheduler_AddAndRemoveJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop(), nil)
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.AddJob(jobs.CleanupJobName, "@every 10m", time.Minute, noop))
	assert.Error(t, s.AddJob(jobs.CleanupJobName, "@every 10m", time.Minute, noop))
	assert.Error(t, s.AddJob("bad", "not a cron expression", 0, noop))
	require.NoError(t, s.AddJob("five-field", "*/5 * * * *", 0, noop))
	require.NoError(t, s.AddJob("six-field", "0 */5 * * * *", 0, noop))
	assert.Equal(t, []string{"five-field", jobs.CleanupJobName, "six-field"}, s.GetJobNames())

	require.NoError(t, s.RemoveJob(jobs.CleanupJobName))
	assert.Error(t, s.RemoveJob(jobs.CleanupJobName))
	assert.Equal(t, []string{"five-field", "six-field"}, s.GetJobNames())
}

func TestScheduler_RunNowAppliesTimeoutAndRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := jobs.NewMetrics(reg)
	require.NoError(t, err)
	s := jobs.NewScheduler(zap.NewNop(), metrics)

	var hadDeadline bool
	require.NoError(t, s.AddJob("ok", "@every 1h", time.Minute, func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	}))
	require.NoError(t, s.AddJob("failing", "@every 1h", 0, func(ctx context.Context) error {
		return errors.New("boom")
	}))

	require.NoError(t, s.RunNow("ok"))
	require.NoError(t, s.RunNow("failing"))
	assert.Error(t, s.RunNow("missing"))
	assert.True(t, hadDeadline)

	expected := `
# HELP job_runs_total Total number of scheduled job runs.
# TYPE job_runs_total counter
job_runs_total{job="failing",outcome="error"} 1
job_runs_total{job="ok",outcome="success"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "job_runs_total"))

	_, err = jobs.NewMetrics(reg)
	assert.Error(t, err)
}
