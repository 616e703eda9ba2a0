package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sfa/backend/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingWarmer struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
	block chan struct{}
}

func (w *recordingWarmer) Warm(ctx context.Context, dashboard string, _ report.Filter) error {
	if w.block != nil {
		select {
		case <-w.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, dashboard)
	return w.fail[dashboard]
}

func (w *recordingWarmer) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.calls)
}

func TestNewJob(t *testing.T) {
	job := NewJob(DashboardSalesSummary, report.Filter{})
	assert.Equal(t, JobStatusPending, job.Status)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	require.NotNil(t, job.StartedAt)

	job.Fail("boom")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "boom", job.Error)
}

func TestNewScheduler_Defaults(t *testing.T) {
	s := NewScheduler(Config{}, &recordingWarmer{}, nil)
	assert.Equal(t, DefaultConfig(), s.config)
}

func TestScheduler_SubmitWhenStopped(t *testing.T) {
	s := NewScheduler(DefaultConfig(), &recordingWarmer{}, zap.NewNop())
	assert.ErrorIs(t, s.SubmitJob(NewJob(DashboardTickets, report.Filter{})), ErrSchedulerNotRunning)
	assert.ErrorIs(t, s.SubmitJob(NewJob("unknown", report.Filter{})), ErrInvalidDashboard)
}

func TestScheduler_RunsEveryDashboard(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	warmer := &recordingWarmer{fail: map[string]error{string(DashboardInventory): errors.New("db down")}}
	s := NewScheduler(Config{MaxConcurrentJobs: 2, JobTimeout: time.Second, QueueSize: 20}, warmer, zap.New(core))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var finished []*Job
	s.done = func(j *Job) {
		mu.Lock()
		finished = append(finished, j)
		mu.Unlock()
		wg.Done()
	}

	require.NoError(t, s.Start(context.Background()))
	wg.Add(len(AllDashboards()))
	n, err := s.ScheduleAll(report.Filter{})
	require.NoError(t, err)
	assert.Equal(t, len(AllDashboards()), n)
	wg.Wait()
	require.NoError(t, s.Stop(context.Background()))

	assert.Equal(t, len(AllDashboards()), warmer.count())
	failed := 0
	for _, j := range finished {
		if j.Status == JobStatusFailed {
			failed++
			assert.Equal(t, DashboardInventory, j.Dashboard)
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, logs.FilterMessage("Dashboard warmup failed").Len())
}

func TestScheduler_QueueFull(t *testing.T) {
	warmer := &recordingWarmer{block: make(chan struct{})}
	s := NewScheduler(Config{MaxConcurrentJobs: 1, JobTimeout: time.Second, QueueSize: 1}, warmer, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer func() {
		close(warmer.block)
		_ = s.Stop(context.Background())
	}()

	var err error
	for i := 0; i < 5 && err == nil; i++ {
		err = s.SubmitJob(NewJob(DashboardSalesSummary, report.Filter{}))
	}
	assert.ErrorIs(t, err, ErrJobQueueFull)
}

type staticFilters struct {
	filters []report.Filter
	err     error
}

func (p staticFilters) WarmupFilters(context.Context, time.Time) ([]report.Filter, error) {
	return p.filters, p.err
}

func TestWarmupTrigger_Trigger(t *testing.T) {
	s := NewScheduler(Config{MaxConcurrentJobs: 1, QueueSize: 100}, &recordingWarmer{}, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop(context.Background()) }()

	trigger := NewWarmupTrigger(time.Hour, s, staticFilters{filters: []report.Filter{{}, {TSM: "TS-MAN-000001"}}}, zap.NewNop())
	assert.Equal(t, 2*len(AllDashboards()), trigger.Trigger(context.Background()))

	failing := NewWarmupTrigger(time.Hour, s, staticFilters{err: errors.New("users unavailable")}, zap.NewNop())
	assert.Equal(t, 0, failing.Trigger(context.Background()))
}

func TestWarmupTrigger_StartStop(t *testing.T) {
	warmer := &recordingWarmer{}
	s := NewScheduler(Config{MaxConcurrentJobs: 1, QueueSize: 100}, warmer, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))

	trigger := NewWarmupTrigger(time.Hour, s, staticFilters{filters: []report.Filter{{}}}, zap.NewNop())
	require.NoError(t, trigger.Start(context.Background()))

	assert.Eventually(t, func() bool { return warmer.count() == len(AllDashboards()) }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, trigger.Stop(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
}
