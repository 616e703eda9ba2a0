// Package scheduler precomputes dashboards in the background so the first
// request of a period hits a warm cache.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sfa/backend/internal/domain/report"
	"github.com/sfa/backend/internal/infrastructure/telemetry"
)

// JobStatus represents the status of a warmup job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Dashboard names a precomputable dashboard
type Dashboard string

const (
	DashboardSalesSummary     Dashboard = "sales-summary"
	DashboardDailyActivity    Dashboard = "daily-activity"
	DashboardAgentPerformance Dashboard = "agent-performance"
	DashboardStatusBreakdown  Dashboard = "status-breakdown"
	DashboardCompanyGroups    Dashboard = "company-groups"
	DashboardTickets          Dashboard = "tickets"
	DashboardInventory        Dashboard = "inventory"
	DashboardSalesTrendChart  Dashboard = "sales-trend-chart"
)

// AllDashboards returns every warmable dashboard
func AllDashboards() []Dashboard {
	return []Dashboard{
		DashboardSalesSummary,
		DashboardDailyActivity,
		DashboardAgentPerformance,
		DashboardStatusBreakdown,
		DashboardCompanyGroups,
		DashboardTickets,
		DashboardInventory,
		DashboardSalesTrendChart,
	}
}

// IsValid checks if the dashboard is known
func (d Dashboard) IsValid() bool {
	for _, known := range AllDashboards() {
		if d == known {
			return true
		}
	}
	return false
}

// Job is one dashboard snapshot to compute. Snapshots are never retried,
// the next warmup round recomputes them anyway.
type Job struct {
	ID          uuid.UUID
	Dashboard   Dashboard
	Filter      report.Filter
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// NewJob creates a pending job
func NewJob(dashboard Dashboard, filter report.Filter) *Job {
	return &Job{
		ID:        uuid.New(),
		Dashboard: dashboard,
		Filter:    filter,
		Status:    JobStatusPending,
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// Warmer computes a dashboard and stores it in the report cache
type Warmer interface {
	Warm(ctx context.Context, dashboard string, filter report.Filter) error
}

// Config holds scheduler configuration
type Config struct {
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	QueueSize         int
}

// DefaultConfig returns the default pool: 3 workers, 2 minute jobs, 100 queued
func DefaultConfig() Config {
	return Config{
		MaxConcurrentJobs: 3,
		JobTimeout:        2 * time.Minute,
		QueueSize:         100,
	}
}

// Scheduler runs warmup jobs on a bounded worker pool
type Scheduler struct {
	config Config
	warmer Warmer
	logger *zap.Logger

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	done      func(*Job)
}

// NewScheduler creates a scheduler; zero config values fall back to DefaultConfig
func NewScheduler(config Config, warmer Warmer, logger *zap.Logger) *Scheduler {
	def := DefaultConfig()
	if config.MaxConcurrentJobs <= 0 {
		config.MaxConcurrentJobs = def.MaxConcurrentJobs
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = def.JobTimeout
	}
	if config.QueueSize <= 0 {
		config.QueueSize = def.QueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		config: config,
		warmer: warmer,
		logger: logger,
		jobs:   make(chan *Job, config.QueueSize),
	}
}

// Start launches the workers
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Dashboard scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers until ctx expires
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	if s.cancel != nil {
		s.cancel()
	}
	close(s.jobs)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Dashboard scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Dashboard scheduler stop timed out")
		return ctx.Err()
	}
}

// SubmitJob queues a job without blocking
func (s *Scheduler) SubmitJob(job *Job) error {
	if !job.Dashboard.IsValid() {
		return ErrInvalidDashboard
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}

	select {
	case s.jobs <- job:
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("dashboard", string(job.Dashboard)),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

// ScheduleAll queues every dashboard for filter and returns how many were queued
func (s *Scheduler) ScheduleAll(filter report.Filter) (int, error) {
	queued := 0
	for _, d := range AllDashboards() {
		if err := s.SubmitJob(NewJob(d, filter)); err != nil {
			return queued, err
		}
		queued++
	}
	return queued, nil
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-s.jobs:
			if !ok {
				return
			}
			s.processJob(ctx, job, workerID)
		}
	}
}

func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	job.Start()

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	var err error
	telemetry.WithProfilingLabels(jobCtx, map[string]string{"dashboard": string(job.Dashboard)}, func(ctx context.Context) {
		err = s.warmer.Warm(ctx, string(job.Dashboard), job.Filter)
	})
	if err != nil {
		job.Fail(err.Error())
		s.logger.Error("Dashboard warmup failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("dashboard", string(job.Dashboard)),
			zap.Error(err),
		)
	} else {
		job.Complete()
		s.logger.Debug("Dashboard warmed",
			zap.Int("worker_id", workerID),
			zap.String("dashboard", string(job.Dashboard)),
			zap.Duration("took", job.CompletedAt.Sub(*job.StartedAt)),
		)
	}

	if s.done != nil {
		s.done(job)
	}
}
