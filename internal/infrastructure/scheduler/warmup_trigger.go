package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sfa/backend/internal/domain/report"
	"go.uber.org/zap"
)

// FilterProvider lists the filters worth precomputing at a point in time
type FilterProvider interface {
	WarmupFilters(ctx context.Context, now time.Time) ([]report.Filter, error)
}

// WarmupTrigger feeds the scheduler with every dashboard for every provided
// filter, once at start and then on each interval
type WarmupTrigger struct {
	interval  time.Duration
	scheduler *Scheduler
	provider  FilterProvider
	logger    *zap.Logger
	now       func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewWarmupTrigger creates a trigger; interval defaults to 10 minutes
func NewWarmupTrigger(interval time.Duration, scheduler *Scheduler, provider FilterProvider, logger *zap.Logger) *WarmupTrigger {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WarmupTrigger{
		interval:  interval,
		scheduler: scheduler,
		provider:  provider,
		logger:    logger,
		now:       time.Now,
	}
}

// Start begins the trigger loop
func (t *WarmupTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isRunning {
		return nil
	}
	t.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Dashboard warmup trigger started", zap.Duration("interval", t.interval))
	return nil
}

// Stop ends the loop
func (t *WarmupTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.cancel()
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Dashboard warmup trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *WarmupTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	t.Trigger(ctx)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Trigger(ctx)
		}
	}
}

// Trigger queues one warmup round and returns the number of jobs queued.
// A full queue ends the round early; the next round catches up.
func (t *WarmupTrigger) Trigger(ctx context.Context) int {
	filters, err := t.provider.WarmupFilters(ctx, t.now())
	if err != nil {
		t.logger.Error("Failed to list warmup filters", zap.Error(err))
		return 0
	}

	total := 0
	for _, f := range filters {
		n, err := t.scheduler.ScheduleAll(f)
		total += n
		if err != nil {
			t.logger.Warn("Dashboard warmup round cut short",
				zap.Int("queued", total),
				zap.Int("filters", len(filters)),
				zap.Error(err),
			)
			break
		}
	}

	t.logger.Debug("Dashboard warmup round queued", zap.Int("jobs", total))
	return total
}
