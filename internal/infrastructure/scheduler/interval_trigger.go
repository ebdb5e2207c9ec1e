package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompanyProvider lists the companies periodic jobs run for
type CompanyProvider interface {
	ActiveCompanyIDs(ctx context.Context) ([]uuid.UUID, error)
}

// IntervalTrigger submits one job per active company every Interval
type IntervalTrigger struct {
	kind       string
	interval   time.Duration
	runOnStart bool
	scheduler  *Scheduler
	companies  CompanyProvider
	logger     *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIntervalTrigger creates a trigger for jobs of kind. With runOnStart the first
// round is submitted immediately instead of after one interval.
func NewIntervalTrigger(kind string, interval time.Duration, runOnStart bool, scheduler *Scheduler, companies CompanyProvider, logger *zap.Logger) *IntervalTrigger {
	return &IntervalTrigger{
		kind:       kind,
		interval:   interval,
		runOnStart: runOnStart,
		scheduler:  scheduler,
		companies:  companies,
		logger:     logger.With(zap.String("job_kind", kind)),
	}
}

// Start begins ticking
func (t *IntervalTrigger) Start(ctx context.Context) error {
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

	t.logger.Info("Interval trigger started", zap.Duration("interval", t.interval))
	return nil
}

// Stop stops ticking and waits for the loop to exit
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Interval trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *IntervalTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	if t.runOnStart {
		t.Trigger(ctx)
	}

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

// Trigger submits a job for every active company and returns how many were queued
func (t *IntervalTrigger) Trigger(ctx context.Context) int {
	ids, err := t.companies.ActiveCompanyIDs(ctx)
	if err != nil {
		t.logger.Error("Failed to list companies for scheduled job", zap.Error(err))
		return 0
	}

	queued := 0
	for _, id := range ids {
		companyID := id
		if _, err := t.scheduler.Submit(t.kind, &companyID); err != nil {
			t.logger.Warn("Failed to submit scheduled job",
				zap.String("company_id", companyID.String()),
				zap.Error(err),
			)
			continue
		}
		queued++
	}
	t.logger.Debug("Scheduled jobs submitted", zap.Int("companies", len(ids)), zap.Int("queued", queued))
	return queued
}
