package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/infrastructure/config"
)

// ActiveTheaterProvider lists the theaters whose alert jobs should run.
type ActiveTheaterProvider interface {
	FindActive(ctx context.Context) ([]*identity.Theater, error)
}

// AlertRunner executes the daily stock alert jobs for one theater.
type AlertRunner interface {
	RunDailyAlerts(ctx context.Context, theater *identity.Theater) error
}

// DailyTrigger fires the alert jobs once per day per theater. The run
// hour is evaluated in each theater's configured timezone, so theaters
// in different zones alert at their own local morning.
type DailyTrigger struct {
	cfg      config.SchedulerConfig
	theaters ActiveTheaterProvider
	runner   AlertRunner
	logger   *zap.Logger

	now    func() time.Time
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	running bool
	lastRun map[string]string // theaterID -> local date of last run
}

func NewDailyTrigger(cfg config.SchedulerConfig, theaters ActiveTheaterProvider, runner AlertRunner, logger *zap.Logger) *DailyTrigger {
	return &DailyTrigger{
		cfg:      cfg,
		theaters: theaters,
		runner:   runner,
		logger:   logger,
		now:      time.Now,
		lastRun:  make(map[string]string),
	}
}

// Start launches the check loop.
func (t *DailyTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return nil
	}
	t.running = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.loop(ctx)

	t.logger.Info("alert scheduler started",
		zap.Int("run_hour", t.cfg.RunHour),
		zap.Duration("check_interval", t.cfg.CheckInterval),
	)
	return nil
}

// Stop waits for a running check to finish, bounded by ctx.
func (t *DailyTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	t.running = false
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
		t.logger.Info("alert scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *DailyTrigger) loop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.checkAndRun(ctx)
		}
	}
}

// checkAndRun fires the jobs for every theater whose local clock has
// reached the run hour today. A failing theater never blocks the rest.
func (t *DailyTrigger) checkAndRun(ctx context.Context) {
	theaters, err := t.theaters.FindActive(ctx)
	if err != nil {
		t.logger.Error("list active theaters for alerts", zap.Error(err))
		return
	}

	now := t.now()
	for _, theater := range theaters {
		localNow := now.In(theater.Location())
		if localNow.Hour() < t.cfg.RunHour {
			continue
		}

		key := theater.ID.String()
		localDate := localNow.Format("2006-01-02")
		t.mu.Lock()
		alreadyRan := t.lastRun[key] == localDate
		if !alreadyRan {
			t.lastRun[key] = localDate
		}
		t.mu.Unlock()
		if alreadyRan {
			continue
		}

		t.runTheater(ctx, theater)
	}
}

func (t *DailyTrigger) runTheater(ctx context.Context, theater *identity.Theater) {
	jobCtx := ctx
	if t.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, t.cfg.JobTimeout)
		defer cancel()
	}

	t.logger.Info("running daily stock alerts",
		zap.String("theater_id", theater.ID.String()),
		zap.String("theater_code", theater.Code),
	)
	if err := t.runner.RunDailyAlerts(jobCtx, theater); err != nil {
		t.logger.Error("daily stock alerts failed",
			zap.String("theater_id", theater.ID.String()),
			zap.Error(err),
		)
	}
}

// TriggerNow runs the alert jobs for one theater immediately,
// bypassing the schedule. Used by the manual trigger endpoint.
func (t *DailyTrigger) TriggerNow(ctx context.Context, theater *identity.Theater) error {
	return t.runner.RunDailyAlerts(ctx, theater)
}
