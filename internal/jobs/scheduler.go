package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robfig/cron/v3"

	"preview-api/internal/metrics"
)

// SubscriptionExpirer moves overdue subscriptions to EXPIRED
type SubscriptionExpirer interface {
	ExpireDue(ctx context.Context, now time.Time) (int, error)
}

// Scheduler runs the periodic maintenance jobs
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	now    func() time.Time
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger))),
		logger: logger,
		now:    time.Now,
	}
}

// Add schedules fn under name with a standard five-field cron spec.
func (s *Scheduler) Add(spec, name string, fn func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.run(context.Background(), name, fn)
	})
	if err != nil {
		return errors.Wrapf(err, "schedule job %s with %q", name, spec)
	}
	return nil
}

func (s *Scheduler) run(ctx context.Context, name string, fn func(ctx context.Context) error) {
	start := time.Now()
	err := fn(ctx)
	metrics.RecordJobRun(name, time.Since(start), err == nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "job failed", slog.String("job", name), slog.String("error", err.Error()))
		return
	}
	s.logger.DebugContext(ctx, "job finished", slog.String("job", name), slog.Duration("duration", time.Since(start)))
}

// ExpireSubscriptions schedules the subscription expiry sweep.
func (s *Scheduler) ExpireSubscriptions(spec string, expirer SubscriptionExpirer) error {
	return s.Add(spec, "expire-subscriptions", func(ctx context.Context) error {
		_, err := expirer.ExpireDue(ctx, s.now())
		return err
	})
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.WarnContext(ctx, "scheduler stop timed out")
	}
}
