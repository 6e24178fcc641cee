// Package scheduler drives the automatic payment sweep on a cron
// schedule.
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/paypulse/paypulse/pkg/billing"
	"github.com/paypulse/paypulse/pkg/observability"
)

// Scheduler runs the billing sweep once at startup and then on a fixed
// cron schedule. A sweep that fails is retried wholesale on the next
// tick; there is no per-charge retry here.
type Scheduler struct {
	cron     *cron.Cron
	billing  billing.Service
	logger   *observability.Logger
	schedule string
}

// New creates a Scheduler. schedule is a cron expression (descriptors
// such as "@hourly" are accepted).
func New(svc billing.Service, schedule string, logger *observability.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		billing:  svc,
		logger:   logger,
		schedule: schedule,
	}
}

// Start runs an immediate sweep, then begins the periodic schedule.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.RunSweep); err != nil {
		return fmt.Errorf("failed to schedule payment sweep: %w", err)
	}

	s.logger.WithField("schedule", s.schedule).Info("Starting automatic payment scheduler")
	s.RunSweep()
	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Payment scheduler stopped")
}

// RunSweep executes one sweep now. Exposed so operators and tests can
// trigger the scheduled work on demand.
func (s *Scheduler) RunSweep() {
	s.logger.Debug("Checking for due automatic payments")

	summary, err := s.billing.SweepAll(time.Now())
	if err != nil {
		s.logger.WithError(err).Error("Automatic payment sweep failed")
		return
	}

	if summary.Attempted() {
		s.logger.WithFields(map[string]interface{}{
			"processed": summary.Processed,
			"failed":    summary.Failed,
		}).Info("Automatic payment sweep finished")
	}
}
