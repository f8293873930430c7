/**
 * @description
 * Cron scheduler setup for the notification sweeps.
 */
package app

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/stockpilot/notifier-service/internal/config"
)

// Scheduler manages the three sweep timers. It is started once at
// process boot and stopped as a unit on shutdown.
type Scheduler struct {
	cron   *cron.Cron
	jobs   *Jobs
	logger *slog.Logger
	config config.Config
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(jobs *Jobs, logger *slog.Logger, cfg config.Config) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:   c,
		jobs:   jobs,
		logger: logger,
		config: cfg,
	}
}

// Start registers the sweeps and starts the cron scheduler. The timers
// are independent; the sweeps operate on disjoint predicate sets, so no
// mutual exclusion is taken between them.
func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc(s.config.ExpirySweepSchedule, s.jobs.RunExpirySweep); err != nil {
		s.logger.Error("failed to schedule expiry sweep", "error", err)
	} else {
		s.logger.Info("scheduled expiry sweep", "schedule", s.config.ExpirySweepSchedule)
	}

	if _, err := s.cron.AddFunc(s.config.ReminderSweepSchedule, s.jobs.RunReminderSweep); err != nil {
		s.logger.Error("failed to schedule reminder sweep", "error", err)
	} else {
		s.logger.Info("scheduled reminder sweep", "schedule", s.config.ReminderSweepSchedule)
	}

	if _, err := s.cron.AddFunc(s.config.CleanupSweepSchedule, s.jobs.RunCleanupSweep); err != nil {
		s.logger.Error("failed to schedule cleanup sweep", "error", err)
	} else {
		s.logger.Info("scheduled cleanup sweep", "schedule", s.config.CleanupSweepSchedule)
	}

	s.cron.Start()
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
