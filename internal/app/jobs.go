/**
 * @description
 * Scheduled job implementations for the notifier-service. Each cron
 * callback wraps one sweep, logging outcomes instead of propagating
 * errors to the scheduler.
 */
package app

import (
	"context"
	"log/slog"
	"time"
)

// ExpirySweeper runs the subscription lifecycle sweep.
type ExpirySweeper interface {
	SweepExpirations(ctx context.Context, now time.Time) (int, error)
}

// ReminderSweeper runs the tiered reminder sweep.
type ReminderSweeper interface {
	SweepReminders(ctx context.Context, now time.Time) (int, error)
}

// NotificationCleaner runs the retention cleanup sweep.
type NotificationCleaner interface {
	SweepStaleNotifications(ctx context.Context, now time.Time, retention time.Duration) (int64, error)
}

// ReminderTrigger delegates the reminder sweep to a remote endpoint.
type ReminderTrigger interface {
	TriggerReminderSweep(ctx context.Context) error
}

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	expiry    ExpirySweeper
	reminders ReminderSweeper
	cleaner   NotificationCleaner
	trigger   ReminderTrigger
	retention time.Duration
	logger    *slog.Logger
}

// NewJobs creates a new Jobs runner. trigger may be nil, in which case
// the reminder job always runs in-process.
func NewJobs(expiry ExpirySweeper, reminders ReminderSweeper, cleaner NotificationCleaner, trigger ReminderTrigger, retention time.Duration, logger *slog.Logger) *Jobs {
	return &Jobs{
		expiry:    expiry,
		reminders: reminders,
		cleaner:   cleaner,
		trigger:   trigger,
		retention: retention,
		logger:    logger,
	}
}

// RunExpirySweep executes the subscription lifecycle sweep.
func (j *Jobs) RunExpirySweep() {
	j.logger.Info("starting subscription expiry sweep")
	ctx := context.Background()

	transitioned, err := j.expiry.SweepExpirations(ctx, time.Now())
	if err != nil {
		j.logger.Error("subscription expiry sweep failed", "error", err)
		return
	}

	j.logger.Info("subscription expiry sweep finished", "transitioned", transitioned)
}

// RunReminderSweep executes the tiered reminder sweep. It first tries to
// delegate to the remote trigger endpoint; on any failure of that path
// it falls back to running the sweep in-process. A partial remote
// success followed by a fallback can double-fire, which the reminder
// cooldown bounds.
func (j *Jobs) RunReminderSweep() {
	j.logger.Info("starting reminder sweep")
	ctx := context.Background()

	if j.trigger != nil {
		err := j.trigger.TriggerReminderSweep(ctx)
		if err == nil {
			j.logger.Info("reminder sweep delegated to remote trigger")
			return
		}
		j.logger.Warn("remote reminder trigger failed, falling back to in-process sweep", "error", err)
	}

	sent, err := j.reminders.SweepReminders(ctx, time.Now())
	if err != nil {
		j.logger.Error("reminder sweep failed", "error", err)
		return
	}

	j.logger.Info("reminder sweep finished", "sent", sent)
}

// RunCleanupSweep deletes notifications past the retention window.
func (j *Jobs) RunCleanupSweep() {
	j.logger.Info("starting notification cleanup sweep")
	ctx := context.Background()

	removed, err := j.cleaner.SweepStaleNotifications(ctx, time.Now(), j.retention)
	if err != nil {
		j.logger.Error("notification cleanup sweep failed", "error", err)
		return
	}

	j.logger.Info("notification cleanup sweep finished", "removed", removed)
}
