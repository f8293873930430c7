/**
 * @description
 * Tiered reminder sweep: classifies subscriptions nearing expiry into
 * urgency tiers and dispatches at most one reminder per subscription per
 * cooldown window.
 */
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stockpilot/notifier-service/internal/domain"
)

const (
	// ReminderCooldown is the minimum time between reminders for one
	// subscription, regardless of tier. A subscription that crosses into
	// a more urgent tier inside the window is not re-notified until the
	// window elapses. Keep this a single named constant so the policy is
	// a one-line change.
	ReminderCooldown = 24 * time.Hour

	// ReminderHorizon is how far ahead of expiry the sweep looks.
	ReminderHorizon = 7 * 24 * time.Hour
)

// ReminderRepository defines the database operations the reminder sweep needs.
type ReminderRepository interface {
	RemindableSubscriptions(ctx context.Context, now, until, remindedBefore time.Time) ([]domain.ReminderCandidate, error)
	RecordReminderSent(ctx context.Context, subscriptionID string, at time.Time) error
	InsertNotification(ctx context.Context, n *domain.Notification) error
}

// Dispatcher is the outbound channel reminders are delivered through.
type Dispatcher interface {
	Send(ctx context.Context, msg domain.OutboundEmail) error
}

// ReminderService owns the tiered reminder pipeline.
type ReminderService struct {
	repo       ReminderRepository
	dispatcher Dispatcher
	logger     *slog.Logger
}

// NewReminderService creates a new reminder service.
func NewReminderService(repo ReminderRepository, dispatcher Dispatcher, logger *slog.Logger) *ReminderService {
	return &ReminderService{repo: repo, dispatcher: dispatcher, logger: logger}
}

// SweepReminders sends one tiered reminder to every active subscription
// expiring within the horizon that is outside its cooldown. The cooldown
// bookkeeping advances whether or not dispatch succeeded, so a failing
// transport is not hammered on every sweep. Returns the number of
// reminders attempted.
func (s *ReminderService) SweepReminders(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.repo.RemindableSubscriptions(ctx, now, now.Add(ReminderHorizon), now.Add(-ReminderCooldown))
	if err != nil {
		return 0, fmt.Errorf("failed to query remindable subscriptions: %w", err)
	}

	attempted := 0
	for _, candidate := range candidates {
		days := domain.DaysRemaining(now, candidate.EndDate)
		tier := domain.TierFor(days)
		if tier == domain.TierNone {
			continue
		}

		subject, body := domain.ReminderContent(tier, days, candidate.EndDate)

		if err := s.dispatcher.Send(ctx, domain.OutboundEmail{
			To:      candidate.Email,
			Subject: subject,
			Body:    body,
		}); err != nil {
			s.logger.Warn("reminder dispatch failed",
				"subscription_id", candidate.ID,
				"user_id", candidate.UserID,
				"tier", tier,
				"error", err)
		}

		notice := domain.Notification{
			UserID:  candidate.UserID,
			Type:    domain.NotificationTypeSubscription,
			Title:   subject,
			Message: body,
			Metadata: domain.Metadata{
				Subscription: &domain.SubscriptionMetadata{ExpirationDate: candidate.EndDate.UTC()},
			},
		}
		if err := s.repo.InsertNotification(ctx, &notice); err != nil {
			s.logger.Error("failed to insert reminder notification",
				"subscription_id", candidate.ID,
				"user_id", candidate.UserID,
				"error", err)
		}

		if err := s.repo.RecordReminderSent(ctx, candidate.ID, now); err != nil {
			s.logger.Error("failed to record reminder bookkeeping",
				"subscription_id", candidate.ID,
				"user_id", candidate.UserID,
				"error", err)
		}

		attempted++
		s.logger.Info("reminder sent",
			"subscription_id", candidate.ID,
			"user_id", candidate.UserID,
			"tier", tier,
			"days_remaining", days)
	}

	return attempted, nil
}
