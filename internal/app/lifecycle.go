/**
 * @description
 * Subscription lifecycle sweep: transitions lapsed subscriptions from
 * 'active' to 'expired' and originates expiry / upcoming-expiration
 * notices.
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
	// expiryNoticeDedupWindow bounds how often an expiry notice may be
	// created for the same user. The guard is a query-then-insert, not a
	// unique index; two overlapping sweeps can race through it, which is
	// an accepted limitation.
	expiryNoticeDedupWindow = 24 * time.Hour

	// upcomingExpiryHorizon is how far ahead the secondary scan looks for
	// subscriptions to warn about.
	upcomingExpiryHorizon = 7 * 24 * time.Hour
)

// LifecycleRepository defines the database operations the lifecycle sweep needs.
type LifecycleRepository interface {
	ActiveSubscriptionsExpiredBy(ctx context.Context, now time.Time) ([]domain.Subscription, error)
	ActiveSubscriptionsExpiringWithin(ctx context.Context, from, until time.Time) ([]domain.Subscription, error)
	MarkSubscriptionExpired(ctx context.Context, subscriptionID string) (bool, error)
	HasExpiredNoticeSince(ctx context.Context, userID string, since time.Time) (bool, error)
	HasUpcomingExpiryNotice(ctx context.Context, userID string, expirationDate time.Time) (bool, error)
	InsertNotification(ctx context.Context, n *domain.Notification) error
}

// LifecycleService owns subscription status transitions.
type LifecycleService struct {
	repo   LifecycleRepository
	logger *slog.Logger
}

// NewLifecycleService creates a new lifecycle service.
func NewLifecycleService(repo LifecycleRepository, logger *slog.Logger) *LifecycleService {
	return &LifecycleService{repo: repo, logger: logger}
}

// SweepExpirations transitions every active subscription whose end date
// has passed and emits at most one expiry notice per user per dedup
// window. It then scans the next seven days and originates one
// upcoming-expiration notice per exact expiration date. A failure on one
// subscription never aborts the sweep for the others. Returns the number
// of status transitions performed.
func (s *LifecycleService) SweepExpirations(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.repo.ActiveSubscriptionsExpiredBy(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to query expired subscriptions: %w", err)
	}

	transitioned := 0
	for _, sub := range expired {
		ok, err := s.repo.MarkSubscriptionExpired(ctx, sub.ID)
		if err != nil {
			s.logger.Error("failed to expire subscription", "subscription_id", sub.ID, "user_id", sub.UserID, "error", err)
			continue
		}
		if !ok {
			// Another sweep already transitioned this record.
			continue
		}
		transitioned++

		exists, err := s.repo.HasExpiredNoticeSince(ctx, sub.UserID, now.Add(-expiryNoticeDedupWindow))
		if err != nil {
			s.logger.Error("failed to check for existing expiry notice", "user_id", sub.UserID, "error", err)
			continue
		}
		if exists {
			continue
		}

		notice := expiryNotice(sub)
		if err := s.repo.InsertNotification(ctx, &notice); err != nil {
			s.logger.Error("failed to insert expiry notice", "user_id", sub.UserID, "error", err)
		}
	}

	s.sweepUpcomingExpirations(ctx, now)

	return transitioned, nil
}

// sweepUpcomingExpirations originates a coarse single-fire notice for
// subscriptions expiring within the horizon. This is independent of the
// tiered reminder pipeline and keyed by exact expiration date.
func (s *LifecycleService) sweepUpcomingExpirations(ctx context.Context, now time.Time) {
	upcoming, err := s.repo.ActiveSubscriptionsExpiringWithin(ctx, now, now.Add(upcomingExpiryHorizon))
	if err != nil {
		s.logger.Error("failed to query upcoming expirations", "error", err)
		return
	}

	for _, sub := range upcoming {
		exists, err := s.repo.HasUpcomingExpiryNotice(ctx, sub.UserID, sub.EndDate)
		if err != nil {
			s.logger.Error("failed to check for existing upcoming-expiry notice", "user_id", sub.UserID, "error", err)
			continue
		}
		if exists {
			continue
		}

		notice := upcomingExpiryNotice(sub)
		if err := s.repo.InsertNotification(ctx, &notice); err != nil {
			s.logger.Error("failed to insert upcoming-expiry notice", "user_id", sub.UserID, "error", err)
		}
	}
}

func expiryNotice(sub domain.Subscription) domain.Notification {
	return domain.Notification{
		UserID:  sub.UserID,
		Type:    domain.NotificationTypeSubscription,
		Title:   "Subscription expired",
		Message: fmt.Sprintf("Your StockPilot subscription has expired as of %s. Renew to restore full access.", sub.EndDate.Format("January 2, 2006")),
		Metadata: domain.Metadata{
			Subscription: &domain.SubscriptionMetadata{ExpirationDate: sub.EndDate.UTC()},
		},
	}
}

func upcomingExpiryNotice(sub domain.Subscription) domain.Notification {
	return domain.Notification{
		UserID:  sub.UserID,
		Type:    domain.NotificationTypeSubscription,
		Title:   domain.TitleSubscriptionExpiringSoon,
		Message: fmt.Sprintf("Your StockPilot subscription expires on %s.", sub.EndDate.Format("January 2, 2006")),
		Metadata: domain.Metadata{
			Subscription: &domain.SubscriptionMetadata{ExpirationDate: sub.EndDate.UTC()},
		},
	}
}
