/**
 * @description
 * In-app inbox surface: list, unread count, and read-state updates for
 * a user's notifications.
 */
package app

import (
	"context"
	"log/slog"

	"github.com/stockpilot/notifier-service/internal/domain"
)

// InboxRepository defines the database operations the inbox surface needs.
type InboxRepository interface {
	ListNotifications(ctx context.Context, userID string, opts domain.NotificationListOptions) ([]domain.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID string) (int, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error)
}

// InboxService exposes the read/write entry points UI collaborators use
// against the notification store.
type InboxService struct {
	repo   InboxRepository
	logger *slog.Logger
}

// NewInboxService creates a new inbox service.
func NewInboxService(repo InboxRepository, logger *slog.Logger) *InboxService {
	return &InboxService{repo: repo, logger: logger}
}

// List returns a user's notifications, newest first.
func (s *InboxService) List(ctx context.Context, userID string, opts domain.NotificationListOptions) ([]domain.Notification, error) {
	return s.repo.ListNotifications(ctx, userID, opts)
}

// CountUnread returns the user's unread count.
func (s *InboxService) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnreadNotifications(ctx, userID)
}

// MarkRead flips one notification's read flag.
func (s *InboxService) MarkRead(ctx context.Context, userID, notificationID string) (bool, error) {
	return s.repo.MarkNotificationRead(ctx, userID, notificationID)
}

// MarkAllRead marks every unread notification for the user.
func (s *InboxService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllNotificationsRead(ctx, userID)
}
