/**
 * @description
 * Retention cleanup sweep: deletes notifications older than the
 * configured retention window.
 */
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// CleanupRepository defines the database operations the cleanup sweep needs.
type CleanupRepository interface {
	DeleteNotificationsCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupService removes notifications past the retention window.
type CleanupService struct {
	repo   CleanupRepository
	logger *slog.Logger
}

// NewCleanupService creates a new cleanup service.
func NewCleanupService(repo CleanupRepository, logger *slog.Logger) *CleanupService {
	return &CleanupService{repo: repo, logger: logger}
}

// SweepStaleNotifications deletes notifications created before
// now minus retention, read or not. Safe to re-run; a second pass over the
// same data deletes nothing.
func (s *CleanupService) SweepStaleNotifications(ctx context.Context, now time.Time, retention time.Duration) (int64, error) {
	removed, err := s.repo.DeleteNotificationsCreatedBefore(ctx, now.Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale notifications: %w", err)
	}
	return removed, nil
}
