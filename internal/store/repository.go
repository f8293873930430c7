/**
 * @description
 * This file implements the data access layer for the notifier-service.
 * It contains all the SQL queries for the subscription sweeps and the
 * notification inbox.
 */
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockpilot/notifier-service/internal/domain"
)

// Repository handles database operations for the notifier.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const subscriptionColumns = `id, user_id, status, end_date, last_reminder_sent, reminder_count`

// ActiveSubscriptionsExpiredBy fetches all subscriptions that are still
// 'active' but whose end date has passed.
func (r *Repository) ActiveSubscriptionsExpiredBy(ctx context.Context, now time.Time) ([]domain.Subscription, error) {
	query := `
        SELECT ` + subscriptionColumns + `
        FROM subscriptions
        WHERE status = 'active'
          AND end_date <= $1
    `
	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSubscriptions(rows)
}

// ActiveSubscriptionsExpiringWithin fetches active subscriptions whose
// end date falls in (from, until].
func (r *Repository) ActiveSubscriptionsExpiringWithin(ctx context.Context, from, until time.Time) ([]domain.Subscription, error) {
	query := `
        SELECT ` + subscriptionColumns + `
        FROM subscriptions
        WHERE status = 'active'
          AND end_date > $1
          AND end_date <= $2
    `
	rows, err := r.db.Query(ctx, query, from, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSubscriptions(rows)
}

// MarkSubscriptionExpired transitions a subscription to 'expired'. The
// status guard in the WHERE clause makes the transition idempotent: a
// second sweep over the same record affects zero rows.
func (r *Repository) MarkSubscriptionExpired(ctx context.Context, subscriptionID string) (bool, error) {
	query := `
        UPDATE subscriptions
        SET status = 'expired',
            updated_at = NOW()
        WHERE id = $1
          AND status = 'active'
    `
	tag, err := r.db.Exec(ctx, query, subscriptionID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// RemindableSubscriptions fetches active subscriptions expiring within
// (now, until] that are outside the reminder cooldown, joined with the
// owner's email address for dispatch.
func (r *Repository) RemindableSubscriptions(ctx context.Context, now, until, remindedBefore time.Time) ([]domain.ReminderCandidate, error) {
	query := `
        SELECT s.id, s.user_id, s.status, s.end_date, s.last_reminder_sent, s.reminder_count, u.email
        FROM subscriptions s
        JOIN users u ON u.id = s.user_id
        WHERE s.status = 'active'
          AND s.end_date > $1
          AND s.end_date <= $2
          AND (s.last_reminder_sent IS NULL OR s.last_reminder_sent < $3)
    `
	rows, err := r.db.Query(ctx, query, now, until, remindedBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []domain.ReminderCandidate
	for rows.Next() {
		var c domain.ReminderCandidate
		if err := rows.Scan(&c.ID, &c.UserID, &c.Status, &c.EndDate, &c.LastReminderSent, &c.ReminderCount, &c.Email); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}

// RecordReminderSent advances the reminder cooldown and bumps the counter.
func (r *Repository) RecordReminderSent(ctx context.Context, subscriptionID string, at time.Time) error {
	query := `
        UPDATE subscriptions
        SET last_reminder_sent = $2,
            reminder_count = reminder_count + 1,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, subscriptionID, at)
	return err
}

// InsertNotification persists a new inbox notification. The ID and
// creation timestamp are assigned here if the caller left them unset.
func (r *Repository) InsertNotification(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal notification metadata: %w", err)
	}

	query := `
        INSERT INTO notifications (id, user_id, type, title, message, read, metadata, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err = r.db.Exec(ctx, query, n.ID, n.UserID, n.Type, n.Title, n.Message, n.Read, metadata, n.CreatedAt)
	return err
}

// HasExpiredNoticeSince reports whether an expiry notice was already
// created for the user within the dedup window.
func (r *Repository) HasExpiredNoticeSince(ctx context.Context, userID string, since time.Time) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1
            FROM notifications
            WHERE user_id = $1
              AND type = 'subscription'
              AND message LIKE '%has expired%'
              AND created_at >= $2
        )
    `
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, since).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// HasUpcomingExpiryNotice reports whether an upcoming-expiration notice
// keyed to this exact expiration date already exists for the user. The
// title predicate keeps tiered reminders, which carry the same metadata,
// from satisfying the guard. Stored expiration dates are UTC, so the
// comparison value is normalized the same way.
func (r *Repository) HasUpcomingExpiryNotice(ctx context.Context, userID string, expirationDate time.Time) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1
            FROM notifications
            WHERE user_id = $1
              AND type = 'subscription'
              AND title = $2
              AND metadata -> 'subscription' ->> 'expiration_date' = $3
        )
    `
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, domain.TitleSubscriptionExpiringSoon, expirationDate.UTC().Format(time.RFC3339Nano)).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListNotifications retrieves a user's inbox, newest first.
func (r *Repository) ListNotifications(ctx context.Context, userID string, opts domain.NotificationListOptions) ([]domain.Notification, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	} else if limit > 200 {
		limit = 200
	}

	query := `
        SELECT id, user_id, type, title, message, read, metadata, created_at
        FROM notifications
        WHERE user_id = $1
    `
	args := []interface{}{userID}
	if opts.UnreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`
	args = append(args, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0, limit)
	for rows.Next() {
		var n domain.Notification
		var metadata []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read, &metadata, &n.CreatedAt); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
				return nil, fmt.Errorf("failed to parse notification metadata: %w", err)
			}
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// CountUnreadNotifications returns the user's unread inbox count.
func (r *Repository) CountUnreadNotifications(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`
	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// MarkNotificationRead flips one notification's read flag. Returns false
// when the notification does not exist or belongs to another user.
func (r *Repository) MarkNotificationRead(ctx context.Context, userID, notificationID string) (bool, error) {
	query := `
        UPDATE notifications
        SET read = TRUE
        WHERE id = $1
          AND user_id = $2
    `
	tag, err := r.db.Exec(ctx, query, notificationID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkAllNotificationsRead marks every unread notification for the user.
func (r *Repository) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	query := `
        UPDATE notifications
        SET read = TRUE
        WHERE user_id = $1
          AND read = FALSE
    `
	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteNotificationsCreatedBefore removes stale notifications regardless
// of read state.
func (r *Repository) DeleteNotificationsCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM notifications WHERE created_at < $1`
	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanSubscriptions(rows pgx.Rows) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Status, &sub.EndDate, &sub.LastReminderSent, &sub.ReminderCount); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
