/**
 * @description
 * This file defines the core domain models for the notifier-service.
 * It includes the Subscription record the sweeps operate on and the
 * reminder tier computation derived from time remaining until expiry.
 */
package domain

import (
	"fmt"
	"time"
)

// Subscription statuses. Only 'active' subscriptions are eligible for
// expiry transitions and reminders.
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusInactive  = "inactive"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

// Subscription represents a tenant's subscription as seen by the sweeps.
type Subscription struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Status           string     `json:"status"`
	EndDate          time.Time  `json:"end_date"`
	LastReminderSent *time.Time `json:"last_reminder_sent,omitempty"`
	ReminderCount    int        `json:"reminder_count"`
}

// ReminderCandidate pairs a subscription with the delivery address the
// reminder sweep dispatches to.
type ReminderCandidate struct {
	Subscription
	Email string `json:"email"`
}

// ReminderTier is the urgency bucket a subscription falls into based on
// the days remaining until its end date. It is derived per sweep pass
// and never persisted.
type ReminderTier string

const (
	TierSevenDay ReminderTier = "seven_day"
	TierThreeDay ReminderTier = "three_day"
	TierOneDay   ReminderTier = "one_day"
	TierNone     ReminderTier = "none"
)

// DaysRemaining returns the whole days left until endDate, rounding any
// partial day up. A subscription 2h from expiry has 1 day remaining.
func DaysRemaining(now, endDate time.Time) int {
	remaining := endDate.Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// TierFor classifies days remaining into a reminder tier. The smallest
// applicable threshold wins, so closer deadlines take precedence.
func TierFor(daysRemaining int) ReminderTier {
	switch {
	case daysRemaining <= 1:
		return TierOneDay
	case daysRemaining <= 3:
		return TierThreeDay
	case daysRemaining <= 7:
		return TierSevenDay
	default:
		return TierNone
	}
}

// ReminderContent renders the tier-specific subject and body for an
// expiry reminder. Urgency escalates as the tier tightens.
func ReminderContent(tier ReminderTier, daysRemaining int, endDate time.Time) (subject, body string) {
	formattedDate := endDate.Format("January 2, 2006")

	switch tier {
	case TierOneDay:
		subject = "Final notice: your StockPilot subscription expires tomorrow"
		body = fmt.Sprintf(
			"Your StockPilot subscription expires on %s. This is your final reminder. "+
				"Renew now to avoid losing access to your inventory and invoicing tools.",
			formattedDate,
		)
	case TierThreeDay:
		subject = fmt.Sprintf("Your StockPilot subscription expires in %d days", daysRemaining)
		body = fmt.Sprintf(
			"Your StockPilot subscription expires on %s. Renew soon to keep your "+
				"store running without interruption.",
			formattedDate,
		)
	default:
		subject = fmt.Sprintf("Your StockPilot subscription expires in %d days", daysRemaining)
		body = fmt.Sprintf(
			"Your StockPilot subscription is due to expire on %s. You can renew at "+
				"any time from your account settings.",
			formattedDate,
		)
	}

	return subject, body
}
