/**
 * @description
 * Notification record model and its typed metadata variants.
 */
package domain

import "time"

// NotificationType categorizes a notification for the inbox UI and for
// dedup queries.
type NotificationType string

const (
	NotificationTypeSubscription NotificationType = "subscription"
	NotificationTypeInventory    NotificationType = "inventory"
	NotificationTypePayment      NotificationType = "payment"
	NotificationTypeSystem       NotificationType = "system"
)

// TitleSubscriptionExpiringSoon is the title of the coarse
// upcoming-expiration notice. The single-fire dedup query matches on it,
// so the reminder pipeline's notifications never satisfy the guard.
const TitleSubscriptionExpiringSoon = "Subscription expiring soon"

// SubscriptionMetadata carries the exact expiration date a subscription
// notification refers to. Dedup lookups key on this value, so it is
// stored normalized to UTC.
type SubscriptionMetadata struct {
	ExpirationDate time.Time `json:"expiration_date"`
}

// InventoryMetadata carries the item a low-stock alert refers to.
type InventoryMetadata struct {
	ItemName        string `json:"item_name"`
	CurrentQuantity int    `json:"current_quantity"`
}

// PaymentMetadata carries the outstanding amount, in minor currency units.
type PaymentMetadata struct {
	AmountDue int64 `json:"amount_due"`
}

// Metadata is the tagged payload attached to a notification. Exactly one
// variant is set, matching the notification's type.
type Metadata struct {
	Subscription *SubscriptionMetadata `json:"subscription,omitempty"`
	Inventory    *InventoryMetadata    `json:"inventory,omitempty"`
	Payment      *PaymentMetadata      `json:"payment,omitempty"`
}

// Notification is a persisted in-app inbox record. After creation only
// the read flag is ever mutated; the cleanup sweep deletes records past
// the retention window.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	Metadata  Metadata         `json:"metadata,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// OutboundEmail is the payload handed to the outbound dispatch channel.
type OutboundEmail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	HTML    bool   `json:"html"`
}

// NotificationListOptions controls inbox pagination and filtering.
type NotificationListOptions struct {
	Limit      int
	UnreadOnly bool
}
