/**
 * @description
 * Collaborator-triggered alert emitters (low stock, payment due). These
 * are plain inserts with no dedup guard: the inventory and billing
 * callers fire them once per qualifying state change.
 */
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stockpilot/notifier-service/internal/domain"
)

// AlertRepository defines the database operations the alert emitters need.
type AlertRepository interface {
	InsertNotification(ctx context.Context, n *domain.Notification) error
}

// AlertService inserts alert notifications on behalf of collaborators.
type AlertService struct {
	repo   AlertRepository
	logger *slog.Logger
}

// NewAlertService creates a new alert service.
func NewAlertService(repo AlertRepository, logger *slog.Logger) *AlertService {
	return &AlertService{repo: repo, logger: logger}
}

// EmitLowStock records a low-stock alert for an inventory item.
func (s *AlertService) EmitLowStock(ctx context.Context, userID, itemName string, currentQuantity int) error {
	notice := domain.Notification{
		UserID:  userID,
		Type:    domain.NotificationTypeInventory,
		Title:   "Low stock alert",
		Message: fmt.Sprintf("%s is running low: %d left in stock.", itemName, currentQuantity),
		Metadata: domain.Metadata{
			Inventory: &domain.InventoryMetadata{ItemName: itemName, CurrentQuantity: currentQuantity},
		},
	}

	if err := s.repo.InsertNotification(ctx, &notice); err != nil {
		return fmt.Errorf("failed to insert low-stock alert: %w", err)
	}

	s.logger.Info("low-stock alert recorded", "user_id", userID, "item_name", itemName, "current_quantity", currentQuantity)
	return nil
}

// EmitPaymentDue records a payment-due alert. The amount is in minor
// currency units.
func (s *AlertService) EmitPaymentDue(ctx context.Context, userID string, amountDue int64) error {
	notice := domain.Notification{
		UserID:  userID,
		Type:    domain.NotificationTypePayment,
		Title:   "Payment due",
		Message: fmt.Sprintf("You have an outstanding invoice payment of %.2f.", float64(amountDue)/100),
		Metadata: domain.Metadata{
			Payment: &domain.PaymentMetadata{AmountDue: amountDue},
		},
	}

	if err := s.repo.InsertNotification(ctx, &notice); err != nil {
		return fmt.Errorf("failed to insert payment-due alert: %w", err)
	}

	s.logger.Info("payment-due alert recorded", "user_id", userID, "amount_due", amountDue)
	return nil
}
