package rabbitmq

import (
	"context"
	"fmt"

	"github.com/stockpilot/notifier-service/internal/domain"
)

const (
	notificationExchange = "notifications"
	emailRoutingKey      = "notification.email"
)

// emailEvent is the wire payload the delivery worker consumes.
type emailEvent struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	HTML    bool   `json:"html"`
}

// EmailDispatcher publishes outbound email messages for the delivery
// worker to pick up. Delivery beyond the broker is fire-and-forget.
type EmailDispatcher struct {
	producer *EventProducer
	from     string
}

// NewEmailDispatcher creates a dispatcher publishing through the given producer.
func NewEmailDispatcher(producer *EventProducer, from string) *EmailDispatcher {
	return &EmailDispatcher{producer: producer, from: from}
}

// Send publishes one outbound email event.
func (d *EmailDispatcher) Send(ctx context.Context, msg domain.OutboundEmail) error {
	event := emailEvent{
		From:    d.from,
		To:      msg.To,
		Subject: msg.Subject,
		Body:    msg.Body,
		HTML:    msg.HTML,
	}
	if err := d.producer.Publish(ctx, notificationExchange, emailRoutingKey, event); err != nil {
		return fmt.Errorf("failed to publish email event: %w", err)
	}
	return nil
}
