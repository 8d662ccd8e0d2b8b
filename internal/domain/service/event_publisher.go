package service

import (
	"context"
)

// OrderEvent represents an order lifecycle change published for
// downstream consumers (dashboards, fulfilment tooling).
type OrderEvent struct {
	RequestID   string `json:"request_id,omitempty"` // For distributed tracing
	EventID     string `json:"event_id"`
	OrderID     string `json:"order_id"`
	OrderCode   string `json:"order_code"`
	OwnerID     string `json:"owner_id"`
	FranchiseID string `json:"franchise_id"`
	Status      string `json:"status"`
	OccurredAt  string `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishOrderEvent publishes an order lifecycle event for async processing
	PublishOrderEvent(ctx context.Context, event *OrderEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
