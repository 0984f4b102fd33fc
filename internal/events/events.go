package events

import (
	"context"
	"log/slog"
	"time"
)

// Subjects order events are published on.
const (
	SubjectOrderCreated       = "orders.created"
	SubjectOrderStatusChanged = "orders.status_changed"
)

// OrderEvent is the payload published for order lifecycle changes.
type OrderEvent struct {
	OrderID         string    `json:"orderId"`
	OrderNumber     string    `json:"orderNumber"`
	UserID          string    `json:"userId"`
	Status          string    `json:"status"`
	PreviousStatus  string    `json:"previousStatus,omitempty"`
	TotalPriceCents int64     `json:"totalPrice"`
	OccurredAt      time.Time `json:"occurredAt"`
}

// Publisher emits order lifecycle events. Implementations must be safe for
// concurrent use. Publishing is best-effort; callers log failures and move
// on rather than failing the request.
type Publisher interface {
	OrderCreated(ctx context.Context, event OrderEvent) error
	OrderStatusChanged(ctx context.Context, event OrderEvent) error
	Close()
}

// NoopPublisher drops events, logging them at debug level. Used when no
// broker is configured.
type NoopPublisher struct {
	Logger *slog.Logger
}

func (p *NoopPublisher) OrderCreated(ctx context.Context, event OrderEvent) error {
	p.log(ctx, SubjectOrderCreated, event)
	return nil
}

func (p *NoopPublisher) OrderStatusChanged(ctx context.Context, event OrderEvent) error {
	p.log(ctx, SubjectOrderStatusChanged, event)
	return nil
}

func (p *NoopPublisher) Close() {}

func (p *NoopPublisher) log(ctx context.Context, subject string, event OrderEvent) {
	if p.Logger == nil {
		return
	}
	p.Logger.DebugContext(ctx, "event dropped, no broker configured",
		"subject", subject,
		"order_id", event.OrderID,
		"status", event.Status,
	)
}
