package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes order events as JSON messages on NATS subjects.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("vanir"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) OrderCreated(ctx context.Context, event OrderEvent) error {
	return p.publish(SubjectOrderCreated, event)
}

func (p *NATSPublisher) OrderStatusChanged(ctx context.Context, event OrderEvent) error {
	return p.publish(SubjectOrderStatusChanged, event)
}

func (p *NATSPublisher) publish(subject string, event OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Close flushes pending messages and drops the connection.
func (p *NATSPublisher) Close() {
	p.conn.Flush()
	p.conn.Close()
}
