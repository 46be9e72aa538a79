// internal/adapter/events/publisher.go

package events

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"contentradar/internal/domain/content"
)

// Conn is the subset of *nats.Conn used for publishing
type Conn interface {
	Publish(subj string, data []byte) error
}

// Publisher publishes refresh results to NATS subjects under a common prefix
type Publisher struct {
	conn   Conn
	prefix string
}

// NewPublisher creates a new publisher
func NewPublisher(conn Conn, prefix string) *Publisher {
	if prefix == "" {
		prefix = "contentradar"
	}
	return &Publisher{
		conn:   conn,
		prefix: prefix,
	}
}

// RefreshedSubject returns the subject for completed refresh cycles
func (p *Publisher) RefreshedSubject() string {
	return p.prefix + ".refreshed"
}

// SignalSubject returns the subject for topic signals
func (p *Publisher) SignalSubject() string {
	return p.prefix + ".signal"
}

// PublishRefreshed publishes a refresh summary
func (p *Publisher) PublishRefreshed(ctx context.Context, event content.RefreshEvent) error {
	return p.publish(ctx, p.RefreshedSubject(), event)
}

// PublishSignal publishes one topic signal
func (p *Publisher) PublishSignal(ctx context.Context, signal content.TopicSignal) error {
	return p.publish(ctx, p.SignalSubject(), signal)
}

func (p *Publisher) publish(ctx context.Context, subject string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding %s event: %w", subject, err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("error publishing to %s: %w", subject, err)
	}
	return nil
}
