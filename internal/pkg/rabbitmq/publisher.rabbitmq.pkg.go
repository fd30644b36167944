package rabbitmq

import (
	"context"
	"fmt"
	"sync"
)

// IPublisher publishes JSON payloads to a named queue on the default exchange.
type IPublisher interface {
	Publish(ctx context.Context, queue string, payload any) error
}

type Publisher struct {
	channel  *ChannelManager
	mu       sync.Mutex
	declared map[string]bool
}

func NewPublisher(ctx context.Context, connManager *ConnectionManager) (*Publisher, error) {
	if connManager == nil {
		return nil, ErrNoConnection
	}
	return &Publisher{
		channel:  NewChannelManager(ctx, connManager),
		declared: make(map[string]bool),
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, queue string, payload any) error {
	msg, err := NewMessage(payload, nil)
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel.GetChannel()
	if err != nil {
		return err
	}

	if !p.declared[queue] {
		cfg := DefaultQueueConfig()
		if _, err := ch.QueueDeclare(queue, cfg.Durable, cfg.AutoDelete, cfg.Exclusive, cfg.NoWait, cfg.Args); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}
		p.declared[queue] = true
	}

	if err := ch.PublishWithContext(ctx, "", queue, false, false, *msg.GeneratePayload()); err != nil {
		// The channel may be dead; declare again on the next one.
		delete(p.declared, queue)
		return fmt.Errorf("failed to publish to %s: %w", queue, err)
	}

	return nil
}

func (p *Publisher) Close() error {
	return p.channel.Close()
}

// NoopPublisher drops every message. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

var _ IPublisher = (*Publisher)(nil)
var _ IPublisher = NoopPublisher{}
