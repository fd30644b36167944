package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrNoConnection = errors.New("rabbitmq connection not available")

// ChannelManager hands out a channel on the current connection and reopens it
// after the broker closes it.
type ChannelManager struct {
	connManager *ConnectionManager
	ch          *amqp.Channel
	mu          sync.Mutex
	ctx         context.Context
}

func NewChannelManager(ctx context.Context, connManager *ConnectionManager) *ChannelManager {
	return &ChannelManager{
		connManager: connManager,
		ctx:         ctx,
	}
}

func (m *ChannelManager) GetChannel() (*amqp.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ctx.Err(); err != nil {
		return nil, err
	}

	if m.ch != nil && !m.ch.IsClosed() {
		return m.ch, nil
	}

	conn := m.connManager.GetConnection()
	if conn == nil || conn.IsClosed() {
		return nil, ErrNoConnection
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	m.ch = ch
	return ch, nil
}

func (m *ChannelManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ch == nil || m.ch.IsClosed() {
		m.ch = nil
		return nil
	}

	err := m.ch.Close()
	m.ch = nil
	return err
}
