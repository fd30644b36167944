package rabbitmq

import (
	"context"
	"ecosync-hub/internal/pkg/logger"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	amqp "github.com/rabbitmq/amqp091-go"
)

type MessageHandler func(msg *amqp.Delivery) (any, error)

type RetryStrategy string

const (
	FixedRetry       RetryStrategy = "fixed"
	ExponentialRetry RetryStrategy = "exponential"
	LinearRetry      RetryStrategy = "linear"
)

const (
	headerRetryCount = "x-retry-count"
)

type SubscribeOptions struct {
	QueueOpts        *QueueConfig
	QueueName        string
	ConsumerName     string
	WorkerCount      int
	PrefetchCount    int
	MaxRetryAttempts int
	EnableDeadLetter bool
	DeadLetterName   string
	RetryStrategy    RetryStrategy
	BaseRetryDelay   time.Duration
	MaxRetryDelay    time.Duration
}

func DefaultSubscribeOptions(queueName string) *SubscribeOptions {
	return &SubscribeOptions{
		QueueName:        queueName,
		ConsumerName:     queueName,
		WorkerCount:      3,
		PrefetchCount:    10,
		MaxRetryAttempts: 5,
		EnableDeadLetter: true,
		DeadLetterName:   "fail:" + queueName,
		RetryStrategy:    ExponentialRetry,
		BaseRetryDelay:   time.Second * 2,
		MaxRetryDelay:    time.Minute * 5,
	}
}

// RetryDelay returns how long to wait before redelivering attempt retryCount.
func (o *SubscribeOptions) RetryDelay(retryCount int) time.Duration {
	var delay time.Duration

	switch o.RetryStrategy {
	case FixedRetry:
		delay = o.BaseRetryDelay
	case LinearRetry:
		delay = o.BaseRetryDelay * time.Duration(retryCount)
	default:
		delay = o.BaseRetryDelay
		for i := 1; i < retryCount && delay < o.MaxRetryDelay; i++ {
			delay *= 2
		}
	}

	if o.MaxRetryDelay > 0 && delay > o.MaxRetryDelay {
		delay = o.MaxRetryDelay
	}
	return delay
}

type Subscriber struct {
	connManager *ConnectionManager
	channels    []*ChannelManager
	handler     MessageHandler
	opts        *SubscribeOptions
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	isRunning   atomic.Bool
	pool        *ants.Pool
}

func NewSubscriber(ctx context.Context, connManager *ConnectionManager, handler MessageHandler, opts *SubscribeOptions) (*Subscriber, error) {
	ctx, cancel := context.WithCancel(ctx)

	pool, err := ants.NewPool(opts.WorkerCount*opts.PrefetchCount, ants.WithOptions(ants.Options{
		ExpiryDuration: time.Hour,
		Nonblocking:    false,
		PanicHandler: func(i any) {
			logger.Error.Printf("Subscriber %s handler panic: %v", opts.QueueName, i)
		},
	}))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create subscriber pool: %w", err)
	}

	sub := &Subscriber{
		connManager: connManager,
		handler:     handler,
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
		channels:    make([]*ChannelManager, opts.WorkerCount),
		pool:        pool,
	}
	for i := range sub.channels {
		sub.channels[i] = NewChannelManager(ctx, connManager)
	}

	return sub, nil
}

func (s *Subscriber) Start() error {
	if s.isRunning.Swap(true) {
		return fmt.Errorf("subscriber %s is already running", s.opts.QueueName)
	}

	for i := range s.channels {
		s.wg.Add(1)
		go s.runWorker(i)
	}

	logger.Info.Printf("Subscriber %s started with %d workers", s.opts.QueueName, len(s.channels))
	return nil
}

func (s *Subscriber) runWorker(workerID int) {
	defer s.wg.Done()

	backoff := time.Second
	for s.isRunning.Load() {
		err := s.consume(workerID)
		if s.ctx.Err() != nil {
			return
		}
		if err != nil {
			logger.Warning.Printf("Subscriber %s worker %d: %v (retrying in %v)", s.opts.QueueName, workerID, err, backoff)
			select {
			case <-s.ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, 30*time.Second)
			continue
		}
		backoff = time.Second
	}
}

func (s *Subscriber) consume(workerID int) error {
	ch, err := s.channels[workerID].GetChannel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	if err := ch.Qos(s.opts.PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	cfg := s.opts.QueueOpts
	if cfg == nil {
		cfg = DefaultQueueConfig()
	}
	q, err := ch.QueueDeclare(s.opts.QueueName, cfg.Durable, cfg.AutoDelete, cfg.Exclusive, cfg.NoWait, cfg.Args)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	consumerName := fmt.Sprintf("%s-%d-%d", s.opts.ConsumerName, workerID, time.Now().Unix())
	msgs, err := ch.ConsumeWithContext(s.ctx, q.Name, consumerName, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for msg := range msgs {
		delivery := msg
		if err := s.pool.Submit(func() {
			if err := s.process(workerID, &delivery); err != nil {
				logger.Error.Printf("Subscriber %s worker %d: %v", s.opts.QueueName, workerID, err)
			}
		}); err != nil {
			logger.Error.Printf("Subscriber %s failed to submit message: %v", s.opts.QueueName, err)
			_ = delivery.Nack(false, true)
		}
	}

	// The delivery channel closes when the channel or connection drops.
	return nil
}

func (s *Subscriber) process(workerID int, msg *amqp.Delivery) error {
	if _, err := s.handler(msg); err != nil {
		return s.handleFailure(workerID, msg, err)
	}

	if err := msg.Ack(false); err != nil {
		return fmt.Errorf("failed to acknowledge message: %w", err)
	}
	return nil
}

func retryCount(msg *amqp.Delivery) int {
	if msg.Headers == nil {
		return 0
	}
	switch v := msg.Headers[headerRetryCount].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	}
	return 0
}

func (s *Subscriber) handleFailure(workerID int, msg *amqp.Delivery, cause error) error {
	attempt := retryCount(msg) + 1

	if attempt > s.opts.MaxRetryAttempts {
		if err := msg.Ack(false); err != nil {
			return fmt.Errorf("failed to acknowledge message: %w", err)
		}
		if !s.opts.EnableDeadLetter {
			logger.Error.Printf("Subscriber %s dropping message %s after %d attempts: %v", s.opts.QueueName, msg.MessageId, attempt-1, cause)
			return nil
		}
		return s.publishToDeadLetter(workerID, msg, cause)
	}

	if msg.Headers == nil {
		msg.Headers = amqp.Table{}
	}
	msg.Headers[headerRetryCount] = int32(attempt)
	publishing := republishing(msg)

	if err := msg.Ack(false); err != nil {
		return fmt.Errorf("failed to acknowledge original message: %w", err)
	}

	delay := s.opts.RetryDelay(attempt)
	logger.Warning.Printf("Subscriber %s retrying message %s in %v (attempt %d): %v", s.opts.QueueName, msg.MessageId, delay, attempt, cause)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		select {
		case <-s.ctx.Done():
			return
		case <-time.After(delay):
		}

		ch, err := s.channels[workerID].GetChannel()
		if err != nil {
			logger.Error.Printf("Subscriber %s failed to get channel for retry: %v", s.opts.QueueName, err)
			return
		}
		if err := ch.PublishWithContext(s.ctx, "", s.opts.QueueName, false, false, publishing); err != nil {
			logger.Error.Printf("Subscriber %s failed to republish: %v", s.opts.QueueName, err)
		}
	}()

	return nil
}

func (s *Subscriber) publishToDeadLetter(workerID int, msg *amqp.Delivery, cause error) error {
	ch, err := s.channels[workerID].GetChannel()
	if err != nil {
		return fmt.Errorf("failed to get channel for dead letter: %w", err)
	}

	if _, err := ch.QueueDeclare(s.opts.DeadLetterName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead letter queue: %w", err)
	}

	if msg.Headers == nil {
		msg.Headers = amqp.Table{}
	}
	msg.Headers["x-death-reason"] = cause.Error()
	msg.Headers["x-death-time"] = time.Now().Format(time.RFC3339)
	msg.Headers["x-death-queue"] = s.opts.QueueName

	if err := ch.PublishWithContext(s.ctx, "", s.opts.DeadLetterName, false, false, republishing(msg)); err != nil {
		return fmt.Errorf("failed to publish to dead letter queue: %w", err)
	}

	logger.Warning.Printf("Subscriber %s moved message %s to %s", s.opts.QueueName, msg.MessageId, s.opts.DeadLetterName)
	return nil
}

func (s *Subscriber) Stop() error {
	if !s.isRunning.Swap(false) {
		return nil
	}

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Minute):
		return fmt.Errorf("timeout waiting for subscriber %s to stop", s.opts.QueueName)
	}

	for i, ch := range s.channels {
		if err := ch.Close(); err != nil {
			logger.Error.Printf("Error closing channel %d of %s: %v", i, s.opts.QueueName, err)
		}
	}

	s.pool.Release()
	return nil
}

func (s *Subscriber) IsHealthy() bool {
	return s.isRunning.Load() && !s.connManager.IsClosed()
}
