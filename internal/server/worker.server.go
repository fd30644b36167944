package serverApp

import (
	"context"
	"ecosync-hub/internal/common/enum"
	"ecosync-hub/internal/pkg/logger"
	"ecosync-hub/internal/pkg/rabbitmq"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants"
)

const sessionSweepInterval = time.Minute

// InitWorker starts the background workers on a shared pool: the checkout
// session sweeper always, the order.created subscriber when a broker is given.
// The caller releases the pool after ctx is done and wg drained.
func InitWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	rb *rabbitmq.ConnectionManager,
	services *Services,
) (*ants.Pool, error) {
	poolOpts := ants.Options{
		ExpiryDuration: time.Hour,
		PreAlloc:       true,
		Nonblocking:    true,
		PanicHandler: func(i interface{}) {
			logger.Error.Printf("Worker panic: %v\n", i)
		},
	}

	pool, err := ants.NewPool(10, ants.WithOptions(poolOpts))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	wg.Add(1)
	err = pool.Submit(func() {
		defer wg.Done()
		services.Checkout.RunSweeper(sessionSweepInterval)
	})
	if err != nil {
		wg.Done()
		pool.Release()
		return nil, fmt.Errorf("failed to submit session sweeper: %w", err)
	}

	if rb == nil {
		logger.Warning.Println("No broker configured, order.created subscriber disabled")
		return pool, nil
	}

	sub, err := rabbitmq.NewSubscriber(ctx, rb, services.Payment.HandleOrderCreated, rabbitmq.DefaultSubscribeOptions(enum.ORDER_CREATED_QUEUE.ToString()))
	if err != nil {
		return pool, fmt.Errorf("failed to create order.created subscriber: %w", err)
	}

	wg.Add(1)
	err = pool.Submit(func() {
		defer wg.Done()
		if err := sub.Start(); err != nil {
			logger.Error.Printf("Failed to start order.created subscriber: %v\n", err)
			return
		}
		<-ctx.Done()
		if err := sub.Stop(); err != nil {
			logger.Error.Printf("Failed to stop order.created subscriber: %v\n", err)
		}
	})
	if err != nil {
		wg.Done()
		return pool, fmt.Errorf("failed to submit order.created subscriber: %w", err)
	}

	return pool, nil
}
