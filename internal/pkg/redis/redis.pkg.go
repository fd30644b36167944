package redis

import (
	"context"
	"ecosync-hub/internal/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_redis "github.com/redis/go-redis/v9"
)

func Setup(ctx context.Context, config *Config) (*Client, error) {
	clientCtx, cancel := context.WithCancel(ctx)

	r := &Client{
		cancel: cancel,
		ctx:    clientCtx,
		config: config,
	}

	if err := r.connect(); err != nil {
		cancel()
		logger.Error.Println(err)
		return nil, err
	}

	go r.reconnectHandler()

	return r, nil
}

func (r *Client) connect() error {
	r.Client = _redis.NewClient(&_redis.Options{
		Addr:     fmt.Sprintf("%s:%d", r.config.Host, r.config.Port),
		Username: r.config.Username,
		Password: r.config.Password,
		PoolSize: r.config.PoolSize,
	})

	if err := r.Client.Ping(r.ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	return nil
}

func (r *Client) reconnectHandler() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			logger.Info.Println("Redis reconnect handler shutting down")
			return
		case <-ticker.C:
			if err := r.Client.Ping(r.ctx).Err(); err == nil {
				continue
			}

			logger.Warning.Println("Redis connection lost, reconnecting")
			for attempt := 1; ; attempt++ {
				if r.ctx.Err() != nil {
					return
				}
				old := r.Client
				if err := r.connect(); err == nil {
					_ = old.Close()
					logger.Info.Printf("Reconnected to redis after %d attempt(s)", attempt)
					break
				} else {
					logger.Warning.Printf("Redis reconnect attempt #%d failed: %v", attempt, err)
				}
				time.Sleep(time.Duration(min(attempt, 30)) * time.Second)
			}
		}
	}
}

// Close stops the reconnect handler and closes the pool.
func (r *Client) Close() error {
	r.cancel()
	return r.Client.Close()
}

func (r *Client) Ping() error {
	return r.Client.Ping(r.ctx).Err()
}

// Set stores a JSON-encoded value with an expiration time.
func (r *Client) Set(key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.Client.Set(r.ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// SetNX stores the value only when the key is absent and reports whether it did.
func (r *Client) SetNX(key string, value any, expiration time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	ok, err := r.Client.SetNX(r.ctx, key, data, expiration).Result()
	if err != nil {
		return false, fmt.Errorf("failed to setnx key %s: %w", key, err)
	}
	return ok, nil
}

// Get retrieves the raw value of a key; a missing key yields "" and no error.
func (r *Client) Get(key string) (string, error) {
	result, err := r.Client.Get(r.ctx, key).Result()
	if err != nil {
		if errors.Is(err, NilType) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return result, nil
}

func (r *Client) Del(key string) error {
	if err := r.Client.Del(r.ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (r *Client) Expire(key string, expiration time.Duration) error {
	if err := r.Client.Expire(r.ctx, key, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set expiration on key %s: %w", key, err)
	}
	return nil
}
