package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	_redis "github.com/redis/go-redis/v9"
)

// NilType is returned by go-redis when a key does not exist.
var NilType = _redis.Nil

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	PoolSize int
}

type Client struct {
	*_redis.Client
	ctx    context.Context
	cancel context.CancelFunc
	config *Config
}

// IRedis is the subset of redis the services depend on. Values are stored as JSON.
type IRedis interface {
	Set(key string, value any, expiration time.Duration) error
	SetNX(key string, value any, expiration time.Duration) (bool, error)
	Get(key string) (string, error)
	Del(key string) error
	Expire(key string, expiration time.Duration) error
	Ping() error
	Close() error
}

// GetJSON decodes the value stored under key into out and reports whether the key existed.
func GetJSON(r IRedis, key string, out any) (bool, error) {
	raw, err := r.Get(key)
	if err != nil {
		return false, err
	}
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("failed to decode key %s: %w", key, err)
	}
	return true, nil
}
