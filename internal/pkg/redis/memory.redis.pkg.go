package redis

import (
	"ecosync-hub/internal/pkg/helper"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory is an in-process IRedis for local runs without a redis server and for tests.
type Memory struct {
	mu   sync.Mutex
	data map[string]memoryEntry
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

func (m *Memory) Set(key string, value any, expiration time.Duration) error {
	data, err := helper.JSONToString(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = m.entry(data, expiration)
	return nil
}

func (m *Memory) SetNX(key string, value any, expiration time.Duration) (bool, error) {
	data, err := helper.JSONToString(value)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lookup(key); ok {
		return false, nil
	}
	m.data[key] = m.entry(data, expiration)
	return true, nil
}

func (m *Memory) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, _ := m.lookup(key)
	return e.value, nil
}

func (m *Memory) Del(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Expire(key string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.lookup(key); ok {
		m.data[key] = m.entry(e.value, expiration)
	}
	return nil
}

func (m *Memory) Ping() error { return nil }

func (m *Memory) Close() error { return nil }

func (m *Memory) entry(value string, expiration time.Duration) memoryEntry {
	e := memoryEntry{value: value}
	if expiration > 0 {
		e.expiresAt = m.now().Add(expiration)
	}
	return e
}

// lookup must be called with mu held.
func (m *Memory) lookup(key string) (memoryEntry, bool) {
	e, ok := m.data[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.data, key)
		return memoryEntry{}, false
	}
	return e, true
}
