package s3aws

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Is3 used by tests and local runs without a bucket.
type Memory struct {
	mu      sync.RWMutex
	Bucket  string
	Objects map[string][]byte
}

func NewMemory(bucket string) *Memory {
	return &Memory{Bucket: bucket, Objects: map[string][]byte{}}
}

func (m *Memory) GetBucketName() string {
	return m.Bucket
}

func (m *Memory) UploadFile(_ context.Context, key string, fileBytes []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = append([]byte(nil), fileBytes...)
	return nil
}

func (m *Memory) GetPresignedURL(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.Objects[key]; !ok {
		return "", fmt.Errorf("object %s not found", key)
	}
	return fmt.Sprintf("memory://%s/%s", m.Bucket, key), nil
}

// Object returns a copy of the stored bytes for key.
func (m *Memory) Object(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.Objects[key]
	return append([]byte(nil), b...), ok
}
