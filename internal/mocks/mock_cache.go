package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCache is a mock implementation of cache.Service
type MockCache struct {
	mock.Mock
}

// Get mocks the Get method of cache.Service
func (m *MockCache) Get(ctx context.Context, key string) (json.RawMessage, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// Set mocks the Set method of cache.Service
func (m *MockCache) Set(ctx context.Context, key string, payload json.RawMessage, ttl time.Duration) error {
	args := m.Called(ctx, key, payload, ttl)
	return args.Error(0)
}

// Delete mocks the Delete method of cache.Service
func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Close mocks the Close method of cache.Service
func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
