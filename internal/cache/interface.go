package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Service defines the interface for provider response storage
// External packages should use this interface, not the concrete implementations
//
// Get returns models.ErrCacheMiss when no live entry exists; any other error
// means the backend itself failed.
type Service interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, payload json.RawMessage, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// validateEntry rejects writes every backend refuses: a non-positive TTL or a non-JSON payload
func validateEntry(key string, payload json.RawMessage, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("TTL must be positive, got: %v", ttl)
	}
	if !json.Valid(payload) {
		return fmt.Errorf("refusing to cache invalid JSON payload for key %s", key)
	}
	return nil
}
