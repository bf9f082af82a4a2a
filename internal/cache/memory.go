package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"SEO_Analysis/internal/models"
)

// MemoryCache implements Service using in-memory storage
type MemoryCache struct {
	data  map[string]*cacheEntry
	mutex sync.RWMutex
	now   func() time.Time
}

// cacheEntry represents a single cache entry with expiration
type cacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() Service {
	return newMemoryCache(time.Now)
}

// newMemoryCache creates the concrete implementation
func newMemoryCache(now func() time.Time) *MemoryCache {
	return &MemoryCache{
		data: make(map[string]*cacheEntry),
		now:  now,
	}
}

// Get retrieves a cached payload for the given key.
// Expired entries are reported as misses but left in place until overwritten.
func (m *MemoryCache) Get(ctx context.Context, key string) (json.RawMessage, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	entry, exists := m.data[key]
	if !exists {
		return nil, models.ErrCacheMiss
	}

	if !m.now().Before(entry.expiresAt) {
		return nil, models.ErrCacheMiss
	}

	return cloneBytes(entry.payload), nil
}

// Set replaces any entry for key with the given payload
func (m *MemoryCache) Set(ctx context.Context, key string, payload json.RawMessage, ttl time.Duration) error {
	if err := validateEntry(key, payload, ttl); err != nil {
		return err
	}

	entry := &cacheEntry{
		payload:   cloneBytes(payload),
		expiresAt: m.now().Add(ttl),
	}

	m.mutex.Lock()
	m.data[key] = entry
	m.mutex.Unlock()

	return nil
}

// Delete removes an entry from the cache
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.data, key)
	return nil
}

// Close is a no-op for the in-memory backend
func (m *MemoryCache) Close() error {
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
