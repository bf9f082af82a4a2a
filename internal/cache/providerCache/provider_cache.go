package providerCache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"SEO_Analysis/internal/cache"
	"SEO_Analysis/internal/logger"
	"SEO_Analysis/internal/models"
)

// DefaultTTL is how long provider responses stay fresh
const DefaultTTL = 24 * time.Hour

type providerCache struct {
	cache  cache.Service
	logger logger.Service
	ttl    time.Duration
}

// New wraps a cache backend; ttl <= 0 selects DefaultTTL
func New(backend cache.Service, logger logger.Service, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &providerCache{
		cache:  backend,
		logger: logger,
		ttl:    ttl,
	}
}

// Key fingerprints (endpoint, params)
func (p *providerCache) Key(endpoint string, params interface{}) (string, error) {
	return cache.ComputeKey(endpoint, params)
}

// Get returns the live payload for key. Backend failures degrade to a miss.
func (p *providerCache) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	payload, err := p.cache.Get(ctx, key)
	if err == nil {
		return payload, true
	}

	if !errors.Is(err, models.ErrCacheMiss) {
		p.logger.LogError(ctx, logger.OpCacheError, key, "Cache read failed, treating as miss", err, models.LogSeverityLow, nil)
	}
	return nil, false
}

// Put stores payload under key; ttl 0 uses the configured default.
// A failed write is logged and otherwise ignored.
func (p *providerCache) Put(ctx context.Context, key string, payload json.RawMessage, ttl time.Duration) {
	if ttl == 0 {
		ttl = p.ttl
	}

	if err := p.cache.Set(ctx, key, payload, ttl); err != nil {
		p.logger.LogError(ctx, logger.OpCacheError, key, "Cache write failed", err, models.LogSeverityLow, map[string]interface{}{
			"ttl_seconds": ttl.Seconds(),
		})
	}
}

// Invalidate drops the entry for key. Failures are logged only.
func (p *providerCache) Invalidate(ctx context.Context, key string) {
	if err := p.cache.Delete(ctx, key); err != nil {
		p.logger.LogError(ctx, logger.OpCacheError, key, "Cache delete failed", err, models.LogSeverityLow, nil)
	}
}
