package providerCache

import (
	"context"
	"encoding/json"
	"time"
)

// Service defines provider response caching as seen by the Provider Client.
// It never fails: backend errors are logged and reported as misses.
type Service interface {
	Key(endpoint string, params interface{}) (string, error)
	Get(ctx context.Context, key string) (json.RawMessage, bool)
	Put(ctx context.Context, key string, payload json.RawMessage, ttl time.Duration)
	Invalidate(ctx context.Context, key string)
}
