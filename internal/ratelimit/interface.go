package ratelimit

import "context"

// Service defines the interface for rate limiting.
// key is the client IP for inbound limiting and the provider endpoint for outbound throttling.
type Service interface {
	Allow(key string) bool
	Wait(ctx context.Context, key string) error
}
