package cache

import (
	"context"
	"time"
)

// NullCache reports a miss for every key and discards every write. It backs
// the --no-cache flag and keeps the pipeline's cache plumbing unconditional:
// a Runner always has a Cache, and with a NullCache every layout and artifact
// is simply recomputed.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache creates a cache that never stores anything.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always misses.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the entry.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete is a no-op; there is never anything to delete.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close is a no-op.
func (c *NullCache) Close() error {
	return nil
}
