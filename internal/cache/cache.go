// Package cache stores serialized inspection reports keyed by object key.
package cache

import (
	"context"
	"time"
)

// Cache is a read-through cache for report payloads.
type Cache interface {
	// Get returns the cached payload and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// NullCache always misses.
type NullCache struct{}

func (NullCache) Get(_ context.Context, _ string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Put(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil }
