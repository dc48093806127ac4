// Package cache is the cache-aside store used by the resource services.
// Entries carry no TTL by default; writes invalidate explicitly.
package cache

import (
	"context"
	"errors"
)

var ErrCacheMiss = errors.New("cache: key not found")

type Store interface {
	// Get returns the cached value or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}
