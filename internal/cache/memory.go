package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type memoryStore struct {
	c *gocache.Cache
}

// NewMemory returns an in-process Store. go-cache is safe for concurrent
// get/set/delete. Used in development and tests.
func NewMemory() Store {
	return &memoryStore{c: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, ErrCacheMiss
	}
	return b, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte) error {
	s.c.Set(key, value, gocache.NoExpiration)
	return nil
}

func (s *memoryStore) Del(_ context.Context, key string) error {
	s.c.Delete(key)
	return nil
}
