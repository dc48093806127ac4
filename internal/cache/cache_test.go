package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetDel(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_, err := store.Get(ctx, "user_1")
	require.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, store.Set(ctx, "user_1", []byte(`{"id":1}`)))

	got, err := store.Get(ctx, "user_1")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"id":1}`), got)

	require.NoError(t, store.Del(ctx, "user_1"))

	_, err = store.Get(ctx, "user_1")
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryOverwrite(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "product_3", []byte("old")))
	require.NoError(t, store.Set(ctx, "product_3", []byte("new")))

	got, err := store.Get(ctx, "product_3")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), got)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Set(ctx, "shared", []byte("v"))
			_, _ = store.Get(ctx, "shared")
			_ = store.Del(ctx, "shared")
		}()
	}
	wg.Wait()
}
