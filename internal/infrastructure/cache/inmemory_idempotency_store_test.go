package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_Reserve(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	t.Run("first reservation wins", func(t *testing.T) {
		ok, err := store.Reserve(ctx, "purchase:create:k1", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Reserve(ctx, "purchase:create:k1", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired reservation can be taken again", func(t *testing.T) {
		clock := time.Now()
		store.now = func() time.Time { return clock }
		defer func() { store.now = time.Now }()

		ok, err := store.Reserve(ctx, "k2", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		clock = clock.Add(59 * time.Second)
		ok, err = store.Reserve(ctx, "k2", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)

		clock = clock.Add(time.Second)
		ok, err = store.Reserve(ctx, "k2", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("release frees the key", func(t *testing.T) {
		_, err := store.Reserve(ctx, "k3", time.Hour)
		require.NoError(t, err)
		require.NoError(t, store.Release(ctx, "k3"))

		ok, err := store.Reserve(ctx, "k3", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestInMemoryIdempotencyStore_ConcurrentReservations(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	var winners int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.Reserve(context.Background(), "same-key", time.Hour)
			assert.NoError(t, err)
			if ok {
				atomic.AddInt32(&winners, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners)
}

func TestInMemoryIdempotencyStore_Sweeper(t *testing.T) {
	store := newInMemoryIdempotencyStore(5 * time.Millisecond)
	defer store.Close()

	_, err := store.Reserve(context.Background(), "short", time.Millisecond)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
