package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_BurstThenDeny(t *testing.T) {
	lim := NewMemory(0.001, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := lim.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i+1)
	}
	ok, err := lim.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	// other keys have their own bucket
	ok, err = lim.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewRedis_WindowFitsBurst(t *testing.T) {
	lim := NewRedis(nil, 1, 10)
	assert.Equal(t, int64(10), lim.burst)
	assert.Equal(t, "10s", lim.window.String())

	lim = NewRedis(nil, 4, 10)
	assert.Equal(t, "3s", lim.window.String())
}

func TestMemory_KeepsNewBucket(t *testing.T) {
	lim := NewMemory(0.001, 1)
	ctx := context.Background()

	denied := 0
	for i := 0; i < 50; i++ {
		ok, err := lim.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		if !ok {
			denied++
		}
	}
	assert.Equal(t, 49, denied)
	assert.Len(t, lim.store, 1)
}

func TestMemory_EvictsIdleKeys(t *testing.T) {
	lim := NewMemory(0.001, 1)
	ctx := context.Background()

	_, err := lim.Allow(ctx, "stale")
	require.NoError(t, err)
	lim.store["stale"].updated = lim.store["stale"].updated.Add(-2 * lim.maxAge)

	_, err = lim.Allow(ctx, "fresh")
	require.NoError(t, err)
	assert.NotContains(t, lim.store, "stale")
	assert.Contains(t, lim.store, "fresh")
}
