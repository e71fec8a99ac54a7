package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, found, err := store.Lookup(ctx, "payments:1:abc")
	require.NoError(t, err)
	assert.False(t, found)

	reserved, err := store.Reserve(ctx, "payments:1:abc")
	require.NoError(t, err)
	assert.True(t, reserved)

	reserved, err = store.Reserve(ctx, "payments:1:abc")
	require.NoError(t, err)
	assert.False(t, reserved, "second reservation must lose")

	val, found, err := store.Lookup(ctx, "payments:1:abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, Pending, val)

	require.NoError(t, store.Complete(ctx, "payments:1:abc", "42"))
	val, _, err = store.Lookup(ctx, "payments:1:abc")
	require.NoError(t, err)
	assert.Equal(t, "42", val)

	reserved, err = store.Reserve(ctx, "payments:1:abc")
	require.NoError(t, err)
	assert.False(t, reserved, "completed keys stay held")

	reserved, err = store.Reserve(ctx, "payments:1:failed")
	require.NoError(t, err)
	require.True(t, reserved)
	require.NoError(t, store.Release(ctx, "payments:1:failed"))
	reserved, err = store.Reserve(ctx, "payments:1:failed")
	require.NoError(t, err)
	assert.True(t, reserved, "released keys can be retried")
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client, time.Hour)

	exerciseStore(t, store)

	mr.FastForward(2 * time.Hour)
	_, found, err := store.Lookup(context.Background(), "payments:1:abc")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(time.Hour))
}

func TestMemoryStoreExpires(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	reserved, err := store.Reserve(ctx, "k")
	require.NoError(t, err)
	assert.True(t, reserved)

	reserved, err = store.Reserve(ctx, "k")
	require.NoError(t, err)
	assert.False(t, reserved)

	now = now.Add(2 * time.Minute)
	_, found, err := store.Lookup(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	reserved, err = store.Reserve(ctx, "k")
	require.NoError(t, err)
	assert.True(t, reserved)
}
