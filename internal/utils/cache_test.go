package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCache(rdb, time.Minute), mr
}

type cachedCouple struct {
	ID      uint `json:"id"`
	UserAID uint `json:"user_a_id"`
}

func TestCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := CoupleKey(1)

	var dest cachedCouple
	found, err := c.Get(ctx, key, &dest)
	require.NoError(t, err)
	assert.False(t, found)

	version, err := c.Version(ctx, key)
	require.NoError(t, err)
	stored, err := c.SetIfVersion(ctx, key, version, cachedCouple{ID: 3, UserAID: 1})
	require.NoError(t, err)
	assert.True(t, stored)
	assert.Equal(t, time.Minute, mr.TTL(key))

	found, err = c.Get(ctx, key, &dest)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedCouple{ID: 3, UserAID: 1}, dest)

	require.NoError(t, c.Delete(ctx, key))
	found, err = c.Get(ctx, key, &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheSkipsWriteAfterInvalidation(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	key := ActiveInviteKey(7)

	// A reader takes the version and loads the old value...
	version, err := c.Version(ctx, key)
	require.NoError(t, err)
	// ...a redeem invalidates the key...
	require.NoError(t, c.Delete(ctx, key))
	// ...and the reader's write-back is dropped
	stored, err := c.SetIfVersion(ctx, key, version, "stale")
	require.NoError(t, err)
	assert.False(t, stored)

	var dest string
	found, err := c.Get(ctx, key, &dest)
	require.NoError(t, err)
	assert.False(t, found)

	// The next reader sees the new version and may cache again
	version, err = c.Version(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	stored, err = c.SetIfVersion(ctx, key, version, "fresh")
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestCacheWithoutRedis(t *testing.T) {
	c := NewCache(nil, time.Minute)
	ctx := context.Background()
	assert.False(t, c.Enabled())

	version, err := c.Version(ctx, "k")
	require.NoError(t, err)
	stored, err := c.SetIfVersion(ctx, "k", version, map[string]int{"a": 1})
	require.NoError(t, err)
	assert.False(t, stored)
	var dest map[string]int
	found, err := c.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "couple:user:42", CoupleKey(42))
	assert.Equal(t, "invite:active:user:7", ActiveInviteKey(7))
}
