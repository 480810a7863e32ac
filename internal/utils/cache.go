package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error inspection
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cache is a JSON read-through cache on Redis. A Cache with no client is a
// no-op, which is how the server runs without Redis.
type Cache struct {
	rdb *redis.Client // Redis client, may be nil
	ttl time.Duration // Lifetime of every entry
}

// NewCache wraps a Redis client
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Enabled reports whether a Redis client is attached
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get retrieves a value from Redis and unmarshals it into dest
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil // Nothing cached without Redis
	}
	val, err := c.rdb.Get(ctx, key).Bytes() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal(val, dest) // Unmarshal JSON into dest
}

// versionTTL outlives any read that started before an invalidation
const versionTTL = 24 * time.Hour

func versionKey(key string) string { return key + ":version" }

// Version returns the invalidation counter of key. Read it before loading the
// value that SetIfVersion will store.
func (c *Cache) Version(ctx context.Context, key string) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	v, err := c.rdb.Get(ctx, versionKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil // Never invalidated
	}
	return v, err
}

// SetIfVersion stores value only while key's counter still equals version, so
// a read that raced an invalidation cannot put the stale value back. It
// reports whether the value was stored.
func (c *Cache) SetIfVersion(ctx context.Context, key string, version int64, value any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return false, err
	}
	stored := false
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey(key)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil // Invalidated since the caller read
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, c.ttl)
			return nil
		})
		stored = err == nil
		return err
	}, versionKey(key))
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil // Invalidated between WATCH and EXEC
	}
	return stored, err
}

// Delete removes keys from Redis and bumps their versions
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...) // Delete keys from Redis
		for _, key := range keys {
			pipe.Incr(ctx, versionKey(key))
			pipe.Expire(ctx, versionKey(key), versionTTL)
		}
		return nil
	})
	return err
}
