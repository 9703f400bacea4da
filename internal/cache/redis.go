package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"weatherfetcher/internal/weather"
)

// Redis is a record cache backed by a Redis instance. Values are stored as
// JSON with a server-side TTL, so expiry needs no sweeping on our side.
// Suitable when several instances should share one cache.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis connects to the Redis at url and verifies it with a ping.
func NewRedis(url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Redis{rdb: rdb, ttl: ttl}, nil
}

// NewRedisWithClient wraps an existing client. Used by tests.
func NewRedisWithClient(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

// Close releases the underlying connection pool.
func (c *Redis) Close() error {
	return c.rdb.Close()
}

// Get returns the live record for key, or absent once the TTL has lapsed.
func (c *Redis) Get(ctx context.Context, key string) (weather.Record, bool, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return weather.Record{}, false, nil
	}
	if err != nil {
		return weather.Record{}, false, err
	}

	var rec weather.Record
	if err := json.Unmarshal(val, &rec); err != nil {
		return weather.Record{}, false, err
	}
	return rec, true, nil
}

// Put stores rec under key with the configured TTL, overwriting any
// existing entry.
func (c *Redis) Put(ctx context.Context, key string, rec weather.Record) error {
	bytes, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, bytes, c.ttl).Err()
}
