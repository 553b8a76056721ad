package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs the cache with a Redis server, for deployments running more
// than one app instance behind a load balancer.
type Redis struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
	closed     atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	URL            string        // connection URL, e.g. redis://localhost:6379/0
	Prefix         string        // prepended to every key, e.g. "backstyle:"
	DefaultTTL     time.Duration // expiry used when Set receives ttl == 0
	ConnectTimeout time.Duration
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(opts RedisOptions) (*Redis, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.DefaultTTL == 0 {
		opts.DefaultTTL = time.Hour
	}

	parsed, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(parsed)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Redis{
		client:     client,
		prefix:     opts.Prefix,
		defaultTTL: opts.DefaultTTL,
	}, nil
}

func (c *Redis) guard() error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return nil
}

func (c *Redis) key(key string) string {
	return c.prefix + key
}

// Get returns the value for key, or ErrCacheMiss.
func (c *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}

	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.misses.Add(1)
		return nil, ErrCacheMiss
	case err != nil:
		return nil, err
	}
	c.hits.Add(1)
	return val, nil
}

// Set stores value under key; ttl == 0 means the default TTL.
func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.guard(); err != nil {
		return err
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return err
	}
	c.sets.Add(1)
	return nil
}

// Delete removes a single key.
func (c *Redis) Delete(ctx context.Context, key string) error {
	if err := c.guard(); err != nil {
		return err
	}
	return c.client.Del(ctx, c.key(key)).Err()
}

// DeleteByPrefix removes every key under the given prefix. Implemented
// with SCAN rather than KEYS so it never blocks the server.
func (c *Redis) DeleteByPrefix(ctx context.Context, prefix string) error {
	if err := c.guard(); err != nil {
		return err
	}
	return c.scanDelete(ctx, c.prefix+prefix+"*")
}

// Clear removes every key this cache owns.
func (c *Redis) Clear(ctx context.Context) error {
	if err := c.guard(); err != nil {
		return err
	}
	return c.scanDelete(ctx, c.prefix+"*")
}

func (c *Redis) scanDelete(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if cursor = next; cursor == 0 {
			return nil
		}
	}
}

// Ping reports whether the Redis connection is healthy.
func (c *Redis) Ping(ctx context.Context) error {
	if err := c.guard(); err != nil {
		return err
	}
	return c.client.Ping(ctx).Err()
}

// Close shuts the connection down; subsequent calls are no-ops.
func (c *Redis) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		return c.client.Close()
	}
	return nil
}

// Stats reports locally tracked counters, not server-wide Redis stats.
func (c *Redis) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Sets:   c.sets.Load(),
	}
}

var (
	_ Cacher        = (*Redis)(nil)
	_ StatsProvider = (*Redis)(nil)
)
