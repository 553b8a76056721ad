package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Key prefixes for cached content areas. Invalidation happens per area so
// an edit to one section never flushes the whole cache.
const (
	KeyPrefixNews     = "news:"
	KeyPrefixJudges   = "judges:"
	KeyPrefixPrizes   = "prizes:"
	KeyPrefixSponsors = "sponsors:"
	KeyPrefixFAQ      = "faq:"
	KeyPrefixEntries  = "entries:"
	KeyPrefixSettings = "settings:"
)

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// RedisURL enables the Redis backend when non-empty.
	RedisURL string
	// Prefix is prepended to all Redis keys.
	Prefix string
	// DefaultTTL is the expiration applied when callers pass a zero TTL.
	DefaultTTL time.Duration
	// MaxSize limits the in-memory backend entry count.
	MaxSize int
	// Log receives backend selection and fallback notices.
	Log *slog.Logger
}

// Manager wraps a cache backend with JSON helpers and per-area
// invalidation for the contest content handlers.
type Manager struct {
	backend Cacher
	ttl     time.Duration
	log     *slog.Logger
}

// NewManager selects a backend and returns a Manager. When a Redis URL is
// configured but unreachable, it logs a warning and falls back to the
// in-memory backend rather than failing startup.
func NewManager(opts ManagerOptions) *Manager {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	ttl := opts.DefaultTTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}

	if opts.RedisURL != "" {
		backend, err := NewRedis(RedisOptions{
			URL:        opts.RedisURL,
			Prefix:     opts.Prefix,
			DefaultTTL: ttl,
		})
		if err == nil {
			log.Info("cache backend: redis", "prefix", opts.Prefix)
			return &Manager{backend: backend, ttl: ttl, log: log}
		}
		log.Warn("redis unavailable, falling back to memory cache", "error", err)
	}

	backend := NewMemory(MemoryOptions{
		DefaultTTL:      ttl,
		MaxSize:         opts.MaxSize,
		CleanupInterval: time.Minute,
	})
	log.Info("cache backend: memory", "max_size", opts.MaxSize)
	return &Manager{backend: backend, ttl: ttl, log: log}
}

// NewManagerWithBackend wraps an existing backend; used by tests.
func NewManagerWithBackend(backend Cacher, ttl time.Duration, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{backend: backend, ttl: ttl, log: log}
}

// GetJSON loads a cached value into dest. Returns ErrCacheMiss when absent.
func (m *Manager) GetJSON(ctx context.Context, key string, dest any) error {
	data, err := m.backend.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// A corrupt entry behaves like a miss after eviction.
		_ = m.backend.Delete(ctx, key)
		return ErrCacheMiss
	}
	return nil
}

// SetJSON stores a value serialized as JSON with the default TTL.
func (m *Manager) SetJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling cache value: %w", err)
	}
	return m.backend.Set(ctx, key, data, m.ttl)
}

// Invalidate removes all cached values for a content area prefix.
func (m *Manager) Invalidate(ctx context.Context, prefix string) {
	if err := m.backend.DeleteByPrefix(ctx, prefix); err != nil {
		m.log.Warn("cache invalidation failed", "prefix", prefix, "error", err)
	}
}

// Clear removes all cached values.
func (m *Manager) Clear(ctx context.Context) error {
	return m.backend.Clear(ctx)
}

// Stats reports backend statistics when the backend tracks them.
func (m *Manager) Stats() (Stats, bool) {
	if sp, ok := m.backend.(StatsProvider); ok {
		return sp.Stats(), true
	}
	return Stats{}, false
}

// Close releases the underlying backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
