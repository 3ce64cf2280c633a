package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"resume-ats/internal/shared/telemetry"
)

// Options configures a Tiered cache.
type Options struct {
	// RedisURL enables the L2 tier. Empty disables it.
	RedisURL        string
	TTL             time.Duration
	MaxEntries      int
	CleanupInterval time.Duration
}

// Tiered is a two-level cache: L1 in process memory, L2 in Redis. L1 is lost
// on restart; L2 survives it. A nil *Tiered is a valid cache that always misses.
type Tiered struct {
	l1         sync.Map // key -> *entry
	rdb        *redis.Client
	ttl        time.Duration
	maxEntries int

	hits   atomic.Int64
	misses atomic.Int64

	stop     chan struct{}
	stopOnce sync.Once
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// New builds the cache and starts the L1 cleanup loop. An unreachable Redis
// only disables L2.
func New(ctx context.Context, opts Options) *Tiered {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	c := &Tiered{ttl: ttl, maxEntries: opts.MaxEntries, stop: make(chan struct{})}

	if opts.RedisURL != "" {
		ropts, err := redis.ParseURL(opts.RedisURL)
		if err != nil {
			telemetry.Warn("cache.redis_url_invalid", map[string]any{"err": err})
		} else {
			rdb := redis.NewClient(ropts)
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := rdb.Ping(pingCtx).Err(); err != nil {
				telemetry.Warn("cache.redis_unreachable", map[string]any{"err": err, "addr": ropts.Addr})
				_ = rdb.Close()
			} else {
				c.rdb = rdb
			}
		}
	}

	telemetry.Info("cache.initialized", map[string]any{
		"ttl":         ttl.String(),
		"redis":       c.rdb != nil,
		"max_entries": opts.MaxEntries,
	})

	go c.cleanupLoop(opts.CleanupInterval)
	return c
}

// Key builds a deterministic key: prefix + ":" + hex sha256 of the joined parts.
func Key(prefix string, parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{'|'})
		}
		h.Write([]byte(p))
	}
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// Get tries L1, then L2. An L2 hit repopulates L1.
func (c *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	if val, ok := c.l1.Load(key); ok {
		e := val.(*entry)
		if time.Now().Before(e.expiresAt) {
			c.hits.Add(1)
			return e.data, true
		}
		c.l1.Delete(key)
	}

	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			c.hits.Add(1)
			c.l1.Store(key, &entry{data: data, expiresAt: time.Now().Add(c.ttl)})
			return data, true
		}
		if !errors.Is(err, redis.Nil) {
			telemetry.Debug("cache.l2_get_failed", map[string]any{"err": err})
		}
	}

	c.misses.Add(1)
	return nil, false
}

// Set stores data in both tiers.
func (c *Tiered) Set(ctx context.Context, key string, data []byte) {
	if c == nil {
		return
	}
	c.evictIfNeeded()
	c.l1.Store(key, &entry{data: data, expiresAt: time.Now().Add(c.ttl)})

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			telemetry.Debug("cache.l2_set_failed", map[string]any{"err": err})
		}
	}
}

// Stats returns hit and miss counters.
func (c *Tiered) Stats() (hits, misses int64) {
	if c == nil {
		return 0, 0
	}
	return c.hits.Load(), c.misses.Load()
}

// RedisEnabled reports whether the L2 tier is connected.
func (c *Tiered) RedisEnabled() bool {
	return c != nil && c.rdb != nil
}

// Close stops the cleanup loop and closes the Redis client.
func (c *Tiered) Close() error {
	if c == nil {
		return nil
	}
	c.stopOnce.Do(func() { close(c.stop) })
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Store is the byte-level cache the JSON helpers work over. *Tiered
// implements it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
}

// LoadJSON decodes a cached value of type T. Misses and decode errors both
// report false.
func LoadJSON[T any](ctx context.Context, c Store, key string) (T, bool) {
	var out T
	data, ok := c.Get(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		telemetry.Warn("cache.decode_failed", map[string]any{"key": key, "error": err.Error()})
		var zero T
		return zero, false
	}
	return out, true
}

// StoreJSON encodes v and stores it.
func StoreJSON[T any](ctx context.Context, c Store, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.Set(ctx, key, data)
}

// evictIfNeeded drops expired entries, then the oldest ones, until L1 is
// below maxEntries.
func (c *Tiered) evictIfNeeded() {
	if c.maxEntries <= 0 {
		return
	}
	count := 0
	c.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count < c.maxEntries {
		return
	}

	now := time.Now()
	c.l1.Range(func(key, val any) bool {
		if e, ok := val.(*entry); ok && now.After(e.expiresAt) {
			c.l1.Delete(key)
			count--
		}
		return count >= c.maxEntries
	})

	for count >= c.maxEntries {
		var oldestKey any
		oldestAt := now.Add(c.ttl + time.Hour)
		c.l1.Range(func(key, val any) bool {
			// expiry = insertion + ttl, so the earliest expiry is the oldest entry
			if e, ok := val.(*entry); ok && e.expiresAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = e.expiresAt
			}
			return true
		})
		if oldestKey == nil {
			return
		}
		c.l1.Delete(oldestKey)
		count--
	}
}

func (c *Tiered) cleanupLoop(interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now()
			c.l1.Range(func(key, val any) bool {
				if e, ok := val.(*entry); ok && now.After(e.expiresAt) {
					c.l1.Delete(key)
				}
				return true
			})
		}
	}
}
