// Package cache is the read-through cache every source call site consults.
// Entries are stored encoded so callers always receive their own copy.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultMetadataTTL applies to book lists and collection info.
	DefaultMetadataTTL = 12 * time.Hour
	// DefaultContentTTL applies to hadith pages and search results.
	DefaultContentTTL = time.Hour
	// DefaultSweepInterval bounds how often Set runs SweepExpired.
	DefaultSweepInterval = 10 * time.Minute
)

// Class selects the TTL an entry is stored under.
type Class int

const (
	Content Class = iota
	Metadata
)

func (c Class) String() string {
	if c == Metadata {
		return "metadata"
	}
	return "content"
}

// FetchFunc represents a function that fetches data from an upstream source
type FetchFunc[T any] func() (T, error)

type entry struct {
	value    []byte
	storedAt time.Time
	class    Class
}

// Stats is a point-in-time view of cache effectiveness.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Cache is a key -> (value, storedAt) map with two TTL classes. There is no
// size-based eviction: entries live until they expire and are swept.
type Cache struct {
	mu            sync.RWMutex
	entries       map[string]entry
	ttl           [2]time.Duration
	sweepInterval time.Duration
	lastSweep     time.Time
	now           func() time.Time
	logger        *slog.Logger

	flight singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

// Option is a functional option for configuring the Cache.
type Option func(*Cache)

// WithTTL sets the lifetime of one class. Non-positive values are ignored.
func WithTTL(class Class, ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl[class] = ttl
		}
	}
}

// WithSweepInterval sets how often Set opportunistically sweeps.
func WithSweepInterval(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.sweepInterval = d
		}
	}
}

// WithClock injects the time source used for TTL checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger used for hit/miss debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:       make(map[string]entry),
		ttl:           [2]time.Duration{Content: DefaultContentTTL, Metadata: DefaultMetadataTTL},
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lastSweep = c.now()
	return c
}

// Key joins parts into a cache key. Nil pointers and empty strings become "-"
// so that "no book" and "book 0" never collide.
func Key(parts ...any) string {
	out := make([]string, len(parts))
	for i, p := range parts {
		switch v := p.(type) {
		case nil:
			out[i] = "-"
		case string:
			if v == "" {
				out[i] = "-"
			} else {
				out[i] = v
			}
		case *int:
			if v == nil {
				out[i] = "-"
			} else {
				out[i] = fmt.Sprint(*v)
			}
		case fmt.Stringer:
			out[i] = v.String()
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(out, ":")
}

// Get returns a copy of the value stored under key. Expired entries are
// removed and reported as absent.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	if c.expired(e) {
		c.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the entry.
		if cur, still := c.entries[key]; still && c.expired(cur) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		c.misses.Add(1)
		c.logger.Debug("Cache expired", "key", key, "class", e.class, "age", c.now().Sub(e.storedAt))
		return nil, false
	}

	c.hits.Add(1)
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true
}

// Set stores a copy of value under key with the lifetime of class.
// Concurrent writers of the same key are last-writer-wins.
func (c *Cache) Set(key string, class Class, value []byte) {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = entry{value: stored, storedAt: now, class: class}

	if now.Sub(c.lastSweep) >= c.sweepInterval {
		removed := c.sweepLocked(now)
		if removed > 0 {
			c.logger.Debug("Cache swept", "removed", removed)
		}
	}
}

// SweepExpired removes every expired entry and returns how many were dropped.
// Expiry is also detected lazily on Get, so sweeping only bounds memory.
func (c *Cache) SweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked(c.now())
}

func (c *Cache) sweepLocked(now time.Time) int {
	removed := 0
	for k, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl[e.class] {
			delete(c.entries, k)
			removed++
		}
	}
	c.lastSweep = now
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit/miss counters and the current entry count.
func (c *Cache) Stats() Stats {
	return Stats{Entries: c.Len(), Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func (c *Cache) expired(e entry) bool {
	return c.now().Sub(e.storedAt) > c.ttl[e.class]
}

// GetOrFetch retrieves data from cache or fetches it using the provided function.
// The boolean reports whether the value came from cache. A nil cache fetches directly.
func GetOrFetch[T any](c *Cache, key string, class Class, fetch FetchFunc[T]) (T, bool, error) {
	return GetOrFetchWithPolicy(c, key, class, fetch, nil)
}

// GetOrFetchWithPolicy is GetOrFetch with control over whether a fetched value
// is stored. If shouldCache is nil, all fetched values are cached. Concurrent
// misses on the same key share one fetch; each caller still decodes its own copy.
func GetOrFetchWithPolicy[T any](c *Cache, key string, class Class, fetch FetchFunc[T], shouldCache func(T) bool) (T, bool, error) {
	var zero T

	if c == nil {
		data, err := fetch()
		return data, false, err
	}

	if cached, ok := c.Get(key); ok {
		var result T
		err := json.Unmarshal(cached, &result)
		if err == nil {
			c.logger.Debug("Cache hit", "key", key)
			return result, true, nil
		}
		c.logger.Warn("Failed to unmarshal cached data, will refetch", "key", key, "error", err)
	}

	c.logger.Debug("Cache miss, fetching data", "key", key)
	raw, err, _ := c.flight.Do(key, func() (any, error) {
		data, err := fetch()
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal data for caching: %w", err)
		}
		if shouldCache == nil || shouldCache(data) {
			c.Set(key, class, encoded)
		} else {
			c.logger.Debug("Skipping cache store per policy", "key", key)
		}
		return encoded, nil
	})
	if err != nil {
		return zero, false, err
	}

	var result T
	if err := json.Unmarshal(raw.([]byte), &result); err != nil {
		return zero, false, fmt.Errorf("failed to decode fetched data: %w", err)
	}
	return result, false, nil
}
