// Package cache is a small in-process result cache with a fixed TTL and a
// bound on the number of entries.
package cache

import (
	"sort"
	"sync"
	"time"
)

const (
	DefaultTTL        = 5 * time.Minute
	DefaultMaxEntries = 100
)

type entry[V any] struct {
	value     V
	timestamp time.Time
}

// Stats is a snapshot of the cache contents.
type Stats struct {
	Size      int       `json:"size"`
	Entries   []string  `json:"entries"`
	Timestamp time.Time `json:"timestamp"`
}

// Cache maps filter signatures to computed results. It is safe for
// concurrent use.
type Cache[V any] struct {
	mu         sync.Mutex
	entries    map[string]entry[V]
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

type Option func(*config)

type config struct {
	now func() time.Time
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

func New[V any](ttl time.Duration, maxEntries int, opts ...Option) *Cache[V] {
	cfg := config{now: time.Now}
	for _, o := range opts {
		o(&cfg)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache[V]{
		entries:    make(map[string]entry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        cfg.now,
	}
}

// Get returns the value stored under key and the time it was stored, if
// it is younger than the TTL.
func (c *Cache[V]) Get(key string) (V, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.timestamp) >= c.ttl {
		var zero V
		return zero, time.Time{}, false
	}
	return e.value, e.timestamp, true
}

// Set stores value under key, then evicts the oldest entries while the
// cache holds more than its maximum.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, timestamp: c.now()}
	if len(c.entries) <= c.maxEntries {
		return
	}

	keys := c.keysByAge()
	for _, k := range keys[:len(keys)-c.maxEntries] {
		delete(c.entries, k)
	}
}

// keysByAge lists keys oldest first; ties break on the key.
func (c *Cache[V]) keysByAge() []string {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ti, tj := c.entries[keys[i]].timestamp, c.entries[keys[j]].timestamp
		if ti.Equal(tj) {
			return keys[i] < keys[j]
		}
		return ti.Before(tj)
	})
	return keys
}

// Clear drops every entry and returns how many there were.
func (c *Cache[V]) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[string]entry[V])
	return n
}

// PurgeExpired drops entries past their TTL and returns how many it dropped.
func (c *Cache[V]) PurgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for k, e := range c.entries {
		if now.Sub(e.timestamp) >= c.ttl {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats lists the current keys in sorted order.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Stats{Size: len(keys), Entries: keys, Timestamp: c.now()}
}
