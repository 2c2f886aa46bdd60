// Package cache provides the stores behind the oracle result cache: an
// in-memory LRU and a persistent SQLite table.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Stats contains cache statistics.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
	MaxSize   int
	Bytes     int64
}

// Config contains LRU configuration options.
type Config struct {
	// MaxEntries is the maximum number of entries (0 = unlimited).
	MaxEntries int

	// TTL is the time-to-live for entries (0 = no expiration).
	TTL time.Duration

	// OnEvict is called with the key of every entry dropped for capacity
	// or expiry.
	OnEvict func(key string)
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{MaxEntries: 64}
}

type lruEntry[V any] struct {
	key       string
	value     V
	size      int64
	expiresAt time.Time
}

// LRU is a thread-safe least-recently-used map keyed by string.
type LRU[V any] struct {
	mu      sync.Mutex
	config  Config
	sizeOf  func(V) int64
	entries map[string]*list.Element
	order   *list.List
	stats   Stats
	now     func() time.Time
}

// NewLRU creates an LRU. sizeOf may be nil; it is only used for Stats.Bytes.
func NewLRU[V any](config Config, sizeOf func(V) int64) *LRU[V] {
	if config.MaxEntries < 0 {
		config.MaxEntries = 0
	}
	return &LRU[V]{
		config:  config,
		sizeOf:  sizeOf,
		entries: make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

// Get returns the value for key and marks it recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}
	e := el.Value.(*lruEntry[V])
	if c.expired(e) {
		c.drop(el)
		c.stats.Misses++
		return zero, false
	}
	c.order.MoveToFront(el)
	c.stats.Hits++
	return e.value, true
}

// Put stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *LRU[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := c.measure(value)
	if el, ok := c.entries[key]; ok {
		e := el.Value.(*lruEntry[V])
		c.stats.Bytes += size - e.size
		e.value, e.size = value, size
		e.expiresAt = c.deadline()
		c.order.MoveToFront(el)
		return
	}

	e := &lruEntry[V]{key: key, value: value, size: size, expiresAt: c.deadline()}
	c.entries[key] = c.order.PushFront(e)
	c.stats.Bytes += size

	if c.config.MaxEntries > 0 && c.order.Len() > c.config.MaxEntries {
		if oldest := c.order.Back(); oldest != nil {
			c.drop(oldest)
			c.stats.Evictions++
		}
	}
}

// Stats returns a snapshot of the statistics.
func (c *LRU[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = c.order.Len()
	s.MaxSize = c.config.MaxEntries
	return s
}

func (c *LRU[V]) measure(v V) int64 {
	if c.sizeOf == nil {
		return 0
	}
	return c.sizeOf(v)
}

func (c *LRU[V]) deadline() time.Time {
	if c.config.TTL <= 0 {
		return time.Time{}
	}
	return c.now().Add(c.config.TTL)
}

func (c *LRU[V]) expired(e *lruEntry[V]) bool {
	return c.config.TTL > 0 && c.now().After(e.expiresAt)
}

func (c *LRU[V]) drop(el *list.Element) {
	e := el.Value.(*lruEntry[V])
	c.order.Remove(el)
	delete(c.entries, e.key)
	c.stats.Bytes -= e.size
	if c.config.OnEvict != nil {
		c.config.OnEvict(e.key)
	}
}
