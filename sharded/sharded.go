// Package sharded wraps the single-goroutine LRU cache of package cache for
// concurrent use. Keys are hashed onto independent shards, each holding its
// own cache.Cache behind a mutex, so goroutines touching different shards
// never contend.
//
// Recency is tracked per shard: the entry evicted on overflow is the least
// recently used of its shard, not necessarily of the whole cache.
package sharded

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/IvanBrykalov/lrucache/cache"
	"github.com/IvanBrykalov/lrucache/internal/singleflight"
	"github.com/IvanBrykalov/lrucache/internal/util"
)

// Cache is a sharded LRU cache. All methods are safe for concurrent use.
type Cache[K comparable, V any] struct {
	shards []*shard[K, V]
	hash   func(K) uint64
	opt    Options[K, V]

	// singleflight group for coalescing concurrent loads in GetOrLoad.
	sf singleflight.Group[K, V]

	// ---- aggregated counters, fed by every shard's metrics hook ----
	hits      util.PaddedCounter
	misses    util.PaddedCounter
	evictions util.PaddedCounter
	entries   atomic.Int64
}

// shard is one partition: an engine cache and the lock that serializes it.
// Even Get mutates the engine (recency bump), so this is a plain Mutex.
type shard[K comparable, V any] struct {
	mu sync.Mutex
	c  cache.Cache[K, V]
	_  [util.CacheLineSize]byte
}

// Stats is a point-in-time snapshot of the cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64 // capacity-driven only
	Entries   int
}

// New constructs a sharded cache with the provided Options.
// It returns an error wrapping cache.ErrInvalidCapacity if Capacity <= 0.
func New[K comparable, V any](opt Options[K, V]) (*Cache[K, V], error) {
	if opt.Capacity <= 0 {
		return nil, fmt.Errorf("sharded: %w", cache.ErrInvalidCapacity)
	}
	if opt.Metrics == nil {
		opt.Metrics = cache.NoopMetrics{}
	}
	hash := opt.Hash
	if hash == nil {
		hash = util.Fnv64a[K] // fast non-crypto hash for sharding
	}

	n := util.ShardCount(opt.Shards)
	for n > 1 && n > opt.Capacity {
		n /= 2
	}
	perShard := util.PerShard(opt.Capacity, n)

	c := &Cache[K, V]{
		shards: make([]*shard[K, V], n),
		hash:   hash,
		opt:    opt,
	}
	for i := range c.shards {
		engineOpt := cache.Options[K, V]{
			Capacity: perShard,
			Metrics:  &shardMetrics[K, V]{parent: c},
		}
		if opt.OnEvict != nil {
			engineOpt.Listener = cache.EvictionListenerFunc[K, V](opt.OnEvict)
		}
		ec, err := cache.New(engineOpt)
		if err != nil {
			return nil, fmt.Errorf("sharded: shard %d: %w", i, err)
		}
		c.shards[i] = &shard[K, V]{c: ec}
	}
	return c, nil
}

// Get returns the value for k and promotes it within its shard.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	s := c.getShard(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Get(k)
}

// Peek returns the value for k without promoting it.
func (c *Cache[K, V]) Peek(k K) (V, bool) {
	s := c.getShard(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Peek(k)
}

// Contains reports whether k is resident.
func (c *Cache[K, V]) Contains(k K) bool {
	s := c.getShard(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Contains(k)
}

// Put inserts or updates k→v, evicting the shard's LRU entry when full.
func (c *Cache[K, V]) Put(k K, v V) {
	s := c.getShard(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Put(k, v)
}

// Evict removes k if present and reports whether it was.
func (c *Cache[K, V]) Evict(k K) bool {
	s := c.getShard(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Evict(k)
}

// EvictAll empties every shard, one at a time. Concurrent writers may
// repopulate shards that were already cleared.
func (c *Cache[K, V]) EvictAll() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.c.EvictAll()
		s.mu.Unlock()
	}
}

// Len returns the total number of resident entries across all shards.
func (c *Cache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.Lock()
		total += s.c.Len()
		s.mu.Unlock()
	}
	return total
}

// Capacity returns the effective entry limit: per-shard capacity times the
// shard count, which may round Options.Capacity up. It saturates at
// math.MaxInt.
func (c *Cache[K, V]) Capacity() int {
	per, n := c.shards[0].c.Capacity(), len(c.shards)
	if per > math.MaxInt/n {
		return math.MaxInt
	}
	return per * n
}

// Shards returns the number of shards in use.
func (c *Cache[K, V]) Shards() int { return len(c.shards) }

// Range calls fn for every entry, shard by shard, most recently used first
// within a shard, until fn returns false. Each shard is copied under its
// lock and fn runs unlocked, so fn may use the cache; it sees a snapshot
// per shard, not of the whole cache.
func (c *Cache[K, V]) Range(fn func(k K, v V) bool) {
	type kv struct {
		k K
		v V
	}
	var buf []kv
	for _, s := range c.shards {
		buf = buf[:0]
		s.mu.Lock()
		for k, v := range s.c.All() {
			buf = append(buf, kv{k, v})
		}
		s.mu.Unlock()

		for _, e := range buf {
			if !fn(e.k, e.v) {
				return
			}
		}
	}
}

// GetOrLoad returns the value for k; on miss it loads via Options.Loader,
// coalescing concurrent loads for the same key (singleflight).
// If no Loader is configured, returns ErrNoLoader.
//
// If the load panics, in Loader or in OnEvict while the result is stored,
// the panic propagates to the caller that ran it and every caller that
// joined the same load gets ErrLoadPanicked. A Loader panic caches nothing.
func (c *Cache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	// fast path
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		var zero V
		return zero, ErrNoLoader
	}

	v, _, err := c.sf.Do(ctx, k, func() (V, error) {
		// double-check after flight join
		if v, ok := c.Peek(k); ok {
			return v, nil
		}
		v, err := c.opt.Loader(ctx, k)
		if err == nil {
			c.Put(k, v)
		}
		return v, err
	})
	return v, err
}

// Stats returns a snapshot of the counters.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Entries:   int(c.entries.Load()),
	}
}

// getShard picks a shard by hashing the key.
func (c *Cache[K, V]) getShard(k K) *shard[K, V] {
	return c.shards[util.ShardIndex(c.hash(k), len(c.shards))]
}

// shardMetrics is installed in every shard's engine. It feeds the
// aggregated counters and forwards to Options.Metrics with cache-wide
// sizes. Calls arrive under the owning shard's lock.
type shardMetrics[K comparable, V any] struct {
	parent *Cache[K, V]
	last   int // last size reported by this shard
}

func (m *shardMetrics[K, V]) Hit() {
	m.parent.hits.Add(1)
	m.parent.opt.Metrics.Hit()
}

func (m *shardMetrics[K, V]) Miss() {
	m.parent.misses.Add(1)
	m.parent.opt.Metrics.Miss()
}

func (m *shardMetrics[K, V]) Evict(r cache.EvictReason, n int) {
	if r == cache.EvictCapacity {
		m.parent.evictions.Add(uint64(n))
	}
	m.parent.opt.Metrics.Evict(r, n)
}

func (m *shardMetrics[K, V]) Size(entries int) {
	total := m.parent.entries.Add(int64(entries - m.last))
	m.last = entries
	m.parent.opt.Metrics.Size(int(total))
}

var _ cache.Metrics = (*shardMetrics[string, int])(nil)
