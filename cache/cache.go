package cache

import (
	"fmt"
	"iter"
	"strings"
)

// cache is an LRU cache built from a map index and an arena-backed
// recency list (head=MRU, tail=LRU). Index and list are updated together
// by every mutating method.
type cache[K comparable, V any] struct {
	index map[K]handle
	list  *recencyList[K, V]
	cap   int

	listener EvictionListener[K, V]
	metrics  Metrics

	// gen is bumped on every structural mutation; iterators compare
	// against it to fail fast.
	gen       uint64
	readsKeep bool
}

// New constructs a cache with the provided Options.
// Defaults:
//   - nil Metrics -> NoopMetrics
//
// It returns ErrInvalidCapacity if opt.Capacity <= 0.
func New[K comparable, V any](opt Options[K, V]) (Cache[K, V], error) {
	if opt.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}

	// return pointer-to-impl as the interface (avoids unexported-return lint)
	return &cache[K, V]{
		index:     make(map[K]handle, sizeHint(opt.Capacity)),
		list:      newRecencyList[K, V](opt.Capacity),
		cap:       opt.Capacity,
		listener:  opt.Listener,
		metrics:   opt.Metrics,
		readsKeep: opt.ReadsKeepIterators,
	}, nil
}

// MustNew is like New but panics on invalid Options.
// Handy for package-level caches with static configuration.
func MustNew[K comparable, V any](opt Options[K, V]) Cache[K, V] {
	c, err := New(opt)
	if err != nil {
		panic(err)
	}
	return c
}

// ---- Cache[K,V] implementation ----

func (c *cache[K, V]) Get(k K) (V, bool) {
	h, ok := c.index[k]
	if !ok {
		c.metrics.Miss()
		var zero V
		return zero, false
	}
	c.list.touch(h)
	if !c.readsKeep {
		c.gen++
	}
	c.metrics.Hit()
	return c.list.at(h).val, true
}

func (c *cache[K, V]) Peek(k K) (V, bool) {
	h, ok := c.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	return c.list.at(h).val, true
}

func (c *cache[K, V]) Contains(k K) bool {
	_, ok := c.index[k]
	return ok
}

func (c *cache[K, V]) Put(k K, v V) {
	c.gen++

	if h, ok := c.index[k]; ok {
		// In-place update: size is unchanged.
		c.list.at(h).val = v
		c.list.touch(h)
		return
	}

	h := c.list.alloc(k, v)
	c.list.offerFront(h)
	c.index[k] = h
	if c.list.len <= c.cap {
		c.metrics.Size(c.list.len)
		return
	}

	// Over capacity: drop the LRU entry. The listener runs last so it
	// never observes the evicted entry as resident.
	tail, _ := c.list.pollBack()
	ek, ev := c.list.at(tail).key, c.list.at(tail).val
	delete(c.index, ek)
	c.list.release(tail)
	c.metrics.Evict(EvictCapacity, 1)
	c.metrics.Size(c.list.len)
	if c.listener != nil {
		c.listener.OnEvict(ek, ev)
	}
}

func (c *cache[K, V]) Evict(k K) bool {
	if !c.evict(k) {
		return false
	}
	c.metrics.Evict(EvictManual, 1)
	c.metrics.Size(c.list.len)
	return true
}

// evict unlinks k without notifying anyone. Shared by Evict and
// Iterator.RemoveCurrent.
func (c *cache[K, V]) evict(k K) bool {
	h, ok := c.index[k]
	if !ok {
		return false
	}
	c.gen++
	c.list.remove(h)
	delete(c.index, k)
	c.list.release(h)
	return true
}

func (c *cache[K, V]) EvictAll() {
	c.gen++
	n := c.list.len
	c.list.clear()
	clear(c.index)
	if n > 0 {
		c.metrics.Evict(EvictPurge, n)
	}
	c.metrics.Size(0)
}

func (c *cache[K, V]) Len() int      { return c.list.len }
func (c *cache[K, V]) Capacity() int { return c.cap }

func (c *cache[K, V]) Keys() []K {
	keys := make([]K, 0, c.list.len)
	for h := c.list.head; h != nilHandle; h = c.list.at(h).next {
		keys = append(keys, c.list.at(h).key)
	}
	return keys
}

func (c *cache[K, V]) SetListener(l EvictionListener[K, V]) { c.listener = l }
func (c *cache[K, V]) RemoveListener()                      { c.listener = nil }

func (c *cache[K, V]) Iterator() *Iterator[K, V] {
	return &Iterator[K, V]{c: c, gen: c.gen, next: c.list.head}
}

func (c *cache[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := c.Iterator()
		for it.HasNext() {
			k, v, err := it.Next()
			if err != nil {
				panic(err)
			}
			if !yield(k, v) {
				return
			}
		}
		// A mutation inside the last loop body still counts.
		if it.c.gen != it.gen {
			panic(ErrConcurrentModification)
		}
	}
}

func (c *cache[K, V]) String() string {
	if c.list.head == nilHandle {
		return "()"
	}
	var b strings.Builder
	b.WriteByte('(')
	for h := c.list.head; h != nilHandle; h = c.list.at(h).next {
		if h != c.list.head {
			b.WriteByte(',')
		}
		fmt.Fprint(&b, c.list.at(h).key)
	}
	b.WriteByte(')')
	return b.String()
}
