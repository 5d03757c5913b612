// Package cache provides a generic, fixed-capacity LRU cache with a
// fail-fast iterator and an optional eviction listener.
//
// Design
//
//   - Storage: a map[K]handle index plus a doubly linked recency list
//     (head=MRU, tail=LRU). Nodes live in an arena slice owned by the list
//     and link to each other by handle, so the index never owns a node and
//     freed slots are recycled. The arena starts small and grows with the
//     resident set, so Capacity is only an upper bound. Single-entry
//     operations are O(1) expected; EvictAll, Keys and String are linear.
//
//   - Recency: Get on a hit and Put on any key move the entry to the head.
//     Peek, Contains, Keys and iteration leave the order alone.
//
//   - Eviction: when Put inserts past Capacity the tail entry is dropped and,
//     only then, the EvictionListener is called with it. Evict, EvictAll and
//     Iterator.RemoveCurrent never call the listener.
//
//   - Iteration: every structural change (Put, Get hit, Evict of a present
//     key, EvictAll) bumps a generation counter. Iterators capture it and
//     fail with ErrConcurrentModification on the next advance after any
//     change they did not make themselves. Options.ReadsKeepIterators
//     exempts Get hits.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     NoopMetrics is the default; metrics/prom exports them to Prometheus.
//
// Basic usage
//
//	c := cache.MustNew[int, string](cache.Options[int, string]{Capacity: 3})
//	c.Put(1, "a")
//	c.Put(2, "b")
//	if v, ok := c.Get(1); ok {
//	    _ = v // "a", and 1 is now the MRU entry
//	}
//	fmt.Println(c) // (1,2)
//
// Eviction listener
//
//	c.SetListener(cache.EvictionListenerFunc[int, string](func(k int, v string) {
//	    log.Printf("evicted %d=%s", k, v)
//	}))
//
// Iterating
//
//	for k, v := range c.All() {
//	    fmt.Println(k, v)
//	}
//
// Thread-safety
//
// A Cache is meant for single-goroutine use; even Get mutates it. Wrap it in a
// lock, or use package sharded, when several goroutines share one.
package cache
