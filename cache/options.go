package cache

// EvictReason explains why entries left the cache.
type EvictReason int

const (
	// EvictCapacity: the LRU entry was dropped to make room on Put.
	// This is the only reason that reaches the EvictionListener.
	EvictCapacity EvictReason = iota
	// EvictManual: removed by Evict or Iterator.RemoveCurrent.
	EvictManual
	// EvictPurge: dropped by EvictAll.
	EvictPurge
)

// String returns a stable lowercase name, suitable as a metric label.
func (r EvictReason) String() string {
	switch r {
	case EvictCapacity:
		return "capacity"
	case EvictManual:
		return "manual"
	case EvictPurge:
		return "purge"
	default:
		return "unknown"
	}
}

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	// Evict reports n entries removed for the given reason.
	Evict(reason EvictReason, n int)
	Size(entries int)
}

// EvictionListener is notified about automatic, capacity-driven evictions.
// OnEvict runs synchronously inside Put, after the entry has been removed
// from the cache. A panic in OnEvict propagates to the caller of Put.
type EvictionListener[K comparable, V any] interface {
	OnEvict(key K, value V)
}

// EvictionListenerFunc adapts a plain function to EvictionListener.
type EvictionListenerFunc[K comparable, V any] func(key K, value V)

// OnEvict calls f(key, value).
func (f EvictionListenerFunc[K, V]) OnEvict(key K, value V) { f(key, value) }

// Options configures a cache. Zero values are safe except Capacity;
// defaults are applied in New():
//   - nil Metrics  => NoopMetrics
//   - nil Listener => no eviction notifications
type Options[K comparable, V any] struct {
	// Capacity is the maximum number of entries. Must be > 0.
	Capacity int

	// Listener is the initial eviction hook; see Cache.SetListener.
	Listener EvictionListener[K, V]

	// Metrics receives Hit/Miss/Evict/Size signals.
	Metrics Metrics

	// ReadsKeepIterators makes Get hits leave outstanding iterators valid.
	// The entry is still promoted to MRU, so an iterator that is advanced
	// afterwards may yield an entry twice. By default every Get hit
	// invalidates outstanding iterators.
	ReadsKeepIterators bool
}
