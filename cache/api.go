package cache

import (
	"fmt"
	"iter"
)

// Cache is a fixed-capacity key/value cache that evicts the least recently
// used entry when full.
//
// A Cache is NOT safe for concurrent use. Callers sharing one across
// goroutines must serialize access themselves (see package sharded).
//
// Every operation is O(1) (amortized for the index map), except Keys,
// String and EvictAll which are linear in the number of entries. EvictAll
// zeroes the whole arena so purged values can be garbage collected right
// away instead of lingering until their slots are reused.
type Cache[K comparable, V any] interface {
	// Get returns the value for k and a presence flag.
	// On hit, the entry becomes the most recently used. A miss has no
	// side effects.
	Get(k K) (V, bool)

	// Peek is Get without promotion; it never invalidates iterators.
	Peek(k K) (V, bool)

	// Contains reports whether k is resident, without promotion.
	Contains(k K) bool

	// Put inserts or updates k→v and makes k the most recently used entry.
	// Inserting into a full cache evicts the least recently used entry and
	// notifies the listener, if any.
	Put(k K, v V)

	// Evict removes k if present and reports whether it was. The listener
	// is not notified.
	Evict(k K) bool

	// EvictAll removes every entry in O(n) and drops all references to the
	// purged keys and values. The listener is not notified.
	EvictAll()

	// Len returns the number of resident entries.
	Len() int

	// Capacity returns the configured entry limit.
	Capacity() int

	// Keys returns resident keys from most to least recently used.
	Keys() []K

	// SetListener installs the eviction listener, replacing any previous one.
	SetListener(l EvictionListener[K, V])

	// RemoveListener clears the eviction listener.
	RemoveListener()

	// Iterator returns a fail-fast iterator over the entries, most recently
	// used first. Iterating does not change recency order.
	Iterator() *Iterator[K, V]

	// All returns the entries as a range-over-func sequence, most recently
	// used first. It panics with ErrConcurrentModification if the cache is
	// mutated while the range loop is running.
	All() iter.Seq2[K, V]

	// String renders the keys in recency order, e.g. "(3,2,1)", or "()".
	fmt.Stringer
}
