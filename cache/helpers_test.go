package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCache[K comparable, V any](t testing.TB, capacity int) Cache[K, V] {
	t.Helper()
	c, err := New[K, V](Options[K, V]{Capacity: capacity})
	require.NoError(t, err)
	return c
}

// requireConsistent walks the recency list and checks it against the index:
// 1:1 correspondence, back-links, acyclicity, capacity bound, arena accounting.
func requireConsistent[K comparable, V any](t testing.TB, cc Cache[K, V]) {
	t.Helper()
	c := cc.(*cache[K, V])
	l := c.list

	require.Equal(t, len(c.index), l.len, "index and list sizes differ")
	require.LessOrEqual(t, l.len, c.cap, "over capacity")
	require.Equal(t, len(l.nodes), l.len+len(l.free), "leaked arena slots")

	seen := 0
	prev := nilHandle
	for h := l.head; h != nilHandle; h = l.at(h).next {
		n := l.at(h)
		require.Equal(t, prev, n.prev, "broken back-link at %v", n.key)
		got, ok := c.index[n.key]
		require.True(t, ok, "key %v linked but not indexed", n.key)
		require.Equal(t, h, got, "index points elsewhere for %v", n.key)
		prev = h
		seen++
		require.LessOrEqual(t, seen, l.len, "cycle in recency list")
	}
	require.Equal(t, prev, l.tail, "tail mismatch")
	require.Equal(t, l.len, seen)
	if l.head != nilHandle {
		require.Equal(t, nilHandle, l.at(l.head).prev)
	}
}

// countingListener records every OnEvict call.
type countingListener[K comparable, V any] struct {
	keys []K
	vals []V
}

func (l *countingListener[K, V]) OnEvict(k K, v V) {
	l.keys = append(l.keys, k)
	l.vals = append(l.vals, v)
}

// recordingMetrics captures Metrics calls.
type recordingMetrics struct {
	hits, misses int
	evicts       map[EvictReason]int
	size         int
}

func (m *recordingMetrics) Hit()  { m.hits++ }
func (m *recordingMetrics) Miss() { m.misses++ }
func (m *recordingMetrics) Evict(r EvictReason, n int) {
	if m.evicts == nil {
		m.evicts = make(map[EvictReason]int)
	}
	m.evicts[r] += n
}
func (m *recordingMetrics) Size(n int) { m.size = n }
