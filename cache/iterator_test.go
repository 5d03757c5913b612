package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// cities returns a cache holding (Berlin,London,New York), MRU first.
func cities(t *testing.T) Cache[string, int] {
	t.Helper()
	c := newTestCache[string, int](t, 3)
	c.Put("New York", 1)
	c.Put("London", 2)
	c.Put("Berlin", 3)
	return c
}

func nextKey(t *testing.T, it *Iterator[string, int]) string {
	t.Helper()
	k, _, err := it.Next()
	require.NoError(t, err)
	return k
}

func TestIterator_Order(t *testing.T) {
	t.Parallel()

	c := newTestCache[string, int](t, 3)
	c.Put("New York", 1)
	c.Put("London", 2)
	c.Put("Berlin", 3)
	_, _ = c.Get("New York")
	c.Put("Tokyo", 4)

	it := c.Iterator()
	k, v, err := it.Next()
	require.NoError(t, err)
	require.Equal(t, "Tokyo", k)
	require.Equal(t, 4, v)
	require.Equal(t, "New York", nextKey(t, it))
	require.Equal(t, "Berlin", nextKey(t, it))
	require.False(t, it.HasNext())

	_, _, err = it.Next()
	require.ErrorIs(t, err, ErrExhausted)
	_, _, err = it.Next()
	require.ErrorIs(t, err, ErrExhausted, "exhaustion is stable")

	// Iteration does not promote.
	require.Equal(t, "(Tokyo,New York,Berlin)", c.String())
}

func TestIterator_EmptyCache(t *testing.T) {
	t.Parallel()

	c := newTestCache[string, int](t, 2)
	it := c.Iterator()
	require.False(t, it.HasNext())
	require.NoError(t, it.RemoveCurrent())
	_, _, err := it.Next()
	require.ErrorIs(t, err, ErrExhausted)
}

func TestIterator_FailsOnExternalMutation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(c Cache[string, int])
	}{
		{"put new", func(c Cache[string, int]) { c.Put("Paris", 4) }},
		{"put existing", func(c Cache[string, int]) { c.Put("Berlin", 4) }},
		{"get", func(c Cache[string, int]) { _, _ = c.Get("London") }},
		{"evict", func(c Cache[string, int]) { c.Evict("Berlin") }},
		{"evict all", func(c Cache[string, int]) { c.EvictAll() }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := cities(t)
			it := c.Iterator()
			nextKey(t, it)

			tc.mutate(c)

			_, _, err := it.Next()
			require.ErrorIs(t, err, ErrConcurrentModification)
			require.False(t, it.HasNext())

			// The failure is terminal.
			_, _, err = it.Next()
			require.ErrorIs(t, err, ErrConcurrentModification)
			require.ErrorIs(t, it.RemoveCurrent(), ErrConcurrentModification)
		})
	}
}

// Mutations that change nothing (misses, peeks) keep iterators alive.
func TestIterator_SurvivesNonMutatingCalls(t *testing.T) {
	t.Parallel()

	c := cities(t)
	it := c.Iterator()
	require.Equal(t, "Berlin", nextKey(t, it))

	_, _ = c.Get("Paris")
	c.Evict("Paris")
	_, _ = c.Peek("London")
	c.Contains("London")
	_ = c.Keys()
	_ = c.String()

	require.Equal(t, "London", nextKey(t, it))
}

// Mutating the cache after exhaustion is still reported on the next advance.
func TestIterator_FailsAfterExhaustion(t *testing.T) {
	t.Parallel()

	c := cities(t)
	it := c.Iterator()
	for it.HasNext() {
		nextKey(t, it)
	}
	c.Put("Paris", 4)
	_, _, err := it.Next()
	require.ErrorIs(t, err, ErrConcurrentModification)
}

func TestIterator_RemoveBeforeFirstNext(t *testing.T) {
	t.Parallel()

	c := cities(t)
	it := c.Iterator()
	require.NoError(t, it.RemoveCurrent()) // no-op

	require.Equal(t, "Berlin", nextKey(t, it))
	require.Equal(t, "London", nextKey(t, it))
	require.Equal(t, "New York", nextKey(t, it))
	require.False(t, it.HasNext())
	_, _, err := it.Next()
	require.ErrorIs(t, err, ErrExhausted)

	require.Equal(t, 3, c.Len())
	for _, k := range []string{"Berlin", "London", "New York"} {
		require.True(t, c.Contains(k))
	}
}

func TestIterator_RemoveCurrent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		advance int // Next calls before RemoveCurrent
		removed string
		rest    []string
	}{
		{"head", 1, "Berlin", []string{"London", "New York"}},
		{"interior", 2, "London", []string{"New York"}},
		{"tail", 3, "New York", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := cities(t)
			it := c.Iterator()
			for i := 0; i < tc.advance; i++ {
				nextKey(t, it)
			}
			require.NoError(t, it.RemoveCurrent())

			var rest []string
			for it.HasNext() {
				rest = append(rest, nextKey(t, it))
			}
			require.Equal(t, tc.rest, rest)
			require.False(t, c.Contains(tc.removed))
			require.Equal(t, 2, c.Len())
			requireConsistent(t, c)
		})
	}
}

func TestIterator_RemoveTwiceOnSameElement(t *testing.T) {
	t.Parallel()

	c := cities(t)
	it := c.Iterator()
	nextKey(t, it)
	nextKey(t, it)
	nextKey(t, it)
	require.NoError(t, it.RemoveCurrent())
	require.NoError(t, it.RemoveCurrent())
	require.False(t, it.HasNext())

	require.False(t, c.Contains("New York"))
	require.True(t, c.Contains("London"))
	require.True(t, c.Contains("Berlin"))
	require.Equal(t, 2, c.Len())
}

func TestIterator_RemoveTwice(t *testing.T) {
	t.Parallel()

	c := cities(t)
	it := c.Iterator()
	require.Equal(t, "Berlin", nextKey(t, it))
	require.Equal(t, "London", nextKey(t, it))
	require.NoError(t, it.RemoveCurrent())
	require.Equal(t, "New York", nextKey(t, it))
	require.NoError(t, it.RemoveCurrent())
	require.False(t, it.HasNext())

	require.Equal(t, "(Berlin)", c.String())
	require.Equal(t, 1, c.Len())
}

// RemoveCurrent is manual removal: the listener must stay silent, and only
// the iterator that removed the entry stays valid.
func TestIterator_RemoveCurrent_SkipsListenerAndInvalidatesOthers(t *testing.T) {
	t.Parallel()

	l := &countingListener[string, int]{}
	c := cities(t)
	c.SetListener(l)

	it := c.Iterator()
	other := c.Iterator()
	nextKey(t, it)
	require.NoError(t, it.RemoveCurrent())
	require.Empty(t, l.keys)

	_, _, err := other.Next()
	require.ErrorIs(t, err, ErrConcurrentModification)
	require.Equal(t, "London", nextKey(t, it))
}

func TestIterator_DrainByRemoval(t *testing.T) {
	t.Parallel()

	c := cities(t)
	it := c.Iterator()
	for it.HasNext() {
		nextKey(t, it)
		require.NoError(t, it.RemoveCurrent())
	}
	require.Zero(t, c.Len())
	require.Equal(t, "()", c.String())
	requireConsistent(t, c)
}

// With ReadsKeepIterators a Get hit promotes the entry without invalidating
// iterators; anything else still does.
func TestIterator_ReadsKeepIterators(t *testing.T) {
	t.Parallel()

	c := MustNew[string, int](Options[string, int]{Capacity: 3, ReadsKeepIterators: true})
	c.Put("New York", 1)
	c.Put("London", 2)
	c.Put("Berlin", 3)

	it := c.Iterator()
	require.Equal(t, "Berlin", nextKey(t, it))
	v, ok := c.Get("New York")
	require.True(t, ok)
	require.Equal(t, 1, v)
	require.Equal(t, "(New York,Berlin,London)", c.String())

	// Weakly consistent: no error, and the walk still terminates.
	steps := 0
	for it.HasNext() {
		nextKey(t, it)
		steps++
		require.LessOrEqual(t, steps, c.Len())
	}

	it = c.Iterator()
	nextKey(t, it)
	c.Put("Paris", 4)
	_, _, err := it.Next()
	require.ErrorIs(t, err, ErrConcurrentModification)
}

func TestAll(t *testing.T) {
	t.Parallel()

	c := cities(t)
	var keys []string
	var sum int
	for k, v := range c.All() {
		keys = append(keys, k)
		sum += v
	}
	require.Equal(t, []string{"Berlin", "London", "New York"}, keys)
	require.Equal(t, 6, sum)

	// early break
	keys = keys[:0]
	for k := range c.All() {
		keys = append(keys, k)
		break
	}
	require.Equal(t, []string{"Berlin"}, keys)
}

func TestAll_PanicsOnMutation(t *testing.T) {
	t.Parallel()

	c := cities(t)
	require.PanicsWithValue(t, ErrConcurrentModification, func() {
		for k := range c.All() {
			c.Evict(k)
		}
	})

	c = cities(t)
	require.PanicsWithValue(t, ErrConcurrentModification, func() {
		for k := range c.All() {
			if k == "New York" {
				c.Put("Paris", 4)
			}
		}
	}, "mutation in the last loop body is reported too")
}
