package cache

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// order returns keys from head to tail and checks back-links on the way.
func order[K comparable, V any](t *testing.T, l *recencyList[K, V]) []K {
	t.Helper()
	var out []K
	prev := nilHandle
	for h := l.head; h != nilHandle; h = l.at(h).next {
		require.Equal(t, prev, l.at(h).prev)
		out = append(out, l.at(h).key)
		prev = h
	}
	require.Equal(t, prev, l.tail)
	require.Equal(t, len(out), l.len)
	return out
}

func fill(l *recencyList[int, int], keys ...int) []handle {
	hs := make([]handle, len(keys))
	for i, k := range keys {
		hs[i] = l.alloc(k, k*10)
		l.offerFront(hs[i])
	}
	return hs
}

func TestList_OfferFront_EmptyBecomesHeadAndTail(t *testing.T) {
	t.Parallel()

	l := newRecencyList[int, int](4)
	h := fill(l, 1)[0]
	require.Equal(t, h, l.head)
	require.Equal(t, h, l.tail)
	require.Equal(t, []int{1}, order(t, l))

	fill(l, 2, 3)
	require.Equal(t, []int{3, 2, 1}, order(t, l))
}

func TestList_PollBack(t *testing.T) {
	t.Parallel()

	l := newRecencyList[int, int](4)
	_, ok := l.pollBack()
	require.False(t, ok, "empty list must report not-found")

	hs := fill(l, 1, 2)
	h, ok := l.pollBack()
	require.True(t, ok)
	require.Equal(t, hs[0], h)
	require.Equal(t, nilHandle, l.at(h).prev)
	require.Equal(t, []int{2}, order(t, l))

	// single element clears both ends
	h, ok = l.pollBack()
	require.True(t, ok)
	require.Equal(t, hs[1], h)
	require.Equal(t, nilHandle, l.head)
	require.Equal(t, nilHandle, l.tail)
	require.Zero(t, l.len)
}

func TestList_Remove_AllPositions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		remove int // index into inserted handles (insert order 1..4)
		want   []int
	}{
		{"tail", 0, []int{4, 3, 2}},
		{"head", 3, []int{3, 2, 1}},
		{"interior", 1, []int{4, 3, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := newRecencyList[int, int](4)
			hs := fill(l, 1, 2, 3, 4)
			l.remove(hs[tc.remove])
			require.Equal(t, tc.want, order(t, l))
			n := l.at(hs[tc.remove])
			require.Equal(t, nilHandle, n.prev, "links must be cleared")
			require.Equal(t, nilHandle, n.next, "links must be cleared")
		})
	}

	t.Run("singleton", func(t *testing.T) {
		l := newRecencyList[int, int](1)
		hs := fill(l, 1)
		l.remove(hs[0])
		require.Empty(t, order(t, l))
		require.Equal(t, nilHandle, l.head)
	})
}

func TestList_Touch(t *testing.T) {
	t.Parallel()

	l := newRecencyList[int, int](3)
	hs := fill(l, 1, 2, 3)

	l.touch(hs[2]) // already head
	require.Equal(t, []int{3, 2, 1}, order(t, l))
	l.touch(hs[0]) // tail
	require.Equal(t, []int{1, 3, 2}, order(t, l))
	l.touch(hs[1]) // interior
	require.Equal(t, []int{2, 1, 3}, order(t, l))
}

func TestList_ReleaseReusesSlots(t *testing.T) {
	t.Parallel()

	l := newRecencyList[int, int](2)
	hs := fill(l, 1, 2)
	tail, _ := l.pollBack()
	l.release(tail)
	require.Zero(t, l.at(tail).key, "released slot must drop its key")

	h := l.alloc(3, 30)
	require.Equal(t, hs[0], h, "freed slot must be reused")
	require.Len(t, l.nodes, 2)
}

func TestList_Clear(t *testing.T) {
	t.Parallel()

	l := newRecencyList[int, int](3)
	fill(l, 1, 2, 3)
	l.clear()
	require.Empty(t, order(t, l))
	require.Empty(t, l.nodes)
	require.Empty(t, l.free)

	fill(l, 7)
	require.Equal(t, []int{7}, order(t, l))
}

func TestSizeHint(t *testing.T) {
	t.Parallel()

	require.Equal(t, 2, sizeHint(1))
	require.Equal(t, maxPrealloc, sizeHint(maxPrealloc-1))
	require.Equal(t, maxPrealloc, sizeHint(maxPrealloc))
	require.Equal(t, maxPrealloc, sizeHint(math.MaxInt))

	l := newRecencyList[int, int](math.MaxInt)
	require.Equal(t, maxPrealloc, cap(l.nodes))
}
