package cache

// recencyList is a doubly linked list (head=MRU, tail=LRU) whose nodes live
// in an arena slice. Freed slots are kept on a free list and reused, so a
// steady-state cache allocates nothing per operation.
//
// All operations are O(1). The list does not know about the index; the
// cache keeps both in lockstep.
type recencyList[K comparable, V any] struct {
	nodes []node[K, V]
	free  []handle
	head  handle
	tail  handle
	len   int
}

// maxPrealloc bounds the arena reserved up front; larger caches grow it on
// demand.
const maxPrealloc = 1024

func newRecencyList[K comparable, V any](capacity int) *recencyList[K, V] {
	// One spare slot: Put links the new node before trimming the tail.
	return &recencyList[K, V]{
		nodes: make([]node[K, V], 0, sizeHint(capacity)),
		head:  nilHandle,
		tail:  nilHandle,
	}
}

// alloc stores k/v in a free slot (or a new one) and returns its handle.
// The node is not linked yet.
func (l *recencyList[K, V]) alloc(k K, v V) handle {
	n := node[K, V]{key: k, val: v, prev: nilHandle, next: nilHandle}
	if last := len(l.free) - 1; last >= 0 {
		h := l.free[last]
		l.free = l.free[:last]
		l.nodes[h] = n
		return h
	}
	l.nodes = append(l.nodes, n)
	return handle(len(l.nodes) - 1)
}

// release returns an unlinked slot to the free list and drops its key/value
// so the arena does not pin them.
func (l *recencyList[K, V]) release(h handle) {
	l.nodes[h] = node[K, V]{prev: nilHandle, next: nilHandle}
	l.free = append(l.free, h)
}

// at returns the node stored at h.
func (l *recencyList[K, V]) at(h handle) *node[K, V] { return &l.nodes[h] }

// offerFront links h as the new head. On an empty list h becomes both
// head and tail.
func (l *recencyList[K, V]) offerFront(h handle) {
	n := &l.nodes[h]
	n.prev = nilHandle
	n.next = l.head
	if l.head == nilHandle {
		l.tail = h
	} else {
		l.nodes[l.head].prev = h
	}
	l.head = h
	l.len++
}

// pollBack detaches the tail and returns it. ok is false on an empty list.
func (l *recencyList[K, V]) pollBack() (h handle, ok bool) {
	if l.tail == nilHandle {
		return nilHandle, false
	}
	h = l.tail
	n := &l.nodes[h]
	if l.head == h {
		l.head, l.tail = nilHandle, nilHandle
	} else {
		l.tail = n.prev
		l.nodes[l.tail].next = nilHandle
	}
	n.prev, n.next = nilHandle, nilHandle
	l.len--
	return h, true
}

// remove detaches h, which must belong to this list (not verified).
func (l *recencyList[K, V]) remove(h handle) {
	if h == l.tail {
		l.pollBack()
		return
	}
	// h is not the tail, so n.next is a live node.
	n := &l.nodes[h]
	if h == l.head {
		l.head = n.next
	} else {
		l.nodes[n.prev].next = n.next
	}
	l.nodes[n.next].prev = n.prev
	n.prev, n.next = nilHandle, nilHandle
	l.len--
}

// touch moves h to the head.
func (l *recencyList[K, V]) touch(h handle) {
	if h == l.head {
		return
	}
	l.remove(h)
	l.offerFront(h)
}

// clear drops every node. Slots are zeroed so keys and values can be
// collected; capacity of the arena is kept for reuse.
func (l *recencyList[K, V]) clear() {
	clear(l.nodes)
	l.nodes = l.nodes[:0]
	l.free = l.free[:0]
	l.head, l.tail = nilHandle, nilHandle
	l.len = 0
}

// sizeHint is the initial arena/index size for a cache of the given
// capacity, including the spare slot.
func sizeHint(capacity int) int {
	if capacity >= maxPrealloc {
		return maxPrealloc
	}
	return capacity + 1
}
