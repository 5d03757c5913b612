package cache

// Iterator walks a cache from the most to the least recently used entry.
// It is lazy, finite and cannot be restarted; walking does not promote
// entries.
//
// The iterator is fail-fast: it remembers the cache generation it was
// created at, and Next returns ErrConcurrentModification as soon as the
// cache was mutated by anything other than the iterator's own
// RemoveCurrent. Once that happens the iterator is dead.
//
//	it := c.Iterator()
//	for it.HasNext() {
//	    k, v, err := it.Next()
//	    if err != nil {
//	        return err
//	    }
//	    if stale(v) {
//	        _ = it.RemoveCurrent()
//	    }
//	    _ = k
//	}
type Iterator[K comparable, V any] struct {
	c    *cache[K, V]
	gen  uint64
	next handle

	// cur is the key of the last yielded element; hasCur is false before
	// the first Next and after RemoveCurrent.
	cur    K
	hasCur bool

	err error
}

// HasNext reports whether Next has an element to yield. It does not check
// for concurrent modification; Next does.
func (it *Iterator[K, V]) HasNext() bool {
	return it.err == nil && it.next != nilHandle
}

// Next yields the next entry.
// It returns ErrConcurrentModification if the cache changed behind the
// iterator's back, and ErrExhausted past the last entry.
func (it *Iterator[K, V]) Next() (K, V, error) {
	var (
		zk K
		zv V
	)
	if err := it.check(); err != nil {
		return zk, zv, err
	}
	if it.next == nilHandle {
		return zk, zv, ErrExhausted
	}

	n := it.c.list.at(it.next)
	it.cur, it.hasCur = n.key, true
	it.next = n.next
	return n.key, n.val, nil
}

// RemoveCurrent evicts the entry most recently returned by Next. The
// eviction listener is not notified. Calling it before the first Next, or
// twice for the same entry, does nothing.
//
// The iterator stays valid afterwards. If the cache was modified externally,
// nothing is removed and ErrConcurrentModification is returned.
func (it *Iterator[K, V]) RemoveCurrent() error {
	if err := it.check(); err != nil {
		return err
	}
	if !it.hasCur {
		return nil
	}
	// it.next was captured before the removal and still points at a live
	// node: only the current node is released.
	if it.c.Evict(it.cur) {
		it.gen = it.c.gen
	}
	var zero K
	it.cur, it.hasCur = zero, false
	return nil
}

// check compares the captured generation with the cache's and latches the
// failure.
func (it *Iterator[K, V]) check() error {
	if it.err != nil {
		return it.err
	}
	if it.gen != it.c.gen {
		it.err = ErrConcurrentModification
		it.hasCur = false
	}
	return it.err
}
