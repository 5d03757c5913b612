package cache

// handle addresses a node slot in the arena owned by recencyList.
// Handles are stable for the lifetime of the node; a released slot
// may be handed out again to a later node.
type handle int

// nilHandle marks the absence of a link (list ends, empty list).
const nilHandle handle = -1

// node is a recency list element stored by value in the arena.
// Links are handles, not pointers: the arena is the sole owner of node
// storage and the index only keeps a handle to it.
type node[K comparable, V any] struct {
	key K
	val V

	// head is MRU, tail is LRU.
	prev handle
	next handle
}
