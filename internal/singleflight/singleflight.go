// Package singleflight coalesces concurrent loads of the same key.
package singleflight

import (
	"context"
	"sync"
)

// ErrPanicked is returned to callers that joined a call whose fn panicked
// (or exited via runtime.Goexit) instead of returning.
var ErrPanicked = errorsNew("singleflight: fn panicked")

// Group runs at most one fn per key at a time. Callers arriving while a
// load for their key is in flight wait for its result instead of starting
// their own.
//
// The first caller for a key is the leader and runs fn itself. A follower
// that gives up (ctx done) returns ctx.Err(); the leader keeps running.
// Thread ctx into fn if the work itself must stop.
//
// The zero Group is ready to use.
type Group[K comparable, V any] struct {
	mu       sync.Mutex
	inflight map[K]*call[V]
}

type call[V any] struct {
	done    chan struct{} // closed once val/err are set
	val     V
	err     error
	waiters int // followers that joined, guarded by Group.mu
}

// Do returns the result of fn for key, running it only if no call for key
// is already in flight. shared reports whether the result was handed to
// more than one caller.
func (g *Group[K, V]) Do(ctx context.Context, key K, fn func() (V, error)) (v V, shared bool, err error) {
	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = make(map[K]*call[V])
	}
	if c, ok := g.inflight[key]; ok {
		c.waiters++
		g.mu.Unlock()

		select {
		case <-c.done:
			return c.val, true, c.err
		case <-ctx.Done():
			var zero V
			return zero, false, ctx.Err()
		}
	}

	c := &call[V]{done: make(chan struct{})}
	g.inflight[key] = c
	g.mu.Unlock()

	// Unregister even if fn panics, so later callers can retry. Followers
	// of a call that did not return normally get ErrPanicked; the leader's
	// panic keeps propagating.
	normal := false
	defer func() {
		var r any
		if !normal {
			r = recover()
			var zero V
			c.val, c.err = zero, ErrPanicked
		}
		g.mu.Lock()
		delete(g.inflight, key)
		shared = c.waiters > 0
		g.mu.Unlock()
		close(c.done)
		if r != nil {
			panic(r)
		}
	}()

	c.val, c.err = fn()
	normal = true
	return c.val, false, c.err
}

// Waiting reports how many followers are blocked on the call for key.
func (g *Group[K, V]) Waiting(key K) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.inflight[key]; ok {
		return c.waiters
	}
	return 0
}

// InFlight reports how many keys are currently loading.
func (g *Group[K, V]) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inflight)
}

// lightweight local errors.New, same as package cache
func errorsNew(s string) error { return &strErr{s} }

type strErr struct{ s string }

func (e *strErr) Error() string { return e.s }
