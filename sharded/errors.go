package sharded

import "github.com/IvanBrykalov/lrucache/internal/singleflight"

var (
	// ErrNoLoader is returned by GetOrLoad when no Loader was configured in Options.
	ErrNoLoader = errorsNew("sharded: no Loader provided")

	// ErrLoadPanicked is returned by GetOrLoad to callers that waited on a
	// load whose Loader (or OnEvict hook) panicked.
	ErrLoadPanicked = singleflight.ErrPanicked
)

// lightweight local errors.New, same as package cache
func errorsNew(s string) error { return &strErr{s} }

type strErr struct{ s string }

func (e *strErr) Error() string { return e.s }
