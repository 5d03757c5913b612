package cache

var (
	// ErrInvalidCapacity is returned by New when Options.Capacity is not positive.
	ErrInvalidCapacity = errorsNew("cache: capacity must be > 0")

	// ErrConcurrentModification is returned by an Iterator once the cache it
	// walks was mutated by anything other than the iterator's own RemoveCurrent.
	// The iterator stays unusable afterwards.
	ErrConcurrentModification = errorsNew("cache: concurrent modification")

	// ErrExhausted is returned by Iterator.Next past the last element.
	ErrExhausted = errorsNew("cache: iterator exhausted")
)

// lightweight local errors.New to avoid importing std 'errors' everywhere
func errorsNew(s string) error { return &strErr{s} }

type strErr struct{ s string }

func (e *strErr) Error() string { return e.s }
