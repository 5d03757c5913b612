package util

import (
	"sync/atomic"
	"unsafe"
)

// CacheLineSize is a reasonable default for most modern CPUs.
const CacheLineSize = 64

// PaddedCounter is an atomic counter that fills exactly one cache line, so
// counters bumped by different goroutines do not false-share.
type PaddedCounter struct {
	atomic.Uint64
	_ [CacheLineSize - 8]byte
}

// must fit in one cache line
var _ [CacheLineSize - int(unsafe.Sizeof(PaddedCounter{}))]byte
