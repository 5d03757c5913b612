// Package util holds internal helpers for the sharded cache: key hashing,
// power-of-two math, shard sizing and cache-line padded counters.
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import "fmt"

const (
	fnvOffset64 = 1469598103934665603
	fnvPrime64  = 1099511628211
)

// Fnv64a hashes k with 64-bit FNV-1a.
//
// Supported: string, [16|32|64]byte, bool, every int/uint width, uintptr
// and fmt.Stringer. Integers hash their little-endian bytes at native width.
// Other key types panic: hashing them some generic way (say, through fmt)
// would be slow and could funnel every key into one shard. Supply a custom
// hash function to the sharded cache instead.
func Fnv64a[K comparable](k K) uint64 {
	h := fnv64a(fnvOffset64)
	switch v := any(k).(type) {
	case string:
		h.writeString(v)
	case [16]byte:
		h.write(v[:])
	case [32]byte:
		h.write(v[:])
	case [64]byte:
		h.write(v[:])
	case bool:
		if v {
			h.writeUint(1, 1)
		} else {
			h.writeUint(0, 1)
		}
	case int8:
		h.writeUint(uint64(uint8(v)), 1)
	case uint8:
		h.writeUint(uint64(v), 1)
	case int16:
		h.writeUint(uint64(uint16(v)), 2)
	case uint16:
		h.writeUint(uint64(v), 2)
	case int32:
		h.writeUint(uint64(uint32(v)), 4)
	case uint32:
		h.writeUint(uint64(v), 4)
	case int64:
		h.writeUint(uint64(v), 8)
	case uint64:
		h.writeUint(v, 8)
	case int:
		h.writeUint(uint64(v), 8)
	case uint:
		h.writeUint(uint64(v), 8)
	case uintptr:
		h.writeUint(uint64(v), 8)
	case fmt.Stringer:
		h.writeString(v.String())
	default:
		panic(fmt.Sprintf("util.Fnv64a: unsupported key type %T; provide a custom hash", k))
	}
	return uint64(h)
}

// fnv64a is a running FNV-1a state.
type fnv64a uint64

func (h *fnv64a) writeByte(c byte) {
	*h ^= fnv64a(c)
	*h *= fnvPrime64
}

func (h *fnv64a) write(b []byte) {
	for _, c := range b {
		h.writeByte(c)
	}
}

// writeString avoids the []byte conversion (and its allocation).
func (h *fnv64a) writeString(s string) {
	for i := 0; i < len(s); i++ {
		h.writeByte(s[i])
	}
}

// writeUint feeds the low width bytes of u, little-endian.
func (h *fnv64a) writeUint(u uint64, width int) {
	for i := 0; i < width; i++ {
		h.writeByte(byte(u))
		u >>= 8
	}
}
