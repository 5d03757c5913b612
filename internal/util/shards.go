package util

import "runtime"

// MaxShards caps the automatic and requested shard counts.
const MaxShards = 256

// IsPowerOfTwo reports whether x is a power of two (> 0).
func IsPowerOfTwo(x uint64) bool {
	return x != 0 && x&(x-1) == 0
}

// NextPow2 returns the smallest power of two >= x; 0 and 1 map to 1.
// Values above 1<<63 clamp to 1<<63.
func NextPow2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	if x > 1<<63 {
		return 1 << 63
	}
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	return x + 1
}

// ShardCount resolves a requested shard count. A non-positive request picks
// nextPow2(2*GOMAXPROCS); anything else is rounded up to a power of two.
// The result is clamped to [1, MaxShards].
func ShardCount(requested int) int {
	if requested <= 0 {
		requested = 2 * runtime.GOMAXPROCS(0)
	}
	n := NextPow2(uint64(requested))
	if n > MaxShards {
		n = MaxShards
	}
	return int(n)
}

// ShardIndex maps a hash onto [0, shards). A power-of-two shard count uses
// a mask, anything else falls back to modulo.
func ShardIndex(hash uint64, shards int) int {
	if shards <= 1 {
		return 0
	}
	if IsPowerOfTwo(uint64(shards)) {
		return int(hash & uint64(shards-1))
	}
	return int(hash % uint64(shards))
}

// PerShard splits total across shards, rounding up so the shards together
// hold at least total. It does not overflow for total near math.MaxInt.
func PerShard(total, shards int) int {
	n := total / shards
	if total%shards != 0 {
		n++
	}
	return n
}
