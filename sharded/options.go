package sharded

import (
	"context"

	"github.com/IvanBrykalov/lrucache/cache"
)

// Options configures a sharded cache. Zero values are safe except Capacity;
// defaults are applied in New():
//   - Shards <= 0 => auto (2*GOMAXPROCS rounded up to a power of two, max 256)
//   - nil Metrics => cache.NoopMetrics
//   - nil Hash    => FNV-1a over the common key kinds
type Options[K comparable, V any] struct {
	// Capacity is the total entry limit, split evenly (rounded up) across
	// shards. Must be > 0.
	Capacity int

	// Shards is rounded up to a power of two and never exceeds Capacity.
	Shards int

	// OnEvict is called for capacity-driven evictions, under the shard lock.
	// Keep it short and do not call back into the cache from it.
	OnEvict func(k K, v V)

	// Metrics receives aggregated Hit/Miss/Evict/Size signals.
	Metrics cache.Metrics

	// Loader fetches a value on miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// Hash maps keys to shards. Required for key types util.Fnv64a does
	// not support (structs, floats, ...).
	Hash func(K) uint64
}
