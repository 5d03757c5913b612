// Package workload drives a synthetic read/write mix against a cache.
package workload

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/IvanBrykalov/lrucache/internal/util"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidConfig is wrapped by Run for unusable Config values.
var ErrInvalidConfig = errorsNew("workload: invalid config")

// Target is the cache surface a workload exercises. It must be safe for
// concurrent use when Config.Workers > 1.
type Target interface {
	Get(k string) (string, bool)
	Put(k, v string)
}

// Config describes a run.
type Config struct {
	Workers  int           // goroutines issuing operations (>= 1)
	Duration time.Duration // run length (> 0)
	ReadPct  int           // share of Gets in [0..100]
	Keys     int           // keyspace size (>= 1)
	ZipfS    float64       // Zipf skew, > 1
	ZipfV    float64       // Zipf v, >= 1
	Seed     int64

	// Clock times the run. Nil means the real clock.
	Clock clockwork.Clock
}

// Report summarizes a finished run.
type Report struct {
	Ops     uint64
	Reads   uint64
	Writes  uint64
	Hits    uint64
	Misses  uint64
	Elapsed time.Duration
}

// OpsPerSec is the throughput over Elapsed.
func (r Report) OpsPerSec() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ops) / r.Elapsed.Seconds()
}

// HitRate is the percentage of Gets that hit.
func (r Report) HitRate() float64 {
	if r.Reads == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Reads) * 100
}

func (c Config) validate() error {
	switch {
	case c.Workers < 1:
		return fmt.Errorf("%w: workers %d < 1", ErrInvalidConfig, c.Workers)
	case c.Duration <= 0:
		return fmt.Errorf("%w: duration %v <= 0", ErrInvalidConfig, c.Duration)
	case c.ReadPct < 0 || c.ReadPct > 100:
		return fmt.Errorf("%w: read percentage %d outside [0..100]", ErrInvalidConfig, c.ReadPct)
	case c.Keys < 1:
		return fmt.Errorf("%w: keyspace %d < 1", ErrInvalidConfig, c.Keys)
	case c.ZipfS <= 1 || c.ZipfV < 1:
		return fmt.Errorf("%w: zipf s=%v v=%v (need s > 1, v >= 1)", ErrInvalidConfig, c.ZipfS, c.ZipfV)
	}
	return nil
}

// Key formats the i-th key of the keyspace.
func Key(i uint64) string { return "k:" + strconv.FormatUint(i, 10) }

// Preload puts keys [0, n) so a run starts against a warm cache.
func Preload(t Target, n int) {
	for i := 0; i < n; i++ {
		t.Put(Key(uint64(i)), "v"+strconv.Itoa(i))
	}
}

type counters struct {
	reads, writes, hits, misses util.PaddedCounter
}

// Run issues operations against t until cfg.Duration elapses on cfg.Clock
// or ctx ends. It returns the report together with ctx.Err(), so a
// cancelled run still reports what it did.
func Run(ctx context.Context, t Target, cfg Config) (Report, error) {
	if err := cfg.validate(); err != nil {
		return Report{}, err
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	start := clock.Now()
	timer := clock.NewTimer(cfg.Duration)
	defer timer.Stop()

	var cnt counters

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		select {
		case <-timer.Chan():
			stop()
		case <-gctx.Done():
		}
		return nil
	})
	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			cfg.work(gctx, t, w, &cnt)
			return nil
		})
	}
	_ = g.Wait()

	rep := Report{
		Reads:   cnt.reads.Load(),
		Writes:  cnt.writes.Load(),
		Hits:    cnt.hits.Load(),
		Misses:  cnt.misses.Load(),
		Elapsed: clock.Since(start),
	}
	rep.Ops = rep.Reads + rep.Writes
	return rep, ctx.Err()
}

// work is one worker loop. Each worker owns its RNG + Zipf (rand.Rand is
// NOT goroutine-safe).
func (c Config) work(ctx context.Context, t Target, id int, cnt *counters) {
	r := rand.New(rand.NewSource(c.Seed + int64(id)*9973))
	zipf := rand.NewZipf(r, c.ZipfS, c.ZipfV, uint64(c.Keys-1))

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		k := Key(zipf.Uint64())
		if r.Intn(100) < c.ReadPct {
			cnt.reads.Add(1)
			if _, ok := t.Get(k); ok {
				cnt.hits.Add(1)
			} else {
				cnt.misses.Add(1)
			}
			continue
		}
		cnt.writes.Add(1)
		t.Put(k, "v"+strconv.Itoa(r.Int()))
	}
}

// lightweight local errors.New, same as package cache
func errorsNew(s string) error { return &strErr{s} }

type strErr struct{ s string }

func (e *strErr) Error() string { return e.s }
