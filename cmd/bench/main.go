// Command bench runs a synthetic workload against a sharded LRU cache and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/IvanBrykalov/lrucache/internal/workload"
	pmet "github.com/IvanBrykalov/lrucache/metrics/prom"
	"github.com/IvanBrykalov/lrucache/sharded"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// ---- Flags ----
	var (
		capacity = flag.Int("cap", 100_000, "cache capacity (entries)")
		shards   = flag.Int("shards", 0, "number of shards (0=auto)")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 0, "preload entries (0 = cap/2)")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr; empty = disabled")
	)
	flag.Parse()

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "lru", "bench", nil)
	if *metricsAddr != "" {
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Printf("metrics: serving at %s", *metricsAddr)
			log.Println(http.ListenAndServe(*metricsAddr, nil))
		}()
	}

	// ---- Build cache ----
	var evicted atomic.Uint64
	c, err := sharded.New(sharded.Options[string, string]{
		Capacity: *capacity,
		Shards:   *shards,
		Metrics:  metrics,
		OnEvict:  func(string, string) { evicted.Add(1) },
	})
	if err != nil {
		log.Fatalf("bench: %v", err)
	}

	// ---- Preload half capacity to get a realistic hit-rate ----
	pl := *preload
	if pl == 0 {
		pl = *capacity / 2
	}
	workload.Preload(c, pl)

	// ---- Load generation ----
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rep, err := workload.Run(ctx, c, workload.Config{
		Workers:  *workers,
		Duration: *duration,
		ReadPct:  *readPct,
		Keys:     *keys,
		ZipfS:    *zipfS,
		ZipfV:    *zipfV,
		Seed:     *seed,
	})
	switch {
	case err == nil:
	case ctx.Err() != nil:
		log.Printf("bench: interrupted after %v", rep.Elapsed)
	default:
		log.Fatalf("bench: %v", err)
	}

	// ---- Report ----
	fmt.Printf("cap=%d shards=%d workers=%d keys=%d dur=%v seed=%d\n",
		c.Capacity(), c.Shards(), *workers, *keys, rep.Elapsed, *seed)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d\n",
		rep.Ops, rep.OpsPerSec(), rep.Reads, rep.Writes)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", rep.Hits, rep.Misses, rep.HitRate())
	st := c.Stats()
	fmt.Printf("Len()=%d  evictions=%d (listener saw %d)\n", c.Len(), st.Evictions, evicted.Load())
}
