// Command learnhub-loadtest measures Authenticate and Refresh throughput
// against Redis (or miniredis when no address is given).
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/learnhub"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		identities  = flag.Int("identities", 100000, "number of identity snapshots to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (authenticate + refresh)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "", "snapshot key prefix")
	)
	flag.Parse()

	if *identities <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "identities, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var cleanup func()
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		cleanup = mr.Close
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		cleanup = func() {}
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
	defer func() { _ = client.Close() }()

	cfg := learnhub.DefaultConfig()
	cfg.JWT.Access.Secret = "loadtest-access-secret-0000000001"
	cfg.JWT.Refresh.Secret = "loadtest-refresh-secret-000000001"
	cfg.JWT.Activation.Secret = "loadtest-activation-secret-00001"
	cfg.Session.RedisPrefix = *prefix
	cfg.Metrics.EnableLatencyHistograms = true

	engine, err := learnhub.New().WithConfig(cfg).WithRedis(client).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build failed: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	pairs := make([]learnhub.TokenPair, *identities)
	fmt.Printf("seeding %d identities...\n", *identities)
	startSeed := time.Now()
	now := time.Now().UTC()
	for i := range pairs {
		id := fmt.Sprintf("lt-%d", i)
		identity := &learnhub.Identity{
			ID:        id,
			Name:      id,
			Email:     id + "@loadtest.invalid",
			Role:      learnhub.RoleUser,
			Courses:   []string{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := engine.CacheIdentity(ctx, identity); err != nil {
			fmt.Fprintf(os.Stderr, "cache failed: %v\n", err)
			os.Exit(1)
		}
		if pairs[i], err = engine.IssueSessionTokens(ctx, id); err != nil {
			fmt.Fprintf(os.Stderr, "issue failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	authStats := runPhase(*ops, *concurrency, 7919, func(r *rand.Rand) error {
		_, err := engine.Authenticate(ctx, pairs[r.Intn(len(pairs))].AccessToken)
		return err
	})
	refreshStats := runPhase(*ops, *concurrency, 6151, func(r *rand.Rand) error {
		_, err := engine.Refresh(ctx, pairs[r.Intn(len(pairs))].RefreshToken)
		return err
	})

	fmt.Println("---- results ----")
	printStats("authenticate", authStats)
	printStats("refresh", refreshStats)

	snap := engine.MetricsSnapshot()
	fmt.Printf("engine counters: authenticate_success=%d refresh_success=%d\n",
		snap.Counters[learnhub.MetricAuthenticateSuccess],
		snap.Counters[learnhub.MetricRefreshSuccess],
	)
}

// runPhase runs op ops times across concurrency workers, each with its own
// random source seeded from seedStep.
func runPhase(ops, concurrency int, seedStep int64, op func(r *rand.Rand) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*seedStep))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(r)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
