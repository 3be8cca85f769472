package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"bandlife/internal/gather"
	"bandlife/internal/halo"
	"bandlife/internal/seed"
	"bandlife/internal/worker"
	"bandlife/pkg/sims/life"
)

type scenario struct {
	density  float64
	randSeed int64
	workers  int
	strategy halo.Strategy
}

func (s scenario) String() string {
	return fmt.Sprintf("density=%.2f seed=%d workers=%d exchange=%s", s.density, s.randSeed, s.workers, s.strategy)
}

type scenarioResult struct {
	scenario
	elapsed    time.Duration
	population int
	// divergedAt is the first generation that differs from the reference,
	// or -1 when every generation matches.
	divergedAt int
	err        error
}

type sweepConfig struct {
	side       int
	iterations int
	parallel   int
	densities  []float64
	seeds      []int64
	workers    []int
}

func main() {
	side := flag.Int("side", 48, "grid side length")
	steps := flag.Int("steps", 64, "generations per scenario")
	parallel := flag.Int("parallel", runtime.NumCPU(), "scenarios run at once")
	flag.Parse()

	cfg := sweepConfig{
		side:       *side,
		iterations: *steps,
		parallel:   *parallel,
		densities:  []float64{0.15, 0.3, 0.5},
		seeds:      []int64{1, 7, 1337},
		workers:    []int{1, 2, 3, 4, 6, 8, 16},
	}
	if failed := sweep(context.Background(), cfg, os.Stdout); failed > 0 {
		os.Exit(1)
	}
}

// sweep runs every scenario, prints a report to w, and returns the number of
// scenarios that failed or diverged from the reference.
func sweep(ctx context.Context, cfg sweepConfig, w io.Writer) int {
	var sets []scenario
	for _, density := range cfg.densities {
		for _, rs := range cfg.seeds {
			for _, workers := range cfg.workers {
				if cfg.side%workers != 0 {
					continue
				}
				for _, strategy := range []halo.Strategy{halo.Parity, halo.Async} {
					sets = append(sets, scenario{density: density, randSeed: rs, workers: workers, strategy: strategy})
				}
			}
		}
	}

	fmt.Fprintf(w, "Sweeping %d scenarios (%d parallel, side %d, %d steps)\n", len(sets), cfg.parallel, cfg.side, cfg.iterations)

	var (
		mu  sync.Mutex
		all []scenarioResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.parallel, 1))
	start := time.Now()
	for _, s := range sets {
		g.Go(func() error {
			res := runScenario(gctx, cfg, s)
			mu.Lock()
			all = append(all, res)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(all, func(i, j int) bool {
		if all[i].elapsed != all[j].elapsed {
			return all[i].elapsed > all[j].elapsed
		}
		return all[i].String() < all[j].String()
	})

	failed := 0
	for _, res := range all {
		switch {
		case res.err != nil:
			failed++
			fmt.Fprintf(w, "FAIL %s: %v\n", res.scenario, res.err)
		case res.divergedAt >= 0:
			failed++
			fmt.Fprintf(w, "DIVERGED %s at generation %d\n", res.scenario, res.divergedAt)
		}
	}

	fmt.Fprintf(w, "\nSlowest 5 (elapsed %s):\n", time.Since(start).Round(time.Millisecond))
	for i := 0; i < len(all) && i < 5; i++ {
		res := all[i]
		fmt.Fprintf(w, "%2d) %s took %s final population %d\n", i+1, res.scenario, res.elapsed.Round(time.Microsecond), res.population)
	}
	fmt.Fprintf(w, "\n%d/%d scenarios match the reference\n", len(all)-failed, len(all))
	return failed
}

func runScenario(ctx context.Context, cfg sweepConfig, s scenario) scenarioResult {
	res := scenarioResult{scenario: s, divergedAt: -1}
	grid, err := seed.Build(seed.Options{Pattern: "random", Side: cfg.side, Density: s.density, RandSeed: s.randSeed})
	if err != nil {
		res.err = err
		return res
	}

	ref, err := life.FromCells(cfg.side, cfg.side, grid.Cells())
	if err != nil {
		res.err = err
		return res
	}
	want := ref.Run(cfg.iterations)

	var rec gather.Recorder
	begin := time.Now()
	res.err = worker.RunLocal(ctx, worker.Options{
		Side:       cfg.side,
		Workers:    s.workers,
		Iterations: cfg.iterations,
		Strategy:   s.strategy,
		Seed:       grid,
		Reporter:   &rec,
	})
	res.elapsed = time.Since(begin)
	if res.err != nil {
		return res
	}

	frames := rec.Frames()
	if len(frames) != len(want) {
		res.err = fmt.Errorf("got %d frames, expected %d", len(frames), len(want))
		return res
	}
	for i, f := range frames {
		if !slices.Equal(f.Grid.Cells(), want[i]) {
			res.divergedAt = i
			return res
		}
	}
	if n := len(frames); n > 0 {
		res.population = frames[n-1].Grid.Population()
	} else {
		res.population = grid.Population()
	}
	return res
}
