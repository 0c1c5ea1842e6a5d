package simulation

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"travelcore/internal/core"
	"travelcore/internal/shadowprice"
)

// HouseholdFunc simulates one household. It owns hh exclusively for the call
// and records park-and-ride occupancy into acc, the calling worker's partial.
type HouseholdFunc func(ctx context.Context, hh core.HouseholdWrapper, acc *shadowprice.Accumulator) error

// PassOutput is the merged result of one parallel pass.
type PassOutput struct {
	Load   *shadowprice.Accumulator
	Totals Totals
	// Warnings holds non-blocking rule violations, in no particular order.
	Warnings []core.Violation
}

// Runner fans households out to a fixed pool of workers. Each worker keeps
// its own accumulator and totals; they are merged after every worker has
// finished.
type Runner struct {
	workers int
	logger  core.Logger
	rules   *core.RulesEngine
}

// NewRunner returns a runner with workers goroutines. workers <= 0 uses
// GOMAXPROCS.
func NewRunner(workers int, logger core.Logger) *Runner {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{workers: workers, logger: core.LoggerOrNoop(logger)}
}

// WithRules checks every household against engine after it is simulated. A
// blocking violation fails the pass.
func (r *Runner) WithRules(engine *core.RulesEngine) *Runner {
	r.rules = engine
	return r
}

// Workers returns the pool size.
func (r *Runner) Workers() int { return r.workers }

// Run simulates every household once. The first error cancels the pass.
func (r *Runner) Run(ctx context.Context, households []core.HouseholdWrapper, fn HouseholdFunc) (PassOutput, error) {
	start := time.Now()
	n := r.workers
	if n > len(households) {
		n = len(households)
	}
	if n == 0 {
		return PassOutput{Load: shadowprice.NewAccumulator()}, nil
	}
	partials := make([]*shadowprice.Accumulator, n)
	totals := make([]Totals, n)
	warnings := make([][]core.Violation, n)
	jobs := make(chan core.HouseholdWrapper)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < n; w++ {
		partials[w] = shadowprice.NewAccumulator()
		g.Go(func() error {
			for hh := range jobs {
				if err := fn(gctx, hh, partials[w]); err != nil {
					return fmt.Errorf("household %d: %w", hh.ID(), err)
				}
				if r.rules != nil {
					res, err := r.rules.Check(gctx, hh)
					if err != nil {
						return err
					}
					warnings[w] = append(warnings[w], res.Violations...)
				}
				totals[w].AddHousehold(hh)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(jobs)
		for _, hh := range households {
			select {
			case jobs <- hh:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return PassOutput{}, err
	}

	out := PassOutput{Load: shadowprice.NewAccumulator()}
	for w := 0; w < n; w++ {
		out.Load.Merge(partials[w])
		out.Totals.Merge(totals[w])
		out.Warnings = append(out.Warnings, warnings[w]...)
	}
	r.logger.Debug("household pass finished", "households", out.Totals.Households, "workers", n,
		"duration", time.Since(start))
	return out, nil
}
