package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"travelcore/internal/core"
	"travelcore/internal/shadowprice"
	"travelcore/pkg/domain"
)

// Population is the entity graph a run simulates. Households own their
// graphs; Nodes are the lots shared across households.
type Population struct {
	Households []core.HouseholdWrapper
	Nodes      []core.ParkAndRideNodeWrapper
}

// DriverOptions bounds the convergence loop.
type DriverOptions struct {
	Passes    int
	Tolerance float64
	// StopWhenConverged ends the run early once Report.Converged(Tolerance).
	StopWhenConverged bool
}

// PassResult describes one completed pass.
type PassResult struct {
	Pass     int
	Matched  int // nodes that received a loaded table row
	Warnings int // non-blocking rule violations
	Report   shadowprice.Report
	Totals   Totals
	Duration time.Duration
}

// RunResult describes a whole run.
type RunResult struct {
	RunID     string
	Passes    []PassResult
	Converged bool
}

// Driver repeats full simulation passes and moves shadow prices between
// them. Table load and persist happen only between parallel passes.
type Driver struct {
	engine   *shadowprice.Engine
	runner   *Runner
	opts     DriverOptions
	ledger   domain.ConvergenceLedger
	metrics  core.MetricsRecorder
	logger   core.Logger
	newRunID func() string
	now      func() time.Time
}

// DriverOption customises a Driver.
type DriverOption func(*Driver)

// WithLedger records every pass's node summaries in l.
func WithLedger(l domain.ConvergenceLedger) DriverOption {
	return func(d *Driver) { d.ledger = l }
}

// WithDriverMetrics sets the metrics recorder.
func WithDriverMetrics(m core.MetricsRecorder) DriverOption {
	return func(d *Driver) { d.metrics = core.MetricsOrNoop(m) }
}

// WithDriverLogger sets the logger.
func WithDriverLogger(l core.Logger) DriverOption {
	return func(d *Driver) { d.logger = core.LoggerOrNoop(l) }
}

// WithRunIDs overrides run id generation.
func WithRunIDs(fn func() string) DriverOption {
	return func(d *Driver) { d.newRunID = fn }
}

// WithDriverClock overrides the clock used for ledger timestamps.
func WithDriverClock(now func() time.Time) DriverOption {
	return func(d *Driver) { d.now = now }
}

// NewDriver validates opts.
func NewDriver(engine *shadowprice.Engine, runner *Runner, opts DriverOptions, options ...DriverOption) (*Driver, error) {
	if engine == nil || runner == nil {
		return nil, fmt.Errorf("%w: driver needs an engine and a runner", domain.ErrPrecondition)
	}
	if opts.Passes <= 0 {
		return nil, fmt.Errorf("%w: passes must be positive, got %d", domain.ErrPrecondition, opts.Passes)
	}
	if opts.Tolerance < 0 {
		return nil, fmt.Errorf("%w: negative tolerance %v", domain.ErrPrecondition, opts.Tolerance)
	}
	d := &Driver{
		engine:   engine,
		runner:   runner,
		opts:     opts,
		metrics:  core.NoopMetrics(),
		logger:   core.NoopLogger(),
		newRunID: uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range options {
		opt(d)
	}
	return d, nil
}

// Run executes up to Passes passes of fn over pop.
func (d *Driver) Run(ctx context.Context, pop Population, fn HouseholdFunc) (RunResult, error) {
	result := RunResult{RunID: d.newRunID()}
	d.logger.Info("simulation run started", "run_id", result.RunID, "households", len(pop.Households),
		"nodes", len(pop.Nodes), "passes", d.opts.Passes)
	for pass := 1; pass <= d.opts.Passes; pass++ {
		pr, err := d.runPass(ctx, result.RunID, pass, pop, fn)
		if err != nil {
			return result, fmt.Errorf("pass %d: %w", pass, err)
		}
		result.Passes = append(result.Passes, pr)
		result.Converged = pr.Report.Converged(d.opts.Tolerance)
		if result.Converged && d.opts.StopWhenConverged {
			break
		}
	}
	d.logger.Info("simulation run finished", "run_id", result.RunID, "passes", len(result.Passes),
		"converged", result.Converged)
	return result, nil
}

func (d *Driver) runPass(ctx context.Context, runID string, pass int, pop Population, fn HouseholdFunc) (pr PassResult, err error) {
	start := d.now()
	defer func() { d.metrics.Observe(ctx, "simulation.pass", err == nil, d.now().Sub(start)) }()
	pr.Pass = pass

	table, err := d.engine.Load(ctx)
	if err != nil {
		return pr, err
	}
	pr.Matched = d.engine.ApplyAll(pop.Nodes, table)
	for _, hh := range pop.Households {
		if err := hh.Reset(); err != nil {
			return pr, err
		}
	}

	out, err := d.runner.Run(ctx, pop.Households, fn)
	if err != nil {
		return pr, err
	}
	if unknown := out.Load.ApplyTo(pop.Nodes); len(unknown) > 0 {
		d.logger.Warn("parking recorded at unknown lots", "pass", pass, "nodes", unknown)
	}
	pr.Totals = out.Totals
	pr.Warnings = len(out.Warnings)
	for _, v := range out.Warnings {
		d.logger.Debug("rule warning", "pass", pass, "rule", v.Rule, "kind", v.Kind, "id", v.EntityID, "message", v.Message)
	}

	pr.Report = d.engine.Converge(ctx, pass, pop.Nodes)
	if err := d.engine.Persist(ctx, pop.Nodes); err != nil {
		return pr, err
	}
	summaries := pr.Report.Summaries(runID, d.now().UTC())
	if d.ledger != nil && len(summaries) > 0 {
		if err := d.ledger.Append(ctx, summaries); err != nil {
			return pr, fmt.Errorf("append ledger: %w", err)
		}
	}
	d.metrics.ObservePass(ctx, summaries)
	pr.Duration = d.now().Sub(start)
	d.logger.Info("pass finished", "run_id", runID, "pass", pass, "totals", pr.Totals.String(),
		"max_abs_difference", pr.Report.MaxAbsDifference(), "duration", pr.Duration)
	return pr, nil
}
