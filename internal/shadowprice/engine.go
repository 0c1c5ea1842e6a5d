package shadowprice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/floats"

	"travelcore/internal/blob"
	"travelcore/internal/core"
	"travelcore/pkg/domain"
)

// DefaultKey is the blob key of the park-and-ride table.
const DefaultKey = "shadow_prices/park_and_ride.csv"

// Options configures an Engine.
type Options struct {
	// Enabled is the shadow pricing toggle.
	Enabled bool
	// NodesEnabled is the park-and-ride facility toggle.
	NodesEnabled bool
	// EstimationMode disables shadow pricing during model estimation runs.
	EstimationMode bool
	Key            string
	Delimiter      rune
	Policy         Policy
}

// Engine loads, applies, converges and persists shadow prices. Load and
// Persist run at pass boundaries only.
type Engine struct {
	store   blob.Store
	opts    Options
	logger  core.Logger
	metrics core.MetricsRecorder
	now     func() time.Time
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l core.Logger) EngineOption {
	return func(e *Engine) { e.logger = core.LoggerOrNoop(l) }
}

// WithMetrics sets the engine metrics recorder.
func WithMetrics(m core.MetricsRecorder) EngineOption {
	return func(e *Engine) { e.metrics = core.MetricsOrNoop(m) }
}

// WithClock overrides the engine clock.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine validates opts and returns an engine over store. store may be nil
// only when shadow pricing is inactive.
func NewEngine(store blob.Store, opts Options, options ...EngineOption) (*Engine, error) {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = DefaultDelimiter
	}
	if opts.Policy == nil {
		opts.Policy = DefaultPolicy()
	}
	e := &Engine{
		store:   store,
		opts:    opts,
		logger:  core.NoopLogger(),
		metrics: core.NoopMetrics(),
		now:     time.Now,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.Active() && store == nil {
		return nil, fmt.Errorf("shadowprice: blob store required when shadow pricing is enabled")
	}
	return e, nil
}

// Active reports whether prices are loaded, adjusted and persisted.
func (e *Engine) Active() bool {
	return e.opts.Enabled && e.opts.NodesEnabled && !e.opts.EstimationMode
}

// Key returns the blob key of the table.
func (e *Engine) Key() string { return e.opts.Key }

// Load reads the table from the blob store. An inactive engine or a missing
// table yields an empty table and no error; malformed content fails with a
// *ParseError.
func (e *Engine) Load(ctx context.Context) (table Table, err error) {
	if !e.Active() {
		e.logger.Debug("shadow pricing inactive; skipping table load", "enabled", e.opts.Enabled,
			"nodes_enabled", e.opts.NodesEnabled, "estimation", e.opts.EstimationMode)
		return Table{}, nil
	}
	start := e.now()
	defer func() { e.metrics.Observe(ctx, "shadowprice.load", err == nil, e.now().Sub(start)) }()
	data, err := blob.ReadAll(ctx, e.store, e.opts.Key)
	if errors.Is(err, blob.ErrNotFound) {
		e.logger.Debug("shadow price table not found", "key", e.opts.Key)
		return Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read shadow price table %s: %w", e.opts.Key, err)
	}
	table, err = Decode(bytes.NewReader(data), e.location(), e.opts.Delimiter)
	if err != nil {
		return nil, err
	}
	e.logger.Info("shadow price table loaded", "key", e.opts.Key, "nodes", len(table))
	return table, nil
}

func (e *Engine) location() string {
	return string(e.store.Driver()) + ":" + e.opts.Key
}

// Apply zeroes node's assigned load and, when active and the table holds the
// node, copies its difference, price and exogenous series. It reports whether
// a row was applied.
func (e *Engine) Apply(node core.ParkAndRideNodeWrapper, table Table) bool {
	node.ResetLoad()
	if !e.Active() {
		return false
	}
	state, ok := table[node.ID()]
	if !ok {
		return false
	}
	f := node.Fields()
	f.ShadowPriceDifference = state.ShadowPriceDifference
	f.ShadowPrice = state.ShadowPrice
	f.ExogenousLoad = state.ExogenousLoad
	return true
}

// ApplyAll applies table to every node and returns how many matched.
func (e *Engine) ApplyAll(nodes []core.ParkAndRideNodeWrapper, table Table) int {
	matched := 0
	for _, n := range nodes {
		if e.Apply(n, table) {
			matched++
		}
	}
	return matched
}

// Converge folds one policy step into every node's price: the difference
// series is replaced by the new adjustment and added to the price.
func (e *Engine) Converge(ctx context.Context, pass int, nodes []core.ParkAndRideNodeWrapper) Report {
	report := Report{Pass: pass}
	if !e.Active() {
		return report
	}
	start := e.now()
	ordered := append([]core.ParkAndRideNodeWrapper(nil), nodes...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID() < ordered[j].ID() })

	demand := make([]float64, domain.MinutesInDay)
	for _, n := range ordered {
		f := n.Fields()
		floats.AddTo(demand, f.ParkAndRideLoad[:], f.ExogenousLoad[:])
		for i, d := range demand {
			f.ShadowPriceDifference[i] = e.opts.Policy(f.ShadowPrice[i], d-f.Capacity, f.Capacity)
		}
		floats.Add(f.ShadowPrice[:], f.ShadowPriceDifference[:])
		report.Nodes = append(report.Nodes, Summarize(f))
	}
	e.metrics.Observe(ctx, "shadowprice.converge", true, e.now().Sub(start))
	e.logger.Info("shadow prices adjusted", "pass", pass, "nodes", len(report.Nodes),
		"max_abs_difference", report.MaxAbsDifference())
	return report
}

// Persist writes the nodes' series back to the blob store in table layout,
// replacing the previous table.
func (e *Engine) Persist(ctx context.Context, nodes []core.ParkAndRideNodeWrapper) (err error) {
	if !e.Active() {
		return nil
	}
	start := e.now()
	defer func() { e.metrics.Observe(ctx, "shadowprice.persist", err == nil, e.now().Sub(start)) }()
	table := make(Table, len(nodes))
	for _, n := range nodes {
		table[n.ID()] = StateOf(n.Fields())
	}
	var buf bytes.Buffer
	if err := Encode(&buf, table, e.opts.Delimiter); err != nil {
		return fmt.Errorf("encode shadow price table: %w", err)
	}
	info, err := blob.Replace(ctx, e.store, e.opts.Key, buf.Bytes(), blob.PutOptions{
		ContentType: "text/csv",
		Metadata:    map[string]string{"nodes": strconv.Itoa(len(table))},
	})
	if err != nil {
		return fmt.Errorf("persist shadow price table: %w", err)
	}
	e.logger.Info("shadow price table persisted", "key", e.opts.Key, "nodes", len(table), "bytes", info.Size)
	return nil
}
