package core

import (
	"context"
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"travelcore/pkg/domain"
)

// MetricsRecorder receives operation timings and convergence summaries.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
	ObservePass(ctx context.Context, summaries []domain.PassSummary)
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, bool, time.Duration) {}
func (noopMetrics) ObservePass(context.Context, []domain.PassSummary)    {}

// NoopMetrics returns a recorder that drops everything.
func NoopMetrics() MetricsRecorder { return noopMetrics{} }

// MetricsOrNoop substitutes a discarding recorder for nil.
func MetricsOrNoop(m MetricsRecorder) MetricsRecorder {
	if m == nil {
		return noopMetrics{}
	}
	return m
}

var (
	expvarSeq       uint64
	expvarMu        sync.Mutex
	expvarRecorders = make(map[string]*ExpvarMetricsRecorder)
)

// ExpvarMetricsRecorder publishes operation totals and the latest per-node
// convergence state via expvar.
type ExpvarMetricsRecorder struct {
	name      string
	mu        sync.Mutex
	durations map[string]float64
	results   map[string]map[string]int64
	nodes     map[int]domain.PassSummary
	passes    int64
}

// ExpvarMetricsSnapshot captures a read-only view of the recorded metrics.
type ExpvarMetricsSnapshot struct {
	DurationsMS map[string]float64          `json:"durations_ms_total"`
	Results     map[string]map[string]int64 `json:"results_total"`
	Nodes       map[int]domain.PassSummary  `json:"nodes"`
	Passes      int64                       `json:"passes_total"`
	RecordedAt  time.Time                   `json:"recorded_at"`
}

// NewExpvarMetricsRecorder constructs an expvar-backed recorder and publishes it
// under name. An empty name gets a generated one. Asking again for a name
// this package already published returns that recorder; a name taken by
// another expvar publisher gets a numeric suffix.
func NewExpvarMetricsRecorder(name string) *ExpvarMetricsRecorder {
	expvarMu.Lock()
	defer expvarMu.Unlock()
	if rec, ok := expvarRecorders[name]; ok {
		return rec
	}
	base := name
	if base == "" {
		base = "travelcore_metrics"
	}
	for name == "" || expvar.Get(name) != nil {
		name = fmt.Sprintf("%s_%d", base, atomic.AddUint64(&expvarSeq, 1))
	}
	rec := &ExpvarMetricsRecorder{
		name:      name,
		durations: make(map[string]float64),
		results:   make(map[string]map[string]int64),
		nodes:     make(map[int]domain.PassSummary),
	}
	expvar.Publish(name, expvar.Func(func() any {
		return rec.Snapshot()
	}))
	expvarRecorders[name] = rec
	return rec
}

// Name returns the expvar export name.
func (r *ExpvarMetricsRecorder) Name() string {
	return r.name
}

// Snapshot returns a copy of the aggregated metrics.
func (r *ExpvarMetricsRecorder) Snapshot() ExpvarMetricsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	durations := make(map[string]float64, len(r.durations))
	for op, total := range r.durations {
		durations[op] = total
	}
	results := make(map[string]map[string]int64, len(r.results))
	for op, statusCounts := range r.results {
		cpy := make(map[string]int64, len(statusCounts))
		for status, count := range statusCounts {
			cpy[status] = count
		}
		results[op] = cpy
	}
	nodes := make(map[int]domain.PassSummary, len(r.nodes))
	for id, s := range r.nodes {
		nodes[id] = s
	}
	return ExpvarMetricsSnapshot{
		DurationsMS: durations,
		Results:     results,
		Nodes:       nodes,
		Passes:      r.passes,
		RecordedAt:  time.Now().UTC(),
	}
}

// Observe records an operation outcome.
func (r *ExpvarMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	ms := float64(duration) / float64(time.Millisecond)
	status := "error"
	if success {
		status = "success"
	}

	r.mu.Lock()
	r.durations[operation] += ms
	if _, ok := r.results[operation]; !ok {
		r.results[operation] = make(map[string]int64, 2)
	}
	r.results[operation][status]++
	r.mu.Unlock()
}

// ObservePass keeps the latest summary per node.
func (r *ExpvarMetricsRecorder) ObservePass(_ context.Context, summaries []domain.PassSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passes++
	for _, s := range summaries {
		r.nodes[s.NodeID] = s
	}
}
