package domain

import (
	"context"
	"time"
)

// PassSummary records how one park-and-ride lot ended a simulation pass.
type PassSummary struct {
	RunID             string    `json:"run_id"`
	Pass              int       `json:"pass"`
	NodeID            int       `json:"node_id"`
	Capacity          float64   `json:"capacity"`
	PeakDemand        float64   `json:"peak_demand"`
	MaxOverload       float64   `json:"max_overload"`
	OverloadedMinutes int       `json:"overloaded_minutes"`
	MaxAbsDifference  float64   `json:"max_abs_difference"`
	MeanShadowPrice   float64   `json:"mean_shadow_price"`
	RecordedAt        time.Time `json:"recorded_at"`
}

// ConvergenceLedger is a minimal abstraction over durable backends that keep
// per-pass convergence history across process invocations.
type ConvergenceLedger interface {
	Append(ctx context.Context, summaries []PassSummary) error
	History(ctx context.Context, runID string) ([]PassSummary, error)
	Runs(ctx context.Context) ([]string, error)
	Close() error
}
