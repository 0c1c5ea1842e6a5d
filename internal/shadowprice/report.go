package shadowprice

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"travelcore/pkg/domain"
)

// NodeReport summarises one lot after a convergence step.
type NodeReport struct {
	NodeID            int     `json:"node_id"`
	Capacity          float64 `json:"capacity"`
	PeakDemand        float64 `json:"peak_demand"`
	MaxOverload       float64 `json:"max_overload"` // largest positive overload, zero when never over capacity
	OverloadedMinutes int     `json:"overloaded_minutes"`
	MaxAbsDifference  float64 `json:"max_abs_difference"`
	MeanShadowPrice   float64 `json:"mean_shadow_price"`
}

// Report collects the node reports of one pass in node id order.
type Report struct {
	Pass  int
	Nodes []NodeReport
}

// MaxAbsDifference is the largest price adjustment made in the pass.
func (r Report) MaxAbsDifference() float64 {
	var m float64
	for _, n := range r.Nodes {
		m = math.Max(m, n.MaxAbsDifference)
	}
	return m
}

// Converged reports whether no price moved by more than tol. An empty report
// (shadow pricing inactive) is converged.
func (r Report) Converged(tol float64) bool {
	return r.MaxAbsDifference() <= tol
}

// Summaries converts the report into ledger rows.
func (r Report) Summaries(runID string, at time.Time) []domain.PassSummary {
	out := make([]domain.PassSummary, 0, len(r.Nodes))
	for _, n := range r.Nodes {
		out = append(out, domain.PassSummary{
			RunID:             runID,
			Pass:              r.Pass,
			NodeID:            n.NodeID,
			Capacity:          n.Capacity,
			PeakDemand:        n.PeakDemand,
			MaxOverload:       n.MaxOverload,
			OverloadedMinutes: n.OverloadedMinutes,
			MaxAbsDifference:  n.MaxAbsDifference,
			MeanShadowPrice:   n.MeanShadowPrice,
			RecordedAt:        at,
		})
	}
	return out
}

// Summarize reports a node's current series without changing them.
func Summarize(n *domain.ParkAndRideNode) NodeReport {
	demand := make([]float64, domain.MinutesInDay)
	floats.AddTo(demand, n.ParkAndRideLoad[:], n.ExogenousLoad[:])
	r := NodeReport{
		NodeID:           n.ID,
		Capacity:         n.Capacity,
		PeakDemand:       floats.Max(demand),
		MaxAbsDifference: math.Max(math.Abs(floats.Max(n.ShadowPriceDifference[:])), math.Abs(floats.Min(n.ShadowPriceDifference[:]))),
		MeanShadowPrice:  floats.Sum(n.ShadowPrice[:]) / domain.MinutesInDay,
	}
	for _, d := range demand {
		if over := d - n.Capacity; over > 0 {
			r.OverloadedMinutes++
			r.MaxOverload = math.Max(r.MaxOverload, over)
		}
	}
	return r
}
