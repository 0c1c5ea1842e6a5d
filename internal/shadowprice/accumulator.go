package shadowprice

import (
	"fmt"
	"math"

	"travelcore/internal/core"
	"travelcore/pkg/domain"
)

// loadScale is the fixed-point resolution of accumulated load. Integer sums
// are exact, so merge order never changes the result.
const loadScale = 1 << 20

type loadSeries [domain.MinutesInDay]int64

// Accumulator gathers park-and-ride occupancy for one worker. It is not safe
// for concurrent use; each worker owns one and the partials are merged after
// the pass.
type Accumulator struct {
	loads map[int]*loadSeries
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{loads: make(map[int]*loadSeries)}
}

// AddParking records weight vehicles parked at nodeID after minutes
// from..to-1, that is from the arrival minute up to the departure minute.
func (a *Accumulator) AddParking(nodeID, from, to int, weight float64) error {
	start, err := domain.MinuteIndex(from)
	if err != nil {
		return err
	}
	end, err := domain.MinuteIndex(to)
	if err != nil {
		return err
	}
	if end < start {
		return fmt.Errorf("%w: parking at node %d ends at %d before %d", domain.ErrPrecondition, nodeID, to, from)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return fmt.Errorf("%w: invalid parking weight %v", domain.ErrPrecondition, weight)
	}
	q := int64(math.Round(weight * loadScale))
	series := a.loads[nodeID]
	if series == nil {
		series = new(loadSeries)
		a.loads[nodeID] = series
	}
	for i := start; i < end; i++ {
		series[i] += q
	}
	return nil
}

// Merge adds other's partial sums into a.
func (a *Accumulator) Merge(other *Accumulator) {
	if other == nil {
		return
	}
	for id, src := range other.loads {
		dst := a.loads[id]
		if dst == nil {
			dst = new(loadSeries)
			a.loads[id] = dst
		}
		for i, v := range src {
			dst[i] += v
		}
	}
}

// At returns the accumulated load at nodeID after the given minute.
func (a *Accumulator) At(nodeID, minute int) (float64, error) {
	i, err := domain.MinuteIndex(minute)
	if err != nil {
		return 0, err
	}
	series := a.loads[nodeID]
	if series == nil {
		return 0, nil
	}
	return float64(series[i]) / loadScale, nil
}

// ApplyTo adds the accumulated load to each node's ParkAndRideLoad. Loads for
// unknown nodes are returned as their ids.
func (a *Accumulator) ApplyTo(nodes []core.ParkAndRideNodeWrapper) (unknown []int) {
	seen := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		seen[n.ID()] = true
		series := a.loads[n.ID()]
		if series == nil {
			continue
		}
		load := &n.Fields().ParkAndRideLoad
		for i, v := range series {
			load[i] += float64(v) / loadScale
		}
	}
	for id := range a.loads {
		if !seen[id] {
			unknown = append(unknown, id)
		}
	}
	return unknown
}
