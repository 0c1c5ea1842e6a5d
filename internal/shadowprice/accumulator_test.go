package shadowprice

import (
	"errors"
	"testing"

	"travelcore/internal/core"
	"travelcore/pkg/domain"
)

func TestAccumulatorWindowAndMerge(t *testing.T) {
	a := NewAccumulator()
	if err := a.AddParking(3, 10, 13, 1.5); err != nil {
		t.Fatalf("add: %v", err)
	}
	for minute, want := range map[int]float64{9: 0, 10: 1.5, 12: 1.5, 13: 0} {
		if got, _ := a.At(3, minute); got != want {
			t.Fatalf("minute %d load %v want %v", minute, got, want)
		}
	}
	b := NewAccumulator()
	_ = b.AddParking(3, 12, 14, 0.25)
	_ = b.AddParking(4, 1, 1440, 1)
	a.Merge(b)
	a.Merge(nil)
	if got, _ := a.At(3, 12); got != 1.75 {
		t.Fatalf("merged load %v", got)
	}
	if got, _ := a.At(4, 1439); got != 1 {
		t.Fatalf("node 4 load %v", got)
	}
	if got, _ := a.At(99, 5); got != 0 {
		t.Fatalf("unknown node load %v", got)
	}
}

func TestAccumulatorRejectsBadInput(t *testing.T) {
	a := NewAccumulator()
	cases := []struct {
		from, to int
		weight   float64
		target   error
	}{
		{from: 0, to: 5, weight: 1, target: domain.ErrMinuteOutOfRange},
		{from: 5, to: 1441, weight: 1, target: domain.ErrMinuteOutOfRange},
		{from: 9, to: 5, weight: 1, target: domain.ErrPrecondition},
		{from: 1, to: 5, weight: -1, target: domain.ErrPrecondition},
	}
	for _, tc := range cases {
		if err := a.AddParking(1, tc.from, tc.to, tc.weight); !errors.Is(err, tc.target) {
			t.Fatalf("AddParking(%d,%d,%v) err=%v", tc.from, tc.to, tc.weight, err)
		}
	}
}

// Summing the same partials in any order gives bit-identical loads.
func TestAccumulatorOrderIndependent(t *testing.T) {
	weights := []float64{0.1, 0.2, 0.3, 1.0 / 3.0, 2.7, 0.05}
	partials := make([]*Accumulator, len(weights))
	for i, w := range weights {
		partials[i] = NewAccumulator()
		_ = partials[i].AddParking(1, 100, 200+i, w)
	}
	forward, backward := NewAccumulator(), NewAccumulator()
	for i := range partials {
		forward.Merge(partials[i])
		backward.Merge(partials[len(partials)-1-i])
	}
	nf := newLot(t, 1)
	nb := newLot(t, 1)
	if unknown := forward.ApplyTo([]core.ParkAndRideNodeWrapper{nf}); len(unknown) != 0 {
		t.Fatalf("unexpected unknown nodes %v", unknown)
	}
	backward.ApplyTo([]core.ParkAndRideNodeWrapper{nb})
	if nf.Fields().ParkAndRideLoad != nb.Fields().ParkAndRideLoad {
		t.Fatalf("merge order changed the result")
	}
	if unknown := forward.ApplyTo(nil); len(unknown) != 1 || unknown[0] != 1 {
		t.Fatalf("expected node 1 reported unknown, got %v", unknown)
	}
}

func newLot(t *testing.T, id int) core.ParkAndRideNodeWrapper {
	t.Helper()
	n, err := core.NewParkAndRideNode(&domain.ParkAndRideNode{ID: id, Capacity: 10}, core.Deps{})
	if err != nil {
		t.Fatalf("node: %v", err)
	}
	return n
}
