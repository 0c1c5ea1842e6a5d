// Package simulation runs household passes in parallel and drives the
// shadow-price convergence loop across passes.
package simulation

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"travelcore/internal/core"
	"travelcore/internal/shadowprice"
	"travelcore/pkg/domain"
)

// Chooser is the discrete-choice collaborator. It picks one alternative
// index from a utility vector.
type Chooser interface {
	SelectAlternative(utilities []float64) (int, error)
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(utilities []float64) (int, error)

// SelectAlternative calls f.
func (f ChooserFunc) SelectAlternative(utilities []float64) (int, error) {
	return f(utilities)
}

// ErrNoAlternatives is returned when a choice has nothing to choose from.
var ErrNoAlternatives = errors.New("simulation: no available alternatives")

// MaxUtility picks the highest finite utility, first index on ties.
func MaxUtility() Chooser {
	return ChooserFunc(func(utilities []float64) (int, error) {
		best := -1
		for i, u := range utilities {
			if math.IsInf(u, -1) || math.IsNaN(u) {
				continue
			}
			if best < 0 || u > utilities[best] {
				best = i
			}
		}
		if best < 0 {
			return 0, ErrNoAlternatives
		}
		return best, nil
	})
}

// NodeFinder lists candidate lots for a parcel, nearest first.
type NodeFinder interface {
	NearestNodes(parcelID, k int) ([]int, error)
}

// UtilityFunc scores parking tour at node given the lot's shadow price at the
// tour's arrival minute. Return math.Inf(-1) to make a lot unavailable.
type UtilityFunc func(tour core.TourWrapper, node core.ParkAndRideNodeWrapper, shadowPrice float64) float64

// ParkAndRideChoice selects a lot for park-and-ride tours. It only reads lot
// state, so one instance is shared by every worker in a pass.
type ParkAndRideChoice struct {
	nodes      map[int]core.ParkAndRideNodeWrapper
	finder     NodeFinder
	chooser    Chooser
	utility    UtilityFunc
	candidates int
}

// NewParkAndRideChoice builds the choice over nodes. candidates caps how many
// nearest lots are scored; zero scores all of them.
func NewParkAndRideChoice(nodes []core.ParkAndRideNodeWrapper, finder NodeFinder, chooser Chooser, utility UtilityFunc, candidates int) (*ParkAndRideChoice, error) {
	if finder == nil || chooser == nil || utility == nil {
		return nil, fmt.Errorf("%w: park-and-ride choice needs a finder, chooser and utility", domain.ErrPrecondition)
	}
	byID := make(map[int]core.ParkAndRideNodeWrapper, len(nodes))
	for _, n := range nodes {
		byID[n.ID()] = n
	}
	return &ParkAndRideChoice{nodes: byID, finder: finder, chooser: chooser, utility: utility, candidates: candidates}, nil
}

// Choose scores the candidate lots near the tour origin and records the
// chosen lot on the tour.
func (c *ParkAndRideChoice) Choose(tour core.TourWrapper) (core.ParkAndRideNodeWrapper, error) {
	f := tour.Fields()
	ids, err := c.finder.NearestNodes(f.OriginParcelID, c.candidates)
	if err != nil {
		return nil, err
	}
	arrival := f.DestinationArrivalTime
	if _, err := domain.MinuteIndex(arrival); err != nil {
		arrival = domain.DefaultTripTime
	}
	alternatives := make([]core.ParkAndRideNodeWrapper, 0, len(ids))
	utilities := make([]float64, 0, len(ids))
	for _, id := range ids {
		node, ok := c.nodes[id]
		if !ok {
			continue
		}
		price, err := node.ShadowPriceAt(arrival)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, node)
		utilities = append(utilities, c.utility(tour, node, price))
	}
	if len(alternatives) == 0 {
		return nil, fmt.Errorf("%w: tour %d", ErrNoAlternatives, tour.ID())
	}
	i, err := c.chooser.SelectAlternative(utilities)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(alternatives) {
		return nil, fmt.Errorf("%w: chooser returned %d of %d alternatives", domain.ErrPrecondition, i, len(alternatives))
	}
	chosen := alternatives[i]
	f.ParkAndRideNodeID = chosen.ID()
	return chosen, nil
}

// RecordParking adds the tour's parking window, weighted by the household
// expansion factor, to acc. Tours without a lot are ignored.
func RecordParking(acc *shadowprice.Accumulator, tour core.TourWrapper) error {
	from, to, ok := tour.ParkingWindow()
	if !ok {
		return nil
	}
	return acc.AddParking(tour.Fields().ParkAndRideNodeID, from, to, tour.Household().ExpansionFactor())
}

// NodeIDs returns the ids of nodes in ascending order.
func NodeIDs(nodes []core.ParkAndRideNodeWrapper) []int {
	ids := make([]int, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID())
	}
	sort.Ints(ids)
	return ids
}
