// Package geography holds the read-only parcel and park-and-ride reference
// data that wrappers and choice plumbing look up.
package geography

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"travelcore/internal/core"
	"travelcore/pkg/domain"
)

// Parcel is a land-use parcel in projected coordinates.
type Parcel struct {
	ID       int
	ZoneKey  int
	Location orb.Point
}

// Node is a park-and-ride lot location.
type Node struct {
	ID       int
	ZoneKey  int
	Location orb.Point
}

// NodesFromRecords reads lot locations from node records.
func NodesFromRecords(records []*domain.ParkAndRideNode) []Node {
	nodes := make([]Node, 0, len(records))
	for _, r := range records {
		nodes = append(nodes, Node{ID: r.ID, ZoneKey: r.ZoneID, Location: orb.Point{r.XCoordinate, r.YCoordinate}})
	}
	return nodes
}

// Reference answers parcel and lot lookups. It is immutable after New and
// safe for concurrent reads.
type Reference struct {
	parcels map[int]Parcel
	nodes   []Node
	bound   orb.Bound
}

// New indexes parcels and nodes. Duplicate ids are rejected.
func New(parcels []Parcel, nodes []Node) (*Reference, error) {
	r := &Reference{parcels: make(map[int]Parcel, len(parcels))}
	points := make(orb.MultiPoint, 0, len(parcels)+len(nodes))
	for _, p := range parcels {
		if _, dup := r.parcels[p.ID]; dup {
			return nil, fmt.Errorf("geography: duplicate parcel %d", p.ID)
		}
		r.parcels[p.ID] = p
		points = append(points, p.Location)
	}
	seen := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		if seen[n.ID] {
			return nil, fmt.Errorf("geography: duplicate park-and-ride node %d", n.ID)
		}
		seen[n.ID] = true
		points = append(points, n.Location)
	}
	r.nodes = append([]Node(nil), nodes...)
	sort.Slice(r.nodes, func(i, j int) bool { return r.nodes[i].ID < r.nodes[j].ID })
	r.bound = points.Bound()
	return r, nil
}

// ZoneKey returns the zone containing parcelID.
func (r *Reference) ZoneKey(parcelID int) (int, bool) {
	p, ok := r.parcels[parcelID]
	return p.ZoneKey, ok
}

// Location returns the parcel's coordinates.
func (r *Reference) Location(parcelID int) (orb.Point, bool) {
	p, ok := r.parcels[parcelID]
	return p.Location, ok
}

// Bound covers every parcel and lot.
func (r *Reference) Bound() orb.Bound { return r.bound }

// Nodes returns the lots in id order.
func (r *Reference) Nodes() []Node { return append([]Node(nil), r.nodes...) }

// NearestNodes returns up to k lot ids ordered by planar distance from the
// parcel, ties broken by id. k <= 0 returns every lot.
func (r *Reference) NearestNodes(parcelID, k int) ([]int, error) {
	origin, ok := r.Location(parcelID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", core.ErrUnknownParcel, parcelID)
	}
	type ranked struct {
		id   int
		dist float64
	}
	all := make([]ranked, 0, len(r.nodes))
	for _, n := range r.nodes {
		all = append(all, ranked{id: n.ID, dist: planar.DistanceSquared(origin, n.Location)})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].dist < all[j].dist })
	if k <= 0 || k > len(all) {
		k = len(all)
	}
	ids := make([]int, k)
	for i := range ids {
		ids[i] = all[i].id
	}
	return ids, nil
}

// NodesWithin returns the ids of lots no farther than radius from the parcel,
// in id order.
func (r *Reference) NodesWithin(parcelID int, radius float64) ([]int, error) {
	origin, ok := r.Location(parcelID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", core.ErrUnknownParcel, parcelID)
	}
	var ids []int
	for _, n := range r.nodes {
		if planar.Distance(origin, n.Location) <= radius {
			ids = append(ids, n.ID)
		}
	}
	return ids, nil
}

// Distance is the planar distance between two parcels.
func (r *Reference) Distance(fromParcel, toParcel int) (float64, error) {
	a, ok := r.Location(fromParcel)
	if !ok {
		return 0, fmt.Errorf("%w: %d", core.ErrUnknownParcel, fromParcel)
	}
	b, ok := r.Location(toParcel)
	if !ok {
		return 0, fmt.Errorf("%w: %d", core.ErrUnknownParcel, toParcel)
	}
	return planar.Distance(a, b), nil
}

var _ core.Geography = (*Reference)(nil)
