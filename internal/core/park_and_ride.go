package core

import (
	"fmt"

	"travelcore/pkg/domain"
)

// ParkAndRideNode is the base lot wrapper.
type ParkAndRideNode struct {
	record domain.ParkAndRideNodeRecord
}

// NewParkAndRideNode wraps rec.
func NewParkAndRideNode(rec domain.ParkAndRideNodeRecord, _ Deps) (*ParkAndRideNode, error) {
	if rec.ParkAndRideFields().Capacity < 0 {
		return nil, fmt.Errorf("%w: lot %d has negative capacity", errPrecondition, rec.RecordID())
	}
	return &ParkAndRideNode{record: rec}, nil
}

func (n *ParkAndRideNode) Kind() domain.EntityKind              { return domain.KindParkAndRideNode }
func (n *ParkAndRideNode) ID() int                              { return n.record.ParkAndRideFields().ID }
func (n *ParkAndRideNode) Record() domain.ParkAndRideNodeRecord { return n.record }
func (n *ParkAndRideNode) Fields() *domain.ParkAndRideNode {
	return n.record.ParkAndRideFields()
}
func (n *ParkAndRideNode) Capacity() float64 {
	return n.record.ParkAndRideFields().Capacity
}
func (n *ParkAndRideNode) Identity() domain.Identity {
	return domain.Identity{ID: n.ID()}
}
func (n *ParkAndRideNode) ShadowPriceAt(minute int) (float64, error) {
	return n.record.ParkAndRideFields().ShadowPrice.At(minute)
}

// ResetLoad zeroes the assigned load.
func (n *ParkAndRideNode) ResetLoad() {
	n.record.ParkAndRideFields().ParkAndRideLoad.Reset()
}

// Reset zeroes the assigned load; prices and exogenous load are input state
// owned by the shadow-price engine.
func (n *ParkAndRideNode) Reset() error {
	n.ResetLoad()
	return nil
}
