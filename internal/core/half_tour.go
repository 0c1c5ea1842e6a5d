package core

import (
	"fmt"

	"travelcore/pkg/domain"
)

// HalfTour is the base half-tour wrapper.
type HalfTour struct {
	record domain.HalfTourRecord
	tour   TourWrapper
	trips  []TripWrapper
}

// NewHalfTour wraps rec under deps.Tour.
func NewHalfTour(rec domain.HalfTourRecord, deps Deps) (*HalfTour, error) {
	if deps.Tour == nil {
		return nil, MissingParentError{Kind: string(domain.KindHalfTour), Parent: string(domain.KindTour)}
	}
	f := rec.HalfTourFields()
	if !f.Direction.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidDirection, f.Direction)
	}
	if f.TourID == 0 {
		f.TourID = deps.Tour.ID()
	}
	return &HalfTour{record: rec, tour: deps.Tour}, nil
}

func (h *HalfTour) Kind() domain.EntityKind       { return domain.KindHalfTour }
func (h *HalfTour) ID() int                       { return h.record.HalfTourFields().ID }
func (h *HalfTour) Record() domain.HalfTourRecord { return h.record }
func (h *HalfTour) Fields() *domain.HalfTour      { return h.record.HalfTourFields() }
func (h *HalfTour) Tour() TourWrapper             { return h.tour }
func (h *HalfTour) Direction() domain.Direction {
	return h.record.HalfTourFields().Direction
}
func (h *HalfTour) Trips() []TripWrapper { return append([]TripWrapper(nil), h.trips...) }

func (h *HalfTour) Identity() domain.Identity {
	f := h.record.HalfTourFields()
	tour := h.tour.Fields()
	return domain.Identity{
		ID:              f.ID,
		HouseholdID:     tour.HouseholdID,
		PersonID:        tour.PersonID,
		PersonDayID:     tour.PersonDayID,
		TourID:          f.TourID,
		Day:             tour.Day,
		Direction:       f.Direction,
		ExpansionFactor: tour.ExpansionFactor,
	}
}

// IsClosed reports whether the last trip returns to the tour origin.
func (h *HalfTour) IsClosed() bool {
	n := len(h.trips)
	return n > 0 && h.trips[n-1].IsToTourOrigin()
}

// AttachTrip appends t. The trip must continue the sequence and the
// half-tour must still be open.
func (h *HalfTour) AttachTrip(t TripWrapper) error {
	if t == nil {
		return fmt.Errorf("%w: nil trip", errPrecondition)
	}
	if h.IsClosed() {
		return fmt.Errorf("%w: half-tour %d", domain.ErrHalfTourClosed, h.ID())
	}
	f := t.Fields()
	if f.HalfTour != h.Direction() || f.TourID != h.record.HalfTourFields().TourID {
		return fmt.Errorf("%w: trip %d is not part of half-tour %d", errPrecondition, t.ID(), h.ID())
	}
	if want := len(h.trips) + 1; f.Sequence != want {
		return fmt.Errorf("%w: trip %d has sequence %d, want %d", errPrecondition, t.ID(), f.Sequence, want)
	}
	h.trips = append(h.trips, t)
	return nil
}

// AddParticipant links a joint-travel partner tour and marks the half paired.
func (h *HalfTour) AddParticipant(tourID int) {
	f := h.record.HalfTourFields()
	for _, id := range f.ParticipantTourIDs {
		if id == tourID {
			return
		}
	}
	f.ParticipantTourIDs = append(f.ParticipantTourIDs, tourID)
	f.Paired = true
}

// Reset drops the trips and joint-travel linkage.
func (h *HalfTour) Reset() error {
	f := h.record.HalfTourFields()
	f.Paired = false
	f.ParticipantTourIDs = nil
	h.trips = nil
	return nil
}
