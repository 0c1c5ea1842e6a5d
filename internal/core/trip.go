package core

import (
	"fmt"

	"travelcore/pkg/domain"
)

// Trip is the base trip wrapper.
type Trip struct {
	record  domain.TripRecord
	half    HalfTourWrapper
	factory *Factory
}

// NewTrip wraps rec under deps.HalfTour.
func NewTrip(rec domain.TripRecord, deps Deps) (*Trip, error) {
	if deps.HalfTour == nil {
		return nil, MissingParentError{Kind: string(domain.KindTrip), Parent: string(domain.KindHalfTour)}
	}
	f := rec.TripFields()
	tour := deps.HalfTour.Tour().Fields()
	if f.TourID == 0 {
		f.TourID = tour.ID
	}
	if f.HalfTour == 0 {
		f.HalfTour = deps.HalfTour.Direction()
	}
	if f.PersonID == 0 {
		f.PersonID = tour.PersonID
	}
	if f.PersonDayID == 0 {
		f.PersonDayID = tour.PersonDayID
	}
	if f.HouseholdID == 0 {
		f.HouseholdID = tour.HouseholdID
	}
	if f.Day == 0 {
		f.Day = tour.Day
	}
	return &Trip{record: rec, half: deps.HalfTour, factory: deps.Factory}, nil
}

func (t *Trip) Kind() domain.EntityKind     { return domain.KindTrip }
func (t *Trip) ID() int                     { return t.record.TripFields().ID }
func (t *Trip) Record() domain.TripRecord   { return t.record }
func (t *Trip) Fields() *domain.Trip        { return t.record.TripFields() }
func (t *Trip) HalfTour() HalfTourWrapper   { return t.half }
func (t *Trip) Tour() TourWrapper           { return t.half.Tour() }
func (t *Trip) Direction() domain.Direction { return t.record.TripFields().HalfTour }
func (t *Trip) Sequence() int               { return t.record.TripFields().Sequence }
func (t *Trip) IsToTourOrigin() bool        { return t.record.TripFields().IsToTourOrigin }

func (t *Trip) Identity() domain.Identity {
	f := t.record.TripFields()
	return domain.Identity{
		ID:              f.ID,
		HouseholdID:     f.HouseholdID,
		PersonID:        f.PersonID,
		PersonDayID:     f.PersonDayID,
		TourID:          f.TourID,
		Sequence:        f.Sequence,
		Day:             f.Day,
		Direction:       f.HalfTour,
		ExpansionFactor: f.ExpansionFactor,
	}
}

// SetTimes writes departure and arrival minutes.
func (t *Trip) SetTimes(departure, arrival int) error {
	if _, err := domain.MinuteIndex(departure); err != nil {
		return err
	}
	if _, err := domain.MinuteIndex(arrival); err != nil {
		return err
	}
	if arrival < departure {
		return fmt.Errorf("%w: trip %d arrives at %d before departing at %d", errPrecondition, t.ID(), arrival, departure)
	}
	f := t.record.TripFields()
	f.DepartureTime = departure
	f.ArrivalTime = arrival
	return nil
}

// Reset rebuilds the record from the identity keys.
func (t *Trip) Reset() error {
	old := t.record.TripFields()
	var rec domain.TripRecord
	if t.factory != nil {
		rec = t.factory.NewTripRecord()
	} else {
		rec = &domain.Trip{}
	}
	f := rec.TripFields()
	f.ID = old.ID
	f.TourID = old.TourID
	f.PersonID = old.PersonID
	f.PersonDayID = old.PersonDayID
	f.HouseholdID = old.HouseholdID
	f.Day = old.Day
	f.HalfTour = old.HalfTour
	f.Sequence = old.Sequence
	f.ExpansionFactor = old.ExpansionFactor
	t.record = rec
	return nil
}
