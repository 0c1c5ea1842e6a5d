package core

import (
	"fmt"

	"travelcore/pkg/domain"
)

// Factory is the bound, read-only view of one schema's creators. It is safe for
// concurrent use by any number of workers.
type Factory struct {
	schema    string
	creators  map[domain.EntityKind]Creator
	geography Geography
}

// Schema returns the bound schema name.
func (f *Factory) Schema() string { return f.schema }

// WithGeography returns a copy of the factory that hands geo to every wrapper.
func (f *Factory) WithGeography(geo Geography) *Factory {
	clone := *f
	clone.geography = geo
	return &clone
}

// Geography returns the reference-data collaborator, which may be nil.
func (f *Factory) Geography() Geography { return f.geography }

// Resolve returns the creator for kind.
func (f *Factory) Resolve(kind domain.EntityKind) (Creator, error) {
	c, ok := f.creators[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrMissingCreator, f.schema, kind)
	}
	return c, nil
}

// MustResolve is Resolve for callers that treat a missing creator as fatal.
func (f *Factory) MustResolve(kind domain.EntityKind) Creator {
	c, err := f.Resolve(kind)
	if err != nil {
		panic(err)
	}
	return c
}

func (f *Factory) deps(d Deps) Deps {
	d.Factory = f
	if d.Geography == nil {
		d.Geography = f.geography
	}
	return d
}

// NewHouseholdRecord returns a fresh household record of the bound schema.
func (f *Factory) NewHouseholdRecord() domain.HouseholdRecord {
	return f.MustResolve(KindHousehold).NewRecord().(domain.HouseholdRecord)
}

// NewPersonRecord returns a fresh person record of the bound schema.
func (f *Factory) NewPersonRecord() domain.PersonRecord {
	return f.MustResolve(KindPerson).NewRecord().(domain.PersonRecord)
}

// NewPersonDayRecord returns a fresh person-day record of the bound schema.
func (f *Factory) NewPersonDayRecord() domain.PersonDayRecord {
	return f.MustResolve(KindPersonDay).NewRecord().(domain.PersonDayRecord)
}

// NewTourRecord returns a fresh tour record of the bound schema.
func (f *Factory) NewTourRecord() domain.TourRecord {
	return f.MustResolve(KindTour).NewRecord().(domain.TourRecord)
}

// NewHalfTourRecord returns a fresh half-tour record of the bound schema.
func (f *Factory) NewHalfTourRecord() domain.HalfTourRecord {
	return f.MustResolve(KindHalfTour).NewRecord().(domain.HalfTourRecord)
}

// NewTripRecord returns a fresh trip record of the bound schema.
func (f *Factory) NewTripRecord() domain.TripRecord {
	return f.MustResolve(KindTrip).NewRecord().(domain.TripRecord)
}

// NewParkAndRideNodeRecord returns a fresh lot record of the bound schema.
func (f *Factory) NewParkAndRideNodeRecord() domain.ParkAndRideNodeRecord {
	return f.MustResolve(KindParkAndRideNode).NewRecord().(domain.ParkAndRideNodeRecord)
}

// WrapHousehold wraps a household record.
func (f *Factory) WrapHousehold(rec domain.Record) (HouseholdWrapper, error) {
	return wrapAs[HouseholdWrapper](f, KindHousehold, rec, Deps{})
}

// WrapPerson wraps a person record owned by household.
func (f *Factory) WrapPerson(rec domain.Record, household HouseholdWrapper) (PersonWrapper, error) {
	return wrapAs[PersonWrapper](f, KindPerson, rec, Deps{Household: household})
}

// WrapPersonDay wraps a person-day record owned by person.
func (f *Factory) WrapPersonDay(rec domain.Record, person PersonWrapper) (PersonDayWrapper, error) {
	deps := Deps{Person: person}
	if person != nil {
		deps.Household = person.Household()
	}
	return wrapAs[PersonDayWrapper](f, KindPersonDay, rec, deps)
}

// WrapTour wraps a tour record owned by day. parent is nil for home-based
// tours. Both half-tours are created and attached to the new wrapper.
func (f *Factory) WrapTour(rec domain.Record, day PersonDayWrapper, parent TourWrapper) (TourWrapper, error) {
	deps := Deps{PersonDay: day, ParentTour: parent}
	if day != nil {
		deps.Person = day.Person()
		deps.Household = day.Household()
	}
	tour, err := wrapAs[TourWrapper](f, KindTour, rec, deps)
	if err != nil {
		return nil, err
	}
	if err := f.attachHalfTours(tour); err != nil {
		return nil, err
	}
	return tour, nil
}

func (f *Factory) attachHalfTours(tour TourWrapper) error {
	for _, dir := range []domain.Direction{domain.DirectionOutbound, domain.DirectionReturn} {
		rec := f.NewHalfTourRecord()
		fields := rec.HalfTourFields()
		fields.ID = halfTourID(tour.ID(), dir)
		fields.TourID = tour.ID()
		fields.Direction = dir
		half, err := f.WrapHalfTour(rec, tour)
		if err != nil {
			return err
		}
		if err := tour.AttachHalfTour(half); err != nil {
			return err
		}
	}
	return nil
}

// WrapHalfTour wraps a half-tour record owned by tour.
func (f *Factory) WrapHalfTour(rec domain.Record, tour TourWrapper) (HalfTourWrapper, error) {
	return wrapAs[HalfTourWrapper](f, KindHalfTour, rec, Deps{Tour: tour})
}

// WrapTrip wraps a trip record owned by half.
func (f *Factory) WrapTrip(rec domain.Record, half HalfTourWrapper) (TripWrapper, error) {
	deps := Deps{HalfTour: half}
	if half != nil {
		deps.Tour = half.Tour()
	}
	return wrapAs[TripWrapper](f, KindTrip, rec, deps)
}

// WrapParkAndRideNode wraps a lot record.
func (f *Factory) WrapParkAndRideNode(rec domain.Record) (ParkAndRideNodeWrapper, error) {
	return wrapAs[ParkAndRideNodeWrapper](f, KindParkAndRideNode, rec, Deps{})
}

func wrapAs[W Wrapper](f *Factory, kind domain.EntityKind, rec domain.Record, deps Deps) (W, error) {
	var zero W
	c, err := f.Resolve(kind)
	if err != nil {
		return zero, err
	}
	w, err := c.Wrap(rec, f.deps(deps))
	if err != nil {
		return zero, err
	}
	typed, ok := w.(W)
	if !ok {
		return zero, fmt.Errorf("%w: %s/%s wrapper %T", ErrCapabilityMismatch, f.schema, kind, w)
	}
	return typed, nil
}

func halfTourID(tourID int, dir domain.Direction) int {
	return tourID*10 + int(dir)
}
