package core

import (
	"fmt"

	"travelcore/pkg/domain"
)

// Income thresholds for the base value-of-time segments.
const (
	lowIncomeLimit    = 30000
	mediumIncomeLimit = 80000
)

// Tour is the base tour wrapper.
type Tour struct {
	record   domain.TourRecord
	day      PersonDayWrapper
	parent   TourWrapper
	factory  *Factory
	halves   [2]HalfTourWrapper
	subtours []TourWrapper
}

// NewTour wraps rec under deps.PersonDay. deps.ParentTour marks a subtour.
func NewTour(rec domain.TourRecord, deps Deps) (*Tour, error) {
	if deps.PersonDay == nil {
		return nil, MissingParentError{Kind: string(domain.KindTour), Parent: string(domain.KindPersonDay)}
	}
	f := rec.TourFields()
	day := deps.PersonDay.Fields()
	if f.PersonDayID == 0 {
		f.PersonDayID = day.ID
	}
	if f.PersonID == 0 {
		f.PersonID = day.PersonID
	}
	if f.HouseholdID == 0 {
		f.HouseholdID = day.HouseholdID
	}
	if f.Day == 0 {
		f.Day = day.Day
	}
	if deps.ParentTour != nil {
		f.ParentTourID = deps.ParentTour.ID()
	}
	return &Tour{record: rec, day: deps.PersonDay, parent: deps.ParentTour, factory: deps.Factory}, nil
}

func (t *Tour) Kind() domain.EntityKind     { return domain.KindTour }
func (t *Tour) ID() int                     { return t.record.TourFields().ID }
func (t *Tour) Record() domain.TourRecord   { return t.record }
func (t *Tour) Fields() *domain.Tour        { return t.record.TourFields() }
func (t *Tour) PersonDay() PersonDayWrapper { return t.day }
func (t *Tour) Person() PersonWrapper       { return t.day.Person() }
func (t *Tour) Household() HouseholdWrapper { return t.day.Household() }
func (t *Tour) ParentTour() TourWrapper     { return t.parent }
func (t *Tour) Purpose() domain.Purpose {
	return t.record.TourFields().DestinationPurpose
}
func (t *Tour) Sequence() int { return t.record.TourFields().Sequence }
func (t *Tour) Subtours() []TourWrapper {
	return append([]TourWrapper(nil), t.subtours...)
}
func (t *Tour) IsHomeBased() bool {
	return t.parent == nil && t.record.TourFields().ParentTourID == 0
}

func (t *Tour) Identity() domain.Identity {
	f := t.record.TourFields()
	return domain.Identity{
		ID:              f.ID,
		HouseholdID:     f.HouseholdID,
		PersonID:        f.PersonID,
		PersonDayID:     f.PersonDayID,
		TourID:          f.ID,
		ParentTourID:    f.ParentTourID,
		Sequence:        f.Sequence,
		Day:             f.Day,
		ExpansionFactor: f.ExpansionFactor,
	}
}

// HalfTour returns the half-tour for dir.
func (t *Tour) HalfTour(dir domain.Direction) (HalfTourWrapper, error) {
	if !dir.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidDirection, dir)
	}
	h := t.halves[dir-1]
	if h == nil {
		return nil, fmt.Errorf("%w: tour %d has no %s half-tour", errPrecondition, t.ID(), dir)
	}
	return h, nil
}

// AttachHalfTour installs h as this tour's half-tour for h's direction.
func (t *Tour) AttachHalfTour(h HalfTourWrapper) error {
	if h == nil {
		return fmt.Errorf("%w: nil half-tour", errPrecondition)
	}
	dir := h.Direction()
	if !dir.Valid() {
		return fmt.Errorf("%w: %d", domain.ErrInvalidDirection, dir)
	}
	if h.Fields().TourID != t.ID() {
		return fmt.Errorf("%w: half-tour %d belongs to tour %d, not %d", errPrecondition, h.ID(), h.Fields().TourID, t.ID())
	}
	t.halves[dir-1] = h
	return nil
}

// AttachSubtour adds a work-based subtour whose parent is this tour.
func (t *Tour) AttachSubtour(sub TourWrapper) error {
	if sub == nil {
		return fmt.Errorf("%w: nil subtour", errPrecondition)
	}
	if sub.Fields().ParentTourID != t.ID() {
		return fmt.Errorf("%w: subtour %d has parent %d, not %d", errPrecondition, sub.ID(), sub.Fields().ParentTourID, t.ID())
	}
	t.subtours = append(t.subtours, sub)
	t.record.TourFields().Subtours = len(t.subtours)
	return nil
}

// ValueOfTimeSegment derives the segment from household income.
func (t *Tour) ValueOfTimeSegment() domain.ValueOfTimeSegment {
	income := t.day.Household().Fields().Income
	switch {
	case income < lowIncomeLimit:
		return domain.VOTLow
	case income < mediumIncomeLimit:
		return domain.VOTMedium
	default:
		return domain.VOTHigh
	}
}

// SetTimes writes the four tour-end times. Each must be a valid day minute
// and the sequence must not run backwards.
func (t *Tour) SetTimes(originDeparture, destinationArrival, destinationDeparture, originArrival int) error {
	times := []int{originDeparture, destinationArrival, destinationDeparture, originArrival}
	for i, m := range times {
		if _, err := domain.MinuteIndex(m); err != nil {
			return err
		}
		if i > 0 && m < times[i-1] {
			return fmt.Errorf("%w: tour %d times out of order %v", errPrecondition, t.ID(), times)
		}
	}
	f := t.record.TourFields()
	f.OriginDepartureTime = originDeparture
	f.DestinationArrivalTime = destinationArrival
	f.DestinationDepartureTime = destinationDeparture
	f.OriginArrivalTime = originArrival
	return nil
}

// ParkingWindow reports the minutes a park-and-ride tour's vehicle stays at its
// lot: from the outbound arrival at the destination to the return departure.
func (t *Tour) ParkingWindow() (from, to int, ok bool) {
	f := t.record.TourFields()
	if f.Mode != domain.ModeParkAndRide || f.ParkAndRideNodeID == 0 {
		return 0, 0, false
	}
	from, to = f.DestinationArrivalTime, f.DestinationDepartureTime
	if _, err := domain.MinuteIndex(from); err != nil {
		return 0, 0, false
	}
	if _, err := domain.MinuteIndex(to); err != nil || to < from {
		return 0, 0, false
	}
	return from, to, true
}

// Reset rebuilds the record from the identity keys, clears derived fields,
// resets both half-tours and drops subtours.
func (t *Tour) Reset() error {
	old := t.record.TourFields()
	var rec domain.TourRecord
	if t.factory != nil {
		rec = t.factory.NewTourRecord()
	} else {
		rec = &domain.Tour{}
	}
	f := rec.TourFields()
	f.ID = old.ID
	f.PersonID = old.PersonID
	f.PersonDayID = old.PersonDayID
	f.HouseholdID = old.HouseholdID
	f.Day = old.Day
	f.Sequence = old.Sequence
	f.ParentTourID = old.ParentTourID
	f.ExpansionFactor = old.ExpansionFactor
	t.record = rec
	t.subtours = nil
	for _, h := range t.halves {
		if h == nil {
			continue
		}
		if err := h.Reset(); err != nil {
			return fmt.Errorf("reset tour %d: %w", f.ID, err)
		}
	}
	return nil
}
