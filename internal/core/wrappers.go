package core

import "travelcore/pkg/domain"

// Geography is the read-only reference-data collaborator used by wrappers.
type Geography interface {
	ZoneKey(parcelID int) (int, bool)
}

// Wrapper is the behavior every entity wrapper shares.
type Wrapper interface {
	Kind() domain.EntityKind
	ID() int
	Identity() domain.Identity
	// Reset rebuilds the backing record from the identity keys and zeroes
	// derived state. Owned children are discarded or reset in turn.
	Reset() error
}

// HouseholdWrapper owns the full entity graph for one household.
type HouseholdWrapper interface {
	Wrapper
	Record() domain.HouseholdRecord
	Fields() *domain.Household
	ExpansionFactor() float64
	Persons() []PersonWrapper
	AttachPerson(p PersonWrapper) error
}

// PersonWrapper wraps a person and owns their person-days.
type PersonWrapper interface {
	Wrapper
	Record() domain.PersonRecord
	Fields() *domain.Person
	Household() HouseholdWrapper
	PersonDays() []PersonDayWrapper
	AttachPersonDay(d PersonDayWrapper) error
}

// PersonDayWrapper carries the per-purpose tour and stop counters of one day.
// Variant wrappers extend the counters by delegating to a base wrapper and
// adding their own purposes.
type PersonDayWrapper interface {
	Wrapper
	Record() domain.PersonDayRecord
	Fields() *domain.PersonDay
	Person() PersonWrapper
	Household() HouseholdWrapper
	Day() int
	Tours() []TourWrapper
	AttachTour(t TourWrapper) error
	AllocateTourID() int

	TourCount(p domain.Purpose) (int, error)
	SetTourCount(p domain.Purpose, n int) error
	StopCount(p domain.Purpose) (int, error)
	SetStopCount(p domain.Purpose, n int) error

	CreatedTours(p domain.Purpose) (int, error)
	SimulatedTours(p domain.Purpose) (int, error)
	CreatedStops(p domain.Purpose) (int, error)
	SimulatedStops(p domain.Purpose) (int, error)
	IncrementCreatedTours(p domain.Purpose) error
	IncrementSimulatedTours(p domain.Purpose) error
	IncrementCreatedStops(p domain.Purpose) error
	IncrementSimulatedStops(p domain.Purpose) error

	TotalTours() int
	TotalStops() int
	TotalCreatedTours() int
	TotalSimulatedTours() int
	TotalCreatedStops() int
	TotalSimulatedStops() int
}

// TourWrapper wraps a home-based tour or a work-based subtour.
type TourWrapper interface {
	Wrapper
	Record() domain.TourRecord
	Fields() *domain.Tour
	PersonDay() PersonDayWrapper
	Person() PersonWrapper
	Household() HouseholdWrapper
	ParentTour() TourWrapper
	IsHomeBased() bool
	Purpose() domain.Purpose
	Sequence() int
	HalfTour(dir domain.Direction) (HalfTourWrapper, error)
	AttachHalfTour(h HalfTourWrapper) error
	Subtours() []TourWrapper
	AttachSubtour(t TourWrapper) error
	ValueOfTimeSegment() domain.ValueOfTimeSegment
	SetTimes(originDeparture, destinationArrival, destinationDeparture, originArrival int) error
	// ParkingWindow reports the first and last minute a park-and-ride vehicle
	// occupies its lot.
	ParkingWindow() (from, to int, ok bool)
}

// HalfTourWrapper owns the ordered trips of one tour direction.
type HalfTourWrapper interface {
	Wrapper
	Record() domain.HalfTourRecord
	Fields() *domain.HalfTour
	Tour() TourWrapper
	Direction() domain.Direction
	Trips() []TripWrapper
	IsClosed() bool
	AttachTrip(t TripWrapper) error
	AddParticipant(tourID int)
}

// TripWrapper wraps one trip within a half-tour.
type TripWrapper interface {
	Wrapper
	Record() domain.TripRecord
	Fields() *domain.Trip
	HalfTour() HalfTourWrapper
	Tour() TourWrapper
	Direction() domain.Direction
	Sequence() int
	IsToTourOrigin() bool
	SetTimes(departure, arrival int) error
}

// ParkAndRideNodeWrapper wraps a capacity-constrained lot and its minute series.
type ParkAndRideNodeWrapper interface {
	Wrapper
	Record() domain.ParkAndRideNodeRecord
	Fields() *domain.ParkAndRideNode
	Capacity() float64
	ShadowPriceAt(minute int) (float64, error)
	ResetLoad()
}

var (
	_ HouseholdWrapper       = (*Household)(nil)
	_ PersonWrapper          = (*Person)(nil)
	_ PersonDayWrapper       = (*PersonDay)(nil)
	_ TourWrapper            = (*Tour)(nil)
	_ HalfTourWrapper        = (*HalfTour)(nil)
	_ TripWrapper            = (*Trip)(nil)
	_ ParkAndRideNodeWrapper = (*ParkAndRideNode)(nil)
)
