package core

import (
	"testing"

	"travelcore/pkg/domain"
)

const testSchema = "Test"

type testVariant struct {
	name     string
	creators map[domain.EntityKind]Creator
}

func (v testVariant) Name() string    { return v.name }
func (v testVariant) Version() string { return "0.0.1" }
func (v testVariant) Register(r *VariantRegistry) error {
	for kind, c := range v.creators {
		if err := r.Register(v.name, kind, c); err != nil {
			return err
		}
	}
	return nil
}

func baseCreators() map[domain.EntityKind]Creator {
	return map[domain.EntityKind]Creator{
		KindHousehold: NewCreator(KindHousehold,
			func() *domain.Household { return &domain.Household{} },
			func(r *domain.Household, d Deps) (*Household, error) { return NewHousehold(r, d) }),
		KindPerson: NewCreator(KindPerson,
			func() *domain.Person { return &domain.Person{} },
			func(r *domain.Person, d Deps) (*Person, error) { return NewPerson(r, d) }),
		KindPersonDay: NewCreator(KindPersonDay,
			func() *domain.PersonDay { return &domain.PersonDay{} },
			func(r *domain.PersonDay, d Deps) (*PersonDay, error) { return NewPersonDay(r, d) }),
		KindTour: NewCreator(KindTour,
			func() *domain.Tour { return &domain.Tour{} },
			func(r *domain.Tour, d Deps) (*Tour, error) { return NewTour(r, d) }),
		KindHalfTour: NewCreator(KindHalfTour,
			func() *domain.HalfTour { return &domain.HalfTour{} },
			func(r *domain.HalfTour, d Deps) (*HalfTour, error) { return NewHalfTour(r, d) }),
		KindTrip: NewCreator(KindTrip,
			func() *domain.Trip { return &domain.Trip{} },
			func(r *domain.Trip, d Deps) (*Trip, error) { return NewTrip(r, d) }),
		KindParkAndRideNode: NewCreator(KindParkAndRideNode,
			func() *domain.ParkAndRideNode { return &domain.ParkAndRideNode{} },
			func(r *domain.ParkAndRideNode, d Deps) (*ParkAndRideNode, error) { return NewParkAndRideNode(r, d) }),
	}
}

func newTestFactory(t *testing.T) *Factory {
	t.Helper()
	registry := NewVariantRegistry()
	if _, err := registry.Install(testVariant{name: testSchema, creators: baseCreators()}); err != nil {
		t.Fatalf("install: %v", err)
	}
	f, err := registry.Bind(testSchema)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	return f
}

type mapGeography map[int]int

func (g mapGeography) ZoneKey(parcelID int) (int, bool) {
	z, ok := g[parcelID]
	return z, ok
}

type graph struct {
	factory   *Factory
	household HouseholdWrapper
	person    PersonWrapper
	day       PersonDayWrapper
}

func newGraph(t *testing.T, f *Factory) graph {
	t.Helper()
	hh, err := f.WrapHousehold(&domain.Household{ID: 5, Income: 45000, ExpansionFactor: 2, ResidenceParcelID: 100, ResidenceZoneKey: 10})
	if err != nil {
		t.Fatalf("household: %v", err)
	}
	person, err := f.WrapPerson(&domain.Person{ID: 51, HouseholdID: 5, Sequence: 1}, hh)
	if err != nil {
		t.Fatalf("person: %v", err)
	}
	if err := hh.AttachPerson(person); err != nil {
		t.Fatalf("attach person: %v", err)
	}
	day, err := f.WrapPersonDay(&domain.PersonDay{ID: 511, Day: 1, ExpansionFactor: 2}, person)
	if err != nil {
		t.Fatalf("day: %v", err)
	}
	if err := person.AttachPersonDay(day); err != nil {
		t.Fatalf("attach day: %v", err)
	}
	return graph{factory: f, household: hh, person: person, day: day}
}
