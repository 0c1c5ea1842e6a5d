package simulation

import (
	"context"
	"testing"

	"github.com/paulmach/orb"

	"travelcore/internal/core"
	"travelcore/internal/geography"
	"travelcore/internal/shadowprice"
	"travelcore/pkg/domain"
	"travelcore/plugins/standard"
)

const workParcel = 9000

type fixture struct {
	factory *core.Factory
	ref     *geography.Reference
	pop     Population
}

// newFixture builds n single-person households living next to lot 1, with
// lot 2 a little farther away. Both lots hold capacity vehicles.
func newFixture(t *testing.T, n int, capacity float64) fixture {
	t.Helper()
	registry := core.NewVariantRegistry()
	if _, err := registry.Install(standard.New()); err != nil {
		t.Fatalf("install: %v", err)
	}
	factory, err := registry.Bind(standard.SchemaName)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	parcels := []geography.Parcel{{ID: workParcel, ZoneKey: 90, Location: orb.Point{100, 0}}}
	for i := 1; i <= n; i++ {
		parcels = append(parcels, geography.Parcel{ID: 1000 + i, ZoneKey: 10, Location: orb.Point{float64(i) * 0.01, 1}})
	}
	lots := []geography.Node{
		{ID: 1, ZoneKey: 10, Location: orb.Point{0, 0}},
		{ID: 2, ZoneKey: 20, Location: orb.Point{10, 0}},
	}
	ref, err := geography.New(parcels, lots)
	if err != nil {
		t.Fatalf("geography: %v", err)
	}
	factory = factory.WithGeography(ref)

	var pop Population
	for _, lot := range lots {
		node, err := factory.WrapParkAndRideNode(&domain.ParkAndRideNode{ID: lot.ID, ZoneID: lot.ZoneKey, Capacity: capacity})
		if err != nil {
			t.Fatalf("node %d: %v", lot.ID, err)
		}
		pop.Nodes = append(pop.Nodes, node)
	}
	for i := 1; i <= n; i++ {
		hh, err := factory.WrapHousehold(&domain.Household{ID: i, Income: 50000, ExpansionFactor: 1, ResidenceParcelID: 1000 + i})
		if err != nil {
			t.Fatalf("household: %v", err)
		}
		person, err := factory.WrapPerson(&domain.Person{ID: i*10 + 1, HouseholdID: i, Sequence: 1}, hh)
		if err != nil {
			t.Fatalf("person: %v", err)
		}
		if err := hh.AttachPerson(person); err != nil {
			t.Fatalf("attach person: %v", err)
		}
		day, err := factory.WrapPersonDay(&domain.PersonDay{ID: i*100 + 11, Day: 1, ExpansionFactor: 1}, person)
		if err != nil {
			t.Fatalf("day: %v", err)
		}
		if err := person.AttachPersonDay(day); err != nil {
			t.Fatalf("attach day: %v", err)
		}
		pop.Households = append(pop.Households, hh)
	}
	return fixture{factory: factory, ref: ref, pop: pop}
}

// cheapestLot prefers the lowest shadow price.
func cheapestLot(_ core.TourWrapper, _ core.ParkAndRideNodeWrapper, price float64) float64 {
	return -price
}

func (fx fixture) choice(t *testing.T) *ParkAndRideChoice {
	t.Helper()
	c, err := NewParkAndRideChoice(fx.pop.Nodes, fx.ref, MaxUtility(), cheapestLot, 0)
	if err != nil {
		t.Fatalf("choice: %v", err)
	}
	return c
}

// commuter gives every person-day one park-and-ride work tour parked from
// 480 to 1020.
func (fx fixture) commuter(t *testing.T) HouseholdFunc {
	choice := fx.choice(t)
	return func(_ context.Context, hh core.HouseholdWrapper, acc *shadowprice.Accumulator) error {
		for _, p := range hh.Persons() {
			for _, day := range p.PersonDays() {
				tour, err := fx.factory.AppendTour(day, core.TourRequest{
					Purpose:                domain.PurposeWork,
					DestinationAddressType: domain.AddressUsualWorkplace,
					DestinationParcelID:    workParcel,
					Mode:                   domain.ModeParkAndRide,
				})
				if err != nil {
					return err
				}
				if err := tour.SetTimes(420, 480, 1020, 1080); err != nil {
					return err
				}
				if _, err := choice.Choose(tour); err != nil {
					return err
				}
				for _, dir := range []domain.Direction{domain.DirectionOutbound, domain.DirectionReturn} {
					half, err := tour.HalfTour(dir)
					if err != nil {
						return err
					}
					if _, err := fx.factory.CompleteHalfTour(half); err != nil {
						return err
					}
				}
				if err := RecordParking(acc, tour); err != nil {
					return err
				}
			}
		}
		return nil
	}
}
