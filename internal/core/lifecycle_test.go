package core

import (
	"errors"
	"testing"

	"travelcore/pkg/domain"
)

func TestResetPreservesIdentityAndZeroesCounters(t *testing.T) {
	f := newTestFactory(t)
	g := newGraph(t, f)
	tour, err := f.AppendTour(g.day, TourRequest{Purpose: domain.PurposeWork, DestinationParcelID: 300, Mode: domain.ModeParkAndRide})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	out, _ := tour.HalfTour(domain.DirectionOutbound)
	trip, err := f.AppendTrip(out, TripRequest{StopPurpose: domain.PurposeEscort, DestinationParcelID: 3})
	if err != nil {
		t.Fatalf("trip: %v", err)
	}
	if err := g.day.SetTourCount(domain.PurposeWork, 2); err != nil {
		t.Fatalf("set: %v", err)
	}
	_ = g.day.IncrementSimulatedTours(domain.PurposeWork)
	_ = g.day.IncrementSimulatedStops(domain.PurposeEscort)

	wrappers := []Wrapper{g.household, g.person, g.day, tour, out, trip}
	before := make([]domain.Identity, len(wrappers))
	for i, w := range wrappers {
		before[i] = w.Identity()
	}
	// trip and tour are reset directly since the day discards them.
	for _, w := range []Wrapper{trip, tour, g.household} {
		if err := w.Reset(); err != nil {
			t.Fatalf("reset %s: %v", w.Kind(), err)
		}
	}
	for i, w := range wrappers {
		if got := w.Identity(); got != before[i] {
			t.Fatalf("%s identity changed: %+v vs %+v", w.Kind(), got, before[i])
		}
	}
	if g.day.TotalTours() != 0 || g.day.TotalCreatedTours() != 0 || g.day.TotalSimulatedTours() != 0 ||
		g.day.TotalCreatedStops() != 0 || g.day.TotalSimulatedStops() != 0 {
		t.Fatalf("day counters not zeroed")
	}
	if len(g.day.Tours()) != 0 || len(out.Trips()) != 0 {
		t.Fatalf("children not discarded")
	}
	if tour.Fields().Mode != domain.ModeNone || tour.Fields().DestinationParcelID != 0 {
		t.Fatalf("tour derived fields not cleared: %+v", tour.Fields())
	}
	if trip.Fields().DestinationParcelID != 0 || trip.Fields().Sequence != 1 {
		t.Fatalf("trip reset wrong: %+v", trip.Fields())
	}

	again, err := f.AppendTour(g.day, TourRequest{Purpose: domain.PurposeWork})
	if err != nil {
		t.Fatalf("append after reset: %v", err)
	}
	if again.ID() != before[3].ID {
		t.Fatalf("tour id allocation must restart after reset: %d vs %d", again.ID(), before[3].ID)
	}
}

func TestAttachGuards(t *testing.T) {
	f := newTestFactory(t)
	g := newGraph(t, f)
	stranger, err := f.WrapPerson(&domain.Person{ID: 99, HouseholdID: 77}, g.household)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if err := g.household.AttachPerson(stranger); !errors.Is(err, domain.ErrPrecondition) {
		t.Fatalf("expected precondition for foreign person, got %v", err)
	}
	if err := g.household.AttachPerson(nil); !errors.Is(err, domain.ErrPrecondition) {
		t.Fatalf("expected precondition for nil person")
	}
	otherDay, _ := f.WrapPersonDay(&domain.PersonDay{ID: 600, PersonID: 1234}, g.person)
	if err := g.person.AttachPersonDay(otherDay); !errors.Is(err, domain.ErrPrecondition) {
		t.Fatalf("expected precondition for foreign day, got %v", err)
	}
}

func TestTourTimesAndParkingWindow(t *testing.T) {
	f := newTestFactory(t)
	g := newGraph(t, f)
	tour, _ := f.AppendTour(g.day, TourRequest{Purpose: domain.PurposeWork, Mode: domain.ModeParkAndRide})
	if err := tour.SetTimes(300, 360, 900, 960); err != nil {
		t.Fatalf("set times: %v", err)
	}
	if _, _, ok := tour.ParkingWindow(); ok {
		t.Fatalf("no lot chosen yet, window must be empty")
	}
	tour.Fields().ParkAndRideNodeID = 4
	from, to, ok := tour.ParkingWindow()
	if !ok || from != 360 || to != 900 {
		t.Fatalf("window=%d..%d ok=%v", from, to, ok)
	}
	if err := tour.SetTimes(0, 10, 20, 30); !errors.Is(err, domain.ErrMinuteOutOfRange) {
		t.Fatalf("expected minute out of range, got %v", err)
	}
	if err := tour.SetTimes(10, 5, 20, 30); !errors.Is(err, domain.ErrPrecondition) {
		t.Fatalf("expected ordering precondition, got %v", err)
	}
	out, _ := tour.HalfTour(domain.DirectionOutbound)
	trip, _ := f.AppendTrip(out, TripRequest{IsToTourOrigin: true})
	if err := trip.SetTimes(1441, 1441); !errors.Is(err, domain.ErrMinuteOutOfRange) {
		t.Fatalf("expected minute out of range, got %v", err)
	}
	if err := trip.SetTimes(20, 10); !errors.Is(err, domain.ErrPrecondition) {
		t.Fatalf("expected ordering precondition, got %v", err)
	}
	if err := trip.SetTimes(300, 330); err != nil || trip.Fields().ArrivalTime != 330 {
		t.Fatalf("set trip times: %v", err)
	}
}

func TestParkAndRideNodeWrapper(t *testing.T) {
	f := newTestFactory(t)
	rec := &domain.ParkAndRideNode{ID: 8, Capacity: 50}
	_ = rec.ShadowPrice.Set(1440, 2.5)
	rec.ParkAndRideLoad[3] = 9
	node, err := f.WrapParkAndRideNode(rec)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if p, err := node.ShadowPriceAt(1440); err != nil || p != 2.5 {
		t.Fatalf("price at 1440 = %v, %v", p, err)
	}
	if _, err := node.ShadowPriceAt(0); !errors.Is(err, domain.ErrMinuteOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
	if err := node.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if rec.ParkAndRideLoad[3] != 0 || rec.ShadowPrice[1439] != 2.5 {
		t.Fatalf("reset must clear load only")
	}
	if _, err := f.WrapParkAndRideNode(&domain.ParkAndRideNode{ID: 9, Capacity: -1}); !errors.Is(err, domain.ErrPrecondition) {
		t.Fatalf("expected negative capacity precondition, got %v", err)
	}
}
