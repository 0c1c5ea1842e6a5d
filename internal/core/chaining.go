package core

import (
	"fmt"

	"travelcore/pkg/domain"
)

// maxTripsPerHalf bounds trip ids within a half-tour.
const maxTripsPerHalf = 49

// TourRequest describes the destination of a tour being appended.
type TourRequest struct {
	Purpose                domain.Purpose
	DestinationAddressType domain.AddressType
	DestinationParcelID    int
	// DestinationZoneKey is used when no geography is bound or the parcel is unknown.
	DestinationZoneKey int
	Mode               domain.Mode
	PathType           int
}

// TripRequest describes a trip being appended to a half-tour. A zero
// StopPurpose on an intermediate trip defaults the destination purpose to work.
type TripRequest struct {
	StopPurpose            domain.Purpose
	DestinationAddressType domain.AddressType
	DestinationParcelID    int
	DestinationZoneKey     int
	// IsToTourOrigin closes the half-tour: the trip runs to the tour
	// destination when outbound and back to the tour origin when returning.
	IsToTourOrigin bool
}

// AppendTour creates the next home-based tour on day. The tour starts at the
// household residence and counts as a created tour for its purpose.
func (f *Factory) AppendTour(day PersonDayWrapper, req TourRequest) (TourWrapper, error) {
	if day == nil {
		return nil, MissingParentError{Kind: string(domain.KindTour), Parent: string(domain.KindPersonDay)}
	}
	if _, err := day.TourCount(req.Purpose); err != nil {
		return nil, err
	}
	hh := day.Household().Fields()
	rec := f.NewTourRecord()
	t := rec.TourFields()
	f.fillTour(t, day, req)
	t.Sequence = len(day.Tours()) + 1
	t.OriginAddressType = domain.AddressHome
	t.OriginParcelID = hh.ResidenceParcelID
	t.OriginZoneKey = f.zoneFor(hh.ResidenceParcelID, hh.ResidenceZoneKey)

	tour, err := f.WrapTour(rec, day, nil)
	if err != nil {
		return nil, err
	}
	if err := day.AttachTour(tour); err != nil {
		return nil, err
	}
	if err := day.IncrementCreatedTours(req.Purpose); err != nil {
		return nil, err
	}
	t.ValueOfTimeSegment = tour.ValueOfTimeSegment()
	return tour, nil
}

// AppendSubtour creates a work-based subtour of parent. It starts at the
// parent's destination and is linked to the parent for its whole life.
func (f *Factory) AppendSubtour(parent TourWrapper, req TourRequest) (TourWrapper, error) {
	if parent == nil {
		return nil, MissingParentError{Kind: string(domain.KindTour), Parent: "parent tour"}
	}
	if !parent.IsHomeBased() {
		return nil, fmt.Errorf("%w: tour %d is itself a subtour", errPrecondition, parent.ID())
	}
	day := parent.PersonDay()
	if _, err := day.TourCount(req.Purpose); err != nil {
		return nil, err
	}
	p := parent.Fields()
	rec := f.NewTourRecord()
	t := rec.TourFields()
	f.fillTour(t, day, req)
	t.Sequence = len(parent.Subtours()) + 1
	t.ParentTourID = p.ID
	t.OriginAddressType = p.DestinationAddressType
	t.OriginParcelID = p.DestinationParcelID
	t.OriginZoneKey = p.DestinationZoneKey

	tour, err := f.WrapTour(rec, day, parent)
	if err != nil {
		return nil, err
	}
	if err := parent.AttachSubtour(tour); err != nil {
		return nil, err
	}
	if err := day.IncrementCreatedTours(req.Purpose); err != nil {
		return nil, err
	}
	t.ValueOfTimeSegment = tour.ValueOfTimeSegment()
	return tour, nil
}

func (f *Factory) fillTour(t *domain.Tour, day PersonDayWrapper, req TourRequest) {
	d := day.Fields()
	t.ID = day.AllocateTourID()
	t.PersonID = d.PersonID
	t.PersonDayID = d.ID
	t.HouseholdID = d.HouseholdID
	t.Day = d.Day
	t.ExpansionFactor = day.Household().ExpansionFactor()
	t.DestinationPurpose = req.Purpose
	t.DestinationAddressType = req.DestinationAddressType
	t.DestinationParcelID = req.DestinationParcelID
	t.DestinationZoneKey = f.zoneFor(req.DestinationParcelID, req.DestinationZoneKey)
	t.Mode = req.Mode
	t.PathType = req.PathType
}

// AppendTrip chains a new trip onto half. The trip's origin is the previous
// trip's destination, or the tour anchor for the first trip in the half.
// Appending to a closed half-tour fails with domain.ErrHalfTourClosed.
func (f *Factory) AppendTrip(half HalfTourWrapper, req TripRequest) (TripWrapper, error) {
	if half == nil {
		return nil, MissingParentError{Kind: string(domain.KindTrip), Parent: string(domain.KindHalfTour)}
	}
	if half.IsClosed() {
		return nil, fmt.Errorf("%w: half-tour %d", domain.ErrHalfTourClosed, half.ID())
	}
	trips := half.Trips()
	seq := len(trips) + 1
	if seq > maxTripsPerHalf {
		return nil, fmt.Errorf("%w: half-tour %d already has %d trips", errPrecondition, half.ID(), len(trips))
	}
	tour := half.Tour()
	day := tour.PersonDay()
	dir := half.Direction()
	tf := tour.Fields()
	stop := !req.IsToTourOrigin && req.StopPurpose != domain.PurposeNoneOrHome
	if stop {
		if _, err := day.StopCount(req.StopPurpose); err != nil {
			return nil, err
		}
	}

	rec := f.NewTripRecord()
	t := rec.TripFields()
	t.ID = tripID(tf.ID, dir, seq)
	t.TourID = tf.ID
	t.PersonID = tf.PersonID
	t.PersonDayID = tf.PersonDayID
	t.HouseholdID = tf.HouseholdID
	t.Day = tf.Day
	t.HalfTour = dir
	t.Sequence = seq
	t.ExpansionFactor = tf.ExpansionFactor
	t.Mode = tf.Mode
	t.PathType = tf.PathType
	t.DepartureTime = domain.DefaultTripTime
	t.ArrivalTime = domain.DefaultTripTime
	t.IsToTourOrigin = req.IsToTourOrigin

	anchor := anchorPurpose(tour)
	switch {
	case seq > 1:
		prev := trips[seq-2].Fields()
		t.OriginAddressType = prev.DestinationAddressType
		t.OriginParcelID = prev.DestinationParcelID
		t.OriginZoneKey = prev.DestinationZoneKey
		t.OriginPurpose = prev.DestinationPurpose
	case dir == domain.DirectionOutbound:
		t.OriginAddressType = tf.OriginAddressType
		t.OriginParcelID = tf.OriginParcelID
		t.OriginZoneKey = tf.OriginZoneKey
		t.OriginPurpose = anchor
	default:
		t.OriginAddressType = tf.DestinationAddressType
		t.OriginParcelID = tf.DestinationParcelID
		t.OriginZoneKey = tf.DestinationZoneKey
		t.OriginPurpose = tf.DestinationPurpose
	}

	switch {
	case req.IsToTourOrigin && dir == domain.DirectionOutbound:
		t.DestinationAddressType = tf.DestinationAddressType
		t.DestinationParcelID = tf.DestinationParcelID
		t.DestinationZoneKey = tf.DestinationZoneKey
		t.DestinationPurpose = tf.DestinationPurpose
	case req.IsToTourOrigin:
		t.DestinationAddressType = tf.OriginAddressType
		t.DestinationParcelID = tf.OriginParcelID
		t.DestinationZoneKey = tf.OriginZoneKey
		t.DestinationPurpose = anchor
	default:
		t.DestinationAddressType = req.DestinationAddressType
		if t.DestinationAddressType == domain.AddressNone {
			t.DestinationAddressType = domain.AddressOther
		}
		t.DestinationParcelID = req.DestinationParcelID
		t.DestinationZoneKey = f.zoneFor(req.DestinationParcelID, req.DestinationZoneKey)
		t.DestinationPurpose = domain.PurposeWork
		if stop {
			t.DestinationPurpose = req.StopPurpose
		}
	}

	trip, err := f.WrapTrip(rec, half)
	if err != nil {
		return nil, err
	}
	if err := half.AttachTrip(trip); err != nil {
		return nil, err
	}
	if stop {
		if err := day.IncrementCreatedStops(req.StopPurpose); err != nil {
			return nil, err
		}
	}
	return trip, nil
}

// CompleteHalfTour appends one trip per intermediate stop and then the
// closing trip.
func (f *Factory) CompleteHalfTour(half HalfTourWrapper, stops ...TripRequest) ([]TripWrapper, error) {
	out := make([]TripWrapper, 0, len(stops)+1)
	for _, stop := range stops {
		stop.IsToTourOrigin = false
		trip, err := f.AppendTrip(half, stop)
		if err != nil {
			return out, err
		}
		out = append(out, trip)
	}
	closing, err := f.AppendTrip(half, TripRequest{IsToTourOrigin: true})
	if err != nil {
		return out, err
	}
	return append(out, closing), nil
}

// anchorPurpose is the activity at the tour origin: home for home-based tours,
// work for subtours.
func anchorPurpose(tour TourWrapper) domain.Purpose {
	if tour.IsHomeBased() {
		return domain.PurposeNoneOrHome
	}
	return domain.PurposeWork
}

func (f *Factory) zoneFor(parcelID, fallback int) int {
	if f.geography == nil || parcelID == 0 {
		return fallback
	}
	if zone, ok := f.geography.ZoneKey(parcelID); ok {
		return zone
	}
	return fallback
}

func tripID(tourID int, dir domain.Direction, seq int) int {
	return tourID*100 + (int(dir)-1)*50 + seq
}
