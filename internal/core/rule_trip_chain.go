package core

import (
	"context"
	"fmt"

	"travelcore/pkg/domain"
)

// TripChainRule checks that each trip starts where the previous one ended,
// that the first trip of a half starts at the half's anchor, and that
// sequences run 1..n.
func TripChainRule() Rule {
	return tripChainRule{}
}

type tripChainRule struct{}

func (tripChainRule) Name() string { return "trip_chain" }

type place struct {
	addressType domain.AddressType
	parcel      int
	zone        int
}

func (tripChainRule) Evaluate(_ context.Context, hh HouseholdWrapper) (Result, error) {
	var res Result
	eachTour(hh, func(tour TourWrapper) {
		tf := tour.Fields()
		for _, half := range halves(tour) {
			prev := place{tf.OriginAddressType, tf.OriginParcelID, tf.OriginZoneKey}
			if half.Direction() == domain.DirectionReturn {
				prev = place{tf.DestinationAddressType, tf.DestinationParcelID, tf.DestinationZoneKey}
			}
			for i, trip := range half.Trips() {
				f := trip.Fields()
				if f.Sequence != i+1 {
					res.Violations = append(res.Violations, chainViolation(f.ID, fmt.Sprintf("trip %d has sequence %d at position %d", f.ID, f.Sequence, i+1)))
				}
				origin := place{f.OriginAddressType, f.OriginParcelID, f.OriginZoneKey}
				if origin != prev {
					res.Violations = append(res.Violations, chainViolation(f.ID, fmt.Sprintf("trip %d starts at parcel %d zone %d, previous leg ended at parcel %d zone %d",
						f.ID, origin.parcel, origin.zone, prev.parcel, prev.zone)))
				}
				prev = place{f.DestinationAddressType, f.DestinationParcelID, f.DestinationZoneKey}
			}
		}
	})
	return res, nil
}

func chainViolation(tripID int, msg string) Violation {
	return Violation{Rule: "trip_chain", Severity: SeverityBlock, Kind: string(domain.KindTrip), EntityID: tripID, Message: msg}
}
