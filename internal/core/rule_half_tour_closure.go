package core

import (
	"context"
	"fmt"

	"travelcore/pkg/domain"
)

// HalfTourClosureRule warns about half-tours left open and blocks closed
// half-tours that do not end at their target: the tour destination when
// outbound, the tour origin when returning.
func HalfTourClosureRule() Rule {
	return halfTourClosureRule{}
}

type halfTourClosureRule struct{}

func (halfTourClosureRule) Name() string { return "half_tour_closure" }

func (halfTourClosureRule) Evaluate(_ context.Context, hh HouseholdWrapper) (Result, error) {
	var res Result
	eachTour(hh, func(tour TourWrapper) {
		tf := tour.Fields()
		for _, half := range halves(tour) {
			trips := half.Trips()
			if len(trips) == 0 {
				continue
			}
			if !half.IsClosed() {
				res.Violations = append(res.Violations, Violation{
					Rule: "half_tour_closure", Severity: SeverityWarn, Kind: string(domain.KindHalfTour), EntityID: half.ID(),
					Message: fmt.Sprintf("%s half of tour %d has %d trips but never reaches its target", half.Direction(), tf.ID, len(trips)),
				})
				continue
			}
			last := trips[len(trips)-1].Fields()
			wantParcel, wantZone := tf.DestinationParcelID, tf.DestinationZoneKey
			if half.Direction() == domain.DirectionReturn {
				wantParcel, wantZone = tf.OriginParcelID, tf.OriginZoneKey
			}
			if last.DestinationParcelID != wantParcel || last.DestinationZoneKey != wantZone {
				res.Violations = append(res.Violations, Violation{
					Rule: "half_tour_closure", Severity: SeverityBlock, Kind: string(domain.KindTrip), EntityID: last.ID,
					Message: fmt.Sprintf("closing trip %d ends at parcel %d, want %d", last.ID, last.DestinationParcelID, wantParcel),
				})
			}
		}
	})
	return res, nil
}
