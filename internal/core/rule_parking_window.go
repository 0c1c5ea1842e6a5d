package core

import (
	"context"
	"fmt"

	"travelcore/pkg/domain"
)

// ParkingWindowRule blocks park-and-ride tours whose lot has no usable
// parking window and warns about lots recorded on other modes.
func ParkingWindowRule() Rule {
	return parkingWindowRule{}
}

type parkingWindowRule struct{}

func (parkingWindowRule) Name() string { return "parking_window" }

func (parkingWindowRule) Evaluate(_ context.Context, hh HouseholdWrapper) (Result, error) {
	var res Result
	eachTour(hh, func(tour TourWrapper) {
		f := tour.Fields()
		if f.ParkAndRideNodeID == 0 {
			return
		}
		if f.Mode != domain.ModeParkAndRide {
			res.Violations = append(res.Violations, Violation{
				Rule: "parking_window", Severity: SeverityWarn, Kind: string(domain.KindTour), EntityID: f.ID,
				Message: fmt.Sprintf("tour %d records lot %d but travels by mode %d", f.ID, f.ParkAndRideNodeID, f.Mode),
			})
			return
		}
		if _, _, ok := tour.ParkingWindow(); !ok {
			res.Violations = append(res.Violations, Violation{
				Rule: "parking_window", Severity: SeverityBlock, Kind: string(domain.KindTour), EntityID: f.ID,
				Message: fmt.Sprintf("tour %d parks at lot %d from minute %d to %d", f.ID, f.ParkAndRideNodeID,
					f.DestinationArrivalTime, f.DestinationDepartureTime),
			})
		}
	})
	return res, nil
}
