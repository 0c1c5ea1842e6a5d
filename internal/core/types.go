package core

import "travelcore/pkg/domain"

// Entity kinds re-exported for callers that only import core.
const (
	KindHousehold       = domain.KindHousehold
	KindPerson          = domain.KindPerson
	KindPersonDay       = domain.KindPersonDay
	KindTour            = domain.KindTour
	KindHalfTour        = domain.KindHalfTour
	KindTrip            = domain.KindTrip
	KindParkAndRideNode = domain.KindParkAndRideNode
)

var errPrecondition = domain.ErrPrecondition
