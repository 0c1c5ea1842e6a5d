package nordic

import "travelcore/pkg/domain"

// PersonRecord extends the base person with the regional transit pass field.
type PersonRecord struct {
	domain.Person
	TransitPass int `json:"transit_pass"`
}

// PersonDayRecord extends the base person-day with business tour and stop counts.
type PersonDayRecord struct {
	domain.PersonDay
	BusinessTours int `json:"business_tours"`
	BusinessStops int `json:"business_stops"`
}

var (
	_ domain.PersonRecord    = (*PersonRecord)(nil)
	_ domain.PersonDayRecord = (*PersonDayRecord)(nil)
)
