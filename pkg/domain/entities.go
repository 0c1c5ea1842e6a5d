// Package domain defines the raw entity records, value types, and ledger
// primitives shared by every travelcore schema variant.
package domain

// EntityKind identifies the kind of record a creator produces.
type EntityKind string

// Entity kinds resolved through the variant registry.
const (
	KindHousehold       EntityKind = "household"
	KindPerson          EntityKind = "person"
	KindPersonDay       EntityKind = "person_day"
	KindTour            EntityKind = "tour"
	KindHalfTour        EntityKind = "half_tour"
	KindTrip            EntityKind = "trip"
	KindParkAndRideNode EntityKind = "park_and_ride_node"
)

// EntityKinds lists every kind a schema must provide a creator for.
func EntityKinds() []EntityKind {
	return []EntityKind{
		KindHousehold,
		KindPerson,
		KindPersonDay,
		KindTour,
		KindHalfTour,
		KindTrip,
		KindParkAndRideNode,
	}
}

// Purpose enumerates activity purposes at tour destinations and stops.
type Purpose int

// Canonical purposes. PurposeBusiness is only understood by schemas that add it.
const (
	PurposeNoneOrHome Purpose = iota
	PurposeWork
	PurposeSchool
	PurposeEscort
	PurposePersonalBusiness
	PurposeShopping
	PurposeMeal
	PurposeSocial
	PurposeRecreation
	PurposeMedical
	PurposeChangeMode
	PurposeBusiness
)

var purposeNames = map[Purpose]string{
	PurposeNoneOrHome:       "none_or_home",
	PurposeWork:             "work",
	PurposeSchool:           "school",
	PurposeEscort:           "escort",
	PurposePersonalBusiness: "personal_business",
	PurposeShopping:         "shopping",
	PurposeMeal:             "meal",
	PurposeSocial:           "social",
	PurposeRecreation:       "recreation",
	PurposeMedical:          "medical",
	PurposeChangeMode:       "change_mode",
	PurposeBusiness:         "business",
}

func (p Purpose) String() string {
	if name, ok := purposeNames[p]; ok {
		return name
	}
	return "unknown"
}

// Direction distinguishes the two halves of a tour.
type Direction int

// Half-tour directions.
const (
	DirectionOutbound Direction = 1
	DirectionReturn   Direction = 2
)

func (d Direction) String() string {
	switch d {
	case DirectionOutbound:
		return "outbound"
	case DirectionReturn:
		return "return"
	default:
		return "unknown"
	}
}

// Valid reports whether d is one of the two half-tour directions.
func (d Direction) Valid() bool {
	return d == DirectionOutbound || d == DirectionReturn
}

// AddressType classifies a trip or tour end.
type AddressType int

// Address types.
const (
	AddressNone AddressType = iota
	AddressHome
	AddressUsualWorkplace
	AddressUsualSchool
	AddressOther
	AddressChangeMode
)

// Mode enumerates main travel modes.
type Mode int

// Travel modes.
const (
	ModeNone Mode = iota
	ModeWalk
	ModeBike
	ModeSOV
	ModeHOV2
	ModeHOV3
	ModeTransit
	ModeParkAndRide
	ModeSchoolBus
	ModeOther
)

// ValueOfTimeSegment groups tours by willingness to pay.
type ValueOfTimeSegment int

// Value-of-time segments.
const (
	VOTLow ValueOfTimeSegment = iota + 1
	VOTMedium
	VOTHigh
)

// Record is implemented by every raw entity record regardless of schema.
type Record interface {
	Kind() EntityKind
	RecordID() int
}

// Household is the base household record.
type Household struct {
	ID                int     `json:"id"`
	ExpansionFactor   float64 `json:"expansion_factor"`
	Size              int     `json:"size"`
	Income            int     `json:"income"`
	VehiclesAvailable int     `json:"vehicles_available"`
	ResidenceParcelID int     `json:"residence_parcel_id"`
	ResidenceZoneKey  int     `json:"residence_zone_key"`
}

func (h *Household) Kind() EntityKind            { return KindHousehold }
func (h *Household) RecordID() int               { return h.ID }
func (h *Household) HouseholdFields() *Household { return h }

// HouseholdRecord exposes the base household fields of any schema's record.
type HouseholdRecord interface {
	Record
	HouseholdFields() *Household
}

// Person is the base person record.
type Person struct {
	ID                  int `json:"id"`
	HouseholdID         int `json:"household_id"`
	Sequence            int `json:"sequence"`
	PersonType          int `json:"person_type"`
	Gender              int `json:"gender"`
	Age                 int `json:"age"`
	UsualWorkParcelID   int `json:"usual_work_parcel_id"`
	UsualWorkZoneKey    int `json:"usual_work_zone_key"`
	UsualSchoolParcelID int `json:"usual_school_parcel_id"`
	UsualSchoolZoneKey  int `json:"usual_school_zone_key"`
}

func (p *Person) Kind() EntityKind      { return KindPerson }
func (p *Person) RecordID() int         { return p.ID }
func (p *Person) PersonFields() *Person { return p }

// PersonRecord exposes the base person fields of any schema's record.
type PersonRecord interface {
	Record
	PersonFields() *Person
}

// PersonDay is the base person-day record. Tour and stop counts are written by
// day-pattern models; created and simulated counters live on the wrapper.
type PersonDay struct {
	ID                    int     `json:"id"`
	PersonID              int     `json:"person_id"`
	HouseholdID           int     `json:"household_id"`
	Day                   int     `json:"day"`
	ExpansionFactor       float64 `json:"expansion_factor"`
	DayBeginsAtHome       bool    `json:"day_begins_at_home"`
	DayEndsAtHome         bool    `json:"day_ends_at_home"`
	WorkTours             int     `json:"work_tours"`
	SchoolTours           int     `json:"school_tours"`
	EscortTours           int     `json:"escort_tours"`
	PersonalBusinessTours int     `json:"personal_business_tours"`
	ShoppingTours         int     `json:"shopping_tours"`
	MealTours             int     `json:"meal_tours"`
	SocialTours           int     `json:"social_tours"`
	RecreationTours       int     `json:"recreation_tours"`
	MedicalTours          int     `json:"medical_tours"`
	WorkStops             int     `json:"work_stops"`
	SchoolStops           int     `json:"school_stops"`
	EscortStops           int     `json:"escort_stops"`
	PersonalBusinessStops int     `json:"personal_business_stops"`
	ShoppingStops         int     `json:"shopping_stops"`
	MealStops             int     `json:"meal_stops"`
	SocialStops           int     `json:"social_stops"`
	RecreationStops       int     `json:"recreation_stops"`
	MedicalStops          int     `json:"medical_stops"`
}

func (d *PersonDay) Kind() EntityKind            { return KindPersonDay }
func (d *PersonDay) RecordID() int               { return d.ID }
func (d *PersonDay) PersonDayFields() *PersonDay { return d }

// PersonDayRecord exposes the base person-day fields of any schema's record.
type PersonDayRecord interface {
	Record
	PersonDayFields() *PersonDay
}

// Tour is the base tour record. Times are minutes after the 03:00 day start (1..1440).
type Tour struct {
	ID                       int                `json:"id"`
	PersonID                 int                `json:"person_id"`
	PersonDayID              int                `json:"person_day_id"`
	HouseholdID              int                `json:"household_id"`
	Day                      int                `json:"day"`
	Sequence                 int                `json:"sequence"`
	ParentTourID             int                `json:"parent_tour_id"`
	ExpansionFactor          float64            `json:"expansion_factor"`
	DestinationPurpose       Purpose            `json:"destination_purpose"`
	OriginAddressType        AddressType        `json:"origin_address_type"`
	OriginParcelID           int                `json:"origin_parcel_id"`
	OriginZoneKey            int                `json:"origin_zone_key"`
	DestinationAddressType   AddressType        `json:"destination_address_type"`
	DestinationParcelID      int                `json:"destination_parcel_id"`
	DestinationZoneKey       int                `json:"destination_zone_key"`
	Mode                     Mode               `json:"mode"`
	PathType                 int                `json:"path_type"`
	OriginDepartureTime      int                `json:"origin_departure_time"`
	DestinationArrivalTime   int                `json:"destination_arrival_time"`
	DestinationDepartureTime int                `json:"destination_departure_time"`
	OriginArrivalTime        int                `json:"origin_arrival_time"`
	ParkAndRideNodeID        int                `json:"park_and_ride_node_id"`
	ValueOfTimeSegment       ValueOfTimeSegment `json:"value_of_time_segment"`
	Subtours                 int                `json:"subtours"`
}

func (t *Tour) Kind() EntityKind  { return KindTour }
func (t *Tour) RecordID() int     { return t.ID }
func (t *Tour) TourFields() *Tour { return t }

// TourRecord exposes the base tour fields of any schema's record.
type TourRecord interface {
	Record
	TourFields() *Tour
}

// HalfTour is the record behind one direction of a tour.
type HalfTour struct {
	ID                 int       `json:"id"`
	TourID             int       `json:"tour_id"`
	Direction          Direction `json:"direction"`
	Paired             bool      `json:"paired"`
	ParticipantTourIDs []int     `json:"participant_tour_ids,omitempty"`
}

func (h *HalfTour) Kind() EntityKind          { return KindHalfTour }
func (h *HalfTour) RecordID() int             { return h.ID }
func (h *HalfTour) HalfTourFields() *HalfTour { return h }

// HalfTourRecord exposes the base half-tour fields of any schema's record.
type HalfTourRecord interface {
	Record
	HalfTourFields() *HalfTour
}

// Trip is the base trip record.
type Trip struct {
	ID                     int         `json:"id"`
	TourID                 int         `json:"tour_id"`
	PersonID               int         `json:"person_id"`
	PersonDayID            int         `json:"person_day_id"`
	HouseholdID            int         `json:"household_id"`
	Day                    int         `json:"day"`
	HalfTour               Direction   `json:"half_tour"`
	Sequence               int         `json:"sequence"`
	ExpansionFactor        float64     `json:"expansion_factor"`
	OriginPurpose          Purpose     `json:"origin_purpose"`
	DestinationPurpose     Purpose     `json:"destination_purpose"`
	OriginAddressType      AddressType `json:"origin_address_type"`
	OriginParcelID         int         `json:"origin_parcel_id"`
	OriginZoneKey          int         `json:"origin_zone_key"`
	DestinationAddressType AddressType `json:"destination_address_type"`
	DestinationParcelID    int         `json:"destination_parcel_id"`
	DestinationZoneKey     int         `json:"destination_zone_key"`
	Mode                   Mode        `json:"mode"`
	PathType               int         `json:"path_type"`
	DepartureTime          int         `json:"departure_time"`
	ArrivalTime            int         `json:"arrival_time"`
	IsToTourOrigin         bool        `json:"is_to_tour_origin"`
}

func (t *Trip) Kind() EntityKind  { return KindTrip }
func (t *Trip) RecordID() int     { return t.ID }
func (t *Trip) TripFields() *Trip { return t }

// TripRecord exposes the base trip fields of any schema's record.
type TripRecord interface {
	Record
	TripFields() *Trip
}

// ParkAndRideNode is a capacity-constrained park-and-ride lot. The four series
// always hold exactly MinutesInDay entries.
type ParkAndRideNode struct {
	ID                    int          `json:"id"`
	ZoneID                int          `json:"zone_id"`
	XCoordinate           float64      `json:"x_coordinate"`
	YCoordinate           float64      `json:"y_coordinate"`
	Capacity              float64      `json:"capacity"`
	Cost                  float64      `json:"cost"`
	NearestParcelID       int          `json:"nearest_parcel_id"`
	NearestStopAreaID     int          `json:"nearest_stop_area_id"`
	ShadowPriceDifference MinuteSeries `json:"-"`
	ShadowPrice           MinuteSeries `json:"-"`
	ExogenousLoad         MinuteSeries `json:"-"`
	ParkAndRideLoad       MinuteSeries `json:"-"`
}

func (n *ParkAndRideNode) Kind() EntityKind                    { return KindParkAndRideNode }
func (n *ParkAndRideNode) RecordID() int                       { return n.ID }
func (n *ParkAndRideNode) ParkAndRideFields() *ParkAndRideNode { return n }

// ParkAndRideNodeRecord exposes the base lot fields of any schema's record.
type ParkAndRideNodeRecord interface {
	Record
	ParkAndRideFields() *ParkAndRideNode
}

// Identity carries the keys that survive a wrapper reset.
type Identity struct {
	ID              int
	HouseholdID     int
	PersonID        int
	PersonDayID     int
	TourID          int
	ParentTourID    int
	Sequence        int
	Day             int
	Direction       Direction
	ExpansionFactor float64
}
