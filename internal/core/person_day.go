package core

import (
	"fmt"

	"travelcore/pkg/domain"
)

const basePurposeSlots = int(domain.PurposeMedical) + 1

// PersonDay is the base person-day wrapper. Variant wrappers embed the
// counting logic by holding a *PersonDay and adding their own purposes.
type PersonDay struct {
	record  domain.PersonDayRecord
	person  PersonWrapper
	factory *Factory
	tours   []TourWrapper
	nextID  int

	createdTours   [basePurposeSlots]int
	simulatedTours [basePurposeSlots]int
	createdStops   [basePurposeSlots]int
	simulatedStops [basePurposeSlots]int
}

// NewPersonDay wraps rec under deps.Person.
func NewPersonDay(rec domain.PersonDayRecord, deps Deps) (*PersonDay, error) {
	if deps.Person == nil {
		return nil, MissingParentError{Kind: string(domain.KindPersonDay), Parent: string(domain.KindPerson)}
	}
	f := rec.PersonDayFields()
	if f.PersonID == 0 {
		f.PersonID = deps.Person.ID()
	}
	if f.HouseholdID == 0 {
		f.HouseholdID = deps.Person.Fields().HouseholdID
	}
	return &PersonDay{record: rec, person: deps.Person, factory: deps.Factory}, nil
}

func (d *PersonDay) Kind() domain.EntityKind        { return domain.KindPersonDay }
func (d *PersonDay) ID() int                        { return d.record.PersonDayFields().ID }
func (d *PersonDay) Record() domain.PersonDayRecord { return d.record }
func (d *PersonDay) Fields() *domain.PersonDay      { return d.record.PersonDayFields() }
func (d *PersonDay) Person() PersonWrapper          { return d.person }
func (d *PersonDay) Household() HouseholdWrapper    { return d.person.Household() }
func (d *PersonDay) Day() int                       { return d.record.PersonDayFields().Day }
func (d *PersonDay) Tours() []TourWrapper {
	return append([]TourWrapper(nil), d.tours...)
}

func (d *PersonDay) Identity() domain.Identity {
	f := d.record.PersonDayFields()
	return domain.Identity{
		ID:              f.ID,
		HouseholdID:     f.HouseholdID,
		PersonID:        f.PersonID,
		PersonDayID:     f.ID,
		Day:             f.Day,
		ExpansionFactor: f.ExpansionFactor,
	}
}

// AttachTour adds a home-based tour built against this day.
func (d *PersonDay) AttachTour(t TourWrapper) error {
	if t == nil {
		return fmt.Errorf("%w: nil tour", errPrecondition)
	}
	if t.Fields().PersonDayID != d.ID() {
		return fmt.Errorf("%w: tour %d belongs to day %d, not %d", errPrecondition, t.ID(), t.Fields().PersonDayID, d.ID())
	}
	d.tours = append(d.tours, t)
	return nil
}

// AllocateTourID returns the next tour id for this day. Ids are stable across
// passes because Reset rewinds the allocator.
func (d *PersonDay) AllocateTourID() int {
	d.nextID++
	return d.ID()*1000 + d.nextID
}

func (d *PersonDay) tourField(p domain.Purpose) (*int, error) {
	f := d.record.PersonDayFields()
	switch p {
	case domain.PurposeWork:
		return &f.WorkTours, nil
	case domain.PurposeSchool:
		return &f.SchoolTours, nil
	case domain.PurposeEscort:
		return &f.EscortTours, nil
	case domain.PurposePersonalBusiness:
		return &f.PersonalBusinessTours, nil
	case domain.PurposeShopping:
		return &f.ShoppingTours, nil
	case domain.PurposeMeal:
		return &f.MealTours, nil
	case domain.PurposeSocial:
		return &f.SocialTours, nil
	case domain.PurposeRecreation:
		return &f.RecreationTours, nil
	case domain.PurposeMedical:
		return &f.MedicalTours, nil
	}
	return nil, fmt.Errorf("%w: %s tours", domain.ErrUnsupportedPurpose, p)
}

func (d *PersonDay) stopField(p domain.Purpose) (*int, error) {
	f := d.record.PersonDayFields()
	switch p {
	case domain.PurposeWork:
		return &f.WorkStops, nil
	case domain.PurposeSchool:
		return &f.SchoolStops, nil
	case domain.PurposeEscort:
		return &f.EscortStops, nil
	case domain.PurposePersonalBusiness:
		return &f.PersonalBusinessStops, nil
	case domain.PurposeShopping:
		return &f.ShoppingStops, nil
	case domain.PurposeMeal:
		return &f.MealStops, nil
	case domain.PurposeSocial:
		return &f.SocialStops, nil
	case domain.PurposeRecreation:
		return &f.RecreationStops, nil
	case domain.PurposeMedical:
		return &f.MedicalStops, nil
	}
	return nil, fmt.Errorf("%w: %s stops", domain.ErrUnsupportedPurpose, p)
}

func slot(p domain.Purpose) (int, error) {
	if p < domain.PurposeWork || p > domain.PurposeMedical {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnsupportedPurpose, p)
	}
	return int(p), nil
}

// SupportsPurpose reports whether the base schema counts tours of purpose p.
func (d *PersonDay) SupportsPurpose(p domain.Purpose) bool {
	_, err := slot(p)
	return err == nil
}

func (d *PersonDay) TourCount(p domain.Purpose) (int, error) {
	field, err := d.tourField(p)
	if err != nil {
		return 0, err
	}
	return *field, nil
}

func (d *PersonDay) SetTourCount(p domain.Purpose, n int) error {
	field, err := d.tourField(p)
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: negative %s tour count", errPrecondition, p)
	}
	*field = n
	return nil
}

func (d *PersonDay) StopCount(p domain.Purpose) (int, error) {
	field, err := d.stopField(p)
	if err != nil {
		return 0, err
	}
	return *field, nil
}

func (d *PersonDay) SetStopCount(p domain.Purpose, n int) error {
	field, err := d.stopField(p)
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: negative %s stop count", errPrecondition, p)
	}
	*field = n
	return nil
}

func counter(arr *[basePurposeSlots]int, p domain.Purpose) (*int, error) {
	i, err := slot(p)
	if err != nil {
		return nil, err
	}
	return &arr[i], nil
}

func read(arr *[basePurposeSlots]int, p domain.Purpose) (int, error) {
	c, err := counter(arr, p)
	if err != nil {
		return 0, err
	}
	return *c, nil
}

func increment(arr *[basePurposeSlots]int, p domain.Purpose) error {
	c, err := counter(arr, p)
	if err != nil {
		return err
	}
	*c++
	return nil
}

func (d *PersonDay) CreatedTours(p domain.Purpose) (int, error) {
	return read(&d.createdTours, p)
}
func (d *PersonDay) SimulatedTours(p domain.Purpose) (int, error) {
	return read(&d.simulatedTours, p)
}
func (d *PersonDay) CreatedStops(p domain.Purpose) (int, error) {
	return read(&d.createdStops, p)
}
func (d *PersonDay) SimulatedStops(p domain.Purpose) (int, error) {
	return read(&d.simulatedStops, p)
}

func (d *PersonDay) IncrementCreatedTours(p domain.Purpose) error {
	return increment(&d.createdTours, p)
}
func (d *PersonDay) IncrementSimulatedTours(p domain.Purpose) error {
	return increment(&d.simulatedTours, p)
}
func (d *PersonDay) IncrementCreatedStops(p domain.Purpose) error {
	return increment(&d.createdStops, p)
}
func (d *PersonDay) IncrementSimulatedStops(p domain.Purpose) error {
	return increment(&d.simulatedStops, p)
}

// TotalTours sums the base purpose tour counts.
func (d *PersonDay) TotalTours() int {
	f := d.record.PersonDayFields()
	return f.WorkTours + f.SchoolTours + f.EscortTours + f.PersonalBusinessTours + f.ShoppingTours +
		f.MealTours + f.SocialTours + f.RecreationTours + f.MedicalTours
}

// TotalStops sums the base purpose stop counts.
func (d *PersonDay) TotalStops() int {
	f := d.record.PersonDayFields()
	return f.WorkStops + f.SchoolStops + f.EscortStops + f.PersonalBusinessStops + f.ShoppingStops +
		f.MealStops + f.SocialStops + f.RecreationStops + f.MedicalStops
}

func (d *PersonDay) TotalCreatedTours() int   { return sum(d.createdTours[:]) }
func (d *PersonDay) TotalSimulatedTours() int { return sum(d.simulatedTours[:]) }
func (d *PersonDay) TotalCreatedStops() int   { return sum(d.createdStops[:]) }
func (d *PersonDay) TotalSimulatedStops() int { return sum(d.simulatedStops[:]) }

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

// Reset swaps in a fresh record of the bound schema carrying the same identity
// keys, zeroes every counter and drops the day's tours.
func (d *PersonDay) Reset() error {
	old := d.record.PersonDayFields()
	var rec domain.PersonDayRecord
	if d.factory != nil {
		rec = d.factory.NewPersonDayRecord()
	} else {
		rec = &domain.PersonDay{}
	}
	f := rec.PersonDayFields()
	f.ID = old.ID
	f.PersonID = old.PersonID
	f.HouseholdID = old.HouseholdID
	f.Day = old.Day
	f.ExpansionFactor = old.ExpansionFactor

	d.record = rec
	d.tours = nil
	d.nextID = 0
	d.createdTours = [basePurposeSlots]int{}
	d.simulatedTours = [basePurposeSlots]int{}
	d.createdStops = [basePurposeSlots]int{}
	d.simulatedStops = [basePurposeSlots]int{}
	return nil
}
