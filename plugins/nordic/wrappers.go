package nordic

import (
	"fmt"

	"travelcore/internal/core"
	"travelcore/pkg/domain"
)

var (
	_ core.PersonWrapper    = (*Person)(nil)
	_ core.PersonDayWrapper = (*PersonDay)(nil)
	_ core.TourWrapper      = (*Tour)(nil)
)

// Person adds transit pass ownership to the base person.
type Person struct {
	*core.Person
}

// Nordic returns the regional record.
func (p *Person) Nordic() *PersonRecord {
	rec, _ := p.Person.Record().(*PersonRecord)
	return rec
}

// HasTransitPass reports whether the person holds any transit pass.
func (p *Person) HasTransitPass() bool {
	rec := p.Nordic()
	return rec != nil && rec.TransitPass > 0
}

// PersonDay composes the base day and counts business tours and stops on top
// of the base purposes.
type PersonDay struct {
	*core.PersonDay

	createdBusinessTours   int
	simulatedBusinessTours int
	createdBusinessStops   int
	simulatedBusinessStops int
}

// Nordic returns the regional record. It is swapped by Reset, so callers must
// not retain it across passes.
func (d *PersonDay) Nordic() (*PersonDayRecord, error) {
	rec, ok := d.PersonDay.Record().(*PersonDayRecord)
	if !ok {
		return nil, fmt.Errorf("%w: nordic person day %d backed by %T", core.ErrCapabilityMismatch, d.ID(), d.PersonDay.Record())
	}
	return rec, nil
}

func (d *PersonDay) TourCount(p domain.Purpose) (int, error) {
	if p != domain.PurposeBusiness {
		return d.PersonDay.TourCount(p)
	}
	rec, err := d.Nordic()
	if err != nil {
		return 0, err
	}
	return rec.BusinessTours, nil
}

func (d *PersonDay) SetTourCount(p domain.Purpose, n int) error {
	if p != domain.PurposeBusiness {
		return d.PersonDay.SetTourCount(p, n)
	}
	rec, err := d.Nordic()
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: negative business tour count", domain.ErrPrecondition)
	}
	rec.BusinessTours = n
	return nil
}

func (d *PersonDay) StopCount(p domain.Purpose) (int, error) {
	if p != domain.PurposeBusiness {
		return d.PersonDay.StopCount(p)
	}
	rec, err := d.Nordic()
	if err != nil {
		return 0, err
	}
	return rec.BusinessStops, nil
}

func (d *PersonDay) SetStopCount(p domain.Purpose, n int) error {
	if p != domain.PurposeBusiness {
		return d.PersonDay.SetStopCount(p, n)
	}
	rec, err := d.Nordic()
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: negative business stop count", domain.ErrPrecondition)
	}
	rec.BusinessStops = n
	return nil
}

func (d *PersonDay) CreatedTours(p domain.Purpose) (int, error) {
	if p == domain.PurposeBusiness {
		return d.createdBusinessTours, nil
	}
	return d.PersonDay.CreatedTours(p)
}

func (d *PersonDay) SimulatedTours(p domain.Purpose) (int, error) {
	if p == domain.PurposeBusiness {
		return d.simulatedBusinessTours, nil
	}
	return d.PersonDay.SimulatedTours(p)
}

func (d *PersonDay) CreatedStops(p domain.Purpose) (int, error) {
	if p == domain.PurposeBusiness {
		return d.createdBusinessStops, nil
	}
	return d.PersonDay.CreatedStops(p)
}

func (d *PersonDay) SimulatedStops(p domain.Purpose) (int, error) {
	if p == domain.PurposeBusiness {
		return d.simulatedBusinessStops, nil
	}
	return d.PersonDay.SimulatedStops(p)
}

func (d *PersonDay) IncrementCreatedTours(p domain.Purpose) error {
	if p == domain.PurposeBusiness {
		d.createdBusinessTours++
		return nil
	}
	return d.PersonDay.IncrementCreatedTours(p)
}

func (d *PersonDay) IncrementSimulatedTours(p domain.Purpose) error {
	if p == domain.PurposeBusiness {
		d.simulatedBusinessTours++
		return nil
	}
	return d.PersonDay.IncrementSimulatedTours(p)
}

func (d *PersonDay) IncrementCreatedStops(p domain.Purpose) error {
	if p == domain.PurposeBusiness {
		d.createdBusinessStops++
		return nil
	}
	return d.PersonDay.IncrementCreatedStops(p)
}

func (d *PersonDay) IncrementSimulatedStops(p domain.Purpose) error {
	if p == domain.PurposeBusiness {
		d.simulatedBusinessStops++
		return nil
	}
	return d.PersonDay.IncrementSimulatedStops(p)
}

// TotalTours adds business tours to the base total.
func (d *PersonDay) TotalTours() int {
	total := d.PersonDay.TotalTours()
	if rec, err := d.Nordic(); err == nil {
		total += rec.BusinessTours
	}
	return total
}

// TotalStops adds business stops to the base total.
func (d *PersonDay) TotalStops() int {
	total := d.PersonDay.TotalStops()
	if rec, err := d.Nordic(); err == nil {
		total += rec.BusinessStops
	}
	return total
}

func (d *PersonDay) TotalCreatedTours() int {
	return d.PersonDay.TotalCreatedTours() + d.createdBusinessTours
}

func (d *PersonDay) TotalSimulatedTours() int {
	return d.PersonDay.TotalSimulatedTours() + d.simulatedBusinessTours
}

func (d *PersonDay) TotalCreatedStops() int {
	return d.PersonDay.TotalCreatedStops() + d.createdBusinessStops
}

func (d *PersonDay) TotalSimulatedStops() int {
	return d.PersonDay.TotalSimulatedStops() + d.simulatedBusinessStops
}

// Reset resets the base day, which swaps in a fresh Nordic record, and zeroes
// the business counters.
func (d *PersonDay) Reset() error {
	if err := d.PersonDay.Reset(); err != nil {
		return err
	}
	d.createdBusinessTours = 0
	d.simulatedBusinessTours = 0
	d.createdBusinessStops = 0
	d.simulatedBusinessStops = 0
	if _, err := d.Nordic(); err != nil {
		return err
	}
	return nil
}

// Tour places business tours in the high value-of-time segment.
type Tour struct {
	*core.Tour
}

// ValueOfTimeSegment overrides the base income rule for business tours.
func (t *Tour) ValueOfTimeSegment() domain.ValueOfTimeSegment {
	if t.Purpose() == domain.PurposeBusiness {
		return domain.VOTHigh
	}
	return t.Tour.ValueOfTimeSegment()
}
