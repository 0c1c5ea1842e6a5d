package core

import (
	"fmt"

	"travelcore/pkg/domain"
)

// Person is the base person wrapper.
type Person struct {
	record    domain.PersonRecord
	household HouseholdWrapper
	days      []PersonDayWrapper
}

// NewPerson wraps rec under deps.Household.
func NewPerson(rec domain.PersonRecord, deps Deps) (*Person, error) {
	if deps.Household == nil {
		return nil, MissingParentError{Kind: string(domain.KindPerson), Parent: string(domain.KindHousehold)}
	}
	f := rec.PersonFields()
	if f.HouseholdID == 0 {
		f.HouseholdID = deps.Household.ID()
	}
	if geo := deps.Geography; geo != nil {
		if f.UsualWorkZoneKey == 0 && f.UsualWorkParcelID != 0 {
			f.UsualWorkZoneKey, _ = geo.ZoneKey(f.UsualWorkParcelID)
		}
		if f.UsualSchoolZoneKey == 0 && f.UsualSchoolParcelID != 0 {
			f.UsualSchoolZoneKey, _ = geo.ZoneKey(f.UsualSchoolParcelID)
		}
	}
	return &Person{record: rec, household: deps.Household}, nil
}

func (p *Person) Kind() domain.EntityKind     { return domain.KindPerson }
func (p *Person) ID() int                     { return p.record.PersonFields().ID }
func (p *Person) Record() domain.PersonRecord { return p.record }
func (p *Person) Fields() *domain.Person      { return p.record.PersonFields() }
func (p *Person) Household() HouseholdWrapper { return p.household }
func (p *Person) PersonDays() []PersonDayWrapper {
	return append([]PersonDayWrapper(nil), p.days...)
}

func (p *Person) Identity() domain.Identity {
	f := p.record.PersonFields()
	return domain.Identity{
		ID:              f.ID,
		HouseholdID:     f.HouseholdID,
		PersonID:        f.ID,
		Sequence:        f.Sequence,
		ExpansionFactor: p.household.ExpansionFactor(),
	}
}

// AttachPersonDay adds a day built against this person.
func (p *Person) AttachPersonDay(d PersonDayWrapper) error {
	if d == nil {
		return fmt.Errorf("%w: nil person day", errPrecondition)
	}
	if d.Fields().PersonID != p.ID() {
		return fmt.Errorf("%w: person day %d belongs to person %d, not %d", errPrecondition, d.ID(), d.Fields().PersonID, p.ID())
	}
	p.days = append(p.days, d)
	return nil
}

// Reset keeps the input record and resets every owned day.
func (p *Person) Reset() error {
	for _, d := range p.days {
		if err := d.Reset(); err != nil {
			return fmt.Errorf("reset person %d: %w", p.ID(), err)
		}
	}
	return nil
}
