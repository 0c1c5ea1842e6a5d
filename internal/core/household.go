package core

import (
	"fmt"

	"travelcore/pkg/domain"
)

// Household is the base household wrapper. It owns its persons and is the
// single point of graph teardown.
type Household struct {
	record  domain.HouseholdRecord
	persons []PersonWrapper
}

// NewHousehold wraps rec. When a geography is supplied and the residence zone
// is unset it is filled from the residence parcel.
func NewHousehold(rec domain.HouseholdRecord, deps Deps) (*Household, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: nil household record", domain.ErrWrongRecordKind)
	}
	f := rec.HouseholdFields()
	if deps.Geography != nil && f.ResidenceZoneKey == 0 && f.ResidenceParcelID != 0 {
		if zone, ok := deps.Geography.ZoneKey(f.ResidenceParcelID); ok {
			f.ResidenceZoneKey = zone
		}
	}
	return &Household{record: rec}, nil
}

func (h *Household) Kind() domain.EntityKind        { return domain.KindHousehold }
func (h *Household) ID() int                        { return h.record.HouseholdFields().ID }
func (h *Household) Record() domain.HouseholdRecord { return h.record }
func (h *Household) Fields() *domain.Household      { return h.record.HouseholdFields() }
func (h *Household) ExpansionFactor() float64 {
	return h.record.HouseholdFields().ExpansionFactor
}
func (h *Household) Persons() []PersonWrapper {
	return append([]PersonWrapper(nil), h.persons...)
}

func (h *Household) Identity() domain.Identity {
	f := h.record.HouseholdFields()
	return domain.Identity{ID: f.ID, HouseholdID: f.ID, ExpansionFactor: f.ExpansionFactor}
}

// AttachPerson adds a person built against this household.
func (h *Household) AttachPerson(p PersonWrapper) error {
	if p == nil {
		return fmt.Errorf("%w: nil person", errPrecondition)
	}
	if p.Fields().HouseholdID != h.ID() {
		return fmt.Errorf("%w: person %d belongs to household %d, not %d", errPrecondition, p.ID(), p.Fields().HouseholdID, h.ID())
	}
	h.persons = append(h.persons, p)
	return nil
}

// Reset keeps the input record and resets every owned person.
func (h *Household) Reset() error {
	for _, p := range h.persons {
		if err := p.Reset(); err != nil {
			return fmt.Errorf("reset household %d: %w", h.ID(), err)
		}
	}
	return nil
}
