package core

import (
	"fmt"

	"travelcore/pkg/domain"
)

// Creator produces fresh raw records of one entity kind and wraps existing
// records with their collaborators. Creators are pure: wrapping touches only
// the object graph being built.
type Creator interface {
	Kind() domain.EntityKind
	NewRecord() domain.Record
	Wrap(rec domain.Record, deps Deps) (Wrapper, error)
}

// Deps carries the already-constructed collaborators a wrapper may need.
// Each kind reads only the fields it requires.
type Deps struct {
	Factory    *Factory
	Geography  Geography
	Household  HouseholdWrapper
	Person     PersonWrapper
	PersonDay  PersonDayWrapper
	Tour       TourWrapper
	ParentTour TourWrapper
	HalfTour   HalfTourWrapper
}

type creator[R domain.Record, W Wrapper] struct {
	kind      domain.EntityKind
	newRecord func() R
	wrap      func(R, Deps) (W, error)
}

// NewCreator builds a Creator from a typed record constructor and wrap
// function. Wrap rejects records of any other concrete type with
// domain.ErrWrongRecordKind.
func NewCreator[R domain.Record, W Wrapper](kind domain.EntityKind, newRecord func() R, wrap func(R, Deps) (W, error)) Creator {
	return creator[R, W]{kind: kind, newRecord: newRecord, wrap: wrap}
}

func (c creator[R, W]) Kind() domain.EntityKind { return c.kind }

func (c creator[R, W]) NewRecord() domain.Record { return c.newRecord() }

func (c creator[R, W]) Wrap(rec domain.Record, deps Deps) (Wrapper, error) {
	typed, ok := rec.(R)
	if !ok {
		var want R
		return nil, fmt.Errorf("%w: %s creator expects %T, got %T", domain.ErrWrongRecordKind, c.kind, want, rec)
	}
	w, err := c.wrap(typed, deps)
	if err != nil {
		return nil, err
	}
	return w, nil
}
