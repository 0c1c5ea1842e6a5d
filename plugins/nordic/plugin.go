// Package nordic provides the "Nordic" regional schema. It adds a business
// purpose to person-days, a transit pass to persons and a business
// value-of-time rule to tours by composing the Default wrappers.
package nordic

import (
	"travelcore/internal/core"
	"travelcore/pkg/domain"
	"travelcore/plugins/standard"
)

// SchemaName is the registry key of the Nordic schema.
const SchemaName = "Nordic"

// Plugin registers the Nordic creators.
type Plugin struct{}

// New constructs the Nordic schema variant.
func New() Plugin {
	return Plugin{}
}

// Name returns the schema name.
func (Plugin) Name() string { return SchemaName }

// Version returns the variant semantic version.
func (Plugin) Version() string { return "1.0.0" }

// Register installs the Nordic overrides and the Default creators for every
// other kind.
func (Plugin) Register(registry *core.VariantRegistry) error {
	creators := standard.Creators()
	creators[domain.KindPerson] = core.NewCreator(domain.KindPerson,
		func() *PersonRecord { return &PersonRecord{} },
		func(r *PersonRecord, d core.Deps) (*Person, error) {
			base, err := core.NewPerson(r, d)
			if err != nil {
				return nil, err
			}
			return &Person{Person: base}, nil
		})
	creators[domain.KindPersonDay] = core.NewCreator(domain.KindPersonDay,
		func() *PersonDayRecord { return &PersonDayRecord{} },
		func(r *PersonDayRecord, d core.Deps) (*PersonDay, error) {
			base, err := core.NewPersonDay(r, d)
			if err != nil {
				return nil, err
			}
			return &PersonDay{PersonDay: base}, nil
		})
	creators[domain.KindTour] = core.NewCreator(domain.KindTour,
		func() *domain.Tour { return &domain.Tour{} },
		func(r *domain.Tour, d core.Deps) (*Tour, error) {
			base, err := core.NewTour(r, d)
			if err != nil {
				return nil, err
			}
			return &Tour{Tour: base}, nil
		})
	for _, kind := range domain.EntityKinds() {
		if err := registry.Register(SchemaName, kind, creators[kind]); err != nil {
			return err
		}
	}
	return nil
}
