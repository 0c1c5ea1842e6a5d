// Package standard provides the base "Default" schema.
package standard

import (
	"travelcore/internal/core"
	"travelcore/pkg/domain"
)

// SchemaName is the registry key of the base schema.
const SchemaName = "Default"

// Plugin registers the base creators.
type Plugin struct{}

// New constructs the Default schema variant.
func New() Plugin {
	return Plugin{}
}

// Name returns the schema name.
func (Plugin) Name() string { return SchemaName }

// Version returns the variant semantic version.
func (Plugin) Version() string { return "1.0.0" }

// Register installs a creator for every entity kind.
func (Plugin) Register(registry *core.VariantRegistry) error {
	for _, kind := range domain.EntityKinds() {
		if err := registry.Register(SchemaName, kind, Creators()[kind]); err != nil {
			return err
		}
	}
	return nil
}

// Creators returns the base creator for every entity kind. Extension schemas
// reuse the entries they do not override.
func Creators() map[domain.EntityKind]core.Creator {
	return map[domain.EntityKind]core.Creator{
		domain.KindHousehold: core.NewCreator(domain.KindHousehold,
			func() *domain.Household { return &domain.Household{} },
			func(r *domain.Household, d core.Deps) (*core.Household, error) { return core.NewHousehold(r, d) }),
		domain.KindPerson: core.NewCreator(domain.KindPerson,
			func() *domain.Person { return &domain.Person{} },
			func(r *domain.Person, d core.Deps) (*core.Person, error) { return core.NewPerson(r, d) }),
		domain.KindPersonDay: core.NewCreator(domain.KindPersonDay,
			func() *domain.PersonDay { return &domain.PersonDay{} },
			func(r *domain.PersonDay, d core.Deps) (*core.PersonDay, error) { return core.NewPersonDay(r, d) }),
		domain.KindTour: core.NewCreator(domain.KindTour,
			func() *domain.Tour { return &domain.Tour{} },
			func(r *domain.Tour, d core.Deps) (*core.Tour, error) { return core.NewTour(r, d) }),
		domain.KindHalfTour: core.NewCreator(domain.KindHalfTour,
			func() *domain.HalfTour { return &domain.HalfTour{} },
			func(r *domain.HalfTour, d core.Deps) (*core.HalfTour, error) { return core.NewHalfTour(r, d) }),
		domain.KindTrip: core.NewCreator(domain.KindTrip,
			func() *domain.Trip { return &domain.Trip{} },
			func(r *domain.Trip, d core.Deps) (*core.Trip, error) { return core.NewTrip(r, d) }),
		domain.KindParkAndRideNode: core.NewCreator(domain.KindParkAndRideNode,
			func() *domain.ParkAndRideNode { return &domain.ParkAndRideNode{} },
			func(r *domain.ParkAndRideNode, d core.Deps) (*core.ParkAndRideNode, error) {
				return core.NewParkAndRideNode(r, d)
			}),
	}
}
