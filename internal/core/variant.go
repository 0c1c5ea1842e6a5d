package core

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"travelcore/pkg/domain"
)

// Variant describes a schema (the base schema or a regional extension) that
// contributes entity creators.
type Variant interface {
	Name() string
	Version() string
	Register(registry *VariantRegistry) error
}

// VariantMetadata stores metadata describing an installed variant.
type VariantMetadata struct {
	Name    string
	Version string
	Kinds   []domain.EntityKind
}

// VariantRegistry maps (schema, entity kind) pairs to creators. It is written
// during startup and sealed by the first successful Bind; after that it only
// serves reads.
type VariantRegistry struct {
	mu       sync.RWMutex
	creators map[string]map[domain.EntityKind]Creator
	variants map[string]VariantMetadata
	sealed   bool
	logger   Logger
}

// RegistryOption customises a VariantRegistry.
type RegistryOption func(*VariantRegistry)

// WithRegistryLogger routes registry events to logger.
func WithRegistryLogger(logger Logger) RegistryOption {
	return func(r *VariantRegistry) { r.logger = LoggerOrNoop(logger) }
}

// NewVariantRegistry constructs an empty registry.
func NewVariantRegistry(opts ...RegistryOption) *VariantRegistry {
	r := &VariantRegistry{
		creators: make(map[string]map[domain.EntityKind]Creator),
		variants: make(map[string]VariantMetadata),
		logger:   noopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Install registers a variant, letting it contribute its creators. When the
// variant's Register fails, every creator it added is removed again.
func (r *VariantRegistry) Install(v Variant) (VariantMetadata, error) {
	if v == nil {
		return VariantMetadata{}, fmt.Errorf("variant cannot be nil")
	}
	r.mu.RLock()
	_, exists := r.variants[v.Name()]
	sealed := r.sealed
	r.mu.RUnlock()
	if sealed {
		return VariantMetadata{}, ErrRegistrySealed
	}
	if exists {
		return VariantMetadata{}, fmt.Errorf("%w: %s", ErrDuplicateVariant, v.Name())
	}
	before := r.registeredPairs()
	if err := v.Register(r); err != nil {
		r.rollback(before)
		return VariantMetadata{}, fmt.Errorf("install variant %s: %w", v.Name(), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	meta := VariantMetadata{Name: v.Name(), Version: v.Version(), Kinds: sortedKinds(r.creators[v.Name()])}
	r.variants[v.Name()] = meta
	r.logger.Debug("variant installed", "schema", meta.Name, "version", meta.Version, "kinds", len(meta.Kinds))
	return meta, nil
}

// Register stores the creator for (schema, kind). A second registration for
// the same pair is rejected.
func (r *VariantRegistry) Register(schema string, kind domain.EntityKind, c Creator) error {
	if schema == "" {
		return fmt.Errorf("schema name must not be empty")
	}
	if c == nil {
		return fmt.Errorf("creator for %s/%s cannot be nil", schema, kind)
	}
	if c.Kind() != kind {
		return fmt.Errorf("%w: creator for %s registered under %s", ErrCapabilityMismatch, c.Kind(), kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return ErrRegistrySealed
	}
	byKind, ok := r.creators[schema]
	if !ok {
		byKind = make(map[domain.EntityKind]Creator)
		r.creators[schema] = byKind
	}
	if _, exists := byKind[kind]; exists {
		return fmt.Errorf("%w: %s/%s", ErrDuplicateCreator, schema, kind)
	}
	byKind[kind] = c
	return nil
}

// Creator returns the creator registered for (schema, kind), if any.
func (r *VariantRegistry) Creator(schema string, kind domain.EntityKind) (Creator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.creators[schema][kind]
	return c, ok
}

// Schemas returns the names of schemas with at least one creator.
func (r *VariantRegistry) Schemas() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.creators))
	for name := range r.creators {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Variants returns metadata describing installed variants.
func (r *VariantRegistry) Variants() []VariantMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]VariantMetadata, 0, len(r.variants))
	for _, meta := range r.variants {
		out = append(out, meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Bind resolves every entity kind for schema and returns the resulting
// Factory. Any missing kind, or a creator whose fresh record does not carry
// the kind's base fields, fails the whole bind. A successful bind seals the
// registry.
func (r *VariantRegistry) Bind(schema string) (*Factory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byKind, ok := r.creators[schema]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownSchema, schema, r.schemaNamesLocked())
	}
	var errs []error
	resolved := make(map[domain.EntityKind]Creator, len(byKind))
	for _, kind := range domain.EntityKinds() {
		c, ok := byKind[kind]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s/%s", ErrMissingCreator, schema, kind))
			continue
		}
		if err := checkRecordCapability(kind, c.NewRecord()); err != nil {
			errs = append(errs, fmt.Errorf("%s/%s: %w", schema, kind, err))
			continue
		}
		resolved[kind] = c
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	r.sealed = true
	r.logger.Info("schema bound", "schema", schema, "kinds", len(resolved))
	return &Factory{schema: schema, creators: resolved}, nil
}

// Sealed reports whether the registry has been bound.
func (r *VariantRegistry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

type schemaKind struct {
	schema string
	kind   domain.EntityKind
}

func (r *VariantRegistry) registeredPairs() map[schemaKind]struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[schemaKind]struct{})
	for schema, byKind := range r.creators {
		for kind := range byKind {
			out[schemaKind{schema, kind}] = struct{}{}
		}
	}
	return out
}

// rollback drops creators registered after keep was taken.
func (r *VariantRegistry) rollback(keep map[schemaKind]struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for schema, byKind := range r.creators {
		for kind := range byKind {
			if _, ok := keep[schemaKind{schema, kind}]; !ok {
				delete(byKind, kind)
			}
		}
		if len(byKind) == 0 {
			delete(r.creators, schema)
		}
	}
}

func (r *VariantRegistry) schemaNamesLocked() []string {
	out := make([]string, 0, len(r.creators))
	for name := range r.creators {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func sortedKinds(byKind map[domain.EntityKind]Creator) []domain.EntityKind {
	out := make([]domain.EntityKind, 0, len(byKind))
	for kind := range byKind {
		out = append(out, kind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func checkRecordCapability(kind domain.EntityKind, rec domain.Record) error {
	if rec == nil {
		return fmt.Errorf("%w: NewRecord returned nil", ErrCapabilityMismatch)
	}
	if rec.Kind() != kind {
		return fmt.Errorf("%w: NewRecord returned %s record", ErrCapabilityMismatch, rec.Kind())
	}
	var ok bool
	switch kind {
	case KindHousehold:
		_, ok = rec.(domain.HouseholdRecord)
	case KindPerson:
		_, ok = rec.(domain.PersonRecord)
	case KindPersonDay:
		_, ok = rec.(domain.PersonDayRecord)
	case KindTour:
		_, ok = rec.(domain.TourRecord)
	case KindHalfTour:
		_, ok = rec.(domain.HalfTourRecord)
	case KindTrip:
		_, ok = rec.(domain.TripRecord)
	case KindParkAndRideNode:
		_, ok = rec.(domain.ParkAndRideNodeRecord)
	}
	if !ok {
		return fmt.Errorf("%w: %T lacks %s base fields", ErrCapabilityMismatch, rec, kind)
	}
	return nil
}
