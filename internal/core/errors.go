package core

import (
	"errors"
	"fmt"
)

// Registry configuration errors. These surface from Register, Install and Bind
// at startup, never from wrapper construction deep in a pass.
var (
	ErrUnknownSchema      = errors.New("core: unknown schema")
	ErrDuplicateCreator   = errors.New("core: creator already registered")
	ErrDuplicateVariant   = errors.New("core: variant already installed")
	ErrMissingCreator     = errors.New("core: schema has no creator for entity kind")
	ErrRegistrySealed     = errors.New("core: registry is sealed")
	ErrCapabilityMismatch = errors.New("core: creator output does not satisfy entity capability")
	ErrUnknownParcel      = errors.New("core: parcel not found in reference data")
)

// MissingParentError reports a wrapper constructed without a required collaborator.
type MissingParentError struct {
	Kind   string
	Parent string
}

func (e MissingParentError) Error() string {
	return fmt.Sprintf("%s wrapper requires a %s", e.Kind, e.Parent)
}

// Unwrap ties the error to the domain precondition family.
func (e MissingParentError) Unwrap() error { return errPrecondition }
