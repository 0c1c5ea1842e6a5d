package domain

import (
	"errors"
	"fmt"
)

// ErrPrecondition marks caller bugs: the operation cannot proceed on the given input.
var ErrPrecondition = errors.New("domain: precondition violated")

// Precondition violations. Each wraps ErrPrecondition.
var (
	ErrWrongRecordKind  = fmt.Errorf("%w: wrong record kind", ErrPrecondition)
	ErrHalfTourClosed   = fmt.Errorf("%w: half-tour already closed", ErrPrecondition)
	ErrMinuteOutOfRange = fmt.Errorf("%w: minute out of range", ErrPrecondition)
	ErrInvalidDirection = fmt.Errorf("%w: invalid half-tour direction", ErrPrecondition)
)

// ErrUnsupportedPurpose indicates a purpose the active schema does not count.
var ErrUnsupportedPurpose = errors.New("domain: purpose not supported by schema")
