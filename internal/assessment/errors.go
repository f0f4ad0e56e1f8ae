package assessment

import (
	"errors"
	"fmt"
)

// Error classes. Callers usually test the class with errors.Is and the
// specific error only when they need to tell them apart.
var (
	// ErrInvalidInput marks malformed arguments (a caller bug).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState marks an operation attempted in the wrong state.
	ErrInvalidState = errors.New("invalid state")

	// ErrReferential marks a stale ordinal or option key.
	ErrReferential = errors.New("referential integrity violation")
)

var (
	ErrNotActive            = fmt.Errorf("%w: no active session", ErrInvalidState)
	ErrSessionAlreadyActive = fmt.Errorf("%w: a session is already active", ErrInvalidState)
	ErrUnknownQuestion      = fmt.Errorf("%w: unknown question", ErrReferential)
	ErrInvalidOption        = fmt.Errorf("%w: invalid option", ErrReferential)
)
