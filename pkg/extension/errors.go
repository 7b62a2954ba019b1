package extension

import (
	"fmt"

	errno "github.com/shiftsad/lobby/pkg/errors"
)

// RegistrationErrorKind classifies registration failures.
type RegistrationErrorKind int

const (
	// DuplicateAlias means the alias, listener id or consumer path is taken.
	DuplicateAlias RegistrationErrorKind = iota + 1
	// RegistryFrozen means Register was called after Freeze.
	RegistryFrozen
)

func (k RegistrationErrorKind) String() string {
	switch k {
	case DuplicateAlias:
		return "duplicate alias"
	case RegistryFrozen:
		return "registry frozen"
	default:
		return fmt.Sprintf("RegistrationErrorKind(%d)", int(k))
	}
}

// RegistrationError is returned by Register. The registry is left exactly
// as it was before the call.
type RegistrationError struct {
	Kind RegistrationErrorKind
	// Key is the conflicting alias, listener id or consumer path.
	Key string
	// Unit is the unit whose registration was rejected.
	Unit string
	// Existing is the unit that already owns Key.
	Existing string
}

// Sentinels for errors.Is.
var (
	ErrDuplicateAlias = &RegistrationError{Kind: DuplicateAlias}
	ErrRegistryFrozen = &RegistrationError{Kind: RegistryFrozen}
)

func (e *RegistrationError) Error() string {
	if e.Kind == RegistryFrozen {
		return fmt.Sprintf("extension: cannot register %s: registry is frozen", e.Unit)
	}
	return fmt.Sprintf("extension: %s: %q is already registered by %s", e.Unit, e.Key, e.Existing)
}

// Is matches another RegistrationError of the same kind. A target without a
// key matches any key.
func (e *RegistrationError) Is(target error) bool {
	t, ok := target.(*RegistrationError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Key == "" || t.Key == e.Key)
}

// Errno maps the error onto the process error code registry.
func (e *RegistrationError) Errno() *errno.Errno {
	if e.Kind == RegistryFrozen {
		return errno.ErrRegistryFrozen
	}
	return errno.ErrDuplicateAlias
}
