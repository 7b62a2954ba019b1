package binder

import (
	"fmt"

	"github.com/shiftsad/lobby/pkg/config"
	errno "github.com/shiftsad/lobby/pkg/errors"
)

// ErrorKind classifies binding failures.
type ErrorKind int

const (
	// MissingField means a required key is absent.
	MissingField ErrorKind = iota + 1
	// TypeMismatch means a key holds a value of the wrong kind, or a number
	// that does not fit the field.
	TypeMismatch
	// ConstraintViolation means a bound value failed a `validate` rule.
	ConstraintViolation
)

func (k ErrorKind) String() string {
	switch k {
	case MissingField:
		return "missing field"
	case TypeMismatch:
		return "type mismatch"
	case ConstraintViolation:
		return "constraint violation"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// BindingError is returned by Bind. No record is observable alongside it.
type BindingError struct {
	Kind     ErrorKind
	Path     string
	Expected config.Kind
	Actual   config.Kind
	Detail   string
	// Violations holds every failed constraint message by full path. It is
	// only set for ConstraintViolation.
	Violations map[string][]string
	Cause      error
}

// Sentinels for errors.Is.
var (
	ErrMissingField        = &BindingError{Kind: MissingField}
	ErrTypeMismatch        = &BindingError{Kind: TypeMismatch}
	ErrConstraintViolation = &BindingError{Kind: ConstraintViolation}
)

func (e *BindingError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("binder: missing required field %q", e.Path)
	case TypeMismatch:
		if e.Detail != "" {
			return fmt.Sprintf("binder: field %q: expected %s, %s", e.Path, e.Expected, e.Detail)
		}
		return fmt.Sprintf("binder: field %q: expected %s, got %s", e.Path, e.Expected, e.Actual)
	default:
		return fmt.Sprintf("binder: field %q violates constraint: %s", e.Path, e.Detail)
	}
}

func (e *BindingError) Unwrap() error { return e.Cause }

// Is matches another BindingError of the same kind. A target without a path
// matches any path.
func (e *BindingError) Is(target error) bool {
	t, ok := target.(*BindingError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Path == "" || t.Path == e.Path)
}

// Errno maps the error onto the process error code registry.
func (e *BindingError) Errno() *errno.Errno {
	switch e.Kind {
	case MissingField:
		return errno.ErrMissingField
	case TypeMismatch:
		return errno.ErrTypeMismatch
	default:
		return errno.ErrConstraintViolation
	}
}
