package scanner

import (
	"fmt"

	errno "github.com/shiftsad/lobby/pkg/errors"
)

// ErrorKind classifies scan failures.
type ErrorKind int

const (
	// InvalidDeclaration means a unit declares a marker without the metadata
	// it requires, or its config dependency cannot be resolved.
	InvalidDeclaration ErrorKind = iota + 1
	// ScanIOFailure means a declaration source could not be read.
	ScanIOFailure
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidDeclaration:
		return "invalid declaration"
	case ScanIOFailure:
		return "scan I/O failure"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ScanError aborts a whole scan. No descriptors are returned alongside it.
type ScanError struct {
	Kind   ErrorKind
	Unit   string
	Reason string
	Cause  error
}

// Sentinels for errors.Is.
var (
	ErrInvalidDeclaration = &ScanError{Kind: InvalidDeclaration}
	ErrScanIOFailure      = &ScanError{Kind: ScanIOFailure}
)

func invalid(unit, format string, args ...any) *ScanError {
	return &ScanError{Kind: InvalidDeclaration, Unit: unit, Reason: fmt.Sprintf(format, args...)}
}

func (e *ScanError) Error() string {
	msg := fmt.Sprintf("scanner: %s: %s", e.Unit, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ScanError) Unwrap() error { return e.Cause }

// Is matches another ScanError of the same kind. A target without a unit
// matches any unit.
func (e *ScanError) Is(target error) bool {
	t, ok := target.(*ScanError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Unit == "" || t.Unit == e.Unit)
}

// Errno maps the error onto the process error code registry.
func (e *ScanError) Errno() *errno.Errno {
	if e.Kind == ScanIOFailure {
		return errno.ErrScanIO
	}
	return errno.ErrInvalidDeclaration
}
