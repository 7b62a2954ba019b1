package config

import (
	"errors"
	"fmt"

	errno "github.com/shiftsad/lobby/pkg/errors"
)

// LoadErrorKind classifies load failures.
type LoadErrorKind int

const (
	// MissingSource means a required layer does not exist or cannot be read.
	MissingSource LoadErrorKind = iota + 1
	// ParseFailure means a layer is malformed or violates its schema.
	ParseFailure
)

func (k LoadErrorKind) String() string {
	switch k {
	case MissingSource:
		return "missing source"
	case ParseFailure:
		return "parse failure"
	default:
		return fmt.Sprintf("LoadErrorKind(%d)", int(k))
	}
}

// LoadError is returned by Load. No snapshot is produced alongside it.
type LoadError struct {
	Kind  LoadErrorKind
	Layer string
	Cause error
}

// Sentinels for errors.Is.
var (
	ErrMissingSource = &LoadError{Kind: MissingSource}
	ErrParseFailure  = &LoadError{Kind: ParseFailure}
)

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("config: layer %q: %s: %v", e.Layer, e.Kind, e.Cause)
	}
	return fmt.Sprintf("config: layer %q: %s", e.Layer, e.Kind)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Is matches another LoadError of the same kind. A target without a layer
// matches any layer.
func (e *LoadError) Is(target error) bool {
	t, ok := target.(*LoadError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Layer == "" || t.Layer == e.Layer)
}

// Errno maps the error onto the process error code registry.
func (e *LoadError) Errno() *errno.Errno {
	if e.Kind == MissingSource {
		return errno.ErrMissingSource
	}
	return errno.ErrParseFailure
}

// Lookup sentinels for errors.Is.
var (
	ErrKeyNotFound = errors.New("config: key not found")
	ErrWrongKind   = errors.New("config: wrong kind")
)

// LookupError is returned by the typed getters of Snapshot.
type LookupError struct {
	Path     string
	Expected Kind
	Actual   Kind
	Missing  bool
	Detail   string
}

func (e *LookupError) Error() string {
	switch {
	case e.Missing:
		return fmt.Sprintf("config: key %q not found", e.Path)
	case e.Detail != "":
		return fmt.Sprintf("config: key %q: %s", e.Path, e.Detail)
	default:
		return fmt.Sprintf("config: key %q is a %s, want %s", e.Path, e.Actual, e.Expected)
	}
}

func (e *LookupError) Is(target error) bool {
	switch target {
	case ErrKeyNotFound:
		return e.Missing
	case ErrWrongKind:
		return !e.Missing
	}
	return false
}
