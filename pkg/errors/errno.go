// Package errors provides the error code registry shared by every lobby
// package.
//
// Each failure class of the configuration and extension pipeline owns one
// registered Errno. An Errno carries a globally unique code and the process
// exit status the CLI reports for it.
//
// Error Code Format: AABBCCC (7 digits)
//
//	AA  (00-99): Service code - identifies the owning component
//	BB  (00-99): Category code - identifies the failure class
//	CCC (000-999): Sequence number - specific error within the category
//
// Service Codes (AA):
//
//	00: Common/Base errors
//	01: Configuration source
//	02: Configuration binder
//	03: Capability scanner
//	04: Extension registry
//	05: Module lifecycle
//	20-79: Extension-defined errors
//
// Usage:
//
//	// Using predefined errors
//	return errors.ErrInvalidArgument.WithMessage("layer list is empty")
//
//	// Wrapping underlying errors
//	return errors.ErrInternal.WithCause(err)
//
//	// Creating custom errors
//	var ErrPortalClosed = errors.Register(&errors.Errno{
//	    Code:    errors.MakeCode(20, errors.CategoryState, 1),
//	    Exit:    errors.ExitSoftware,
//	    Message: "portal closed",
//	})
package errors

import (
	stderrors "errors"
	"fmt"
	"sync"
)

// Errno represents a structured error with a code and an exit status.
type Errno struct {
	// Code is the unique error code
	Code int `json:"code"`

	// Exit is the process exit status reported for this error
	Exit int `json:"-"`

	// Message is the human readable message
	Message string `json:"message"`

	cause error
}

// Coder is implemented by typed errors that map onto a registered Errno.
type Coder interface {
	Errno() *Errno
}

// Error implements the error interface.
func (e *Errno) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("errno %d: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("errno %d: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Errno) Unwrap() error {
	return e.cause
}

// WithCause creates a new Errno with the given cause.
func (e *Errno) WithCause(cause error) *Errno {
	return &Errno{Code: e.Code, Exit: e.Exit, Message: e.Message, cause: cause}
}

// WithMessage creates a new Errno with a custom message.
func (e *Errno) WithMessage(msg string) *Errno {
	return &Errno{Code: e.Code, Exit: e.Exit, Message: msg, cause: e.cause}
}

// WithMessagef creates a new Errno with a formatted message.
func (e *Errno) WithMessagef(format string, args ...any) *Errno {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// ExitCode returns the exit status, falling back to ExitFailure.
func (e *Errno) ExitCode() int {
	if e.Exit != 0 {
		return e.Exit
	}
	return ExitFailure
}

// Is checks if this error matches the target error code.
func (e *Errno) Is(target error) bool {
	if t, ok := target.(*Errno); ok {
		return e.Code == t.Code
	}
	return false
}

// Format implements fmt.Formatter.
func (e *Errno) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "errno %d [exit %d]: %s", e.Code, e.ExitCode(), e.Message)
			if e.cause != nil {
				_, _ = fmt.Fprintf(s, "\ncaused by: %+v", e.cause)
			}
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

var (
	errnoRegistry = make(map[int]*Errno)
	registryMu    sync.RWMutex
)

// Register registers an Errno and validates uniqueness.
// Panics if the code is already registered.
func Register(e *Errno) *Errno {
	registryMu.Lock()
	defer registryMu.Unlock()

	if existing, ok := errnoRegistry[e.Code]; ok {
		panic(fmt.Sprintf("errno code %d already registered: %s", e.Code, existing.Message))
	}
	errnoRegistry[e.Code] = e
	return e
}

// Lookup returns the registered Errno for the given code.
func Lookup(code int) (*Errno, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := errnoRegistry[code]
	return e, ok
}

// Registered returns a copy of all registered error codes.
func Registered() map[int]*Errno {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make(map[int]*Errno, len(errnoRegistry))
	for k, v := range errnoRegistry {
		result[k] = v
	}
	return result
}

// FromError converts any error to an Errno.
// An Errno anywhere in the chain is returned as is; a Coder in the chain is
// mapped to its Errno with err attached as cause; anything else becomes
// ErrInternal.
func FromError(err error) *Errno {
	if err == nil {
		return nil
	}
	var e *Errno
	if stderrors.As(err, &e) {
		return e
	}
	var c Coder
	if stderrors.As(err, &c) {
		if ce := c.Errno(); ce != nil {
			return ce.WithCause(err)
		}
	}
	return ErrInternal.WithCause(err)
}

// GetCode returns the error code of err, or -1 when err is nil.
func GetCode(err error) int {
	if e := FromError(err); e != nil {
		return e.Code
	}
	return -1
}

// IsCode checks if err maps onto the given error code.
func IsCode(err error, code int) bool {
	return GetCode(err) == code
}

// ExitCode returns the process exit status for err. A nil error exits 0.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	return FromError(err).ExitCode()
}
