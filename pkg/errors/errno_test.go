package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestMakeCode(t *testing.T) {
	tests := []struct {
		service  int
		category int
		sequence int
		expected int
	}{
		{0, 0, 0, 0},
		{0, 1, 1, 1001},
		{1, 12, 1, 112001},
		{2, 4, 1, 204001},
		{25, 1, 1, 2501001},
		{90, 7, 1, 9007001},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d_%d", tt.service, tt.category, tt.sequence), func(t *testing.T) {
			got := MakeCode(tt.service, tt.category, tt.sequence)
			if got != tt.expected {
				t.Errorf("MakeCode(%d, %d, %d) = %d, want %d",
					tt.service, tt.category, tt.sequence, got, tt.expected)
			}
		})
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		code             int
		expectedService  int
		expectedCategory int
		expectedSequence int
	}{
		{0, 0, 0, 0},
		{1001, 0, 1, 1},
		{112001, 1, 12, 1},
		{2501001, 25, 1, 1},
		{9007001, 90, 7, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.code), func(t *testing.T) {
			service, category, sequence := ParseCode(tt.code)
			if service != tt.expectedService || category != tt.expectedCategory || sequence != tt.expectedSequence {
				t.Errorf("ParseCode(%d) = (%d, %d, %d), want (%d, %d, %d)",
					tt.code, service, category, sequence,
					tt.expectedService, tt.expectedCategory, tt.expectedSequence)
			}
		})
	}
}

func TestErrnoError(t *testing.T) {
	expected := "errno 1001: invalid argument"
	if got := ErrInvalidArgument.Error(); got != expected {
		t.Errorf("Error() = %q, want %q", got, expected)
	}
}

func TestErrnoWithCause(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := ErrParseFailure.WithCause(cause)

	if err.Unwrap() != cause {
		t.Error("Unwrap() should return the cause")
	}
	if err.Code != ErrParseFailure.Code || err.Exit != ErrParseFailure.Exit {
		t.Error("WithCause should preserve code and exit status")
	}
	if ErrParseFailure.Unwrap() != nil {
		t.Error("WithCause must not mutate the registered errno")
	}
}

func TestErrnoWithMessagef(t *testing.T) {
	err := ErrInvalidArgument.WithMessagef("layer %s is invalid", "base")
	if err.Message != "layer base is invalid" {
		t.Errorf("WithMessagef should set Message, got %q", err.Message)
	}
	if !stderrors.Is(err, ErrInvalidArgument) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(err, ErrInternal) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestExitCodeDefaults(t *testing.T) {
	if got := (&Errno{Code: 1}).ExitCode(); got != ExitFailure {
		t.Errorf("ExitCode() = %d, want %d", got, ExitFailure)
	}
	if got := ExitCode(nil); got != ExitOK {
		t.Errorf("ExitCode(nil) = %d, want 0", got)
	}
}

type codedError struct{ errno *Errno }

func (e *codedError) Error() string  { return "coded" }
func (e *codedError) Errno() *Errno { return e.errno }

func TestFromError(t *testing.T) {
	if got := FromError(nil); got != nil {
		t.Error("FromError(nil) should return nil")
	}

	err := ErrTypeMismatch.WithMessage("test")
	if got := FromError(err); got != err {
		t.Error("FromError should return Errno as-is")
	}

	wrapped := fmt.Errorf("bootstrap: %w", &codedError{errno: ErrDuplicateAlias})
	got := FromError(wrapped)
	if got.Code != ErrDuplicateAlias.Code {
		t.Errorf("FromError(coder) code = %d, want %d", got.Code, ErrDuplicateAlias.Code)
	}
	if got.Unwrap() != wrapped {
		t.Error("FromError should keep the original error as cause")
	}
	if ExitCode(wrapped) != ExitSoftware {
		t.Errorf("ExitCode(coder) = %d, want %d", ExitCode(wrapped), ExitSoftware)
	}

	plain := fmt.Errorf("plain error")
	result := FromError(plain)
	if result.Code != ErrInternal.Code {
		t.Errorf("FromError(plain) should wrap as ErrInternal, got code %d", result.Code)
	}
	if !IsCode(plain, ErrInternal.Code) {
		t.Error("IsCode should see plain errors as internal")
	}
}

func TestLookup(t *testing.T) {
	if e, ok := Lookup(ErrScanIO.Code); !ok || e != ErrScanIO {
		t.Error("Lookup should find registered errno")
	}
	if _, ok := Lookup(9999999); ok {
		t.Error("Lookup should return false for non-existing code")
	}
}

func TestRegistered(t *testing.T) {
	all := Registered()
	if len(all) == 0 {
		t.Fatal("Registered should return non-empty map")
	}

	all[9999999] = &Errno{Code: 9999999}
	if _, ok := Lookup(9999999); ok {
		t.Error("Registered should return a copy")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register should panic on a duplicate code")
		}
	}()
	Register(&Errno{Code: ErrInternal.Code, Message: "again"})
}

func TestFormat(t *testing.T) {
	err := ErrMissingField.WithCause(fmt.Errorf("lobby.spawn.x"))
	got := fmt.Sprintf("%+v", err)
	want := "errno 212001 [exit 78]: required configuration field missing\ncaused by: lobby.spawn.x"
	if got != want {
		t.Errorf("%%+v = %q, want %q", got, want)
	}
}
