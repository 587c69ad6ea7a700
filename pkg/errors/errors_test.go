package errors

import (
	"errors"
	"fmt"
	"testing"
)

// cycleError stands in for a domain error type carrying its own code.
type cycleError struct{ path []string }

func (e *cycleError) Error() string { return fmt.Sprintf("cycle %v", e.path) }
func (e *cycleError) Code() Code    { return ErrCodeDependencyCycle }

func TestNewAndWrap(t *testing.T) {
	err := New(ErrCodeInvalidInput, "no %s found below %s", "Project.hcl", "/work")
	if got, want := err.Error(), "INVALID_INPUT: no Project.hcl found below /work"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("permission denied")
	wrapped := Wrap(ErrCodeFileNotFound, cause, "read %s", "Config.toml")
	if !errors.Is(wrapped, cause) || errors.Unwrap(wrapped) != cause {
		t.Error("Wrap should keep the cause in the chain")
	}
	if got, want := wrapped.Error(), "FILE_NOT_FOUND: read Config.toml: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCodes(t *testing.T) {
	typed := &cycleError{path: []string{"A", "B", "A"}}
	tests := []struct {
		name     string
		err      error
		wantCode Code
		wantMsg  string
	}{
		{"structured", New(ErrCodeUnresolvedDependency, "App:App -> Core:Core"), ErrCodeUnresolvedDependency, "App:App -> Core:Core"},
		{"typed", typed, ErrCodeDependencyCycle, "cycle [A B A]"},
		{"typed behind fmt", fmt.Errorf("build: %w", typed), ErrCodeDependencyCycle, "build: cycle [A B A]"},
		{"outer code wins", Wrap(ErrCodeInternal, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeInternal, "outer: inner"},
		{"plain", errors.New("plain"), "", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.wantCode {
				t.Errorf("GetCode() = %q, want %q", got, tt.wantCode)
			}
			if tt.wantCode != "" && !Is(tt.err, tt.wantCode) {
				t.Errorf("Is(%q) = false", tt.wantCode)
			}
			if got := UserMessage(tt.err); got != tt.wantMsg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.wantMsg)
			}
		})
	}

	if GetCode(nil) != "" || Is(nil, ErrCodeInvalidInput) {
		t.Error("nil error should carry no code")
	}
}

func TestIsValidation(t *testing.T) {
	for _, code := range []Code{ErrCodeDependencyCycle, ErrCodeIncompatibleVersionRange, ErrCodeMissingCallerPath} {
		if !IsValidation(code) {
			t.Errorf("IsValidation(%s) = false, want true", code)
		}
	}
	for _, code := range []Code{ErrCodeInternal, ErrCodeInvalidInput, ""} {
		if IsValidation(code) {
			t.Errorf("IsValidation(%q) = true, want false", code)
		}
	}
}
