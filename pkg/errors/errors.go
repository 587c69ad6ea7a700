// Package errors provides structured error types for stackgen.
//
// Every failure the resolution core can produce carries a machine-readable
// [Code]. Downstream tooling (the CLI, the HTTP API, linters) branches on the
// code to render diagnostics; the core itself never formats user-facing text
// beyond the Error() string.
//
// # Error Codes
//
// Codes fall into a few families:
//   - Path resolution: MISSING_CALLER_PATH, ROOT_DIRECTORY_NOT_FOUND
//   - Conversion: INVALID_MANIFEST_VALUE
//   - Graph construction: DUPLICATE_TARGET_IDENTITY, DUPLICATE_PROJECT,
//     UNRESOLVED_DEPENDENCY, DEPENDENCY_CYCLE
//   - Configuration merge: CONFLICTING_GENERATION_OPTION,
//     INCOMPATIBLE_VERSION_RANGE, INCOMPATIBLE_TOOL_VERSION
//   - Everything else: INVALID_INPUT, FILE_NOT_FOUND, INTERNAL_ERROR
//
// Domain packages define their own typed errors carrying identifying context
// (paths, node identities, cycle sequences). Those types implement
// Code() Code, so [GetCode] and [Is] work on them without this package
// knowing their shape.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "path is required")
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Path resolution
	ErrCodeMissingCallerPath     Code = "MISSING_CALLER_PATH"
	ErrCodeRootDirectoryNotFound Code = "ROOT_DIRECTORY_NOT_FOUND"

	// Manifest conversion
	ErrCodeInvalidManifestValue Code = "INVALID_MANIFEST_VALUE"

	// Graph construction
	ErrCodeDuplicateTargetIdentity Code = "DUPLICATE_TARGET_IDENTITY"
	ErrCodeDuplicateProject        Code = "DUPLICATE_PROJECT"
	ErrCodeUnresolvedDependency    Code = "UNRESOLVED_DEPENDENCY"
	ErrCodeDependencyCycle         Code = "DEPENDENCY_CYCLE"

	// Configuration merge
	ErrCodeConflictingGenerationOption Code = "CONFLICTING_GENERATION_OPTION"
	ErrCodeIncompatibleVersionRange    Code = "INCOMPATIBLE_VERSION_RANGE"
	ErrCodeIncompatibleToolVersion     Code = "INCOMPATIBLE_TOOL_VERSION"

	// General
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

// validationCodes are codes caused by invalid manifests rather than by the
// environment or by a programming error.
var validationCodes = map[Code]bool{
	ErrCodeMissingCallerPath:           true,
	ErrCodeRootDirectoryNotFound:       true,
	ErrCodeInvalidManifestValue:        true,
	ErrCodeDuplicateTargetIdentity:     true,
	ErrCodeDuplicateProject:            true,
	ErrCodeUnresolvedDependency:        true,
	ErrCodeDependencyCycle:             true,
	ErrCodeConflictingGenerationOption: true,
	ErrCodeIncompatibleVersionRange:    true,
	ErrCodeIncompatibleToolVersion:     true,
}

// IsValidation reports whether code describes invalid manifest input.
func IsValidation(code Code) bool { return validationCodes[code] }

// Coder is implemented by typed domain errors that carry a code.
type Coder interface {
	Code() Code
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// The outermost coded error in the chain decides.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// It walks the chain and returns the first code found, either from an
// *Error or from a typed error implementing [Coder].
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case Coder:
			return e.Code()
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}
