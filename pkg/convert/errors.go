package convert

import (
	"errors"
	"fmt"

	serrors "github.com/matzehuels/stackgen/pkg/errors"
)

// InvalidManifestValueError reports a structurally malformed manifest value.
type InvalidManifestValueError struct {
	Field  string // dotted path of the offending field, e.g. target[App].product
	Reason string
}

func (e *InvalidManifestValueError) Error() string {
	return fmt.Sprintf("invalid manifest value at %s: %s", e.Field, e.Reason)
}

// Code implements [serrors.Coder].
func (e *InvalidManifestValueError) Code() serrors.Code {
	return serrors.ErrCodeInvalidManifestValue
}

func invalid(field, format string, args ...any) error {
	return &InvalidManifestValueError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// within prefixes the field of an InvalidManifestValueError with the
// enclosing entity. Other errors are returned unchanged.
func within(prefix string, err error) error {
	var ive *InvalidManifestValueError
	if errors.As(err, &ive) {
		return &InvalidManifestValueError{Field: prefix + "." + ive.Field, Reason: ive.Reason}
	}
	return err
}
