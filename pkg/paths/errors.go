package paths

import (
	"fmt"

	serrors "github.com/matzehuels/stackgen/pkg/errors"
)

// MissingCallerPathError is returned when a file-relative expression does
// not carry the path of the file that declared it.
type MissingCallerPathError struct {
	Path string // the unresolved expression path
}

func (e *MissingCallerPathError) Error() string {
	return fmt.Sprintf("path %q is relative to the current file but has no caller path", e.Path)
}

// Code implements [serrors.Coder].
func (e *MissingCallerPathError) Code() serrors.Code { return serrors.ErrCodeMissingCallerPath }

// RootDirectoryNotFoundError is returned when no ancestor of the manifest
// directory contains a root marker.
type RootDirectoryNotFoundError struct {
	Path string // directory the search started from
}

func (e *RootDirectoryNotFoundError) Error() string {
	return fmt.Sprintf("couldn't locate the root directory from path %s", e.Path)
}

// Code implements [serrors.Coder].
func (e *RootDirectoryNotFoundError) Code() serrors.Code {
	return serrors.ErrCodeRootDirectoryNotFound
}
