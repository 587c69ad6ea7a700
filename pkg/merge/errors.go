package merge

import (
	"fmt"
	"strings"

	serrors "github.com/matzehuels/stackgen/pkg/errors"
	"github.com/matzehuels/stackgen/pkg/graph"
	"github.com/matzehuels/stackgen/pkg/model"
)

// DefaultsSource names the tool configuration in conflict reports.
const DefaultsSource = "defaults"

// ConflictingGenerationOptionError is returned when two sources set the same
// option kind to different values. Values and Sources are parallel.
type ConflictingGenerationOptionError struct {
	Kind    model.OptionKind
	Values  []string
	Sources []string
}

func (e *ConflictingGenerationOptionError) Error() string {
	parts := make([]string, len(e.Values))
	for i := range e.Values {
		parts[i] = fmt.Sprintf("%q (%s)", e.Values[i], e.Sources[i])
	}
	return fmt.Sprintf("generation option %s is set to conflicting values: %s", e.Kind, strings.Join(parts, ", "))
}

// Code implements [serrors.Coder].
func (e *ConflictingGenerationOptionError) Code() serrors.Code {
	return serrors.ErrCodeConflictingGenerationOption
}

// IncompatibleVersionRangeError is returned when a dependent and its
// dependency share no compatible version.
type IncompatibleVersionRangeError struct {
	From         graph.NodeID
	To           graph.NodeID
	FromVersions model.CompatibleVersions
	ToVersions   model.CompatibleVersions
}

func (e *IncompatibleVersionRangeError) Error() string {
	return fmt.Sprintf("%s (compatible with %s) depends on %s (compatible with %s), which share no version",
		e.From, e.FromVersions, e.To, e.ToVersions)
}

// Code implements [serrors.Coder].
func (e *IncompatibleVersionRangeError) Code() serrors.Code {
	return serrors.ErrCodeIncompatibleVersionRange
}

// IncompatibleToolVersionError is returned when the installed IDE version
// is not accepted. A zero Node means the tool defaults rejected it.
type IncompatibleToolVersionError struct {
	Version  string
	Accepted model.CompatibleVersions
	Node     graph.NodeID
}

func (e *IncompatibleToolVersionError) Error() string {
	if e.Node == (graph.NodeID{}) {
		return fmt.Sprintf("tool version %s is not compatible with the configured versions %s", e.Version, e.Accepted)
	}
	return fmt.Sprintf("tool version %s is not compatible with %s, which supports %s", e.Version, e.Node, e.Accepted)
}

// Code implements [serrors.Coder].
func (e *IncompatibleToolVersionError) Code() serrors.Code {
	return serrors.ErrCodeIncompatibleToolVersion
}
