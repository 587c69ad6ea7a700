package graph

import (
	"fmt"
	"strings"

	serrors "github.com/matzehuels/stackgen/pkg/errors"
)

// DuplicateProjectError is returned when two projects share a path.
type DuplicateProjectError struct {
	Path string
}

func (e *DuplicateProjectError) Error() string {
	return fmt.Sprintf("project %s is declared more than once", e.Path)
}

// Code implements [serrors.Coder].
func (e *DuplicateProjectError) Code() serrors.Code { return serrors.ErrCodeDuplicateProject }

// DuplicateTargetError is returned when a project declares two targets with
// the same name.
type DuplicateTargetError struct {
	Project string
	Target  string
}

func (e *DuplicateTargetError) Error() string {
	return fmt.Sprintf("target %s is declared more than once in project %s", e.Target, e.Project)
}

// Code implements [serrors.Coder].
func (e *DuplicateTargetError) Code() serrors.Code {
	return serrors.ErrCodeDuplicateTargetIdentity
}

// InvalidTargetNameError is returned for a target name that would make its
// rendered [NodeID] ambiguous.
type InvalidTargetNameError struct {
	Project string
	Target  string
}

func (e *InvalidTargetNameError) Error() string {
	return fmt.Sprintf("target %q in project %s must not contain %q", e.Target, e.Project, Separator)
}

// Code implements [serrors.Coder].
func (e *InvalidTargetNameError) Code() serrors.Code { return serrors.ErrCodeInvalidManifestValue }

// UnresolvedDependencyError is returned when a target or project dependency
// names something that is not part of the build.
type UnresolvedDependencyError struct {
	From    NodeID
	Project string // project the dependency was looked up in
	Target  string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("%s depends on %s, which is not part of the build",
		e.From, NodeID{Project: e.Project, Target: e.Target})
}

// Code implements [serrors.Coder].
func (e *UnresolvedDependencyError) Code() serrors.Code {
	return serrors.ErrCodeUnresolvedDependency
}

// DependencyCycleError is returned when targets depend on each other in a
// loop. Path holds the cycle in traversal order; the last node depends on
// the first.
type DependencyCycleError struct {
	Path []NodeID
}

func (e *DependencyCycleError) Error() string {
	parts := make([]string, 0, len(e.Path)+1)
	for _, id := range e.Path {
		parts = append(parts, id.String())
	}
	if len(e.Path) > 0 {
		parts = append(parts, e.Path[0].String())
	}
	return "dependency cycle: " + strings.Join(parts, " -> ")
}

// Code implements [serrors.Coder].
func (e *DependencyCycleError) Code() serrors.Code { return serrors.ErrCodeDependencyCycle }
