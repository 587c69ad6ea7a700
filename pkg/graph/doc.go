// Package graph builds the validated dependency graph of a build.
//
// # Overview
//
// [Build] takes converted projects (see pkg/convert) and produces a [Graph]
// with one node per target. Nodes are identified by [NodeID], the project
// directory plus the target name, rendered as "<project path>:<target>".
//
// Dependencies of kind target and project become edges. Everything else
// (frameworks, libraries, packages, SDKs, xcframeworks) lives outside the
// build and is kept on the node as an external reference.
//
// # Validation
//
// Build fails with a typed error carrying the offending identities:
//
//   - [DuplicateProjectError]: two projects at the same path
//   - [DuplicateTargetError]: two targets with one name in a project
//   - [UnresolvedDependencyError]: a dependency on a target not in the build
//   - [DependencyCycleError]: targets that depend on each other in a loop
//
// Each implements Code() so errors.GetCode from pkg/errors works on it.
//
// # Ordering
//
// [Graph.Order] lists every target after all of its dependencies. Ties are
// broken by declaration order, so repeated runs over the same projects
// produce identical output.
//
// # Serialization
//
// [Graph.Document] exports a [Document], the JSON format used by the CLI,
// the HTTP API and the cache. [ToDOT] and [RenderSVG] draw it with Graphviz.
package graph
