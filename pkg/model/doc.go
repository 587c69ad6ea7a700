// Package model defines the strongly-typed domain values produced by
// converting manifests: projects, targets, dependencies, run actions and the
// tool configuration.
//
// Values in this package are plain data. They are built by package convert,
// consumed by package graph, and never mutated once a build has started.
//
// Two types take part in memoization and therefore hash stably across
// process runs: [CompatibleVersions] and [GenerationOptions] (and [Config],
// which combines them). Their Hash methods are SHA-256 digests over a
// canonical JSON encoding.
//
//	a := model.GenerationOptions{{Kind: model.ProjectNameOption, Value: "App"}}
//	b := slices.Clone(a)
//	a.Equal(b)            // true
//	a.Hash() == b.Hash()  // true
package model
