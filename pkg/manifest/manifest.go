// Package manifest loads project and tool-configuration manifests into a
// weakly-typed intermediate representation.
//
// The loader only checks syntax and shape. Semantic validation (known
// product and dependency kinds, non-empty names, string-valued settings) is
// left to package convert, which turns these values into package model
// types. Manifests are never executed: project manifests are HCL documents
// decoded with gohcl and the tool configuration is TOML.
//
// A project manifest looks like this:
//
//	project "App" {
//	  compatible_versions = ["11.0", "11.1"]
//
//	  option "xcode-project-name" {
//	    value = "MyApp"
//	  }
//
//	  target "App" {
//	    product   = "app"
//	    bundle_id = "io.example.app"
//	    sources   = ["Sources", relative_to_root("Shared/Sources")]
//	    settings  = { SWIFT_VERSION = "5.0" }
//
//	    dependency "target" { name = "Core" }
//	    dependency "project" {
//	      path = "../Kit"
//	      name = "Kit"
//	    }
//
//	    run_action {
//	      configuration = "Release"
//	    }
//	  }
//	}
//
// Path attributes accept a bare string (relative to the manifest), a string
// starting with "//" (relative to the project root), or one of the functions
// relative_to_manifest, relative_to_root and relative_to_current_file.
package manifest

import (
	"github.com/zclconf/go-cty/cty"
)

// Kind tags of every manifest value.
const (
	KindConfig             = "config"
	KindCompatibleVersions = "compatible-versions"
	KindGenerationOption   = "generation-option"
	KindProject            = "project"
	KindTarget             = "target"
	KindDependency         = "dependency"
	KindRunAction          = "run-action"
	KindArguments          = "arguments"
)

// Value is any manifest entity that can be converted to a model value.
type Value interface {
	Kind() string
}

// Path type spellings.
const (
	PathRelativeToCurrentFile = "relative_to_current_file"
	PathRelativeToManifest    = "relative_to_manifest"
	PathRelativeToRoot        = "relative_to_root"
)

// Path is an unresolved path as written in a manifest.
type Path struct {
	Type       string // one of the Path* spellings; empty means manifest-relative
	Value      string
	CallerPath string // declaring file, set for relative_to_current_file
}

// Project is a decoded project manifest.
type Project struct {
	File               string // absolute manifest file path
	Name               string
	CompatibleVersions *CompatibleVersions
	GenerationOptions  []GenerationOption
	Targets            []Target
}

// Target is a decoded target block.
type Target struct {
	Name               string
	Product            string
	BundleID           string
	Sources            []Path
	Resources          []Path
	Settings           cty.Value // unchecked; must be a map of strings
	Dependencies       []Dependency
	CompatibleVersions *CompatibleVersions
	RunAction          *RunAction
}

// Dependency is a decoded dependency block.
type Dependency struct {
	Type string
	Name string
	Path *Path
}

// CompatibleVersions is either the tag "all" or the tag "list" with versions.
type CompatibleVersions struct {
	Tag      string
	Versions []string
}

// GenerationOption is a decoded option block.
type GenerationOption struct {
	Name  string
	Value string
}

// TargetReference points at a target, optionally in another project.
type TargetReference struct {
	Project *Path
	Target  string
}

// RunAction is a decoded run_action block.
type RunAction struct {
	Configuration string
	Executable    *TargetReference
	Arguments     *Arguments
}

// LaunchArgument is one launch argument in declaration order.
type LaunchArgument struct {
	Name    string
	Enabled bool
}

// Arguments is a decoded arguments block.
type Arguments struct {
	Environment map[string]string
	Launch      []LaunchArgument
}

// Config is the decoded tool configuration.
type Config struct {
	File               string
	CompatibleVersions *CompatibleVersions
	GenerationOptions  []GenerationOption
}

func (Project) Kind() string            { return KindProject }
func (Target) Kind() string             { return KindTarget }
func (Dependency) Kind() string         { return KindDependency }
func (CompatibleVersions) Kind() string { return KindCompatibleVersions }
func (GenerationOption) Kind() string   { return KindGenerationOption }
func (RunAction) Kind() string          { return KindRunAction }
func (Arguments) Kind() string          { return KindArguments }
func (Config) Kind() string             { return KindConfig }
