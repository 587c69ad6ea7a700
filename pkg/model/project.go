package model

import (
	"maps"
	"slices"
)

// Project is a converted project manifest. Path is the absolute directory
// holding the manifest and is the project's identity within a build.
type Project struct {
	Path              string            `json:"path"`
	Name              string            `json:"name"`
	Targets           []Target          `json:"targets"`
	GenerationOptions GenerationOptions `json:"generation_options,omitempty"`

	// CompatibleVersions is nil when the project inherits the tool default.
	CompatibleVersions *CompatibleVersions `json:"compatible_versions,omitempty"`
}

// Target returns the target with the given name.
func (p Project) Target(name string) (Target, bool) {
	i := slices.IndexFunc(p.Targets, func(t Target) bool { return t.Name == name })
	if i < 0 {
		return Target{}, false
	}
	return p.Targets[i], true
}

// Product is the kind of artifact a target builds.
type Product string

const (
	App             Product = "app"
	AppExtension    Product = "app-extension"
	CommandLine     Product = "command-line-tool"
	Framework       Product = "framework"
	StaticLibrary   Product = "static-library"
	DynamicLibrary  Product = "dynamic-library"
	StaticFramework Product = "static-framework"
	Bundle          Product = "bundle"
	UnitTests       Product = "unit-tests"
	UITests         Product = "ui-tests"
)

var products = []Product{
	App, AppExtension, CommandLine, Framework, StaticLibrary,
	DynamicLibrary, StaticFramework, Bundle, UnitTests, UITests,
}

// ParseProduct validates a manifest product spelling.
func ParseProduct(s string) (Product, bool) {
	p := Product(s)
	return p, slices.Contains(products, p)
}

// IsRunnable reports whether the product can be launched by a run action.
func (p Product) IsRunnable() bool {
	return p == App || p == CommandLine || p == AppExtension
}

// Target is a single buildable unit within a project.
type Target struct {
	Name         string            `json:"name"`
	Product      Product           `json:"product"`
	BundleID     string            `json:"bundle_id,omitempty"`
	Sources      []string          `json:"sources,omitempty"`
	Resources    []string          `json:"resources,omitempty"`
	Settings     map[string]string `json:"settings,omitempty"`
	Dependencies []Dependency      `json:"dependencies,omitempty"`

	// CompatibleVersions is nil when the target inherits from its project.
	CompatibleVersions *CompatibleVersions `json:"compatible_versions,omitempty"`
	RunAction          *RunAction          `json:"run_action,omitempty"`
}

// DependencyKind tags a dependency declaration.
type DependencyKind string

const (
	TargetDependency      DependencyKind = "target"
	ProjectDependency     DependencyKind = "project"
	FrameworkDependency   DependencyKind = "framework"
	LibraryDependency     DependencyKind = "library"
	PackageDependency     DependencyKind = "package"
	SDKDependency         DependencyKind = "sdk"
	XCFrameworkDependency DependencyKind = "xcframework"
)

var dependencyKinds = []DependencyKind{
	TargetDependency, ProjectDependency, FrameworkDependency, LibraryDependency,
	PackageDependency, SDKDependency, XCFrameworkDependency,
}

// ParseDependencyKind validates a manifest dependency kind.
func ParseDependencyKind(s string) (DependencyKind, bool) {
	k := DependencyKind(s)
	return k, slices.Contains(dependencyKinds, k)
}

// IsInternal reports whether the dependency points at a target in the build.
func (k DependencyKind) IsInternal() bool {
	return k == TargetDependency || k == ProjectDependency
}

// Dependency is one declared dependency of a target.
//
// Field use depends on Kind:
//   - target: Name is the target in the same project
//   - project: Path is the other project's directory, Name its target
//   - framework, library, xcframework: Path is the prebuilt artifact
//   - package, sdk: Name is the product or SDK name
type Dependency struct {
	Kind DependencyKind `json:"kind"`
	Name string         `json:"name,omitempty"`
	Path string         `json:"path,omitempty"`
}

// Reference returns the human-readable identity of the dependency.
func (d Dependency) Reference() string {
	switch d.Kind {
	case TargetDependency, PackageDependency, SDKDependency:
		return d.Name
	case ProjectDependency:
		return d.Path + ":" + d.Name
	default:
		return d.Path
	}
}

// TargetReference names a target, optionally in another project. An empty
// ProjectPath means the declaring project.
type TargetReference struct {
	ProjectPath string `json:"project_path,omitempty"`
	TargetName  string `json:"target_name"`
}

// DefaultConfigurationName is used by run actions that don't name one.
const DefaultConfigurationName = "Debug"

// RunAction describes how a target is launched from the IDE.
type RunAction struct {
	ConfigurationName string           `json:"configuration_name"`
	Executable        *TargetReference `json:"executable,omitempty"`
	Arguments         *Arguments       `json:"arguments,omitempty"`
}

// LaunchArgument is a command-line argument passed on launch.
type LaunchArgument struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Arguments are the environment and launch arguments of a run action.
type Arguments struct {
	Environment map[string]string `json:"environment,omitempty"`
	Launch      []LaunchArgument  `json:"launch,omitempty"`
}

// Clone returns a deep copy of the target.
func (t Target) Clone() Target {
	c := t
	c.Sources = slices.Clone(t.Sources)
	c.Resources = slices.Clone(t.Resources)
	c.Settings = maps.Clone(t.Settings)
	c.Dependencies = slices.Clone(t.Dependencies)
	if t.CompatibleVersions != nil {
		v := *t.CompatibleVersions
		c.CompatibleVersions = &v
	}
	if t.RunAction != nil {
		ra := *t.RunAction
		if ra.Executable != nil {
			e := *ra.Executable
			ra.Executable = &e
		}
		if ra.Arguments != nil {
			a := Arguments{
				Environment: maps.Clone(ra.Arguments.Environment),
				Launch:      slices.Clone(ra.Arguments.Launch),
			}
			ra.Arguments = &a
		}
		c.RunAction = &ra
	}
	return c
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	c := p
	c.GenerationOptions = slices.Clone(p.GenerationOptions)
	if p.CompatibleVersions != nil {
		v := *p.CompatibleVersions
		c.CompatibleVersions = &v
	}
	c.Targets = make([]Target, len(p.Targets))
	for i, t := range p.Targets {
		c.Targets[i] = t.Clone()
	}
	return c
}
