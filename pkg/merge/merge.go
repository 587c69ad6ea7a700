// Package merge combines tool defaults with per-project and per-target
// configuration and checks that the result is consistent across the
// dependency graph.
//
// Precedence is never silent: two sources that set the same generation
// option to different values are an error, and every internal dependency
// edge must leave at least one IDE version both sides accept.
package merge

import (
	"github.com/matzehuels/stackgen/pkg/graph"
	"github.com/matzehuels/stackgen/pkg/model"
)

// Merged is the validated configuration of a build.
type Merged struct {
	defaults model.Config
	options  map[string]model.GenerationOptions
	versions map[graph.NodeID]model.CompatibleVersions
	order    []graph.NodeID
	projects []string
	names    map[string]string
}

// Merge validates and combines configuration for g.
//
// Generation options are combined per project: the defaults first, then the
// project's own options. The same kind with different values is a
// *[ConflictingGenerationOptionError]; an identical value is kept once.
//
// A node's effective compatible versions are its entry in perTarget, else
// its project's spec, else the defaults. Every internal edge must have a
// non-empty intersection, or Merge fails with
// *[IncompatibleVersionRangeError].
func Merge(
	defaults model.Config,
	perProject map[string]model.GenerationOptions,
	perTarget map[graph.NodeID]model.CompatibleVersions,
	g *graph.Graph,
) (*Merged, error) {
	m := &Merged{
		defaults: defaults,
		options:  make(map[string]model.GenerationOptions),
		versions: make(map[graph.NodeID]model.CompatibleVersions, g.Len()),
		order:    g.Order(),
		names:    make(map[string]string),
	}

	for _, p := range g.Projects() {
		opts, err := combine(
			source{DefaultsSource, defaults.GenerationOptions},
			source{p.Path, perProject[p.Path]},
		)
		if err != nil {
			return nil, err
		}
		m.options[p.Path] = opts
		m.projects = append(m.projects, p.Path)
		m.names[p.Path] = p.Name
	}

	for _, id := range g.NodeIDs() {
		m.versions[id] = effective(defaults, perTarget, g, id)
	}

	for _, from := range g.NodeIDs() {
		for _, to := range g.Dependencies(from) {
			fv, tv := m.versions[from], m.versions[to]
			if fv.Intersect(tv).IsEmpty() {
				return nil, &IncompatibleVersionRangeError{From: from, To: to, FromVersions: fv, ToVersions: tv}
			}
		}
	}
	return m, nil
}

type source struct {
	name    string
	options model.GenerationOptions
}

func combine(sources ...source) (model.GenerationOptions, error) {
	var out model.GenerationOptions
	from := make(map[model.OptionKind]string)
	for _, s := range sources {
		for _, o := range s.options {
			prev, ok := out.Get(o.Kind)
			switch {
			case !ok:
				out = append(out, o)
				from[o.Kind] = s.name
			case prev.Value != o.Value:
				return nil, &ConflictingGenerationOptionError{
					Kind:    o.Kind,
					Values:  []string{prev.Value, o.Value},
					Sources: []string{from[o.Kind], s.name},
				}
			}
		}
	}
	return out, nil
}

func effective(defaults model.Config, perTarget map[graph.NodeID]model.CompatibleVersions, g *graph.Graph, id graph.NodeID) model.CompatibleVersions {
	if v, ok := perTarget[id]; ok {
		return v
	}
	if p, ok := g.Project(id.Project); ok && p.CompatibleVersions != nil {
		return *p.CompatibleVersions
	}
	return defaults.CompatibleVersions
}

// Defaults returns the tool configuration the merge started from.
func (m *Merged) Defaults() model.Config { return m.defaults }

// Options returns the combined generation options of the project at path.
func (m *Merged) Options(projectPath string) model.GenerationOptions {
	return append(model.GenerationOptions(nil), m.options[projectPath]...)
}

// ProjectName returns the name the generated project file should carry:
// the xcode-project-name option when set, otherwise the manifest name.
func (m *Merged) ProjectName(projectPath string) string {
	if name, ok := m.options[projectPath].ProjectName(); ok {
		return name
	}
	return m.names[projectPath]
}

// Versions returns the effective compatible versions of a node.
func (m *Merged) Versions(id graph.NodeID) (model.CompatibleVersions, bool) {
	v, ok := m.versions[id]
	return v, ok
}

// CheckToolVersion reports whether the installed IDE version v can generate
// the build. The defaults are checked first, then every node in build order.
// The first rejection is returned as *[IncompatibleToolVersionError].
func (m *Merged) CheckToolVersion(v string) error {
	if !m.defaults.CompatibleVersions.Accepts(v) {
		return &IncompatibleToolVersionError{Version: v, Accepted: m.defaults.CompatibleVersions}
	}
	for _, id := range m.order {
		if accepted := m.versions[id]; !accepted.Accepts(v) {
			return &IncompatibleToolVersionError{Version: v, Accepted: accepted, Node: id}
		}
	}
	return nil
}

// Report is the JSON view of a [Merged] configuration.
type Report struct {
	Defaults     model.Config                              `json:"defaults"`
	Options      map[string]model.GenerationOptions        `json:"options"`
	ProjectNames map[string]string                         `json:"project_names"`
	Versions     map[graph.NodeID]model.CompatibleVersions `json:"versions"`
}

// Report exports the merged configuration. Map keys encode sorted, so the
// JSON form is deterministic.
func (m *Merged) Report() Report {
	r := Report{
		Defaults: m.defaults,
		Options:      make(map[string]model.GenerationOptions, len(m.options)),
		ProjectNames: make(map[string]string, len(m.projects)),
		Versions:     make(map[graph.NodeID]model.CompatibleVersions, len(m.versions)),
	}
	for _, p := range m.projects {
		r.Options[p] = m.Options(p)
		r.ProjectNames[p] = m.ProjectName(p)
	}
	for id, v := range m.versions {
		r.Versions[id] = v
	}
	return r
}
