package merge

import (
	"github.com/matzehuels/stackgen/pkg/graph"
	"github.com/matzehuels/stackgen/pkg/model"
)

// Inputs collects the per-project generation options and the per-target
// compatible versions declared in the projects of g, ready for [Merge].
// Targets without their own spec are left out so they inherit.
func Inputs(g *graph.Graph) (map[string]model.GenerationOptions, map[graph.NodeID]model.CompatibleVersions) {
	perProject := make(map[string]model.GenerationOptions)
	for _, p := range g.Projects() {
		if len(p.GenerationOptions) > 0 {
			perProject[p.Path] = p.GenerationOptions
		}
	}

	perTarget := make(map[graph.NodeID]model.CompatibleVersions)
	for _, n := range g.Nodes() {
		if n.Target.CompatibleVersions != nil {
			perTarget[n.ID] = *n.Target.CompatibleVersions
		}
	}
	return perProject, perTarget
}

// Graph runs [Merge] with the inputs declared in g.
func Graph(defaults model.Config, g *graph.Graph) (*Merged, error) {
	perProject, perTarget := Inputs(g)
	return Merge(defaults, perProject, perTarget, g)
}
