package graph

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/stackgen/pkg/dag"
	"github.com/matzehuels/stackgen/pkg/model"
)

// Graph is the validated dependency graph of every target in a build. It is
// immutable once built; accessors return copies.
type Graph struct {
	d        *dag.DAG
	ids      []NodeID
	nodes    map[NodeID]Node
	projects []model.Project
	byPath   map[string]int
	order    []NodeID
}

// Build turns converted projects into a graph:
//
//  1. one node per target, in declaration order
//  2. target and project dependencies become edges, anything else is kept
//     as an external reference on the node
//  3. cycle detection
//  4. topological order, dependencies first, ties broken by declaration
//
// Errors are *[DuplicateProjectError], *[DuplicateTargetError],
// *[InvalidTargetNameError], *[UnresolvedDependencyError] or
// *[DependencyCycleError].
func Build(projects []model.Project) (*Graph, error) {
	g := &Graph{
		d:      dag.New(),
		nodes:  make(map[NodeID]Node),
		byPath: make(map[string]int, len(projects)),
	}

	for _, p := range projects {
		p = p.Clone()
		p.Path = filepath.Clean(p.Path)
		if _, dup := g.byPath[p.Path]; dup {
			return nil, &DuplicateProjectError{Path: p.Path}
		}
		g.byPath[p.Path] = len(g.projects)
		g.projects = append(g.projects, p)

		for _, t := range p.Targets {
			if strings.Contains(t.Name, Separator) {
				return nil, &InvalidTargetNameError{Project: p.Path, Target: t.Name}
			}
			id := NodeID{Project: p.Path, Target: t.Name}
			if err := g.d.AddNode(dag.Node{ID: id.String()}); err != nil {
				if errors.Is(err, dag.ErrDuplicateNodeID) {
					return nil, &DuplicateTargetError{Project: p.Path, Target: t.Name}
				}
				return nil, err
			}
			g.ids = append(g.ids, id)
			g.nodes[id] = Node{ID: id, ProjectName: p.Name, Target: t}
		}
	}

	for _, id := range g.ids {
		n := g.nodes[id]
		for _, dep := range n.Target.Dependencies {
			to, internal := dependencyID(id, dep)
			if !internal {
				n.External = append(n.External, dep)
				continue
			}
			if _, ok := g.nodes[to]; !ok {
				return nil, &UnresolvedDependencyError{From: id, Project: to.Project, Target: to.Target}
			}
			if slices.Contains(g.d.Children(id.String()), to.String()) {
				continue
			}
			if err := g.d.AddEdge(dag.Edge{From: id.String(), To: to.String()}); err != nil {
				return nil, err
			}
		}
		g.nodes[id] = n
	}

	if cycle := g.d.FindCycle(); cycle != nil {
		return nil, &DependencyCycleError{Path: g.toIDs(cycle)}
	}
	order, err := g.d.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	g.order = g.toIDs(order)
	return g, nil
}

func dependencyID(from NodeID, dep model.Dependency) (NodeID, bool) {
	switch dep.Kind {
	case model.TargetDependency:
		return NodeID{Project: from.Project, Target: dep.Name}, true
	case model.ProjectDependency:
		return NodeID{Project: filepath.Clean(dep.Path), Target: dep.Name}, true
	default:
		return NodeID{}, false
	}
}

func (g *Graph) toIDs(keys []string) []NodeID {
	out := make([]NodeID, len(keys))
	for i, k := range keys {
		out[i] = g.ids[g.d.Index(k)]
	}
	return out
}

// Len returns the number of targets.
func (g *Graph) Len() int { return len(g.ids) }

// EdgeCount returns the number of internal dependency edges.
func (g *Graph) EdgeCount() int { return g.d.EdgeCount() }

// Nodes returns every node in declaration order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.ids))
	for i, id := range g.ids {
		out[i] = g.nodes[id].clone()
	}
	return out
}

// NodeIDs returns every node ID in declaration order.
func (g *Graph) NodeIDs() []NodeID { return slices.Clone(g.ids) }

// Node returns the node with the given ID.
func (g *Graph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

// Dependencies returns the direct internal dependencies of id in
// declaration order.
func (g *Graph) Dependencies(id NodeID) []NodeID {
	return g.toIDs(g.d.Children(id.String()))
}

// Dependents returns the targets that depend directly on id.
func (g *Graph) Dependents(id NodeID) []NodeID {
	return g.toIDs(g.d.Parents(id.String()))
}

// Order returns every node ID such that each target comes after all of its
// dependencies. The order is identical across runs over the same input.
func (g *Graph) Order() []NodeID { return slices.Clone(g.order) }

// TransitiveDependencies returns everything id depends on directly or
// indirectly, in build order.
func (g *Graph) TransitiveDependencies(id NodeID) []NodeID {
	reach := make(map[string]bool)
	for _, k := range g.d.Reachable(id.String()) {
		reach[k] = true
	}
	var out []NodeID
	for _, n := range g.order {
		if reach[n.String()] {
			out = append(out, n)
		}
	}
	return out
}

// Project returns the project at path.
func (g *Graph) Project(path string) (model.Project, bool) {
	i, ok := g.byPath[filepath.Clean(path)]
	if !ok {
		return model.Project{}, false
	}
	return g.projects[i].Clone(), true
}

// Projects returns every project in declaration order.
func (g *Graph) Projects() []model.Project {
	out := make([]model.Project, len(g.projects))
	for i, p := range g.projects {
		out[i] = p.Clone()
	}
	return out
}

// DAG returns a copy of the underlying graph keyed by [NodeID.String].
func (g *Graph) DAG() *dag.DAG { return g.d.Clone() }
