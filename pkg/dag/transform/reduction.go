package transform

import "github.com/matzehuels/stackgen/pkg/dag"

// TransitiveReduction removes redundant edges from the graph.
//
// TransitiveReduction removes any edge (u, v) where there exists an alternate
// path from u to v through at least one intermediate node. For example, if
// edges A→B, B→C, and A→C all exist, then A→C is redundant and is removed
// because A reaches C via B.
//
// # Algorithm
//
// TransitiveReduction computes full transitive closure using DFS-based
// reachability, then removes any edge (u, v) where u can reach v through an
// intermediate node w (where u→w and w reaches v).
//
// # Performance
//
// Time complexity is O(V²·E) in the worst case. Space complexity is O(V²)
// for the reachability matrix, which is fine for the size of project graphs.
//
// The graph must be acyclic. Edge metadata is preserved for kept edges.
func TransitiveReduction(g *dag.DAG) {
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return
	}

	adjacency := make([][]int, len(ids))
	for _, e := range g.Edges() {
		src, dst := g.Index(e.From), g.Index(e.To)
		if src >= 0 && dst >= 0 {
			adjacency[src] = append(adjacency[src], dst)
		}
	}

	reachability := computeReachability(adjacency)

	for _, e := range g.Edges() {
		src, dst := g.Index(e.From), g.Index(e.To)
		for _, intermediate := range adjacency[src] {
			if intermediate != dst && reachability[intermediate][dst] {
				g.RemoveEdge(e.From, e.To)
				break
			}
		}
	}
}

func computeReachability(adjacency [][]int) [][]bool {
	n := len(adjacency)
	reachable := make([][]bool, n)
	for i := range reachable {
		reachable[i] = make([]bool, n)
	}

	var dfs func(source, current int)
	dfs = func(source, current int) {
		if reachable[source][current] {
			return
		}
		reachable[source][current] = true
		for _, next := range adjacency[current] {
			dfs(source, next)
		}
	}

	for i := range reachable {
		dfs(i, i)
	}
	return reachable
}
