// Package dag provides an insertion-ordered directed graph with cycle
// detection and deterministic topological ordering.
//
// # Overview
//
// Project generation needs the dependency graph of every target in a build
// processed in a stable order: repeated runs over unchanged manifests must
// produce byte-identical output. This package therefore never iterates a Go
// map when order is observable. Nodes, edges, roots, children and every
// traversal follow insertion order.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [DAG.AddNode] and edges with
// [DAG.AddEdge]. In dependency graphs an edge points from the dependent to
// its dependency:
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "app"})
//	g.AddNode(dag.Node{ID: "core"})
//	g.AddEdge(dag.Edge{From: "app", To: "core"})
//
//	order, _ := g.TopologicalOrder() // [core app]
//
// # Cycles
//
// [DAG.AddEdge] accepts any edge between known nodes. [DAG.FindCycle] runs a
// depth-first search with white/gray/black marks and returns the offending
// node sequence; [DAG.Validate] and [DAG.TopologicalOrder] wrap it in a
// [CycleError], which matches [ErrGraphHasCycle] under errors.Is.
//
// # Ordering
//
// [DAG.TopologicalOrder] is Kahn's algorithm with a min-heap on insertion
// index, so independent nodes keep declaration order.
//
// Nodes are bare IDs. Edges carry a [Metadata] map for callers that need
// to recover their own edge values after a transformation.
//
// # Concurrency
//
// DAG instances are not safe for concurrent mutation. A graph that is no
// longer modified can be read from multiple goroutines.
//
// The [transform] subpackage provides transitive reduction for display.
//
// [transform]: github.com/matzehuels/stackgen/pkg/dag/transform
package dag
