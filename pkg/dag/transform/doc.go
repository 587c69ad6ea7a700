// Package transform provides graph transformations used when presenting a
// dependency graph.
//
// # Transitive Reduction
//
// [TransitiveReduction] removes redundant edges that can be inferred through
// other paths. If A→B and B→C exist, then A→C is redundant and removed.
// Build order is unaffected by the reduction, so the rendered graph shows
// only direct structure while staying faithful to the resolved order.
//
// Transformations modify the graph in place; callers that still need the
// original should pass a [dag.DAG.Clone].
package transform
