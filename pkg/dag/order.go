package dag

import (
	"container/heap"
	"strings"
)

// CycleError reports a directed cycle. Path lists the nodes of the cycle in
// traversal order; the edge from the last node back to the first closes it.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "graph contains a cycle: " + strings.Join(append(append([]string{}, e.Path...), e.Path[0]), " -> ")
}

// Unwrap makes errors.Is(err, ErrGraphHasCycle) hold.
func (e *CycleError) Unwrap() error { return ErrGraphHasCycle }

// FindCycle returns the first cycle found by a depth-first search that
// visits roots and children in insertion order, or nil if the graph is
// acyclic. The search keeps white/gray/black marks; reaching a gray node
// closes a cycle, which is reported from that node onward.
func (d *DAG) FindCycle() []string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.order))
	var stack []string
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		stack = append(stack, id)
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				if dfs(child) {
					return true
				}
			case gray:
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == child {
						cycle = append([]string{}, stack[i:]...)
						break
					}
				}
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, id := range d.order {
		if color[id] == white && dfs(id) {
			return cycle
		}
	}
	return nil
}

// Validate returns a *CycleError if the graph has a directed cycle.
// Cycle detection runs in O(N+E) time.
func (d *DAG) Validate() error {
	if c := d.FindCycle(); c != nil {
		return &CycleError{Path: c}
	}
	return nil
}

// TopologicalOrder returns every node ID such that each node comes after all
// of its children (dependencies first). Among nodes that are ready at the
// same time, the one inserted first wins, so a graph without edges yields
// insertion order and repeated calls yield identical results.
//
// Returns a *CycleError if the graph is not acyclic.
func (d *DAG) TopologicalOrder() ([]string, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	pending := make(map[string]int, len(d.order))
	ready := &indexHeap{}
	for i, id := range d.order {
		pending[id] = len(d.outgoing[id])
		if pending[id] == 0 {
			heap.Push(ready, i)
		}
	}

	out := make([]string, 0, len(d.order))
	for ready.Len() > 0 {
		id := d.order[heap.Pop(ready).(int)]
		out = append(out, id)
		for _, parent := range d.incoming[id] {
			pending[parent]--
			if pending[parent] == 0 {
				heap.Push(ready, d.index[parent])
			}
		}
	}
	return out, nil
}

// Reachable returns every node reachable from id through one or more edges,
// in depth-first discovery order. id itself is only included if it lies on
// a cycle.
func (d *DAG) Reachable(id string) []string {
	seen := make(map[string]bool)
	var out []string
	var visit func(string)
	visit = func(n string) {
		for _, child := range d.outgoing[n] {
			if !seen[child] {
				seen[child] = true
				out = append(out, child)
				visit(child)
			}
		}
	}
	visit(id)
	return out
}

// indexHeap is a min-heap of insertion indices.
type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *indexHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *indexHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
