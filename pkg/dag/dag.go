package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrGraphHasCycle is returned by [DAG.Validate] and
	// [DAG.TopologicalOrder] when a directed cycle exists. The concrete error
	// is a *[CycleError] carrying the cycle.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata is an attribute map attached to an edge.
type Metadata map[string]any

// Node is a vertex. Only the ID is stored; callers keep their payload in
// their own maps keyed by ID.
type Node struct {
	ID string
}

// Edge is a directed connection. In dependency graphs From depends on To.
type Edge struct {
	From string
	To   string
	Meta Metadata // never nil after AddEdge
}

// DAG is a directed graph that remembers insertion order. Every traversal
// (Nodes, Children, cycle search, topological order) follows the order in
// which nodes and edges were added, so results are reproducible across runs.
//
// Use [New]; the zero value is not usable. A DAG is not safe for concurrent
// mutation.
type DAG struct {
	order    []string       // node IDs in insertion order
	index    map[string]int // node ID -> position in order
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{
		index:    make(map[string]int),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode appends a node. It fails with ErrInvalidNodeID for an empty ID
// and ErrDuplicateNodeID for an ID already present.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	d.index[n.ID] = len(d.order)
	d.order = append(d.order, n.ID)
	return nil
}

// AddEdge adds from→to between existing nodes. Cycles and parallel edges
// are accepted; use Validate once the graph is complete.
func (d *DAG) AddEdge(e Edge) error {
	if !d.Has(e.From) {
		return ErrUnknownSourceNode
	}
	if !d.Has(e.To) {
		return ErrUnknownTargetNode
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes the first edge from→to, if any.
func (d *DAG) RemoveEdge(from, to string) {
	if i := slices.IndexFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to }); i >= 0 {
		d.edges = slices.Delete(d.edges, i, i+1)
	}
	d.outgoing[from] = deleteFirst(d.outgoing[from], to)
	d.incoming[to] = deleteFirst(d.incoming[to], from)
}

func deleteFirst(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}

// Has reports whether id is a node of the graph.
func (d *DAG) Has(id string) bool {
	_, ok := d.index[id]
	return ok
}

// Nodes returns all nodes in insertion order.
func (d *DAG) Nodes() []Node {
	nodes := make([]Node, len(d.order))
	for i, id := range d.order {
		nodes[i] = Node{ID: id}
	}
	return nodes
}

// NodeIDs returns all node IDs in insertion order.
func (d *DAG) NodeIDs() []string { return slices.Clone(d.order) }

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

func (d *DAG) NodeCount() int { return len(d.order) }
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Index returns the insertion position of id, or -1.
func (d *DAG) Index(id string) int {
	if i, ok := d.index[id]; ok {
		return i
	}
	return -1
}

// Children returns the dependencies of id in edge order. Do not modify the
// returned slice.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the dependents of id in edge order. Do not modify the
// returned slice.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// InDegree returns the number of edges into id.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// Clone returns a copy that shares nothing with d except edge metadata
// values.
func (d *DAG) Clone() *DAG {
	c := New()
	for _, id := range d.order {
		_ = c.AddNode(Node{ID: id})
	}
	for _, e := range d.edges {
		_ = c.AddEdge(Edge{From: e.From, To: e.To, Meta: maps.Clone(e.Meta)})
	}
	return c
}
