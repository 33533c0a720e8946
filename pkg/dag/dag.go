package dag

import (
	"errors"
	"slices"
)

var (
	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownEdge is returned by [DAG.RemoveEdge] when no edge has the
	// given ID.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrSelfLoop is returned by [DAG.AddEdge] when From and To are the same
	// node.
	ErrSelfLoop = errors.New("edge endpoints must differ")

	// ErrGraphHasCycle is returned by [DAG.Validate] and [DAG.TopoOrderFrom]
	// when a cycle is detected. Cycles are detected using depth-first search
	// with white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// NodeID addresses a node. IDs are dense and assigned in insertion order
// starting at 0.
type NodeID int

// EdgeID addresses an edge. IDs are assigned in insertion order and are never
// reused, even after [DAG.RemoveEdge].
type EdgeID int

// Edge is a directed, labelled connection from a producer to a consumer.
// Several edges may connect the same pair of nodes.
type Edge struct {
	ID    EdgeID
	From  NodeID
	To    NodeID
	Label string
}

// DAG is an index-addressed directed multigraph with labelled edges.
//
// Acyclicity is not enforced on insertion; use [DAG.Validate] or
// [DAG.TopoOrderFrom] to detect cycles.
//
// The zero value is an empty graph ready for use. DAG is not safe for
// concurrent use without external synchronization.
type DAG struct {
	nodes    int
	edges    []Edge     // insertion order
	outgoing [][]EdgeID // nodeID -> outgoing edges in insertion order
	incoming [][]EdgeID // nodeID -> incoming edges in insertion order
	nextEdge EdgeID
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{}
}

// AddNode appends a node and returns its ID.
func (d *DAG) AddNode() NodeID {
	id := NodeID(d.nodes)
	d.nodes++
	d.outgoing = append(d.outgoing, nil)
	d.incoming = append(d.incoming, nil)
	return id
}

// HasNode reports whether id addresses a node of this graph.
func (d *DAG) HasNode(id NodeID) bool {
	return id >= 0 && int(id) < d.nodes
}

// NextEdgeID returns the ID the next successful [DAG.AddEdge] will assign.
func (d *DAG) NextEdgeID() EdgeID { return d.nextEdge }

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode for missing endpoints
// and ErrSelfLoop when from == to.
func (d *DAG) AddEdge(from, to NodeID, label string) (EdgeID, error) {
	if !d.HasNode(from) {
		return 0, ErrUnknownSourceNode
	}
	if !d.HasNode(to) {
		return 0, ErrUnknownTargetNode
	}
	if from == to {
		return 0, ErrSelfLoop
	}

	e := Edge{ID: d.nextEdge, From: from, To: to, Label: label}
	d.nextEdge++
	d.edges = append(d.edges, e)
	d.outgoing[from] = append(d.outgoing[from], e.ID)
	d.incoming[to] = append(d.incoming[to], e.ID)
	return e.ID, nil
}

// RemoveEdge removes the edge with the given ID.
func (d *DAG) RemoveEdge(id EdgeID) error {
	i := d.edgeIndex(id)
	if i < 0 {
		return ErrUnknownEdge
	}
	e := d.edges[i]
	d.edges = slices.Delete(d.edges, i, i+1)
	match := func(x EdgeID) bool { return x == id }
	d.outgoing[e.From] = slices.DeleteFunc(d.outgoing[e.From], match)
	d.incoming[e.To] = slices.DeleteFunc(d.incoming[e.To], match)
	return nil
}

// Edge returns the edge with the given ID.
func (d *DAG) Edge(id EdgeID) (Edge, bool) {
	i := d.edgeIndex(id)
	if i < 0 {
		return Edge{}, false
	}
	return d.edges[i], true
}

// edgeIndex locates id in the insertion-ordered edge list. IDs grow
// monotonically so the list is sorted by ID.
func (d *DAG) edgeIndex(id EdgeID) int {
	i, ok := slices.BinarySearchFunc(d.edges, id, func(e Edge, id EdgeID) int {
		return int(e.ID - id)
	})
	if !ok {
		return -1
	}
	return i
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// InEdges returns the edges ending at id in insertion order.
func (d *DAG) InEdges(id NodeID) []Edge {
	if !d.HasNode(id) {
		return nil
	}
	return d.resolve(d.incoming[id])
}

// OutEdges returns the edges starting at id in insertion order.
func (d *DAG) OutEdges(id NodeID) []Edge {
	if !d.HasNode(id) {
		return nil
	}
	return d.resolve(d.outgoing[id])
}

func (d *DAG) resolve(ids []EdgeID) []Edge {
	out := make([]Edge, 0, len(ids))
	for _, id := range ids {
		if e, ok := d.Edge(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return d.nodes }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the consumers of id, one entry per edge.
func (d *DAG) Children(id NodeID) []NodeID {
	var out []NodeID
	for _, e := range d.OutEdges(id) {
		out = append(out, e.To)
	}
	return out
}

// Parents returns the producers feeding id, one entry per edge.
func (d *DAG) Parents(id NodeID) []NodeID {
	var out []NodeID
	for _, e := range d.InEdges(id) {
		out = append(out, e.From)
	}
	return out
}

// OutDegree returns the number of outgoing edges from the node.
func (d *DAG) OutDegree(id NodeID) int {
	if !d.HasNode(id) {
		return 0
	}
	return len(d.outgoing[id])
}

// InDegree returns the number of incoming edges to the node.
func (d *DAG) InDegree(id NodeID) int {
	if !d.HasNode(id) {
		return 0
	}
	return len(d.incoming[id])
}

// Validate returns ErrGraphHasCycle if any directed cycle exists.
//
// Cycle detection runs in O(N+E) time using depth-first search.
func (d *DAG) Validate() error {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, d.nodes)
	var hasCycle bool

	var dfs func(id NodeID)
	dfs = func(id NodeID) {
		color[id] = gray
		for _, eid := range d.outgoing[id] {
			e, _ := d.Edge(eid)
			switch color[e.To] {
			case white:
				dfs(e.To)
			case gray:
				hasCycle = true
			}
			if hasCycle {
				return
			}
		}
		color[id] = black
	}

	for id := range d.nodes {
		if color[id] == white {
			dfs(NodeID(id))
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

// TopoOrderFrom returns every node that can reach root, root included, in
// an order where each producer precedes all of its consumers. Root is always
// last. Nodes that cannot reach root are omitted.
//
// The walk follows incoming edges from root in insertion order, so the
// result is deterministic for a given graph. Returns ErrGraphHasCycle if a
// cycle is reachable and ErrUnknownTargetNode if root does not exist.
func (d *DAG) TopoOrderFrom(root NodeID) ([]NodeID, error) {
	return d.TopoOrderVia(root, d.InEdges)
}

// TopoOrderVia is TopoOrderFrom restricted to the incoming edges that
// inEdges reports for each visited node. Producers reachable only through
// edges it leaves out are omitted.
func (d *DAG) TopoOrderVia(root NodeID, inEdges func(NodeID) []Edge) ([]NodeID, error) {
	if !d.HasNode(root) {
		return nil, ErrUnknownTargetNode
	}

	const (
		white = iota
		gray
		black
	)

	color := make([]int, d.nodes)
	order := make([]NodeID, 0, d.nodes)

	var visit func(id NodeID) error
	visit = func(id NodeID) error {
		color[id] = gray
		for _, e := range inEdges(id) {
			switch color[e.From] {
			case white:
				if err := visit(e.From); err != nil {
					return err
				}
			case gray:
				return ErrGraphHasCycle
			}
		}
		color[id] = black
		order = append(order, id)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}
