package generator

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/proctex/pkg/dag"
	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/node"
	"github.com/matzehuels/proctex/pkg/node/library"
)

// NodeID addresses a node of a Generator.
type NodeID = dag.NodeID

// LinkID addresses a link of a Generator. IDs are never reused.
type LinkID = dag.EdgeID

// OutputID is the sink every Generator is created with.
const OutputID NodeID = 0

// linkNamespace seeds the version 5 UUIDs used for synthetic link names.
var linkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/proctex/link"))

// Link is a directed, named connection from a producer to a consumer.
type Link struct {
	ID        LinkID `json:"id"`
	From      NodeID `json:"from"`
	To        NodeID `json:"to"`
	Name      string `json:"name"`
	Synthetic bool   `json:"synthetic"`
}

// Generator owns a node arena, the links between nodes and a cached
// evaluation plan.
type Generator struct {
	mu      sync.RWMutex
	graph   *dag.DAG
	nodes   []node.Node
	info    []node.Info
	version uint64

	planMu sync.Mutex
	plan   *Plan

	workers int
	logger  *log.Logger
}

// New creates a Generator holding only the sink at OutputID.
func New(opts ...Option) *Generator {
	g := &Generator{
		graph:   dag.New(),
		workers: runtime.GOMAXPROCS(0),
		logger:  discardLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	out := library.NewOutput()
	g.graph.AddNode()
	g.nodes = append(g.nodes, out)
	g.info = append(g.info, node.DefaultInfo(out))
	return g
}

// Workers returns the number of goroutines Generate uses.
func (g *Generator) Workers() int { return g.workers }

// AddNode adds n and returns its ID. A second sink is DUPLICATE_SINK.
func (g *Generator) AddNode(n node.Node) (NodeID, error) {
	if n == nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "node must not be nil")
	}
	if n.IsOutput() {
		return 0, errors.New(errors.ErrCodeDuplicateSink, "graph already has an output node")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.graph.AddNode()
	g.nodes = append(g.nodes, n)
	info := node.DefaultInfo(n)
	// cascade new nodes so they do not stack on top of each other
	info.X = float64(id) * 24
	info.Y = float64(id) * 24
	g.info = append(g.info, info)
	g.version++

	g.logger.Debug("added node", "id", id, "kind", n.Kind())
	return id, nil
}

// AddLink connects from to to under name and returns the link ID.
//
// An empty name is replaced by a synthetic one derived from the link ID and
// its endpoints. The sink cannot be a producer.
func (g *Generator) AddLink(from, to NodeID, name string) (LinkID, error) {
	if err := errors.ValidateLinkName(name); err != nil {
		return 0, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if from == OutputID && g.graph.HasNode(to) && from != to {
		return 0, errors.New(errors.ErrCodeInvalidGraph, "output node cannot feed node %d", to)
	}

	if name == "" {
		name = syntheticName(g.graph.NextEdgeID(), from, to)
	}
	id, err := g.graph.AddEdge(from, to, name)
	switch {
	case stderrors.Is(err, dag.ErrUnknownSourceNode):
		return 0, errors.Wrap(errors.ErrCodeUnknownNode, err, "link source %d", from)
	case stderrors.Is(err, dag.ErrUnknownTargetNode):
		return 0, errors.Wrap(errors.ErrCodeUnknownNode, err, "link target %d", to)
	case stderrors.Is(err, dag.ErrSelfLoop):
		return 0, errors.Wrap(errors.ErrCodeSelfLoop, err, "node %d cannot link to itself", from)
	case err != nil:
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "add link")
	}
	g.version++

	g.logger.Debug("added link", "id", id, "from", from, "to", to, "name", name)
	return id, nil
}

func syntheticName(id LinkID, from, to NodeID) string {
	key := fmt.Sprintf("%d:%d:%d", id, from, to)
	return errors.ReservedLinkPrefix + uuid.NewSHA1(linkNamespace, []byte(key)).String()
}

// IsSynthetic reports whether name was generated for an unnamed link.
func IsSynthetic(name string) bool {
	return strings.HasPrefix(name, errors.ReservedLinkPrefix)
}

// RemoveLink deletes a link. Unknown IDs are UNKNOWN_LINK.
func (g *Generator) RemoveLink(id LinkID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.graph.RemoveEdge(id); err != nil {
		return errors.Wrap(errors.ErrCodeUnknownLink, err, "link %d", id)
	}
	g.version++
	return nil
}

// SetNode replaces the node at id, keeping its links and position.
// The sink cannot be replaced.
func (g *Generator) SetNode(id NodeID, n node.Node) error {
	if n == nil {
		return errors.New(errors.ErrCodeInvalidInput, "node must not be nil")
	}
	if n.IsOutput() {
		return errors.New(errors.ErrCodeDuplicateSink, "graph already has an output node")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkNode(id); err != nil {
		return err
	}
	if id == OutputID {
		return errors.New(errors.ErrCodeInvalidGraph, "output node cannot be replaced")
	}

	if g.info[id].Name == g.nodes[id].Kind() {
		g.info[id].Name = n.Kind()
	}
	g.nodes[id] = n
	g.version++
	return nil
}

// MoveNode sets the presentation position of a node. It does not affect
// evaluation.
func (g *Generator) MoveNode(id NodeID, x, y float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkNode(id); err != nil {
		return err
	}
	g.info[id].X, g.info[id].Y = x, y
	return nil
}

// RenameNode sets the display name of a node.
func (g *Generator) RenameNode(id NodeID, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkNode(id); err != nil {
		return err
	}
	g.info[id].Name = name
	return nil
}

func (g *Generator) checkNode(id NodeID) error {
	if !g.graph.HasNode(id) {
		return errors.New(errors.ErrCodeUnknownNode, "unknown node %d", id)
	}
	return nil
}

// Node returns the node at id.
func (g *Generator) Node(id NodeID) (node.Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.graph.HasNode(id) {
		return nil, false
	}
	return g.nodes[id], true
}

// Info returns the presentation metadata of the node at id.
func (g *Generator) Info(id NodeID) (node.Info, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.graph.HasNode(id) {
		return node.Info{}, false
	}
	return g.info[id], true
}

// NodeAt returns the topmost node whose box contains (x, y).
func (g *Generator) NodeAt(x, y float64) (NodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for i := len(g.info) - 1; i >= 0; i-- {
		if g.info[i].Contains(x, y) {
			return NodeID(i), true
		}
	}
	return 0, false
}

// Nodes returns all node IDs in insertion order. The sink comes first.
func (g *Generator) Nodes() []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := make([]NodeID, len(g.nodes))
	for i := range ids {
		ids[i] = NodeID(i)
	}
	return ids
}

// Links returns all links in insertion order.
func (g *Generator) Links() []Link {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges := g.graph.Edges()
	links := make([]Link, len(edges))
	for i, e := range edges {
		links[i] = linkFromEdge(e)
	}
	return links
}

// Link returns the link with the given ID.
func (g *Generator) Link(id LinkID) (Link, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	e, ok := g.graph.Edge(id)
	if !ok {
		return Link{}, false
	}
	return linkFromEdge(e), true
}

func linkFromEdge(e dag.Edge) Link {
	return Link{ID: e.ID, From: e.From, To: e.To, Name: e.Label, Synthetic: IsSynthetic(e.Label)}
}

// Output returns the sink ID.
func (g *Generator) Output() NodeID { return OutputID }

// NodeCount returns the number of nodes, sink included.
func (g *Generator) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// LinkCount returns the number of links.
func (g *Generator) LinkCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.graph.EdgeCount()
}

// Version increases with every change that can affect evaluation.
func (g *Generator) Version() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.version
}
