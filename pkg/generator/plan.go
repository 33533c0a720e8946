package generator

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/proctex/pkg/coord"
	"github.com/matzehuels/proctex/pkg/dag"
	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/node"
	"github.com/matzehuels/proctex/pkg/observability"
	"github.com/matzehuels/proctex/pkg/value"
)

// Binding feeds one input of a step from an earlier step.
type Binding struct {
	Name string // input name on the consumer
	Slot int    // index of the producing step
	Link LinkID // link that won the name
}

// Step is one node of a plan together with its resolved inputs.
type Step struct {
	Node   NodeID
	Kind   string
	Inputs []Binding
}

// Plan is the compiled evaluation order of the sink-reachable subgraph.
// Producers precede consumers and the sink is the last step.
//
// A Plan is immutable and may be evaluated from many goroutines, each with
// its own Scratch.
type Plan struct {
	steps   []Step
	nodes   []node.Node
	pruned  int
	version uint64
}

// Steps returns a copy of the plan's steps.
func (p *Plan) Steps() []Step {
	out := make([]Step, len(p.steps))
	for i, s := range p.steps {
		s.Inputs = append([]Binding(nil), s.Inputs...)
		out[i] = s
	}
	return out
}

// Len returns the number of steps, sink included.
func (p *Plan) Len() int { return len(p.steps) }

// Pruned returns the number of nodes left out because they do not reach the
// sink, or reach it only through links overridden by a later same-name link.
func (p *Plan) Pruned() int { return p.pruned }

// Version is the graph version the plan was compiled from.
func (p *Plan) Version() uint64 { return p.version }

// Scratch holds per-pixel intermediate values. It is reused across pixels
// and must not be shared between goroutines.
type Scratch struct {
	values []value.Value
	inputs []node.Inputs
}

// NewScratch allocates scratch space sized for p.
func (p *Plan) NewScratch() *Scratch {
	s := &Scratch{
		values: make([]value.Value, len(p.steps)),
		inputs: make([]node.Inputs, len(p.steps)),
	}
	for i, st := range p.steps {
		s.inputs[i] = make(node.Inputs, len(st.Inputs))
	}
	return s
}

// Eval evaluates every step at pos and returns the value bound to the sink.
func (p *Plan) Eval(pos coord.Coordinate, ext node.Extent, s *Scratch) (value.Value, error) {
	last := len(p.steps) - 1
	for i, st := range p.steps[:last] {
		in := s.inputs[i]
		clear(in)
		for _, b := range st.Inputs {
			in[b.Name] = s.values[b.Slot]
		}
		v, err := p.nodes[i].Generate(pos, ext, in)
		if err != nil {
			return value.Nothing(), errors.Annotate(err, "node %d (%s) at %v", st.Node, st.Kind, pos)
		}
		s.values[i] = v
	}
	return s.values[p.steps[last].Inputs[0].Slot], nil
}

// Compile returns the evaluation plan for the current graph. The plan is
// cached until the graph changes.
func (g *Generator) Compile() (*Plan, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.compile(context.Background())
}

// compile requires g.mu to be held.
func (g *Generator) compile(ctx context.Context) (*Plan, error) {
	g.planMu.Lock()
	defer g.planMu.Unlock()

	if g.plan != nil && g.plan.version == g.version {
		return g.plan, nil
	}

	start := time.Now()
	p, err := g.buildPlan()
	steps, pruned := 0, 0
	if p != nil {
		steps, pruned = p.Len(), p.pruned
	}
	observability.Generator().OnCompile(ctx, steps, pruned, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	g.logger.Debug("compiled plan", "steps", steps, "pruned", pruned, "version", g.version)
	g.plan = p
	return p, nil
}

func (g *Generator) buildPlan() (*Plan, error) {
	// Only the link that won each (consumer, name) input is followed, so a
	// producer whose every link was overridden is pruned like an unlinked one.
	winners := make(map[NodeID][]dag.Edge)
	inEdges := func(id NodeID) []dag.Edge {
		edges, ok := winners[id]
		if !ok {
			edges = winningEdges(g.graph.InEdges(id))
			winners[id] = edges
		}
		return edges
	}

	order, err := g.graph.TopoOrderVia(OutputID, inEdges)
	if stderrors.Is(err, dag.ErrGraphHasCycle) {
		return nil, errors.Wrap(errors.ErrCodeGraphCycle, err, "cycle reaches the output node")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "order graph")
	}

	slots := make(map[NodeID]int, len(order))
	for i, id := range order {
		slots[id] = i
	}

	p := &Plan{
		steps:   make([]Step, len(order)),
		nodes:   make([]node.Node, len(order)),
		pruned:  len(g.nodes) - len(order),
		version: g.version,
	}
	for i, id := range order {
		n := g.nodes[id]
		bindings := bind(winners[id], slots)
		p.steps[i] = Step{Node: id, Kind: n.Kind(), Inputs: bindings}
		p.nodes[i] = n

		if err := checkStep(id, n, bindings); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// winningEdges resolves the inputs of one consumer. Edges arrive in
// insertion order; a later edge with the same name replaces the earlier one
// in place.
func winningEdges(edges []dag.Edge) []dag.Edge {
	out := make([]dag.Edge, 0, len(edges))
	index := make(map[string]int, len(edges))
	for _, e := range edges {
		if i, ok := index[e.Label]; ok {
			out[i] = e
			continue
		}
		index[e.Label] = len(out)
		out = append(out, e)
	}
	return out
}

func bind(edges []dag.Edge, slots map[NodeID]int) []Binding {
	bindings := make([]Binding, len(edges))
	for i, e := range edges {
		bindings[i] = Binding{Name: e.Label, Slot: slots[e.From], Link: e.ID}
	}
	return bindings
}

func checkStep(id NodeID, n node.Node, bindings []Binding) error {
	if n.IsOutput() {
		switch len(bindings) {
		case 0:
			return errors.New(errors.ErrCodeMissingInput, "output node has no input")
		case 1:
			return nil
		default:
			return errors.New(errors.ErrCodeInputArity, "output node takes exactly 1 input, got %d", len(bindings))
		}
	}

	names := make([]string, len(bindings))
	for i, b := range bindings {
		names[i] = b.Name
	}
	if err := n.Spec().Check(names); err != nil {
		return errors.Annotate(err, "node %d (%s)", id, n.Kind())
	}
	return nil
}
