package workflow

import (
	"context"
	"fmt"
)

// Node identifies a step position in the workflow graph.
type Node string

const (
	NodeValidate   Node = "validate"
	NodeResearch   Node = "research"
	NodeStrategize Node = "strategize"
	NodeWrite      Node = "write"
	NodeEdit       Node = "edit"
	NodeFormat     Node = "format"
	NodeFinalize   Node = "finalize"

	// NodeEnd is the terminal marker. It has no step implementation.
	NodeEnd Node = "end"
)

// Step is a single workflow stage. Run receives a state copy and returns the
// enriched state; it must not mutate shared structures it did not create.
type Step interface {
	Node() Node
	Run(ctx context.Context, state State) (State, error)
}

// RouteFunc selects the next node after a step with a conditional edge.
type RouteFunc func(state State) Node

// Graph is an immutable compiled workflow: steps keyed by node, a static edge
// table, and at most one conditional edge per node.
type Graph struct {
	entry       Node
	steps       map[Node]Step
	edges       map[Node]Node
	conditional map[Node]RouteFunc
}

// Builder assembles a Graph. All wiring errors surface from Build so call
// sites read as a linear declaration.
type Builder struct {
	entry       Node
	steps       map[Node]Step
	edges       map[Node]Node
	conditional map[Node]RouteFunc
	errs        []error
}

// NewBuilder returns an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{
		steps:       make(map[Node]Step),
		edges:       make(map[Node]Node),
		conditional: make(map[Node]RouteFunc),
	}
}

// AddStep registers a step under its node name.
func (b *Builder) AddStep(step Step) *Builder {
	node := step.Node()
	if node == NodeEnd {
		b.errs = append(b.errs, fmt.Errorf("step cannot use reserved node %q", NodeEnd))
		return b
	}
	if _, exists := b.steps[node]; exists {
		b.errs = append(b.errs, fmt.Errorf("duplicate step for node %q", node))
		return b
	}
	b.steps[node] = step
	return b
}

// SetEntry declares the node executed first.
func (b *Builder) SetEntry(node Node) *Builder {
	b.entry = node
	return b
}

// AddEdge declares a static transition from one node to the next.
func (b *Builder) AddEdge(from, to Node) *Builder {
	if _, exists := b.edges[from]; exists {
		b.errs = append(b.errs, fmt.Errorf("node %q already has an outgoing edge", from))
		return b
	}
	b.edges[from] = to
	return b
}

// AddConditionalEdge declares a routing function for a node. The function's
// possible targets must be declared so topology validation can cover them.
func (b *Builder) AddConditionalEdge(from Node, route RouteFunc, targets ...Node) *Builder {
	if route == nil {
		b.errs = append(b.errs, fmt.Errorf("nil route function for node %q", from))
		return b
	}
	if _, exists := b.conditional[from]; exists {
		b.errs = append(b.errs, fmt.Errorf("node %q already has a conditional edge", from))
		return b
	}
	b.conditional[from] = route
	for _, target := range targets {
		if target == NodeEnd {
			continue
		}
		if _, ok := b.steps[target]; !ok {
			b.errs = append(b.errs, fmt.Errorf("conditional edge from %q targets unknown node %q", from, target))
		}
	}
	return b
}

// Build validates the topology and returns the compiled graph. Every declared
// edge must reference registered steps, every non-terminal node must have an
// outgoing edge, and the entry node must exist.
func (b *Builder) Build() (*Graph, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	if b.entry == "" {
		return nil, fmt.Errorf("graph has no entry node")
	}
	if _, ok := b.steps[b.entry]; !ok {
		return nil, fmt.Errorf("entry node %q has no registered step", b.entry)
	}

	for from, to := range b.edges {
		if _, ok := b.steps[from]; !ok {
			return nil, fmt.Errorf("edge from unknown node %q", from)
		}
		if to == NodeEnd {
			continue
		}
		if _, ok := b.steps[to]; !ok {
			return nil, fmt.Errorf("edge from %q to unknown node %q", from, to)
		}
	}

	for node := range b.steps {
		_, hasStatic := b.edges[node]
		_, hasConditional := b.conditional[node]
		if hasStatic && hasConditional {
			return nil, fmt.Errorf("node %q has both a static and a conditional edge", node)
		}
		if !hasStatic && !hasConditional {
			return nil, fmt.Errorf("node %q has no outgoing edge", node)
		}
	}

	return &Graph{
		entry:       b.entry,
		steps:       b.steps,
		edges:       b.edges,
		conditional: b.conditional,
	}, nil
}

// Entry returns the graph's entry node.
func (g *Graph) Entry() Node { return g.entry }

// step returns the registered step for a node.
func (g *Graph) step(node Node) (Step, bool) {
	s, ok := g.steps[node]
	return s, ok
}

// next resolves the node after the given node for the given state.
func (g *Graph) next(node Node, state State) (Node, error) {
	if route, ok := g.conditional[node]; ok {
		return route(state), nil
	}
	if to, ok := g.edges[node]; ok {
		return to, nil
	}
	return "", fmt.Errorf("node %q has no outgoing edge", node)
}

// EditorRoute is the single conditional edge of the post workflow. An
// approved draft moves forward to formatting; a revise decision loops back to
// the writer.
func EditorRoute(state State) Node {
	if state.EditorDecision == DecisionRevise {
		return NodeWrite
	}
	return NodeFormat
}

// NewPostGraph wires the post-generation pipeline. Steps must cover every
// node from validate through finalize; the editor node carries the revision
// loop's conditional edge.
func NewPostGraph(steps ...Step) (*Graph, error) {
	b := NewBuilder()
	for _, step := range steps {
		b.AddStep(step)
	}
	b.SetEntry(NodeValidate)
	b.AddEdge(NodeValidate, NodeResearch)
	b.AddEdge(NodeResearch, NodeStrategize)
	b.AddEdge(NodeStrategize, NodeWrite)
	b.AddEdge(NodeWrite, NodeEdit)
	b.AddConditionalEdge(NodeEdit, EditorRoute, NodeWrite, NodeFormat)
	b.AddEdge(NodeFormat, NodeFinalize)
	b.AddEdge(NodeFinalize, NodeEnd)
	return b.Build()
}
