package autodiff

import "github.com/google/uuid"

// Handle identifies a node inside its Graph.
//
// Handles are assigned monotonically at construction, so every operand of a
// node has a smaller handle than the node itself. Walking handles in
// descending order is a reverse topological order of the graph.
type Handle uint32

// NoPredecessor is the sentinel predecessor recorded in a leaf's own linkage
// entry. No node is ever assigned this handle.
const NoPredecessor Handle = 0

// Graph is the arena that owns every node of one computation.
//
// Nodes are appended in construction order, which makes the arena a tape of
// the forward pass. A Graph is not safe for concurrent use; independent
// graphs may be used from different goroutines.
//
// Usage:
//
//	g := NewGraph()
//	a := g.Leaf(3)
//	b := g.Leaf(4)
//	c := a.Mul(b)
//	c.Seed(1)
//	_ = c.Gradient(a) // a.Grad() == 4
type Graph struct {
	id    uuid.UUID
	nodes []*node // nodes[0] is reserved for NoPredecessor
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		id:    uuid.New(),
		nodes: make([]*node, 1, 64), // Pre-allocate for common case
	}
}

// ID returns the graph identifier used in logs and errors.
func (g *Graph) ID() uuid.UUID {
	return g.id
}

// Len returns the number of nodes recorded in the graph.
func (g *Graph) Len() int {
	return len(g.nodes) - 1
}

// ZeroGrad clears every accumulator and seed in the graph.
//
// Backward passes already reset the accumulators they visit, so ZeroGrad is
// only needed to discard a graph's state after a failed pass or before
// reading accumulators of nodes outside the next pass.
func (g *Graph) ZeroGrad() {
	for _, n := range g.nodes[1:] {
		clear(n.acc)
		n.seeded = false
	}
}

// add appends a node to the arena and assigns its handle.
func (g *Graph) add(value []float64, links map[Handle][]Link, vector bool) *node {
	if links == nil {
		links = make(map[Handle][]Link)
	}
	n := &node{
		graph:  g,
		handle: Handle(len(g.nodes)),
		value:  value,
		acc:    make([]float64, len(value)),
		links:  links,
		vector: vector,
	}
	g.nodes = append(g.nodes, n)
	return n
}

// Leaf creates a scalar leaf variable.
//
// This performs both halves of the leaf contract: the node is constructed
// and its linkage table is set to {self: [(NoPredecessor, 1)]}.
func (g *Graph) Leaf(value float64) *Scalar {
	s := g.Scalar(value)
	g.track(s.node)
	return s
}

// LeafVector creates a vector leaf variable. The slice is copied.
func (g *Graph) LeafVector(values []float64) *Vector {
	v := g.Vector(values)
	g.track(v.node)
	return v
}

// Scalar creates an untracked scalar node. It depends on no leaf until
// Track registers it as one.
func (g *Graph) Scalar(value float64) *Scalar {
	return &Scalar{node: g.add([]float64{value}, nil, false)}
}

// Vector creates an untracked vector node. The slice is copied.
func (g *Graph) Vector(values []float64) *Vector {
	if len(values) == 0 {
		panic(invalidOperand(g, "vector", "empty vector"))
	}
	return &Vector{node: g.add(append([]float64(nil), values...), nil, true)}
}

// Track registers an untracked node as a leaf by installing its
// self-referential linkage entry.
//
// Returns ErrAlreadyTracked if the node already carries any linkage, either
// because it is a leaf or because it was produced by an operation over leaves.
func (g *Graph) Track(n Node) error {
	c, err := g.own("track", n)
	if err != nil {
		return err
	}
	if len(c.links) != 0 {
		return ErrAlreadyTracked
	}
	g.track(c)
	return nil
}

func (g *Graph) track(n *node) {
	n.links[n.handle] = []Link{{
		Pred:    NoPredecessor,
		Partial: ones(len(n.value)),
		Kind:    Elementwise,
	}}
}

// own returns the core of n after checking that it belongs to g.
func (g *Graph) own(op string, n Node) (*node, error) {
	c := coreOf(n)
	if c == nil {
		return nil, invalidOperand(g, op, "nil node")
	}
	if c.graph != g {
		return nil, invalidOperand(g, op, "node %d belongs to graph %s", c.handle, c.graph.id)
	}
	return c, nil
}

func ones(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 1
	}
	return s
}
