package autodiff

import (
	"slices"
)

// LinkKind describes how a contribution flows from a node into a predecessor
// whose length differs from the node's.
type LinkKind uint8

const (
	// Elementwise: node and predecessor have the same length;
	// pred.acc[i] += node.acc[i] * partial[i].
	Elementwise LinkKind = iota

	// Broadcast: a scalar predecessor fed every element of a vector node;
	// pred.acc[0] += Σ node.acc[i] * partial[i].
	Broadcast

	// Reduce: a vector predecessor fed a scalar node (sum, dot, indexing);
	// pred.acc[i] += node.acc[0] * partial[i]. Partial has the predecessor's length.
	Reduce
)

// String returns the kind name.
func (k LinkKind) String() string {
	switch k {
	case Elementwise:
		return "elementwise"
	case Broadcast:
		return "broadcast"
	case Reduce:
		return "reduce"
	default:
		return "unknown"
	}
}

// Link is one (predecessor, local partial) pair of a linkage table entry.
//
// The same Partial slice is filed under every leaf the predecessor depends
// on. It must not be modified.
type Link struct {
	Pred    Handle    // Immediate operand, or NoPredecessor for a leaf's own entry
	Partial []float64 // ∂node/∂pred, elementwise
	Kind    LinkKind
}

// Node is a differentiable quantity in a Graph: a *Scalar or a *Vector.
type Node interface {
	Operand

	// Handle returns the node's arena handle.
	Handle() Handle

	// Graph returns the graph that owns the node.
	Graph() *Graph

	// Len returns the number of elements (1 for scalars).
	Len() int

	// Leaves returns the handles of every leaf the node depends on, ascending.
	Leaves() []Handle

	// Links returns the linkage entry filed under leaf, or nil.
	Links(leaf Handle) []Link

	// Gradient runs the backward pass from this node toward leaf.
	Gradient(leaf Node) error
}

// node is the state shared by scalar and vector nodes.
type node struct {
	graph  *Graph
	handle Handle
	value  []float64         // Forward result, immutable
	acc    []float64         // Gradient accumulator, mutated by backward only
	links  map[Handle][]Link // Leaf handle -> (predecessor, partial) pairs
	seeded bool
	vector bool // Built as a Vector, even with one element
}

// Handle returns the node's arena handle.
func (n *node) Handle() Handle {
	return n.handle
}

// Graph returns the graph that owns the node.
func (n *node) Graph() *Graph {
	return n.graph
}

// Len returns the number of elements.
func (n *node) Len() int {
	return len(n.value)
}

// Leaves returns the handles of every leaf the node depends on.
func (n *node) Leaves() []Handle {
	leaves := make([]Handle, 0, len(n.links))
	for h := range n.links {
		leaves = append(leaves, h)
	}
	slices.Sort(leaves)
	return leaves
}

// Links returns a copy of the linkage entry filed under leaf.
func (n *node) Links(leaf Handle) []Link {
	return slices.Clone(n.links[leaf])
}

// Gradient runs the backward pass from this node toward leaf.
// See Graph.Backward.
func (n *node) Gradient(leaf Node) error {
	l, err := n.graph.own("gradient", leaf)
	if err != nil {
		return err
	}
	return n.graph.backward(n, l)
}

// IsLeaf reports whether the node is a tracked leaf.
func (n *node) IsLeaf() bool {
	entry, ok := n.links[n.handle]
	return ok && len(entry) == 1 && entry[0].Pred == NoPredecessor
}

// Seeded reports whether the accumulator was seeded since the last ZeroGrad.
func (n *node) Seeded() bool {
	return n.seeded
}

// wrap returns the core in its public type.
func wrap(n *node) Node {
	if n.vector {
		return &Vector{node: n}
	}
	return &Scalar{node: n}
}

// merge files one link to pred under every leaf pred depends on.
// The same partial slice is shared by all entries.
func merge(dst map[Handle][]Link, pred *node, partial []float64, kind LinkKind) {
	for leaf := range pred.links {
		dst[leaf] = append(dst[leaf], Link{Pred: pred.handle, Partial: partial, Kind: kind})
	}
}

// coreOf returns the node core of n, or nil for nil nodes.
func coreOf(n Node) *node {
	switch v := n.(type) {
	case *Scalar:
		if v == nil {
			return nil
		}
		return v.node
	case *Vector:
		if v == nil {
			return nil
		}
		return v.node
	default:
		return nil
	}
}
