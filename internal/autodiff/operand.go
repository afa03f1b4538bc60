package autodiff

import "github.com/born-ml/leafgrad/internal/autodiff/ops"

// Operand is the argument of an arithmetic operation: either a node
// reference (*Scalar, *Vector) or a constant (Constant, Constants).
//
// Constants contribute a value but no leaves: they have no derivative path.
type Operand interface {
	operand()
}

// Constant is a plain number operand. In a vector operation it is broadcast
// to every element.
type Constant float64

// Constants is an elementwise constant operand for vector operations.
type Constants []float64

func (Constant) operand()  {}
func (Constants) operand() {}
func (*node) operand()     {}

// operandValue is an Operand resolved once per operator call.
type operandValue struct {
	node   *node // nil for constants
	value  []float64
	vector bool // Vector node or Constants
}

func (v operandValue) at(i int) float64 {
	if !v.vector {
		return v.value[0]
	}
	return v.value[i]
}

// tracked reports whether the operand contributes leaves.
func (v operandValue) tracked() bool {
	return v.node != nil && len(v.node.links) > 0
}

// resolve validates x against g and extracts its value.
// Panics with *OperandError for nil operands and nodes of another graph.
func (g *Graph) resolve(op string, x Operand) operandValue {
	switch v := x.(type) {
	case nil:
		panic(invalidOperand(g, op, "nil operand"))
	case Constant:
		return operandValue{value: []float64{float64(v)}}
	case Constants:
		if len(v) == 0 {
			panic(invalidOperand(g, op, "empty constant vector"))
		}
		return operandValue{value: v, vector: true}
	case Node:
		c, err := g.own(op, v)
		if err != nil {
			panic(err)
		}
		return operandValue{node: c, value: c.value, vector: c.vector}
	default:
		panic(invalidOperand(g, op, "unsupported operand type %T", x))
	}
}

// isVector reports whether x is a vector-shaped operand.
func isVector(x Operand) bool {
	switch v := x.(type) {
	case Constants:
		return true
	case *Vector:
		return v != nil
	default:
		return false
	}
}

// graphOf returns the graph of the first node operand.
func graphOf(op string, xs ...Operand) *Graph {
	for _, x := range xs {
		if n, ok := x.(Node); ok {
			if c := coreOf(n); c != nil {
				return c.graph
			}
		}
	}
	panic(invalidOperand(nil, op, "at least one operand must be a node"))
}

// binary builds the node x OP y.
//
// The result's linkage table merges the tables of every node operand: for
// each leaf an operand depends on, one (operand, ∂result/∂operand) link is
// filed under that leaf. Scalar operands of a vector operation are
// broadcast and linked with Broadcast.
func (g *Graph) binary(op ops.BinaryOp, x, y Operand) *node {
	a := g.resolve(op.Name(), x)
	b := g.resolve(op.Name(), y)

	n, vector := 1, a.vector || b.vector
	switch {
	case a.vector && b.vector:
		if len(a.value) != len(b.value) {
			panic(invalidOperand(g, op.Name(), "length mismatch: %d vs %d", len(a.value), len(b.value)))
		}
		n = len(a.value)
	case a.vector:
		n = len(a.value)
	case b.vector:
		n = len(b.value)
	}

	value := make([]float64, n)
	for i := range value {
		value[i] = op.Forward(a.at(i), b.at(i))
	}

	links := make(map[Handle][]Link)
	if a.tracked() {
		partial := make([]float64, n)
		for i := range partial {
			partial[i] = op.PartialA(a.at(i), b.at(i))
		}
		merge(links, a.node, partial, linkKind(a, vector))
	}
	if b.tracked() {
		partial := make([]float64, n)
		for i := range partial {
			partial[i] = op.PartialB(a.at(i), b.at(i))
		}
		merge(links, b.node, partial, linkKind(b, vector))
	}

	return g.add(value, links, vector)
}

// unary builds the node op(x).
func (g *Graph) unary(op ops.UnaryOp, x *node) *node {
	value := make([]float64, len(x.value))
	for i, v := range x.value {
		value[i] = op.Forward(v)
	}

	links := make(map[Handle][]Link)
	if len(x.links) > 0 {
		partial := make([]float64, len(value))
		for i := range partial {
			partial[i] = op.Partial(x.value[i], value[i])
		}
		merge(links, x, partial, Elementwise)
	}

	return g.add(value, links, x.vector)
}

// reduce builds a scalar node from a vector predecessor. partial has the
// predecessor's length.
func (g *Graph) reduce(x *node, value float64, partial []float64) *node {
	links := make(map[Handle][]Link)
	if len(x.links) > 0 {
		merge(links, x, partial, Reduce)
	}
	return g.add([]float64{value}, links, false)
}

func linkKind(v operandValue, vector bool) LinkKind {
	if vector && !v.vector {
		return Broadcast
	}
	return Elementwise
}
