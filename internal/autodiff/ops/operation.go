// Package ops defines the local-partial rules used to build the computation graph.
//
// Each operator is a stateless value that knows its forward result and the
// partial derivative of that result with respect to each immediate operand.
// The graph evaluates these element by element, so the same rule serves
// scalar nodes (one element) and vector nodes (n elements).
//
// Supported operations:
//   - AddOp: a + b (d/da = 1, d/db = 1)
//   - SubOp: a - b (d/da = 1, d/db = -1)
//   - MulOp: a * b (d/da = b, d/db = a)
//   - DivOp: a / b (d/da = 1/b, d/db = -a/b²)
//   - PowOp: a ^ b (d/da = b·a^(b-1), d/db = a^b·ln(a))
//   - NegOp, ExpOp, LogOp, SqrtOp, SinOp, CosOp, TanhOp, SigmoidOp, ReLUOp,
//     SiLUOp: unary
package ops

// BinaryOp is an elementwise operator over two operands.
//
// PartialA and PartialB are evaluated independently so that the graph only
// asks for the partial of an operand that is a node. A constant exponent
// therefore never evaluates ln(a).
type BinaryOp interface {
	// Name returns the operator name used in error messages.
	Name() string

	// Forward returns a OP b.
	Forward(a, b float64) float64

	// PartialA returns ∂(a OP b)/∂a.
	PartialA(a, b float64) float64

	// PartialB returns ∂(a OP b)/∂b.
	PartialB(a, b float64) float64
}

// UnaryOp is an elementwise operator over one operand.
type UnaryOp interface {
	Name() string

	// Forward returns op(x).
	Forward(x float64) float64

	// Partial returns ∂op(x)/∂x. y is Forward(x), passed so rules such as
	// exp and tanh can reuse the output.
	Partial(x, y float64) float64
}
