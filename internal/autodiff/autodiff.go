// Package autodiff implements leaf-scoped reverse-mode automatic differentiation.
//
// Architecture:
//   - Graph: an arena that assigns every node a monotonically increasing Handle
//   - Scalar and Vector: differentiable nodes holding a forward value, a
//     gradient accumulator and a linkage table
//   - Linkage table: leaf handle -> (predecessor, local partial) pairs, merged
//     from the operands at construction so a backward pass only walks the
//     subgraph that depends on the requested leaf
//   - ops: the local-partial rule of each operator
//
// The caller drives differentiation: it creates leaves, seeds the output's
// accumulator and requests one leaf at a time.
//
// Usage:
//
//	g := autodiff.NewGraph()
//	a := g.Leaf(3)
//	b := g.Leaf(4)
//	c := a.Mul(b) // c = a*b = 12
//
//	c.Seed(1)
//	if err := c.Gradient(a); err != nil {
//		return err
//	}
//	fmt.Println(a.Grad()) // ∂c/∂a = b = 4
package autodiff

import "github.com/born-ml/leafgrad/internal/autodiff/ops"

// Add returns x + y. Either operand may be a constant; the result is a
// *Vector if either operand is vector-shaped.
func Add(x, y Operand) Node {
	return apply(ops.AddOp{}, x, y)
}

// Sub returns x - y.
func Sub(x, y Operand) Node {
	return apply(ops.SubOp{}, x, y)
}

// Mul returns x * y.
func Mul(x, y Operand) Node {
	return apply(ops.MulOp{}, x, y)
}

// Div returns x / y.
func Div(x, y Operand) Node {
	return apply(ops.DivOp{}, x, y)
}

// Pow returns x ^ y.
func Pow(x, y Operand) Node {
	return apply(ops.PowOp{}, x, y)
}

// Neg returns -x.
func Neg(x Node) Node { return applyUnary(ops.NegOp{}, x) }

// Exp returns e^x.
func Exp(x Node) Node { return applyUnary(ops.ExpOp{}, x) }

// Log returns ln(x).
func Log(x Node) Node { return applyUnary(ops.LogOp{}, x) }

// Sqrt returns √x.
func Sqrt(x Node) Node { return applyUnary(ops.SqrtOp{}, x) }

// Sin returns sin(x).
func Sin(x Node) Node { return applyUnary(ops.SinOp{}, x) }

// Cos returns cos(x).
func Cos(x Node) Node { return applyUnary(ops.CosOp{}, x) }

// Tanh returns tanh(x).
func Tanh(x Node) Node { return applyUnary(ops.TanhOp{}, x) }

// Sigmoid returns 1/(1+e^-x).
func Sigmoid(x Node) Node { return applyUnary(ops.SigmoidOp{}, x) }

// ReLU returns max(0, x).
func ReLU(x Node) Node { return applyUnary(ops.ReLUOp{}, x) }

// SiLU returns x·σ(x).
func SiLU(x Node) Node { return applyUnary(ops.SiLUOp{}, x) }

// Sum reduces x to a scalar. A scalar is returned unchanged.
func Sum(x Node) *Scalar {
	if coreOf(x) == nil {
		panic(invalidOperand(nil, "sum", "nil node"))
	}
	switch v := x.(type) {
	case *Vector:
		return v.Sum()
	case *Scalar:
		return v
	default:
		panic(invalidOperand(nil, "sum", "unsupported node type %T", x))
	}
}

// Dot returns Σ x[i]*y[i].
func Dot(x, y Operand) *Scalar {
	return Sum(Mul(x, y))
}

func apply(op ops.BinaryOp, x, y Operand) Node {
	g := graphOf(op.Name(), x, y)
	return wrap(g.binary(op, x, y))
}

func applyUnary(op ops.UnaryOp, x Node) Node {
	c := coreOf(x)
	if c == nil {
		panic(invalidOperand(nil, op.Name(), "nil node"))
	}
	return wrap(c.graph.unary(op, c))
}
