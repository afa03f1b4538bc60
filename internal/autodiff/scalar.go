package autodiff

import (
	"strconv"

	"github.com/born-ml/leafgrad/internal/autodiff/ops"
)

// Scalar is a differentiable scalar node.
//
// Operators accept any Operand: another node of the same graph or a
// Constant. Vector operands are rejected because the result would not be a
// scalar; use the package-level functions to mix scalars and vectors.
//
// Example:
//
//	g := autodiff.NewGraph()
//	x := g.Leaf(2)
//	y := x.Pow(autodiff.Constant(3)) // y = x³
//	y.Seed(1)
//	_ = y.Gradient(x)
//	fmt.Println(x.Grad()) // dy/dx = 3x² = 12
type Scalar struct {
	*node
}

// Value returns the forward value.
func (s *Scalar) Value() float64 {
	return s.value[0]
}

// Grad returns the accumulator.
func (s *Scalar) Grad() float64 {
	return s.acc[0]
}

// Seed sets the accumulator of an output node before a backward pass.
// Use 1 to obtain plain partial derivatives.
func (s *Scalar) Seed(v float64) {
	s.acc[0] = v
	s.seeded = true
}

// String returns the forward value formatted with %g.
func (s *Scalar) String() string {
	return strconv.FormatFloat(s.value[0], 'g', -1, 64)
}

// Add returns s + y.
func (s *Scalar) Add(y Operand) *Scalar {
	return s.binary(ops.AddOp{}, s, y)
}

// Sub returns s - y.
func (s *Scalar) Sub(y Operand) *Scalar {
	return s.binary(ops.SubOp{}, s, y)
}

// RSub returns y - s.
func (s *Scalar) RSub(y Operand) *Scalar {
	return s.binary(ops.SubOp{}, y, s)
}

// Mul returns s * y.
func (s *Scalar) Mul(y Operand) *Scalar {
	return s.binary(ops.MulOp{}, s, y)
}

// Div returns s / y.
func (s *Scalar) Div(y Operand) *Scalar {
	return s.binary(ops.DivOp{}, s, y)
}

// RDiv returns y / s.
func (s *Scalar) RDiv(y Operand) *Scalar {
	return s.binary(ops.DivOp{}, y, s)
}

// Pow returns s ^ y.
//
// With a Constant exponent only ∂/∂s is recorded, so negative bases are
// fine. With a node exponent ∂/∂y = s^y·ln(s) is NaN for s < 0.
func (s *Scalar) Pow(y Operand) *Scalar {
	return s.binary(ops.PowOp{}, s, y)
}

// RPow returns y ^ s.
func (s *Scalar) RPow(y Operand) *Scalar {
	return s.binary(ops.PowOp{}, y, s)
}

// Neg returns -s.
func (s *Scalar) Neg() *Scalar {
	return s.unary(ops.NegOp{})
}

// Exp returns e^s.
func (s *Scalar) Exp() *Scalar {
	return s.unary(ops.ExpOp{})
}

// Log returns ln(s).
func (s *Scalar) Log() *Scalar {
	return s.unary(ops.LogOp{})
}

// Sqrt returns √s.
func (s *Scalar) Sqrt() *Scalar {
	return s.unary(ops.SqrtOp{})
}

// Sin returns sin(s).
func (s *Scalar) Sin() *Scalar {
	return s.unary(ops.SinOp{})
}

// Cos returns cos(s).
func (s *Scalar) Cos() *Scalar {
	return s.unary(ops.CosOp{})
}

// Tanh returns tanh(s).
func (s *Scalar) Tanh() *Scalar {
	return s.unary(ops.TanhOp{})
}

// Sigmoid returns 1/(1+e^-s).
func (s *Scalar) Sigmoid() *Scalar {
	return s.unary(ops.SigmoidOp{})
}

// ReLU returns max(0, s).
func (s *Scalar) ReLU() *Scalar {
	return s.unary(ops.ReLUOp{})
}

// SiLU returns s·σ(s).
func (s *Scalar) SiLU() *Scalar {
	return s.unary(ops.SiLUOp{})
}

func (s *Scalar) binary(op ops.BinaryOp, x, y Operand) *Scalar {
	if isVector(x) || isVector(y) {
		panic(invalidOperand(s.graph, op.Name(), "vector operand in scalar operation"))
	}
	return &Scalar{node: s.graph.binary(op, x, y)}
}

func (s *Scalar) unary(op ops.UnaryOp) *Scalar {
	return &Scalar{node: s.graph.unary(op, s.node)}
}
