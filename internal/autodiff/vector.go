package autodiff

import (
	"fmt"

	"github.com/born-ml/leafgrad/internal/autodiff/ops"
)

// Vector is a differentiable fixed-length vector node.
//
// Every operator applies elementwise. Operands may be a Vector of the same
// length, a Constants of the same length, or a Scalar/Constant broadcast to
// every element. Local partials are recorded per element.
type Vector struct {
	*node
}

// Values returns a copy of the forward value.
func (v *Vector) Values() []float64 {
	return append([]float64(nil), v.value...)
}

// Grad returns a copy of the accumulator.
func (v *Vector) Grad() []float64 {
	return append([]float64(nil), v.acc...)
}

// Seed sets the accumulator of an output node before a backward pass.
// The seed selects the directional derivative: ones for the gradient of the
// element sum, a one-hot vector for a single component.
func (v *Vector) Seed(seed []float64) {
	if len(seed) != len(v.acc) {
		panic(invalidOperand(v.graph, "seed", "seed length %d, vector length %d", len(seed), len(v.acc)))
	}
	copy(v.acc, seed)
	v.seeded = true
}

// SeedOnes seeds every component with 1.
func (v *Vector) SeedOnes() {
	for i := range v.acc {
		v.acc[i] = 1
	}
	v.seeded = true
}

// SeedOneHot seeds component i with 1 and every other component with 0.
func (v *Vector) SeedOneHot(i int) {
	v.checkIndex("seed", i)
	clear(v.acc)
	v.acc[i] = 1
	v.seeded = true
}

// String returns the forward value formatted like a slice.
func (v *Vector) String() string {
	return fmt.Sprint(v.value)
}

// At returns a scalar snapshot of element i.
//
// The snapshot copies the element's value at indexing time; it is not an
// alias into the vector's storage. It is linked back to the vector, so
// gradients of expressions over the snapshot reach the vector's leaves.
func (v *Vector) At(i int) *Scalar {
	v.checkIndex("index", i)
	partial := make([]float64, len(v.value))
	partial[i] = 1
	return &Scalar{node: v.graph.reduce(v.node, v.value[i], partial)}
}

// Sum returns the sum of all elements.
func (v *Vector) Sum() *Scalar {
	var total float64
	for _, x := range v.value {
		total += x
	}
	return &Scalar{node: v.graph.reduce(v.node, total, ones(len(v.value)))}
}

// Dot returns Σ v[i]*y[i]. y is broadcast like any other operand.
func (v *Vector) Dot(y Operand) *Scalar {
	return v.Mul(y).Sum()
}

// Add returns v + y.
func (v *Vector) Add(y Operand) *Vector {
	return v.binary(ops.AddOp{}, v, y)
}

// Sub returns v - y.
func (v *Vector) Sub(y Operand) *Vector {
	return v.binary(ops.SubOp{}, v, y)
}

// RSub returns y - v.
func (v *Vector) RSub(y Operand) *Vector {
	return v.binary(ops.SubOp{}, y, v)
}

// Mul returns v * y.
func (v *Vector) Mul(y Operand) *Vector {
	return v.binary(ops.MulOp{}, v, y)
}

// Div returns v / y.
func (v *Vector) Div(y Operand) *Vector {
	return v.binary(ops.DivOp{}, v, y)
}

// RDiv returns y / v.
func (v *Vector) RDiv(y Operand) *Vector {
	return v.binary(ops.DivOp{}, y, v)
}

// Pow returns v ^ y.
func (v *Vector) Pow(y Operand) *Vector {
	return v.binary(ops.PowOp{}, v, y)
}

// RPow returns y ^ v.
func (v *Vector) RPow(y Operand) *Vector {
	return v.binary(ops.PowOp{}, y, v)
}

// Neg returns -v.
func (v *Vector) Neg() *Vector {
	return v.unary(ops.NegOp{})
}

// Exp returns e^v.
func (v *Vector) Exp() *Vector {
	return v.unary(ops.ExpOp{})
}

// Log returns ln(v).
func (v *Vector) Log() *Vector {
	return v.unary(ops.LogOp{})
}

// Sqrt returns √v.
func (v *Vector) Sqrt() *Vector {
	return v.unary(ops.SqrtOp{})
}

// Sin returns sin(v).
func (v *Vector) Sin() *Vector {
	return v.unary(ops.SinOp{})
}

// Cos returns cos(v).
func (v *Vector) Cos() *Vector {
	return v.unary(ops.CosOp{})
}

// Tanh returns tanh(v).
func (v *Vector) Tanh() *Vector {
	return v.unary(ops.TanhOp{})
}

// Sigmoid returns 1/(1+e^-v).
func (v *Vector) Sigmoid() *Vector {
	return v.unary(ops.SigmoidOp{})
}

// ReLU returns max(0, v) elementwise.
func (v *Vector) ReLU() *Vector {
	return v.unary(ops.ReLUOp{})
}

// SiLU returns v·σ(v) elementwise.
func (v *Vector) SiLU() *Vector {
	return v.unary(ops.SiLUOp{})
}

func (v *Vector) binary(op ops.BinaryOp, x, y Operand) *Vector {
	return &Vector{node: v.graph.binary(op, x, y)}
}

func (v *Vector) unary(op ops.UnaryOp) *Vector {
	return &Vector{node: v.graph.unary(op, v.node)}
}

func (v *Vector) checkIndex(op string, i int) {
	if i < 0 || i >= len(v.value) {
		panic(invalidOperand(v.graph, op, "index %d out of range [0, %d)", i, len(v.value)))
	}
}
