package ops

import "math"

// SqrtOp represents the square root: y = sqrt(x), dy/dx = 1/(2*sqrt(x)) = 1/(2y).
type SqrtOp struct{}

// Name returns "sqrt".
func (SqrtOp) Name() string { return "sqrt" }

// Forward returns sqrt(x).
func (SqrtOp) Forward(x float64) float64 { return math.Sqrt(x) }

// Partial returns 1/(2y).
func (SqrtOp) Partial(_, y float64) float64 { return 0.5 / y }
