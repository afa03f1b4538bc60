package ops

import "math"

// ExpOp represents the exponential operation: y = exp(x).
//
// Local partial:
//   - d(exp(x))/dx = exp(x) = y
type ExpOp struct{}

// Name returns "exp".
func (ExpOp) Name() string { return "exp" }

// Forward returns exp(x).
func (ExpOp) Forward(x float64) float64 { return math.Exp(x) }

// Partial returns y, the already computed exp(x).
func (ExpOp) Partial(_, y float64) float64 { return y }
