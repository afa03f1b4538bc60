package ops

import "math"

// TanhOp represents the hyperbolic tangent: y = tanh(x).
//
// Local partial:
//   - d(tanh(x))/dx = 1 - tanh²(x) = 1 - y²
type TanhOp struct{}

// Name returns "tanh".
func (TanhOp) Name() string { return "tanh" }

// Forward returns tanh(x).
func (TanhOp) Forward(x float64) float64 { return math.Tanh(x) }

// Partial returns 1 - y².
func (TanhOp) Partial(_, y float64) float64 { return 1 - y*y }
