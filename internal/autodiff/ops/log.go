package ops

import "math"

// LogOp represents the natural logarithm: y = ln(x).
//
// Local partial:
//   - d(ln(x))/dx = 1/x
//
// Note: ln is only defined for x > 0. Non-positive inputs produce NaN or
// -Inf in the forward value and ±Inf in the partial; neither is intercepted.
type LogOp struct{}

// Name returns "log".
func (LogOp) Name() string { return "log" }

// Forward returns ln(x).
func (LogOp) Forward(x float64) float64 { return math.Log(x) }

// Partial returns 1/x.
func (LogOp) Partial(x, _ float64) float64 { return 1 / x }
