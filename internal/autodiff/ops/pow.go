package ops

import "math"

// PowOp represents exponentiation: output = a ^ b.
//
// Local partials:
//   - d(a^b)/da = b * a^(b-1)
//   - d(a^b)/db = a^b * ln(a)
//
// The exponent partial needs a > 0. For a <= 0 it yields whatever math.Log
// yields (NaN or -Inf), which then propagates through the backward pass.
type PowOp struct{}

// Name returns "pow".
func (PowOp) Name() string { return "pow" }

// Forward returns a^b.
func (PowOp) Forward(a, b float64) float64 { return math.Pow(a, b) }

// PartialA returns b * a^(b-1).
func (PowOp) PartialA(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return b * math.Pow(a, b-1)
}

// PartialB returns a^b * ln(a).
func (PowOp) PartialB(a, b float64) float64 {
	return math.Pow(a, b) * math.Log(a)
}
