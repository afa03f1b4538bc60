package ops

import "math"

// SiLUOp represents the SiLU (Swish) activation: f(x) = x * σ(x).
//
// f'(x) = σ(x) * (1 + x * (1 - σ(x))).
type SiLUOp struct{}

// Name returns "silu".
func (SiLUOp) Name() string { return "silu" }

// Forward returns x * σ(x).
func (SiLUOp) Forward(x float64) float64 { return x / (1 + math.Exp(-x)) }

// Partial returns σ(x) * (1 + x * (1 - σ(x))).
func (SiLUOp) Partial(x, _ float64) float64 {
	sig := 1 / (1 + math.Exp(-x))
	return sig * (1 + x*(1-sig))
}
