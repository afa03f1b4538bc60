package ops

import "math"

// SigmoidOp represents the logistic function: σ(x) = 1 / (1 + exp(-x)).
//
// Since the output σ(x) is already computed, the partial reuses it:
// dσ/dx = σ(x) * (1 - σ(x)).
type SigmoidOp struct{}

// Name returns "sigmoid".
func (SigmoidOp) Name() string { return "sigmoid" }

// Forward returns σ(x).
func (SigmoidOp) Forward(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// Partial returns y * (1 - y).
func (SigmoidOp) Partial(_, y float64) float64 { return y * (1 - y) }
