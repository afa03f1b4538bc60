package ops

import "math"

// SinOp represents y = sin(x), dy/dx = cos(x).
type SinOp struct{}

// Name returns "sin".
func (SinOp) Name() string { return "sin" }

// Forward returns sin(x).
func (SinOp) Forward(x float64) float64 { return math.Sin(x) }

// Partial returns cos(x).
func (SinOp) Partial(x, _ float64) float64 { return math.Cos(x) }
