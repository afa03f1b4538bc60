package ops

import "math"

// CosOp represents y = cos(x), dy/dx = -sin(x).
type CosOp struct{}

// Name returns "cos".
func (CosOp) Name() string { return "cos" }

// Forward returns cos(x).
func (CosOp) Forward(x float64) float64 { return math.Cos(x) }

// Partial returns -sin(x).
func (CosOp) Partial(x, _ float64) float64 { return -math.Sin(x) }
