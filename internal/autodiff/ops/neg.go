package ops

// NegOp represents negation: output = -x, d(-x)/dx = -1.
type NegOp struct{}

// Name returns "neg".
func (NegOp) Name() string { return "neg" }

// Forward returns -x.
func (NegOp) Forward(x float64) float64 { return -x }

// Partial returns -1.
func (NegOp) Partial(_, _ float64) float64 { return -1 }
