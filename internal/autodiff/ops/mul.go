package ops

// MulOp represents multiplication: output = a * b.
//
// Local partials:
//   - d(a*b)/da = b
//   - d(a*b)/db = a
//
// When both operands are the same node (a*a) the graph records two links,
// and the backward pass sums them into 2a.
type MulOp struct{}

// Name returns "mul".
func (MulOp) Name() string { return "mul" }

// Forward returns a * b.
func (MulOp) Forward(a, b float64) float64 { return a * b }

// PartialA returns b.
func (MulOp) PartialA(_, b float64) float64 { return b }

// PartialB returns a.
func (MulOp) PartialB(a, _ float64) float64 { return a }
