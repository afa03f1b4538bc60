package ops

// DivOp represents division: output = a / b.
//
// Local partials:
//   - d(a/b)/da = 1/b
//   - d(a/b)/db = -a/b²
//
// Division by zero follows IEEE 754 (±Inf or NaN) and is not intercepted.
type DivOp struct{}

// Name returns "div".
func (DivOp) Name() string { return "div" }

// Forward returns a / b.
func (DivOp) Forward(a, b float64) float64 { return a / b }

// PartialA returns 1/b.
func (DivOp) PartialA(_, b float64) float64 { return 1 / b }

// PartialB returns -a/b².
func (DivOp) PartialB(a, b float64) float64 { return -a / (b * b) }
