package ops

// SubOp represents subtraction: output = a - b.
//
// Local partials:
//   - d(a-b)/da = 1
//   - d(a-b)/db = -1
type SubOp struct{}

// Name returns "sub".
func (SubOp) Name() string { return "sub" }

// Forward returns a - b.
func (SubOp) Forward(a, b float64) float64 { return a - b }

// PartialA returns 1.
func (SubOp) PartialA(_, _ float64) float64 { return 1 }

// PartialB returns -1.
func (SubOp) PartialB(_, _ float64) float64 { return -1 }
