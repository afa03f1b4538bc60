package ops

// AddOp represents addition: output = a + b.
//
// Local partials:
//   - d(a+b)/da = 1
//   - d(a+b)/db = 1
type AddOp struct{}

// Name returns "add".
func (AddOp) Name() string { return "add" }

// Forward returns a + b.
func (AddOp) Forward(a, b float64) float64 { return a + b }

// PartialA returns 1.
func (AddOp) PartialA(_, _ float64) float64 { return 1 }

// PartialB returns 1.
func (AddOp) PartialB(_, _ float64) float64 { return 1 }
