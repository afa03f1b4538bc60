package ops

// ReLUOp represents a ReLU (Rectified Linear Unit) activation: output = max(0, x).
//
// d(ReLU(x))/dx = 1 if x > 0, else 0. The partial at x = 0 is taken as 0.
type ReLUOp struct{}

// Name returns "relu".
func (ReLUOp) Name() string { return "relu" }

// Forward returns max(0, x).
func (ReLUOp) Forward(x float64) float64 { return max(0, x) }

// Partial returns 1 where x > 0, else 0.
func (ReLUOp) Partial(x, _ float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}
