package autodiff_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/leafgrad/internal/autodiff"
)

// gradOf seeds out with 1 and returns ∂out/∂leaf.
func gradOf(t *testing.T, out *autodiff.Scalar, leaf *autodiff.Scalar) float64 {
	t.Helper()
	out.Seed(1)
	require.NoError(t, out.Gradient(leaf))
	return leaf.Grad()
}

// recoverError runs f and returns the error it panicked with, if any.
func recoverError(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	f()
	return nil
}

func TestScenario_Sum(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(3)
	b := g.Leaf(4)
	c := a.Add(b)

	assert.Equal(t, 7.0, c.Value())

	c.Seed(1)
	require.NoError(t, c.Gradient(a))
	assert.Equal(t, 1.0, a.Grad())
	require.NoError(t, c.Gradient(b))
	assert.Equal(t, 1.0, b.Grad())
}

func TestScenario_Product(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(3)
	b := g.Leaf(4)
	c := a.Mul(b)

	assert.Equal(t, 12.0, c.Value())

	c.Seed(1)
	require.NoError(t, c.Gradient(a))
	assert.Equal(t, 4.0, a.Grad())
	require.NoError(t, c.Gradient(b))
	assert.Equal(t, 3.0, b.Grad())
}

func TestScenario_Diamond(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(2)
	c := a.Mul(a)

	assert.Equal(t, 4.0, c.Value())
	assert.Equal(t, 4.0, gradOf(t, c, a))
}

func TestScenario_Power(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(2)
	c := a.Pow(autodiff.Constant(3))

	assert.Equal(t, 8.0, c.Value())
	assert.Equal(t, 12.0, gradOf(t, c, a))
}

func TestScenario_Quotient(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(10)
	b := g.Leaf(2)
	c := a.Div(b)

	assert.Equal(t, 5.0, c.Value())

	c.Seed(1)
	require.NoError(t, c.Gradient(a))
	assert.Equal(t, 0.5, a.Grad())
	require.NoError(t, c.Gradient(b))
	assert.Equal(t, -2.5, b.Grad())
}

func TestScenario_VectorSum(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.LeafVector([]float64{1, 2, 3})
	b := g.LeafVector([]float64{4, 5, 6})
	c := a.Add(b)

	assert.Equal(t, []float64{5, 7, 9}, c.Values())

	c.SeedOnes()
	require.NoError(t, c.Gradient(a))
	assert.Equal(t, []float64{1, 1, 1}, a.Grad())
	require.NoError(t, c.Gradient(b))
	assert.Equal(t, []float64{1, 1, 1}, b.Grad())
}

func TestProperty_SumRule(t *testing.T) {
	for _, p := range [][2]float64{{0, 0}, {-3.5, 2}, {1e6, -1e-6}} {
		g := autodiff.NewGraph()
		a, b := g.Leaf(p[0]), g.Leaf(p[1])
		c := a.Add(b)
		assert.Equal(t, 1.0, gradOf(t, c, a))
		assert.Equal(t, 1.0, gradOf(t, c, b))
	}
}

func TestProperty_ProductRule(t *testing.T) {
	for _, p := range [][2]float64{{0, 5}, {-3.5, 2}, {7, 0.25}} {
		g := autodiff.NewGraph()
		a, b := g.Leaf(p[0]), g.Leaf(p[1])
		c := a.Mul(b)
		assert.Equal(t, p[1], gradOf(t, c, a))
		assert.Equal(t, p[0], gradOf(t, c, b))
	}
}

func TestProperty_QuotientRule(t *testing.T) {
	for _, p := range [][2]float64{{1, 4}, {-3, 2}, {7, -0.5}} {
		g := autodiff.NewGraph()
		a, b := g.Leaf(p[0]), g.Leaf(p[1])
		c := a.Div(b)
		assert.InDelta(t, 1/p[1], gradOf(t, c, a), 1e-12)
		assert.InDelta(t, -p[0]/(p[1]*p[1]), gradOf(t, c, b), 1e-12)
	}
}

func TestProperty_PowerRule(t *testing.T) {
	for _, p := range [][2]float64{{2, 3}, {1.5, -2}, {-2, 3}, {4, 0.5}} {
		g := autodiff.NewGraph()
		a := g.Leaf(p[0])
		c := a.Pow(autodiff.Constant(p[1]))
		want := p[1] * math.Pow(p[0], p[1]-1)
		assert.InDelta(t, want, gradOf(t, c, a), 1e-12)
	}
}

func TestPow_NodeExponent(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(2)
	b := g.Leaf(3)
	c := a.Pow(b)

	assert.Equal(t, 8.0, c.Value())
	assert.InDelta(t, 12.0, gradOf(t, c, a), 1e-12)
	assert.InDelta(t, 8*math.Ln2, gradOf(t, c, b), 1e-12)
}

func TestPow_NonPositiveBaseNodeExponent(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(-2)
	b := g.Leaf(3)
	c := a.Pow(b)

	assert.Equal(t, -8.0, c.Value())
	// Domain errors surface as NaN, not as an error.
	assert.True(t, math.IsNaN(gradOf(t, c, b)))
	assert.Equal(t, 12.0, gradOf(t, c, a))
}

func TestNeg(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(5)
	c := a.Neg()

	assert.Equal(t, -5.0, c.Value())
	assert.Equal(t, -1.0, gradOf(t, c, a))
}

func TestConstantOperands(t *testing.T) {
	tests := []struct {
		name      string
		build     func(x *autodiff.Scalar) autodiff.Node
		wantValue float64
		wantGrad  float64
	}{
		{"x+2", func(x *autodiff.Scalar) autodiff.Node { return x.Add(autodiff.Constant(2)) }, 5, 1},
		{"2+x", func(x *autodiff.Scalar) autodiff.Node { return autodiff.Add(autodiff.Constant(2), x) }, 5, 1},
		{"x-2", func(x *autodiff.Scalar) autodiff.Node { return x.Sub(autodiff.Constant(2)) }, 1, 1},
		{"2-x", func(x *autodiff.Scalar) autodiff.Node { return x.RSub(autodiff.Constant(2)) }, -1, -1},
		{"2-x pkg", func(x *autodiff.Scalar) autodiff.Node { return autodiff.Sub(autodiff.Constant(2), x) }, -1, -1},
		{"x*2", func(x *autodiff.Scalar) autodiff.Node { return x.Mul(autodiff.Constant(2)) }, 6, 2},
		{"2*x", func(x *autodiff.Scalar) autodiff.Node { return autodiff.Mul(autodiff.Constant(2), x) }, 6, 2},
		{"x/2", func(x *autodiff.Scalar) autodiff.Node { return x.Div(autodiff.Constant(2)) }, 1.5, 0.5},
		{"6/x", func(x *autodiff.Scalar) autodiff.Node { return x.RDiv(autodiff.Constant(6)) }, 2, -6.0 / 9},
		{"x^2", func(x *autodiff.Scalar) autodiff.Node { return x.Pow(autodiff.Constant(2)) }, 9, 6},
		{"2^x", func(x *autodiff.Scalar) autodiff.Node { return x.RPow(autodiff.Constant(2)) }, 8, 8 * math.Ln2},
		{"2^x pkg", func(x *autodiff.Scalar) autodiff.Node { return autodiff.Pow(autodiff.Constant(2), x) }, 8, 8 * math.Ln2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := autodiff.NewGraph()
			x := g.Leaf(3)
			out, ok := tt.build(x).(*autodiff.Scalar)
			require.True(t, ok, "scalar operands must produce a scalar")

			assert.InDelta(t, tt.wantValue, out.Value(), 1e-12)
			assert.InDelta(t, tt.wantGrad, gradOf(t, out, x), 1e-12)
		})
	}
}

func TestLinkage_LeafEntry(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(3)

	assert.True(t, a.IsLeaf())
	assert.Equal(t, []autodiff.Handle{a.Handle()}, a.Leaves())

	links := a.Links(a.Handle())
	require.Len(t, links, 1)
	assert.Equal(t, autodiff.NoPredecessor, links[0].Pred)
	assert.Equal(t, []float64{1}, links[0].Partial)
}

func TestLinkage_OneEntryPerDependentOperand(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(2)
	b := g.Leaf(5)

	sq := a.Mul(a)
	links := sq.Links(a.Handle())
	require.Len(t, links, 2)
	for _, l := range links {
		assert.Equal(t, a.Handle(), l.Pred)
		assert.Equal(t, []float64{2}, l.Partial)
	}

	ab := a.Mul(b)
	require.Len(t, ab.Links(a.Handle()), 1)
	require.Len(t, ab.Links(b.Handle()), 1)
	assert.Equal(t, []float64{5}, ab.Links(a.Handle())[0].Partial)
	assert.Equal(t, []float64{2}, ab.Links(b.Handle())[0].Partial)
}

func TestLinkage_PartialSharedAcrossLeaves(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(2)
	b := g.Leaf(5)
	s := a.Add(b)

	// ∂c/∂s = 7, filed under both a and b.
	c := s.Mul(g.Leaf(7))

	la := c.Links(a.Handle())
	lb := c.Links(b.Handle())
	require.Len(t, la, 1)
	require.Len(t, lb, 1)
	assert.Equal(t, s.Handle(), la[0].Pred)
	assert.Equal(t, s.Handle(), lb[0].Pred)
	assert.Equal(t, la[0].Partial, lb[0].Partial)
}

func TestLinkage_ConstantsContributeNoLeaves(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(2)
	c := a.Mul(autodiff.Constant(3)).Add(autodiff.Constant(1))

	assert.Equal(t, []autodiff.Handle{a.Handle()}, c.Leaves())
	assert.Equal(t, 7.0, c.Value())
}

func TestForwardConstructionLeavesAccumulatorsZero(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(2)
	b := g.Leaf(3)
	c := a.Mul(b).Add(a)

	assert.Equal(t, 0.0, a.Grad())
	assert.Equal(t, 0.0, b.Grad())
	assert.Equal(t, 0.0, c.Grad())
	assert.False(t, c.Seeded())
}

func TestGradient_UndefinedDerivative(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(1)
	b := g.Leaf(2)
	unrelated := g.Leaf(3)
	c := a.Add(b)

	c.Seed(1)
	err := c.Gradient(unrelated)
	require.Error(t, err)
	assert.True(t, errors.Is(err, autodiff.ErrUndefinedDerivative))
}

func TestGradient_NotSeeded(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(1)
	c := a.Mul(autodiff.Constant(2))

	err := c.Gradient(a)
	assert.ErrorIs(t, err, autodiff.ErrNotSeeded)
}

func TestGradient_NonLeaf(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(1)
	b := a.Mul(autodiff.Constant(2))
	c := b.Add(autodiff.Constant(1))

	c.Seed(1)
	assert.ErrorIs(t, c.Gradient(b), autodiff.ErrLeafNotTracked)
}

func TestGradient_ForeignLeaf(t *testing.T) {
	g1 := autodiff.NewGraph()
	g2 := autodiff.NewGraph()
	a := g1.Leaf(1)
	other := g2.Leaf(1)
	c := a.Add(autodiff.Constant(1))

	c.Seed(1)
	err := c.Gradient(other)
	assert.ErrorIs(t, err, autodiff.ErrInvalidOperand)

	var opErr *autodiff.OperandError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, g1.ID(), opErr.Graph)
}

func TestGradient_LeafIsOutput(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(4)

	a.Seed(1)
	require.NoError(t, a.Gradient(a))
	assert.Equal(t, 1.0, a.Grad())
}

func TestGradient_SeedScalesResult(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(3)
	c := a.Mul(a)

	c.Seed(0.5)
	require.NoError(t, c.Gradient(a))
	assert.Equal(t, 3.0, a.Grad())
}

func TestGradient_ConvergingIntermediate(t *testing.T) {
	// d = b*b with b = a+1: ∂d/∂a = 2(a+1). A pass that propagated b twice,
	// or guarded on a zero accumulator, would get this wrong.
	g := autodiff.NewGraph()
	a := g.Leaf(2)
	b := a.Add(autodiff.Constant(1))
	d := b.Mul(b)

	assert.Equal(t, 6.0, gradOf(t, d, a))
	assert.Equal(t, 6.0, b.Grad())
}

func TestGradient_ZeroPartialDoesNotBlockAccumulation(t *testing.T) {
	// c = a*b + a with b = 0. The first path contributes exactly zero to a,
	// which must not stop the second path from accumulating.
	g := autodiff.NewGraph()
	a := g.Leaf(5)
	b := g.Leaf(0)
	c := a.Mul(b).Add(a)

	assert.Equal(t, 1.0, gradOf(t, c, a))
	assert.Equal(t, 5.0, gradOf(t, c, b))
}

func TestGradient_RepeatedPassesAreIndependent(t *testing.T) {
	g := autodiff.NewGraph()
	x := g.Leaf(2)
	y := g.Leaf(3)
	s := x.Mul(y)          // shared intermediate
	out := s.Mul(s).Add(x) // x²y² + x

	out.Seed(1)
	for i := 0; i < 3; i++ {
		require.NoError(t, out.Gradient(x))
		assert.Equal(t, 2*2*9.0+1, x.Grad()) // 2xy² + 1
		require.NoError(t, out.Gradient(y))
		assert.Equal(t, 2*4*3.0, y.Grad()) // 2x²y
	}
}

func TestGradient_DeepChain(t *testing.T) {
	g := autodiff.NewGraph()
	x := g.Leaf(1)

	y := x
	for i := 0; i < 100000; i++ {
		y = y.Add(autodiff.Constant(1))
	}

	assert.Equal(t, 100001.0, y.Value())
	assert.Equal(t, 1.0, gradOf(t, y, x))
	assert.Equal(t, 100001, g.Len())
}

func TestTrack(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Scalar(3)
	assert.False(t, a.IsLeaf())
	assert.Empty(t, a.Leaves())

	require.NoError(t, g.Track(a))
	assert.True(t, a.IsLeaf())

	c := a.Mul(a)
	assert.Equal(t, 6.0, gradOf(t, c, a))

	assert.ErrorIs(t, g.Track(a), autodiff.ErrAlreadyTracked)
	assert.ErrorIs(t, g.Track(c), autodiff.ErrAlreadyTracked)
}

func TestTrack_ForeignNode(t *testing.T) {
	g1 := autodiff.NewGraph()
	g2 := autodiff.NewGraph()

	assert.ErrorIs(t, g1.Track(g2.Scalar(1)), autodiff.ErrInvalidOperand)
	assert.ErrorIs(t, g1.Track(nil), autodiff.ErrInvalidOperand)
}

func TestUntrackedOperandsContributeNoLeaves(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(2)
	k := g.Scalar(10)
	c := a.Mul(k)

	assert.Equal(t, []autodiff.Handle{a.Handle()}, c.Leaves())
	assert.Equal(t, 10.0, gradOf(t, c, a))
}

func TestZeroGrad(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(2)
	c := a.Mul(a)

	c.Seed(1)
	require.NoError(t, c.Gradient(a))
	require.NotZero(t, a.Grad())

	g.ZeroGrad()
	assert.Zero(t, a.Grad())
	assert.Zero(t, c.Grad())
	assert.False(t, c.Seeded())
	assert.ErrorIs(t, c.Gradient(a), autodiff.ErrNotSeeded)
}

func TestGraph_Backward(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(3)
	c := a.Mul(autodiff.Constant(4))

	c.Seed(1)
	require.NoError(t, g.Backward(c, a))
	assert.Equal(t, 4.0, a.Grad())

	assert.ErrorIs(t, g.Backward(nil, a), autodiff.ErrInvalidOperand)
}

func TestInvalidOperand_Panics(t *testing.T) {
	g := autodiff.NewGraph()
	other := autodiff.NewGraph()
	a := g.Leaf(1)
	v := g.LeafVector([]float64{1, 2})

	tests := []struct {
		name string
		fn   func()
	}{
		{"nil interface", func() { a.Add(nil) }},
		{"nil scalar", func() { a.Add((*autodiff.Scalar)(nil)) }},
		{"foreign graph", func() { a.Add(other.Leaf(1)) }},
		{"vector into scalar op", func() { a.Mul(v) }},
		{"constants into scalar op", func() { a.Mul(autodiff.Constants{1, 2}) }},
		{"length mismatch", func() { v.Add(g.LeafVector([]float64{1, 2, 3})) }},
		{"constants length mismatch", func() { v.Add(autodiff.Constants{1}) }},
		{"empty constants", func() { v.Add(autodiff.Constants{}) }},
		{"only constants", func() { autodiff.Add(autodiff.Constant(1), autodiff.Constant(2)) }},
		{"index out of range", func() { v.At(2) }},
		{"negative index", func() { v.At(-1) }},
		{"seed length", func() { v.Seed([]float64{1}) }},
		{"empty vector", func() { g.Vector(nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := recoverError(tt.fn)
			require.Error(t, err)
			assert.ErrorIs(t, err, autodiff.ErrInvalidOperand)

			var opErr *autodiff.OperandError
			assert.ErrorAs(t, err, &opErr)
		})
	}
}

func TestOperandError_Message(t *testing.T) {
	err := &autodiff.OperandError{Op: "add", Reason: "nil operand"}
	assert.Equal(t, "autodiff: add: invalid operand: nil operand", err.Error())
}
