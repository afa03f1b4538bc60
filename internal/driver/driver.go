// Package driver seeds output nodes and requests gradients from the autodiff
// engine, one leaf at a time.
//
// It is the caller side of the engine's contract: leaves are created from
// bound values, the output accumulator is seeded before every backward pass,
// and each requested variable gets its own pass. Scalar outputs produce a
// gradient; vector outputs also produce a Jacobian, one one-hot seeded pass
// per output component.
//
// A graph is never shared between goroutines. With Workers > 1 every
// variable is differentiated on a graph of its own, built from the same
// compiled expression.
package driver

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/zclconf/go-cty/cty"

	"github.com/born-ml/leafgrad/internal/autodiff"
	"github.com/born-ml/leafgrad/internal/ctxlog"
	"github.com/born-ml/leafgrad/internal/expr"
	"github.com/born-ml/leafgrad/internal/parallel"
)

// Request describes one evaluation.
type Request struct {
	// Expression is the HCL arithmetic expression to evaluate.
	Expression string

	// Values binds every variable to a number or a list of numbers.
	Values map[string]cty.Value

	// WithRespectTo names the variables to differentiate against.
	// Empty means every variable referenced by the expression.
	WithRespectTo []string

	// AllowUndefined reports zeros instead of failing when the output does
	// not depend on a requested variable.
	AllowUndefined bool

	// Workers bounds how many variables are differentiated concurrently.
	// Values below 2 run every pass on a single graph.
	Workers int
}

// Result holds the forward value and the requested derivatives.
type Result struct {
	// Value is the forward value; one element for scalar outputs.
	Value []float64

	// Vector reports whether the output is a vector node.
	Vector bool

	// Variables lists the differentiated variables in order.
	Variables []string

	// Gradients maps each variable to ∂out/∂var. For a vector output this is
	// the gradient of the sum of its components.
	Gradients map[string][]float64

	// Jacobian maps each variable to rows ∂out[i]/∂var, vector outputs only.
	Jacobian map[string][][]float64
}

// Run compiles and evaluates the request, then runs the backward passes.
// The context is checked between passes.
func Run(ctx context.Context, req Request) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	e, err := expr.Compile(req.Expression)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", req.Expression, err)
	}

	ev, err := evaluate(ctx, e, req)
	if err != nil {
		return nil, err
	}

	wrt := req.WithRespectTo
	if len(wrt) == 0 {
		wrt = e.Variables()
	}
	for _, name := range wrt {
		if _, ok := ev.env[name]; !ok {
			return nil, fmt.Errorf("with respect to %q: %w", name, expr.ErrUnknownVariable)
		}
	}

	res := &Result{
		Variables: slices.Clone(wrt),
		Gradients: make(map[string][]float64, len(wrt)),
	}
	switch o := ev.out.(type) {
	case *autodiff.Scalar:
		res.Value = []float64{o.Value()}
	case *autodiff.Vector:
		res.Value = o.Values()
		res.Vector = true
		res.Jacobian = make(map[string][][]float64, len(wrt))
	}

	derivs := make([]derivative, len(wrt))
	if req.Workers < 2 || len(wrt) < 2 {
		for i, name := range wrt {
			if derivs[i], err = ev.differentiate(name); err != nil {
				return nil, err
			}
		}
	} else {
		derivs, err = fanOut(ctx, e, req, wrt)
		if err != nil {
			return nil, err
		}
	}

	passes := 0
	for i, name := range wrt {
		res.Gradients[name] = derivs[i].gradient
		if res.Vector {
			res.Jacobian[name] = derivs[i].jacobian
		}
		passes += derivs[i].passes
	}

	logger.Debug("Backward passes complete.", "variables", len(wrt), "passes", passes)
	return res, nil
}

// fanOut differentiates each variable on its own graph.
func fanOut(ctx context.Context, e *expr.Expression, req Request, wrt []string) ([]derivative, error) {
	derivs := make([]derivative, len(wrt))
	errs := make([]error, len(wrt))

	cfg := parallel.Config{Enabled: true, NumWorkers: req.Workers, MinChunkSize: 1}
	parallel.For(len(wrt), func(i int) {
		ev, err := evaluate(ctx, e, req)
		if err != nil {
			errs[i] = err
			return
		}
		derivs[i], errs[i] = ev.differentiate(wrt[i])
	}, cfg)

	// Report the first failure in variable order.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return derivs, nil
}

// evaluation is one built graph and its output.
type evaluation struct {
	ctx            context.Context
	graph          *autodiff.Graph
	env            map[string]autodiff.Node
	out            autodiff.Node
	allowUndefined bool
}

// derivative holds the results of differentiating against one variable.
type derivative struct {
	gradient []float64
	jacobian [][]float64
	passes   int
}

// evaluate binds the request values on a fresh graph and builds e on it.
func evaluate(ctx context.Context, e *expr.Expression, req Request) (*evaluation, error) {
	g := autodiff.NewGraph()

	env, err := expr.Bind(g, req.Values)
	if err != nil {
		return nil, fmt.Errorf("bind: %w", err)
	}

	out, err := e.Build(g, env)
	if err != nil {
		return nil, fmt.Errorf("build %q: %w", e, err)
	}

	ctxlog.FromContext(ctx).Debug("Built computation graph.",
		"graph", g.ID().String(), "nodes", g.Len(), "leaves", len(out.Leaves()))
	return &evaluation{ctx: ctx, graph: g, env: env, out: out, allowUndefined: req.AllowUndefined}, nil
}

// differentiate runs every backward pass needed for one variable: a single
// pass for a scalar output, or a ones-seeded pass plus one one-hot pass per
// component for a vector output.
func (ev *evaluation) differentiate(name string) (derivative, error) {
	leaf := ev.env[name]
	var d derivative

	switch o := ev.out.(type) {
	case *autodiff.Scalar:
		grad, err := ev.pass(name, leaf, func() { o.Seed(1) })
		if err != nil {
			return d, err
		}
		d.gradient = grad
		d.passes = 1

	case *autodiff.Vector:
		grad, err := ev.pass(name, leaf, o.SeedOnes)
		if err != nil {
			return d, err
		}
		d.gradient = grad

		d.jacobian = make([][]float64, o.Len())
		for i := range d.jacobian {
			row, err := ev.pass(name, leaf, func() { o.SeedOneHot(i) })
			if err != nil {
				return d, err
			}
			d.jacobian[i] = row
		}
		d.passes = 1 + o.Len()
	}
	return d, nil
}

// pass seeds the output, differentiates it with respect to leaf and returns
// a copy of the leaf's accumulator.
func (ev *evaluation) pass(name string, leaf autodiff.Node, seed func()) ([]float64, error) {
	if err := ev.ctx.Err(); err != nil {
		return nil, err
	}

	seed()
	err := ev.out.Gradient(leaf)
	switch {
	case err == nil:
	case errors.Is(err, autodiff.ErrUndefinedDerivative) && ev.allowUndefined:
		ctxlog.FromContext(ev.ctx).Debug("Output does not depend on variable.",
			"graph", ev.graph.ID().String(), "variable", name)
		return make([]float64, leaf.Len()), nil
	default:
		ev.graph.ZeroGrad()
		return nil, fmt.Errorf("gradient with respect to %q: %w", name, err)
	}

	switch l := leaf.(type) {
	case *autodiff.Scalar:
		return []float64{l.Grad()}, nil
	case *autodiff.Vector:
		return l.Grad(), nil
	default:
		return nil, fmt.Errorf("gradient with respect to %q: unexpected node %T", name, leaf)
	}
}
