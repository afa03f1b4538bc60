package expr

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/born-ml/leafgrad/internal/autodiff"
)

// Build evaluates the expression into g. env binds variable names to nodes
// of g, usually the leaves returned by Bind.
//
// Constant subexpressions stay constants until they meet a node; an
// expression with no variables at all becomes an untracked node. Operand
// errors raised by the graph (length mismatches, foreign nodes) are returned
// as *autodiff.OperandError.
func (e *Expression) Build(g *autodiff.Graph, env map[string]autodiff.Node) (out autodiff.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			var opErr *autodiff.OperandError
			rerr, ok := r.(error)
			if !ok || !errors.As(rerr, &opErr) {
				panic(r)
			}
			out, err = nil, fmt.Errorf("%s: %w", e.expr.Range(), opErr)
		}
	}()

	b := &builder{g: g, env: env}
	result, err := b.build(e.expr)
	if err != nil {
		return nil, err
	}
	return b.node(result), nil
}

// builder walks the syntax tree. Terms are autodiff.Operand values: nodes
// or constants.
type builder struct {
	g   *autodiff.Graph
	env map[string]autodiff.Node
}

func (b *builder) build(expr hclsyntax.Expression) (autodiff.Operand, error) {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		return literal(e.Val, e.SrcRange)

	case *hclsyntax.ParenthesesExpr:
		return b.build(e.Expression)

	case *hclsyntax.TupleConsExpr:
		return b.tuple(e)

	case *hclsyntax.ScopeTraversalExpr:
		return b.traversal(e.Traversal, e.SrcRange)

	case *hclsyntax.RelativeTraversalExpr:
		src, err := b.build(e.Source)
		if err != nil {
			return nil, err
		}
		return traverse(src, e.Traversal)

	case *hclsyntax.IndexExpr:
		coll, err := b.build(e.Collection)
		if err != nil {
			return nil, err
		}
		key, err := b.build(e.Key)
		if err != nil {
			return nil, err
		}
		k, ok := key.(autodiff.Constant)
		if !ok {
			return nil, fmt.Errorf("%s: %w: index must be a constant", e.Key.Range(), ErrUnsupported)
		}
		return index(coll, float64(k), e.SrcRange)

	case *hclsyntax.UnaryOpExpr:
		if e.Op != hclsyntax.OpNegate {
			return nil, fmt.Errorf("%s: %w: unary operator", e.SrcRange, ErrUnsupported)
		}
		x, err := b.build(e.Val)
		if err != nil {
			return nil, err
		}
		return negate(x), nil

	case *hclsyntax.BinaryOpExpr:
		return b.binary(e)

	case *hclsyntax.FunctionCallExpr:
		return b.call(e)

	default:
		return nil, fmt.Errorf("%s: %w: %T", expr.Range(), ErrUnsupported, expr)
	}
}

func (b *builder) binary(e *hclsyntax.BinaryOpExpr) (autodiff.Operand, error) {
	var apply func(x, y autodiff.Operand) autodiff.Node
	switch e.Op {
	case hclsyntax.OpAdd:
		apply = autodiff.Add
	case hclsyntax.OpSubtract:
		apply = autodiff.Sub
	case hclsyntax.OpMultiply:
		apply = autodiff.Mul
	case hclsyntax.OpDivide:
		apply = autodiff.Div
	default:
		return nil, fmt.Errorf("%s: %w: binary operator", e.SrcRange, ErrUnsupported)
	}

	x, err := b.build(e.LHS)
	if err != nil {
		return nil, err
	}
	y, err := b.build(e.RHS)
	if err != nil {
		return nil, err
	}
	if isConstant(x) && isConstant(y) {
		x = b.node(x)
	}
	return apply(x, y), nil
}

func (b *builder) call(e *hclsyntax.FunctionCallExpr) (autodiff.Operand, error) {
	args := make([]autodiff.Operand, len(e.Args))
	for i, arg := range e.Args {
		v, err := b.build(arg)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if fn, ok := unaryFuncs[e.Name]; ok {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s: %w: %s takes 1, got %d", e.NameRange, ErrArity, e.Name, len(args))
		}
		return fn(b.node(args[0])), nil
	}
	if fn, ok := binaryFuncs[e.Name]; ok {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s: %w: %s takes 2, got %d", e.NameRange, ErrArity, e.Name, len(args))
		}
		if isConstant(args[0]) && isConstant(args[1]) {
			args[0] = b.node(args[0])
		}
		return fn(args[0], args[1]), nil
	}
	return nil, fmt.Errorf("%s: %w: %q", e.NameRange, ErrUnknownFunction, e.Name)
}

func (b *builder) tuple(e *hclsyntax.TupleConsExpr) (autodiff.Operand, error) {
	if len(e.Exprs) == 0 {
		return nil, fmt.Errorf("%s: %w: empty tuple", e.SrcRange, ErrUnsupported)
	}
	values := make(autodiff.Constants, len(e.Exprs))
	for i, item := range e.Exprs {
		v, err := b.build(item)
		if err != nil {
			return nil, err
		}
		c, ok := v.(autodiff.Constant)
		if !ok {
			return nil, fmt.Errorf("%s: %w: tuple elements must be numbers", item.Range(), ErrUnsupported)
		}
		values[i] = float64(c)
	}
	return values, nil
}

func (b *builder) traversal(t hcl.Traversal, rng hcl.Range) (autodiff.Operand, error) {
	name := t.RootName()
	n, ok := b.env[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w: %q", rng, ErrUnknownVariable, name)
	}
	return traverse(n, t[1:])
}

// traverse applies index steps to v. Attribute access is not supported.
func traverse(v autodiff.Operand, steps hcl.Traversal) (autodiff.Operand, error) {
	for _, step := range steps {
		idx, ok := step.(hcl.TraverseIndex)
		if !ok {
			return nil, fmt.Errorf("%s: %w: attribute access", step.SourceRange(), ErrUnsupported)
		}
		k, err := literal(idx.Key, idx.SrcRange)
		if err != nil {
			return nil, err
		}
		c, ok := k.(autodiff.Constant)
		if !ok {
			return nil, fmt.Errorf("%s: %w: index must be a number", idx.SrcRange, ErrUnsupported)
		}
		if v, err = index(v, float64(c), idx.SrcRange); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// node turns a constant term into an untracked node of the graph.
func (b *builder) node(x autodiff.Operand) autodiff.Node {
	switch v := x.(type) {
	case autodiff.Constant:
		return b.g.Scalar(float64(v))
	case autodiff.Constants:
		return b.g.Vector(v)
	case autodiff.Node:
		return v
	default:
		panic(fmt.Sprintf("expr: unexpected term %T", x))
	}
}

func literal(v cty.Value, rng hcl.Range) (autodiff.Operand, error) {
	if v.Type() != cty.Number {
		return nil, fmt.Errorf("%s: %w: %s literal", rng, ErrUnsupported, v.Type().FriendlyName())
	}
	var f float64
	if err := gocty.FromCtyValue(v, &f); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", rng, ErrInvalidValue, err)
	}
	return autodiff.Constant(f), nil
}

func index(coll autodiff.Operand, key float64, rng hcl.Range) (autodiff.Operand, error) {
	i, accuracy := big.NewFloat(key).Int64()
	if accuracy != big.Exact {
		return nil, fmt.Errorf("%s: %w: index %v is not an integer", rng, ErrInvalidValue, key)
	}
	switch c := coll.(type) {
	case *autodiff.Vector:
		if i < 0 || i >= int64(c.Len()) {
			return nil, fmt.Errorf("%s: %w: index %d out of range [0, %d)", rng, ErrInvalidValue, i, c.Len())
		}
		return c.At(int(i)), nil
	case autodiff.Constants:
		if i < 0 || i >= int64(len(c)) {
			return nil, fmt.Errorf("%s: %w: index %d out of range [0, %d)", rng, ErrInvalidValue, i, len(c))
		}
		return autodiff.Constant(c[i]), nil
	default:
		return nil, fmt.Errorf("%s: %w: only vectors can be indexed", rng, ErrUnsupported)
	}
}

func negate(x autodiff.Operand) autodiff.Operand {
	switch v := x.(type) {
	case autodiff.Constant:
		return -v
	case autodiff.Constants:
		out := make(autodiff.Constants, len(v))
		for i, c := range v {
			out[i] = -c
		}
		return out
	default:
		return autodiff.Neg(v.(autodiff.Node))
	}
}

func isConstant(x autodiff.Operand) bool {
	switch x.(type) {
	case autodiff.Constant, autodiff.Constants:
		return true
	default:
		return false
	}
}
