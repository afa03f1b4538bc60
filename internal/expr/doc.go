// Package expr compiles arithmetic expressions written in HCL expression
// syntax into autodiff graphs.
//
// Supported syntax:
//   - number literals and tuple literals of numbers ([1, 2, 3])
//   - variables bound to scalar or vector leaves, and indexing (v[0])
//   - binary + - * / and unary -
//   - parentheses
//   - functions: pow(x, y), dot(x, y), exp, log, sqrt, sin, cos, tanh,
//     sigmoid, relu, silu, sum
//
// Example:
//
//	e, err := expr.Compile("x * y + pow(x, 2)")
//	g := autodiff.NewGraph()
//	env, err := expr.Bind(g, map[string]cty.Value{
//	    "x": cty.NumberFloatVal(3),
//	    "y": cty.NumberFloatVal(4),
//	})
//	out, err := e.Build(g, env)
package expr
