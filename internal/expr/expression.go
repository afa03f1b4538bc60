package expr

import (
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Expression is a compiled arithmetic expression.
type Expression struct {
	src  string
	expr hclsyntax.Expression
}

// Compile parses src and checks every function call against the supported
// set. Variables are resolved later, by Build.
func Compile(src string) (*Expression, error) {
	parsed, diags := hclsyntax.ParseExpression([]byte(src), "expression", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrSyntax, diags.Error())
	}

	if err := checkFunctions(parsed); err != nil {
		return nil, err
	}

	return &Expression{src: src, expr: parsed}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Expression {
	e, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the source text.
func (e *Expression) String() string {
	return e.src
}

// Variables returns the root names of every variable referenced by the
// expression, sorted and without duplicates.
func (e *Expression) Variables() []string {
	traversals := e.expr.Variables()
	names := make([]string, 0, len(traversals))
	for _, t := range traversals {
		names = append(names, t.RootName())
	}
	return sortedUnique(names)
}

// checkFunctions walks the syntax tree looking for calls to unknown
// functions or calls with the wrong number of arguments.
func checkFunctions(expr hclsyntax.Expression) error {
	var err error
	diags := hclsyntax.VisitAll(expr, func(node hclsyntax.Node) hcl.Diagnostics {
		call, ok := node.(*hclsyntax.FunctionCallExpr)
		if !ok || err != nil {
			return nil
		}
		want, known := arity(call.Name)
		switch {
		case !known:
			err = fmt.Errorf("%s: %w: %q", call.NameRange, ErrUnknownFunction, call.Name)
		case len(call.Args) != want:
			err = fmt.Errorf("%s: %w: %s takes %d, got %d", call.NameRange, ErrArity, call.Name, want, len(call.Args))
		case call.ExpandFinal:
			err = fmt.Errorf("%s: %w: argument expansion", call.NameRange, ErrUnsupported)
		}
		return nil
	})
	if diags.HasErrors() {
		return fmt.Errorf("%w: %s", ErrSyntax, diags.Error())
	}
	return err
}

func sortedUnique(names []string) []string {
	slices.Sort(names)
	return slices.Compact(names)
}
