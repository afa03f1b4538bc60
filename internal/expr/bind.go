package expr

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/born-ml/leafgrad/internal/autodiff"
)

// Bind creates one leaf in g per value: numbers become scalar leaves and
// lists, sets or tuples of numbers become vector leaves. Leaves are created
// in name order so handles are deterministic.
func Bind(g *autodiff.Graph, values map[string]cty.Value) (map[string]autodiff.Node, error) {
	env := make(map[string]autodiff.Node, len(values))
	for _, name := range slices.Sorted(maps.Keys(values)) {
		leaf, err := bindLeaf(g, values[name])
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		env[name] = leaf
	}
	return env, nil
}

func bindLeaf(g *autodiff.Graph, v cty.Value) (autodiff.Node, error) {
	if v.IsNull() || !v.IsWhollyKnown() {
		return nil, fmt.Errorf("%w: null or unknown", ErrInvalidValue)
	}

	ty := v.Type()
	switch {
	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return g.Leaf(f), nil

	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		if v.LengthInt() == 0 {
			return nil, fmt.Errorf("%w: empty vector", ErrInvalidValue)
		}
		values := make([]float64, 0, v.LengthInt())
		for i, elem := range v.AsValueSlice() {
			if elem.Type() != cty.Number {
				return nil, fmt.Errorf("%w: element %d is %s, want number", ErrInvalidValue, i, elem.Type().FriendlyName())
			}
			var f float64
			if err := gocty.FromCtyValue(elem, &f); err != nil {
				return nil, fmt.Errorf("%w: element %d: %v", ErrInvalidValue, i, err)
			}
			values = append(values, f)
		}
		return g.LeafVector(values), nil

	default:
		return nil, fmt.Errorf("%w: %s, want number or list of numbers", ErrInvalidValue, ty.FriendlyName())
	}
}

// ParseValue parses a constant HCL expression such as "3", "-1.5" or
// "[1, 2, 3]" into a cty value suitable for Bind.
func ParseValue(src string) (cty.Value, error) {
	parsed, diags := hclsyntax.ParseExpression([]byte(src), "value", hcl.InitialPos)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("%w: %s", ErrSyntax, diags.Error())
	}
	v, diags := parsed.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("%w: %s", ErrInvalidValue, diags.Error())
	}
	return v, nil
}
