package expr

import "github.com/born-ml/leafgrad/internal/autodiff"

// unaryFuncs maps function names to single-argument node operations.
var unaryFuncs = map[string]func(autodiff.Node) autodiff.Node{
	"exp":     autodiff.Exp,
	"log":     autodiff.Log,
	"sqrt":    autodiff.Sqrt,
	"sin":     autodiff.Sin,
	"cos":     autodiff.Cos,
	"tanh":    autodiff.Tanh,
	"sigmoid": autodiff.Sigmoid,
	"relu":    autodiff.ReLU,
	"silu":    autodiff.SiLU,
	"sum":     func(x autodiff.Node) autodiff.Node { return autodiff.Sum(x) },
}

// binaryFuncs maps function names to two-argument operations.
var binaryFuncs = map[string]func(x, y autodiff.Operand) autodiff.Node{
	"pow": autodiff.Pow,
	"dot": func(x, y autodiff.Operand) autodiff.Node { return autodiff.Dot(x, y) },
}

// Functions returns the names of every supported function.
func Functions() []string {
	names := make([]string, 0, len(unaryFuncs)+len(binaryFuncs))
	for name := range unaryFuncs {
		names = append(names, name)
	}
	for name := range binaryFuncs {
		names = append(names, name)
	}
	return sortedUnique(names)
}

func arity(name string) (int, bool) {
	if _, ok := unaryFuncs[name]; ok {
		return 1, true
	}
	if _, ok := binaryFuncs[name]; ok {
		return 2, true
	}
	return 0, false
}
