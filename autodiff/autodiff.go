// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides leaf-scoped reverse-mode automatic differentiation.
//
// Nodes are created in a Graph. Every arithmetic operation returns a new node
// whose linkage table records, per leaf variable, the immediate operands and
// the local partial derivatives needed to walk back to that leaf.
//
// Example:
//
//	import "github.com/born-ml/leafgrad/autodiff"
//
//	func main() {
//	    g := autodiff.NewGraph()
//	    x := g.Leaf(2)
//	    y := g.Leaf(5)
//	    z := x.Mul(x).Add(y.Mul(autodiff.Constant(3))) // z = x² + 3y
//
//	    z.Seed(1) // the caller seeds the output
//	    _ = z.Gradient(x)
//	    _ = z.Gradient(y)
//	    fmt.Println(x.Grad(), y.Grad()) // 4 3
//	}
package autodiff

import (
	"github.com/born-ml/leafgrad/internal/autodiff"
)

// Graph is the arena that owns the nodes of one computation.
type Graph = autodiff.Graph

// Handle identifies a node inside its Graph.
type Handle = autodiff.Handle

// NoPredecessor is the sentinel predecessor of a leaf's own linkage entry.
const NoPredecessor = autodiff.NoPredecessor

// Node is a differentiable quantity: *Scalar or *Vector.
type Node = autodiff.Node

// Scalar is a differentiable scalar node.
type Scalar = autodiff.Scalar

// Vector is a differentiable fixed-length vector node.
type Vector = autodiff.Vector

// Operand is a node reference or a constant.
type Operand = autodiff.Operand

// Constant is a plain number operand.
type Constant = autodiff.Constant

// Constants is an elementwise constant operand.
type Constants = autodiff.Constants

// Link is one (predecessor, local partial) pair of a linkage entry.
type Link = autodiff.Link

// LinkKind describes how a contribution maps onto a predecessor.
type LinkKind = autodiff.LinkKind

// Link kinds.
const (
	Elementwise = autodiff.Elementwise
	Broadcast   = autodiff.Broadcast
	Reduce      = autodiff.Reduce
)

// OperandError is the panic value of operators given an invalid operand.
type OperandError = autodiff.OperandError

// Errors returned by backward passes and graph operations.
var (
	ErrUndefinedDerivative = autodiff.ErrUndefinedDerivative
	ErrInvalidOperand      = autodiff.ErrInvalidOperand
	ErrNotSeeded           = autodiff.ErrNotSeeded
	ErrLeafNotTracked      = autodiff.ErrLeafNotTracked
	ErrAlreadyTracked      = autodiff.ErrAlreadyTracked
)

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return autodiff.NewGraph()
}

// Add returns x + y.
func Add(x, y Operand) Node { return autodiff.Add(x, y) }

// Sub returns x - y.
func Sub(x, y Operand) Node { return autodiff.Sub(x, y) }

// Mul returns x * y.
func Mul(x, y Operand) Node { return autodiff.Mul(x, y) }

// Div returns x / y.
func Div(x, y Operand) Node { return autodiff.Div(x, y) }

// Pow returns x ^ y.
func Pow(x, y Operand) Node { return autodiff.Pow(x, y) }

// Neg returns -x.
func Neg(x Node) Node { return autodiff.Neg(x) }

// Exp returns e^x.
func Exp(x Node) Node { return autodiff.Exp(x) }

// Log returns ln(x).
func Log(x Node) Node { return autodiff.Log(x) }

// Sqrt returns √x.
func Sqrt(x Node) Node { return autodiff.Sqrt(x) }

// Sin returns sin(x).
func Sin(x Node) Node { return autodiff.Sin(x) }

// Cos returns cos(x).
func Cos(x Node) Node { return autodiff.Cos(x) }

// Tanh returns tanh(x).
func Tanh(x Node) Node { return autodiff.Tanh(x) }

// Sigmoid returns 1/(1+e^-x).
func Sigmoid(x Node) Node { return autodiff.Sigmoid(x) }

// ReLU returns max(0, x).
func ReLU(x Node) Node { return autodiff.ReLU(x) }

// SiLU returns x·σ(x).
func SiLU(x Node) Node { return autodiff.SiLU(x) }

// Sum reduces x to a scalar.
func Sum(x Node) *Scalar { return autodiff.Sum(x) }

// Dot returns Σ x[i]*y[i].
func Dot(x, y Operand) *Scalar { return autodiff.Dot(x, y) }
