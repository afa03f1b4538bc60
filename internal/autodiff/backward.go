package autodiff

import (
	"cmp"
	"fmt"
	"slices"
)

// Backward computes ∂out/∂leaf by propagating out's seeded accumulator back
// through the part of the graph that depends on leaf.
//
// Algorithm:
//  1. Look up out's linkage entry for leaf (ErrUndefinedDerivative if absent)
//  2. Collect every node reachable from out through links filed under leaf,
//     marking each in a per-pass visited table
//  3. Zero the accumulators of the collected nodes, except out's seed
//  4. Visit them in descending handle order (a reverse topological order)
//     and add acc·partial into each predecessor
//
// Every node is visited once, after all of its consumers, so contributions
// along converging paths are summed (a*a yields 2a). The walk uses an
// explicit stack and never recurses.
//
// Precondition: out was seeded (Scalar.Seed, Vector.Seed and friends).
// Postcondition: leaf's accumulator holds the derivative of out contracted
// with the seed, and each visited intermediate holds ∂out/∂node.
//
// A failed pass may leave accumulators partially updated; call ZeroGrad
// before reusing the graph.
func (g *Graph) Backward(out, leaf Node) error {
	o, err := g.own("backward", out)
	if err != nil {
		return err
	}
	l, err := g.own("backward", leaf)
	if err != nil {
		return err
	}
	return g.backward(o, l)
}

func (g *Graph) backward(out, leaf *node) error {
	if !leaf.IsLeaf() {
		return fmt.Errorf("backward: node %d: %w", leaf.handle, ErrLeafNotTracked)
	}
	if _, ok := out.links[leaf.handle]; !ok {
		return fmt.Errorf("backward: node %d with respect to leaf %d: %w", out.handle, leaf.handle, ErrUndefinedDerivative)
	}
	if !out.seeded {
		return fmt.Errorf("backward: node %d: %w", out.handle, ErrNotSeeded)
	}

	order := g.collect(out, leaf.handle)
	for _, n := range order {
		if n != out {
			clear(n.acc)
		}
	}

	for _, n := range order {
		for _, link := range n.links[leaf.handle] {
			if link.Pred == NoPredecessor {
				continue
			}
			accumulate(g.nodes[link.Pred], n, link)
		}
	}
	return nil
}

// collect returns the nodes reachable from out through links filed under
// leaf, sorted by descending handle. Operands always have smaller handles
// than their results, so every node comes after all of its consumers.
func (g *Graph) collect(out *node, leaf Handle) []*node {
	visited := make([]bool, len(g.nodes))
	visited[out.handle] = true

	stack := []*node{out}
	order := make([]*node, 0, 16)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, n)

		for _, link := range n.links[leaf] {
			if link.Pred == NoPredecessor || visited[link.Pred] {
				continue
			}
			visited[link.Pred] = true
			stack = append(stack, g.nodes[link.Pred])
		}
	}

	slices.SortFunc(order, func(a, b *node) int {
		return cmp.Compare(b.handle, a.handle)
	})
	return order
}

// accumulate adds src's contribution through link into dst's accumulator.
func accumulate(dst, src *node, link Link) {
	switch link.Kind {
	case Elementwise:
		for i := range dst.acc {
			dst.acc[i] += src.acc[i] * link.Partial[i]
		}
	case Broadcast:
		var total float64
		for i, g := range src.acc {
			total += g * link.Partial[i]
		}
		dst.acc[0] += total
	case Reduce:
		for i := range dst.acc {
			dst.acc[i] += src.acc[0] * link.Partial[i]
		}
	}
}
