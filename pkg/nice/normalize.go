package nice

import (
	"errors"
	"slices"

	"github.com/matzehuels/twbisect/pkg/graph"
	"github.com/matzehuels/twbisect/pkg/td"

	twerrors "github.com/matzehuels/twbisect/pkg/errors"
)

// ErrBridgeMismatch is returned when a bridged subtree does not end at its
// parent's bag. It indicates a bug, never bad input.
var ErrBridgeMismatch = errors.New("bridge did not reach parent bag")

// Normalize converts a generic tree decomposition into a nice one over a
// fresh arena.
func Normalize(g *graph.Graph, d *td.Decomposition) (*Decomposition, error) {
	if d == nil || d.Root == nil {
		return nil, twerrors.New(twerrors.ErrCodeInvalidDecomposition, "decomposition has no root")
	}
	if d.NumVertices != 0 && d.NumVertices != g.Vertices() {
		return nil, twerrors.New(twerrors.ErrCodeInvalidDecomposition,
			"decomposition declares %d vertices, graph has %d", d.NumVertices, g.Vertices())
	}
	t := NewTree()
	root, err := normalize(t, d.Root)
	if err != nil {
		return nil, err
	}
	return New(g, t, root)
}

func normalize(t *Tree, b *td.Bag) (NodeID, error) {
	if len(b.Children) == 0 {
		return t.Leaf(b.Vertices), nil
	}

	nodes := make([]NodeID, 0, len(b.Children))
	for _, c := range b.Children {
		sub, err := normalize(t, c)
		if err != nil {
			return NoNode, err
		}
		top, err := bridge(t, b.Vertices, sub)
		if err != nil {
			return NoNode, err
		}
		nodes = append(nodes, top)
	}
	if len(nodes) == 1 {
		return nodes[0], nil
	}

	// Pairwise fan-in keeps join depth at ceil(log2(children)).
	for len(nodes) > 2 {
		next := make([]NodeID, 0, (len(nodes)+1)/2)
		for i := 0; i+1 < len(nodes); i += 2 {
			j, err := t.Join(nodes[i], nodes[i+1])
			if err != nil {
				return NoNode, err
			}
			next = append(next, j)
		}
		if len(nodes)%2 == 1 {
			next = append(next, nodes[len(nodes)-1])
		}
		nodes = next
	}
	return t.Join(nodes[0], nodes[1])
}

// bridge extends child upwards until its bag equals parent: first every
// vertex of child not in parent is forgotten, then every vertex of parent
// not in child is introduced, both in ascending order.
func bridge(t *Tree, parent []int, child NodeID) (NodeID, error) {
	bag := t.Node(child).Bag
	var forget, introduce []int
	for _, v := range bag {
		if _, ok := slices.BinarySearch(parent, v); !ok {
			forget = append(forget, v)
		}
	}
	for _, v := range parent {
		if _, ok := slices.BinarySearch(bag, v); !ok {
			introduce = append(introduce, v)
		}
	}

	cur := child
	var err error
	for _, v := range forget {
		if cur, err = t.Forget(cur, v); err != nil {
			return NoNode, err
		}
	}
	for _, v := range introduce {
		if cur, err = t.Introduce(cur, v); err != nil {
			return NoNode, err
		}
	}

	if got := t.Node(cur).Bag; len(got) != len(parent) || !slices.Equal(got, parent) {
		return NoNode, twerrors.Wrap(twerrors.ErrCodeInternal, ErrBridgeMismatch,
			"got %v, want %v", got, parent)
	}
	return cur, nil
}
