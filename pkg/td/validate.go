package td

import (
	twerrors "github.com/matzehuels/twbisect/pkg/errors"
	"github.com/matzehuels/twbisect/pkg/graph"
)

// Validate checks that d is a tree decomposition of g: every vertex lies in
// some bag, every edge lies inside some bag, and the bags containing any one
// vertex form a connected subtree.
func (d *Decomposition) Validate(g *graph.Graph) error {
	if d.Root == nil {
		return twerrors.New(twerrors.ErrCodeInvalidDecomposition, "tree decomposition has no root")
	}
	n := g.Vertices()
	if d.NumVertices != 0 && d.NumVertices != n {
		return twerrors.New(twerrors.ErrCodeInvalidDecomposition,
			"decomposition declares %d vertices, graph has %d", d.NumVertices, n)
	}

	// tops[v] counts bags holding v whose parent does not; a connected
	// subtree has exactly one such top.
	tops := make([]int, n+1)
	holders := make([][]*Bag, n+1)

	var walk func(b, parent *Bag) error
	walk = func(b, parent *Bag) error {
		for _, v := range b.Vertices {
			if v < 1 || v > n {
				return twerrors.New(twerrors.ErrCodeInvalidDecomposition,
					"bag %d holds vertex %d outside [1,%d]", b.Index, v, n)
			}
			holders[v] = append(holders[v], b)
			if parent == nil || !parent.Contains(v) {
				tops[v]++
			}
		}
		for _, c := range b.Children {
			if err := walk(c, b); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(d.Root, nil); err != nil {
		return err
	}

	for v := 1; v <= n; v++ {
		switch {
		case tops[v] == 0:
			return twerrors.New(twerrors.ErrCodeInvalidDecomposition, "vertex %d is not in any bag", v)
		case tops[v] > 1:
			return twerrors.New(twerrors.ErrCodeInvalidDecomposition,
				"bags containing vertex %d are not connected", v)
		}
	}

	for _, e := range g.Edges() {
		covered := false
		for _, b := range holders[e.U] {
			if b.Contains(e.V) {
				covered = true
				break
			}
		}
		if !covered {
			return twerrors.New(twerrors.ErrCodeInvalidDecomposition, "edge %d-%d is not covered by any bag", e.U, e.V)
		}
	}
	return nil
}
