package bisect

import (
	"math/bits"

	"github.com/matzehuels/twbisect/pkg/graph"
	"github.com/matzehuels/twbisect/pkg/nice"
)

// LeafOrJoinWeights returns, for every mask s over n's bag, the weight of
// edges between bag vertices in s and bag vertices outside s.
//
// Mask s is derived from s' = s minus its lowest vertex v: edges from v into
// s' stop crossing and edges from v to the rest of the bag start crossing.
func LeafOrJoinWeights(g *graph.Graph, n *nice.Node) []float64 {
	ws := make([]float64, n.NumSubsets())
	for s := 1; s < len(ws); s++ {
		vi := bits.TrailingZeros(uint(s))
		known := s &^ (1 << vi)
		v := n.Bag[vi]

		var inside, outside float64
		for ui, u := range n.Bag {
			if ui == vi {
				continue
			}
			w := g.WeightSafe(u, v)
			if known&(1<<ui) != 0 {
				inside += w
			} else {
				outside += w
			}
		}
		ws[s] = ws[known] - inside + outside
	}
	return ws
}

// IntroduceWeights returns, for every mask s over the child bag of the
// Introduce node n, the weight of edges from the introduced vertex into s.
func IntroduceWeights(g *graph.Graph, t *nice.Tree, n *nice.Node) []float64 {
	child := t.Node(n.Child)
	di := make([]float64, child.NumSubsets())
	for s := 1; s < len(di); s++ {
		ui := bits.TrailingZeros(uint(s))
		di[s] = di[s&^(1<<ui)] + g.WeightSafe(child.Bag[ui], n.Vertex)
	}
	return di
}
