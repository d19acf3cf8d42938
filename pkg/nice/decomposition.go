package nice

import (
	"errors"

	"github.com/matzehuels/twbisect/pkg/graph"

	twerrors "github.com/matzehuels/twbisect/pkg/errors"
)

// MaxBagSize is the largest bag the subset-mask DP can address.
const MaxBagSize = 31

// ErrTreewidthTooLarge is returned by [New] when a bag exceeds [MaxBagSize].
var ErrTreewidthTooLarge = errors.New("treewidth too large")

// ErrVertexOutOfRange is returned when a bag names a vertex the graph does
// not have.
var ErrVertexOutOfRange = errors.New("bag vertex out of range")

// Decomposition is a rooted nice tree decomposition of a graph together with
// its breadth-first layering.
type Decomposition struct {
	Tree     *Tree
	Root     NodeID
	Graph    *graph.Graph
	Width    int        // max bag size - 1
	NumNodes int        // nodes reachable from Root
	Layers   [][]NodeID // Layers[0] == {Root}
}

// New lays out the tree rooted at root and checks that every bag fits the
// DP's address space and only names vertices of g.
func New(g *graph.Graph, t *Tree, root NodeID) (*Decomposition, error) {
	if t.Node(root) == nil {
		return nil, twerrors.Wrap(twerrors.ErrCodeStructuralViolation, ErrUnknownNode, "root %d", root)
	}
	d := &Decomposition{Tree: t, Root: root, Graph: g}

	layer := []NodeID{root}
	for len(layer) > 0 {
		var next []NodeID
		for _, id := range layer {
			n := t.Node(id)
			if n.Size() > MaxBagSize {
				return nil, twerrors.Wrap(twerrors.ErrCodeCapacityExceeded, ErrTreewidthTooLarge,
					"width %d, at most %d supported", n.Size()-1, MaxBagSize-1)
			}
			for _, v := range n.Bag {
				if v < 1 || v > g.Vertices() {
					return nil, twerrors.Wrap(twerrors.ErrCodeInvalidDecomposition, ErrVertexOutOfRange,
						"node %d holds vertex %d, graph has %d", id, v, g.Vertices())
				}
			}
			d.Width = max(d.Width, n.Size()-1)
			d.NumNodes++
			next = append(next, n.Children()...)
		}
		d.Layers = append(d.Layers, layer)
		layer = next
	}
	return d, nil
}

// Trivial returns the single-leaf decomposition whose bag holds every vertex of g.
func Trivial(g *graph.Graph) (*Decomposition, error) {
	bag := make([]int, g.Vertices())
	for i := range bag {
		bag[i] = i + 1
	}
	t := NewTree()
	return New(g, t, t.Leaf(bag))
}

// Node returns the node for id.
func (d *Decomposition) Node(id NodeID) *Node { return d.Tree.Node(id) }

// RootNode returns the root node.
func (d *Decomposition) RootNode() *Node { return d.Tree.Node(d.Root) }

// Depth returns the number of layers.
func (d *Decomposition) Depth() int { return len(d.Layers) }

// Suboptimal reports whether the tree has more than 4n nodes, a sign that
// the input decomposition was larger than it needed to be.
func (d *Decomposition) Suboptimal() bool {
	return d.NumNodes > 4*d.Graph.Vertices()
}

// KindCounts returns the number of reachable nodes of each kind.
func (d *Decomposition) KindCounts() map[Kind]int {
	counts := make(map[Kind]int, 4)
	for _, layer := range d.Layers {
		for _, id := range layer {
			counts[d.Node(id).Kind]++
		}
	}
	return counts
}
