package graph

import (
	"errors"

	"github.com/charmbracelet/log"

	twerrors "github.com/matzehuels/twbisect/pkg/errors"
)

var (
	// ErrTooFewVertices is returned by [New] when the vertex count is below 2.
	ErrTooFewVertices = errors.New("graph needs at least 2 vertices")

	// ErrVertexRange is returned when a vertex id lies outside [1, n].
	ErrVertexRange = errors.New("vertex out of range")

	// ErrSelfLoop is returned when an edge from a vertex to itself is requested.
	ErrSelfLoop = errors.New("self-loops are not supported")

	// ErrTooManyVertices is returned by [ParseLimited] for a header above its bound.
	ErrTooManyVertices = errors.New("too many vertices")
)

// Edge is a weighted vertex pair with U < V.
type Edge struct {
	U, V   int
	Weight float64
}

// Graph is an undirected graph with a fixed vertex count and a dense
// upper-triangular weight matrix.
//
// The zero value is not usable - use New.
type Graph struct {
	n       int
	weights []float64 // row u holds pairs (u, u+1..n)
	logger  *log.Logger
}

// New creates a graph with n vertices and no edges.
// Returns an INVALID_GRAPH error wrapping ErrTooFewVertices if n < 2.
func New(n int) (*Graph, error) {
	if n < 2 {
		return nil, twerrors.Wrap(twerrors.ErrCodeInvalidGraph, ErrTooFewVertices, "got %d vertices", n)
	}
	return &Graph{
		n:       n,
		weights: make([]float64, n*(n-1)/2),
		logger:  log.Default(),
	}, nil
}

// SetLogger replaces the logger used for diagnostics. A nil logger is ignored.
func (g *Graph) SetLogger(l *log.Logger) {
	if l != nil {
		g.logger = l
	}
}

// Vertices returns the number of vertices.
func (g *Graph) Vertices() int { return g.n }

// SetWeight sets the weight of the undirected edge {u, v}.
func (g *Graph) SetWeight(u, v int, w float64) error {
	i, err := g.index(u, v)
	if err != nil {
		return err
	}
	g.weights[i] = w
	return nil
}

// AddEdge sets the weight of {u, v} to 1.
func (g *Graph) AddEdge(u, v int) error {
	return g.SetWeight(u, v, 1.0)
}

// Weight returns the weight of {u, v}, 0 if the edge was never set.
func (g *Graph) Weight(u, v int) (float64, error) {
	i, err := g.index(u, v)
	if err != nil {
		return 0, err
	}
	return g.weights[i], nil
}

// WeightSafe returns the weight of {u, v} without failing on u == v: a
// coinciding pair yields 0 and a logged warning. Out-of-range vertices still
// panic, since they can only come from a broken caller.
func (g *Graph) WeightSafe(u, v int) float64 {
	if u == v {
		g.logger.Warn("edge weight requested for a vertex and itself", "vertex", u)
		return 0
	}
	if u > v {
		u, v = v, u
	}
	return g.weights[g.offset(u, v)]
}

// Edges returns every pair with non-zero weight, ordered by (U, V).
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for u := 1; u < g.n; u++ {
		for v := u + 1; v <= g.n; v++ {
			if w := g.weights[g.offset(u, v)]; w != 0 {
				edges = append(edges, Edge{U: u, V: v, Weight: w})
			}
		}
	}
	return edges
}

// EdgeCount returns the number of pairs with non-zero weight.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, w := range g.weights {
		if w != 0 {
			count++
		}
	}
	return count
}

// TotalWeight returns the sum of all edge weights.
func (g *Graph) TotalWeight() float64 {
	total := 0.0
	for _, w := range g.weights {
		total += w
	}
	return total
}

func (g *Graph) index(u, v int) (int, error) {
	if u < 1 || u > g.n {
		return 0, twerrors.Wrap(twerrors.ErrCodeInvalidGraph, ErrVertexRange, "invalid vertex u=%d (n=%d)", u, g.n)
	}
	if v < 1 || v > g.n {
		return 0, twerrors.Wrap(twerrors.ErrCodeInvalidGraph, ErrVertexRange, "invalid vertex v=%d (n=%d)", v, g.n)
	}
	if u == v {
		return 0, twerrors.Wrap(twerrors.ErrCodeInvalidGraph, ErrSelfLoop, "vertex %d", u)
	}
	if u > v {
		u, v = v, u
	}
	return g.offset(u, v), nil
}

// offset maps 1 <= u < v <= n to the flat triangular index.
func (g *Graph) offset(u, v int) int {
	i := u - 1
	return i*(2*g.n-i-1)/2 + (v - u - 1)
}
