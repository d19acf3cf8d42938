package bisect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	twerrors "github.com/matzehuels/twbisect/pkg/errors"
	"github.com/matzehuels/twbisect/pkg/nice"
)

var (
	// ErrMissingChild is returned when a node's child table was not computed
	// in the layer below. It indicates a malformed layering.
	ErrMissingChild = errors.New("child table missing")

	// ErrNoBisection is returned when no root cell describes a balanced split.
	ErrNoBisection = errors.New("no valid bisection")
)

// Options configures [Compute].
type Options struct {
	// Workers bounds the number of nodes evaluated concurrently within a
	// layer. Zero means runtime.GOMAXPROCS(0).
	Workers int

	// Logger receives per-layer debug progress. Nil discards it.
	Logger *log.Logger
}

// WithDefaults returns a copy of o with zero fields filled in.
func (o Options) WithDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Result is the outcome of [Compute].
type Result struct {
	Weight    float64 // maximum bisection weight
	Layers    int     // layers evaluated
	PeakCells int     // largest number of table cells alive at once
}

// Compute evaluates the DP over d bottom-up and returns the maximum
// bisection weight. Side A holds floor((f+r)/2) vertices, where f is the
// root's forgotten count and r its bag size; for a decomposition covering
// every vertex of the graph that is floor(n/2).
func Compute(ctx context.Context, d *nice.Decomposition, opts Options) (Result, error) {
	opts = opts.WithDefaults()
	if len(d.Layers) == 0 {
		return Result{}, twerrors.New(twerrors.ErrCodeInternal, "decomposition has no layers")
	}

	var (
		res  = Result{Layers: d.Depth()}
		prev map[nice.NodeID]*Table
	)
	for depth := len(d.Layers) - 1; depth >= 0; depth-- {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("evaluate layer %d: %w", depth, err)
		}
		layer := d.Layers[depth]
		tables := make([]*Table, len(layer))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i, id := range layer {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				t, err := evaluateNode(d, d.Node(id), prev)
				tables[i] = t
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, fmt.Errorf("evaluate layer %d: %w", depth, err)
		}

		cur := make(map[nice.NodeID]*Table, len(layer))
		cells := 0
		for i, id := range layer {
			cur[id] = tables[i]
			cells += tables[i].Cells()
		}
		res.PeakCells = max(res.PeakCells, cells+countCells(prev))
		opts.Logger.Debug("layer evaluated", "depth", depth, "nodes", len(layer), "cells", cells)
		prev = cur
	}

	w, err := extract(d.RootNode(), prev[d.Root])
	if err != nil {
		return Result{}, err
	}
	res.Weight = w
	return res, nil
}

// extract picks the best root cell whose side A holds exactly
// floor((forgotten + bag size) / 2) vertices.
func extract(root *nice.Node, t *Table) (float64, error) {
	if t == nil {
		return 0, twerrors.Wrap(twerrors.ErrCodeInternal, ErrMissingChild, "root table")
	}
	target := (root.Forgotten + root.Size()) / 2
	best := negInf
	for s := range root.NumSubsets() {
		l := target - bits.OnesCount(uint(s))
		if l < 0 || l > root.Forgotten {
			continue
		}
		best = math.Max(best, t.At(s, l))
	}
	if math.IsInf(best, -1) {
		return 0, twerrors.Wrap(twerrors.ErrCodeInternal, ErrNoBisection, "root %s", root)
	}
	return best, nil
}

func countCells(tables map[nice.NodeID]*Table) int {
	n := 0
	for _, t := range tables {
		n += t.Cells()
	}
	return n
}

func childTable(prev map[nice.NodeID]*Table, id nice.NodeID) (*Table, error) {
	t, ok := prev[id]
	if !ok {
		return nil, twerrors.Wrap(twerrors.ErrCodeInternal, ErrMissingChild, "node %d", id)
	}
	return t, nil
}

// evaluateNode fills the table of n from the tables of its children.
func evaluateNode(d *nice.Decomposition, n *nice.Node, prev map[nice.NodeID]*Table) (*Table, error) {
	f := n.Forgotten
	t := NewTable(n.NumSubsets(), f)

	switch n.Kind {
	case nice.KindLeaf:
		ws := LeafOrJoinWeights(d.Graph, n)
		for s, w := range ws {
			t.Set(s, 0, w)
		}

	case nice.KindIntroduce:
		child, err := childTable(prev, n.Child)
		if err != nil {
			return nil, err
		}
		di := IntroduceWeights(d.Graph, d.Tree, n)
		for s := range n.NumSubsets() {
			// weight from the new vertex to the opposite side
			opposite := s
			if n.HasNewVertex(s) {
				opposite = n.Complement(s)
			}
			w := di[n.ChildSubset(opposite)]
			src := child.Row(n.ChildSubset(s))
			dst := t.Row(s)
			for l := range dst {
				dst[l] = src[l] + w
			}
		}

	case nice.KindForget:
		child, err := childTable(prev, n.Child)
		if err != nil {
			return nil, err
		}
		for s := range n.NumSubsets() {
			without := child.Row(n.ForgetChildSubset(s, false))
			with := child.Row(n.ForgetChildSubset(s, true))
			for l := 0; l <= f; l++ {
				b := negInf
				if l < f {
					b = without[l]
				}
				if l > 0 {
					b = math.Max(b, with[l-1])
				}
				t.Set(s, l, b)
			}
		}

	case nice.KindJoin:
		left, err := childTable(prev, n.Left)
		if err != nil {
			return nil, err
		}
		right, err := childTable(prev, n.Right)
		if err != nil {
			return nil, err
		}
		fl := d.Node(n.Left).Forgotten
		fr := d.Node(n.Right).Forgotten
		ws := LeafOrJoinWeights(d.Graph, n)
		for s := range n.NumSubsets() {
			lrow, rrow := left.Row(s), right.Row(s)
			for l := 0; l <= f; l++ {
				b := negInf
				for l1 := max(0, l-fr); l1 <= min(l, fl); l1++ {
					b = math.Max(b, lrow[l1]+rrow[l-l1]-ws[s])
				}
				t.Set(s, l, b)
			}
		}

	default:
		return nil, twerrors.New(twerrors.ErrCodeInternal, "unknown node kind %s", n.Kind)
	}
	return t, nil
}
