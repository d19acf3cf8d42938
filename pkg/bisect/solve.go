package bisect

import (
	"context"

	"github.com/matzehuels/twbisect/pkg/graph"
	"github.com/matzehuels/twbisect/pkg/nice"
	"github.com/matzehuels/twbisect/pkg/td"
)

// Solve normalizes dec and returns the maximum bisection weight of g.
func Solve(ctx context.Context, g *graph.Graph, dec *td.Decomposition, opts Options) (Result, error) {
	d, err := nice.Normalize(g, dec)
	if err != nil {
		return Result{}, err
	}
	return Compute(ctx, d, opts)
}

// SolveTrivial evaluates g over the single-bag decomposition.
func SolveTrivial(ctx context.Context, g *graph.Graph, opts Options) (Result, error) {
	d, err := nice.Trivial(g)
	if err != nil {
		return Result{}, err
	}
	return Compute(ctx, d, opts)
}
