// Package bisect computes the maximum-weight bisection of a graph by dynamic
// programming over a nice tree decomposition.
//
// # Overview
//
// A bisection splits the vertex set into sides A and B with |A| = floor(n/2).
// Its weight is the total weight of edges crossing the split. [Compute] finds
// the largest such weight in time exponential only in the width k of the
// decomposition and polynomial in n, so graphs with small treewidth are
// solved exactly even when they have many vertices.
//
// # Tables
//
// Each node i gets a [Table] B_i[S][l], indexed by a subset mask S of its bag
// (the vertices on side A) and a count l of forgotten vertices placed on
// side A. B_i[S][l] is the best crossing weight among edges with both ends in
// the subtree below i. Unreachable cells hold math.Inf(-1), which the
// recurrences propagate through max and addition without special cases.
//
// Leaf and Join tables need the crossing weight of every split of the bag
// itself ([LeafOrJoinWeights]); Introduce tables need the weight from the new
// vertex to every subset of the child's bag ([IntroduceWeights]). Both are
// built incrementally by adding the lowest set bit of each mask, O(2^k * k)
// and O(2^k) respectively.
//
// # Evaluation Order
//
// Layers of the [nice.Decomposition] are processed deepest first. Nodes
// within one layer only read tables of the layer below, so they run
// concurrently on a bounded pool:
//
//	res, err := bisect.Compute(ctx, d, bisect.Options{Workers: 4})
//
// A layer finishes completely before the next one starts, after which the
// older tables are released. At most two layers' tables are alive at once.
// Cancelling ctx stops evaluation at the next layer boundary.
//
// # Entry Points
//
// [Solve] normalizes a generic decomposition and evaluates it. [SolveTrivial]
// uses the single-bag decomposition, which is only practical for graphs with
// at most [nice.MaxBagSize] vertices and mostly serves as a cross-check.
package bisect
