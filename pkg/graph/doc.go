// Package graph provides the weighted undirected graph consumed by the
// bisection solver, together with a codec for the PACE treewidth graph format.
//
// # Core Type
//
// [Graph] stores a fixed number of vertices, identified 1..n, and a symmetric
// edge-weight function with default weight 0. Self-loops are not supported.
// The vertex count is fixed at construction; weights are set once while
// loading and only read afterwards, so a loaded Graph can be shared by
// concurrent readers.
//
//	g, _ := graph.New(5)
//	_ = g.AddEdge(1, 2)            // weight 1.0
//	_ = g.SetWeight(2, 3, 2.5)
//	w, _ := g.Weight(3, 2)         // 2.5
//
// [Graph.WeightSafe] is the lookup used inside the dynamic program, where
// indices are generated programmatically and may coincide: for u == v it
// returns 0 and logs a warning instead of failing.
//
// # PACE Format
//
// Graphs are read from the PACE ".gr" format:
//
//	c comment lines start with "c" and may appear anywhere
//	p tw 5 4
//	1 2
//	2 3
//	3 4
//	4 5
//
// Each edge line adds an edge of weight 1.0. Use [Parse], [ParseString] or
// [ReadFile] to load, and [Format] to write a graph back out.
package graph
