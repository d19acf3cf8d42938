// Package pkg provides the core libraries for twbisect, a maximum-weight graph
// bisection solver driven by tree decompositions.
//
// # Overview
//
// A bisection splits the vertices of a graph into two halves whose sizes differ
// by at most one; its weight is the total weight of the edges crossing the cut.
// Finding the heaviest bisection is NP-hard in general but solvable in
// O(2^tw · n^2) time given a tree decomposition of width tw. The pkg directory
// is organized into four main areas:
//
//  1. [graph], [td] - Input model and the PACE 2017 .gr/.td formats
//  2. [nice] - Nice tree decompositions and the normalizer building them
//  3. [bisect] - The layer-parallel dynamic program
//  4. [pipeline] - Orchestration (parse → normalize → evaluate) with caching
//
// # Architecture
//
// The typical data flow through twbisect:
//
//	.gr graph + .td decomposition
//	         ↓
//	    [graph] / [td] packages (parse, validate, assemble the tree)
//	         ↓
//	    [nice] package (normalize into Leaf/Introduce/Forget/Join nodes, BFS layers)
//	         ↓
//	    [bisect] package (subset-mask DP, deepest layer first)
//	         ↓
//	    max bisection weight
//
// # Quick Start
//
//	g, _ := graph.ReadFile("instance.gr")
//	dec, _ := td.ReadFile("instance.td")
//
//	res, err := bisect.Solve(ctx, g, dec, bisect.Options{Workers: 8})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Weight)
//
// # Main Packages
//
// ## Core Domain Logic
//
// [graph] - Dense weighted undirected graph over vertices 1..n.
//
// [td] - Generic tree decomposition: bags, tree-edge assembly and validation
// against a graph.
//
// [nice] - Arena-backed nice tree decomposition. [nice.Normalize] converts a
// generic decomposition; the resulting nodes are grouped into BFS layers from
// the root.
//
// [bisect] - Per-node DP tables indexed by (subset mask, left-side count),
// evaluated one layer at a time with a bounded worker pool.
//
// ## Infrastructure
//
// [pipeline] - Parse → normalize → evaluate, shared by the CLI and the HTTP
// API so both cache and record runs the same way.
//
// [cache] - Result cache keyed by content hash: file, Redis and no-op backends.
//
// [store] - Run history in MongoDB or memory.
//
// [server] - HTTP API (chi) over the pipeline.
//
// [config] - TOML configuration file.
//
// [observability] - Hooks around pipeline stages, cache access and requests.
//
// [errors] - Coded errors and input validation.
//
// ## Visualization
//
// [render/nodelink] - Graphviz drawings of the graph and the nice tree.
//
// [render] - Format conversion (SVG to PDF/PNG).
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/bisect/...             # Specific package
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/twbisect/pkg/graph
// [td]: https://pkg.go.dev/github.com/matzehuels/twbisect/pkg/td
// [nice]: https://pkg.go.dev/github.com/matzehuels/twbisect/pkg/nice
// [nice.Normalize]: https://pkg.go.dev/github.com/matzehuels/twbisect/pkg/nice#Normalize
// [bisect]: https://pkg.go.dev/github.com/matzehuels/twbisect/pkg/bisect
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/twbisect/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/twbisect/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/twbisect/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/twbisect/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/twbisect/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/twbisect/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/twbisect/pkg/errors
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/twbisect/pkg/render/nodelink
// [render]: https://pkg.go.dev/github.com/matzehuels/twbisect/pkg/render
package pkg
