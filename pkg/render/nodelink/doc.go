// Package nodelink renders graphs and nice tree decompositions as Graphviz
// node-link diagrams.
//
// # Usage
//
// Convert the input graph or a nice tree decomposition to DOT, then render:
//
//	dot := nodelink.TreeDOT(d, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0) // 2x scale
//
// # Diagrams
//
// [GraphDOT] draws the undirected input graph with one circle per vertex.
// Edge weights other than 1 are shown as labels.
//
// [TreeDOT] draws the nice tree top-down from the root. Each node is a box
// labelled with its kind and bag, filled by kind:
//
//   - Leaf: light grey
//   - Introduce: light blue
//   - Forget: red
//   - Join: orange
//
// With Options.Detailed the labels also show the node handle, its layer and
// the number of forgotten vertices below it.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
