// Package render converts rendered SVG into other output formats.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The [nodelink] subpackage
// produces the SVG from Graphviz DOT.
//
//	svg, err := nodelink.RenderSVG(ctx, nodelink.TreeDOT(d, nodelink.Options{}))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// # Formats
//
// [ParseFormat] recognises the output formats accepted on the command line.
//
// [nodelink]: github.com/matzehuels/twbisect/pkg/render/nodelink
package render
