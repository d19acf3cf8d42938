package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/twbisect/pkg/graph"
	"github.com/matzehuels/twbisect/pkg/nice"
	"github.com/matzehuels/twbisect/pkg/render"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds handles, layers and forgotten counts to tree labels.
	Detailed bool
}

// kindColors are the fill colors of tree nodes.
var kindColors = map[nice.Kind]string{
	nice.KindLeaf:      "lightgrey",
	nice.KindIntroduce: "lightblue",
	nice.KindForget:    "red",
	nice.KindJoin:      "orange",
}

// GraphDOT converts g to an undirected Graphviz graph.
func GraphDOT(g *graph.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for v := 1; v <= g.Vertices(); v++ {
		fmt.Fprintf(&buf, "  v%d [label=%q];\n", v, "Vertex "+strconv.Itoa(v))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if e.Weight == 1 {
			fmt.Fprintf(&buf, "  v%d -- v%d;\n", e.U, e.V)
			continue
		}
		fmt.Fprintf(&buf, "  v%d -- v%d [label=%q];\n", e.U, e.V, strconv.FormatFloat(e.Weight, 'g', -1, 64))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// TreeDOT converts the nice tree decomposition d to a directed Graphviz graph
// with edges from parent to child.
func TreeDOT(d *nice.Decomposition, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph T {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for depth, layer := range d.Layers {
		for _, id := range layer {
			n := d.Node(id)
			label := fmtLabel(n, depth, id == d.Root, opts.Detailed)
			fmt.Fprintf(&buf, "  n%d [label=%q, fillcolor=%q];\n", id, label, kindColors[n.Kind])
		}
	}

	buf.WriteString("\n")
	for _, layer := range d.Layers {
		for _, id := range layer {
			for _, c := range d.Node(id).Children() {
				fmt.Fprintf(&buf, "  n%d -> n%d;\n", id, c)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *nice.Node, depth int, root, detailed bool) string {
	label := n.String()
	if root {
		label = "Root: " + label
	}
	if !detailed {
		return label
	}
	parts := []string{
		label,
		fmt.Sprintf("node: %d", n.ID),
		fmt.Sprintf("layer: %d", depth),
		fmt.Sprintf("forgotten: %d", n.Forgotten),
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the drawing scales with its
// container, dropping Graphviz's pt units.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}

// Render produces dot in the requested format.
func Render(ctx context.Context, dot string, format render.Format) ([]byte, error) {
	switch format {
	case render.FormatDOT:
		return []byte(dot), nil
	case render.FormatSVG:
		return RenderSVG(ctx, dot)
	case render.FormatPDF:
		return RenderPDF(ctx, dot)
	case render.FormatPNG:
		return RenderPNG(ctx, dot, 2.0)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}
