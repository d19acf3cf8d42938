package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/twbisect/pkg/pipeline"
	"github.com/matzehuels/twbisect/pkg/render"
	"github.com/matzehuels/twbisect/pkg/render/nodelink"
)

// Visualization targets.
const (
	targetGraph = "graph"
	targetTree  = "tree"
)

// visualizeCommand creates the visualize command.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		in       inputFlags
		targets  []string
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Render the graph and its nice tree decomposition",
		Long: `Render the graph and its nice tree decomposition.

The graph is drawn as an undirected node-link diagram. The nice tree is drawn
top-down from its root with nodes colored by kind: leaf grey, introduce light
blue, forget red, join orange.

PDF and PNG output requires rsvg-convert (librsvg).`,
		Example: `  twbisect visualize -g instance.gr -t instance.td
  twbisect visualize -g instance.gr -t instance.td --target tree -f pdf -o tree.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			opts, err := in.options()
			if err != nil {
				return err
			}
			base := strings.TrimSuffix(output, filepath.Ext(output))
			if base == "" {
				base = strings.TrimSuffix(in.graphPath, filepath.Ext(in.graphPath))
			}
			return c.runVisualize(cmd.Context(), opts, targets, f, output, base, nodelink.Options{Detailed: detailed})
		},
	}

	in.register(cmd)
	cmd.Flags().StringSliceVar(&targets, "target", []string{targetGraph, targetTree}, "what to render: graph, tree (comma-separated)")
	cmd.Flags().StringVarP(&format, "format", "f", string(render.FormatSVG), "output format: svg, dot, pdf, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single target) or base path (default: graph file without extension)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show node id, layer and forgotten count in tree nodes")

	return cmd
}

func (c *CLI) runVisualize(ctx context.Context, opts pipeline.Options, targets []string, format render.Format, output, base string, treeOpts nodelink.Options) error {
	runner := pipeline.NewRunner(nil, nil, nil, c.Logger)
	p, err := runner.Prepare(ctx, opts)
	if err != nil {
		return err
	}

	for _, target := range targets {
		var dot string
		switch target {
		case targetGraph:
			dot = nodelink.GraphDOT(p.Graph)
		case targetTree:
			dot = nodelink.TreeDOT(p.Nice, treeOpts)
		default:
			return fmt.Errorf("unknown target %q (want graph or tree)", target)
		}
		path := outputPath(base, output, target, format, len(targets))
		if err := writeRendered(ctx, dot, path, format); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// outputPath derives the file for one target. An explicit output is used
// as-is when there is a single target.
func outputPath(base, output, target string, format render.Format, targets int) string {
	if output != "" && targets == 1 {
		return output
	}
	return fmt.Sprintf("%s.%s.%s", base, target, format)
}

// writeRendered renders dot in format and writes it to path. An empty format
// is taken from the file extension.
func writeRendered(ctx context.Context, dot, path string, format ...render.Format) error {
	var f render.Format
	if len(format) > 0 && format[0] != "" {
		f = format[0]
	} else {
		var err error
		if f, err = render.ParseFormat(filepath.Ext(path)); err != nil {
			return err
		}
	}
	data, err := nodelink.Render(ctx, dot, f)
	if err != nil {
		return fmt.Errorf("render %s: %w", f, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
