package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/twbisect/pkg/nice"
	"github.com/matzehuels/twbisect/pkg/pipeline"
)

// normalizeCommand creates the normalize command.
func (c *CLI) normalizeCommand() *cobra.Command {
	var (
		in    inputFlags
		nodes bool
	)

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Build the nice tree decomposition and print its statistics",
		Long: `Build the nice tree decomposition and print its statistics.

Prints the root, width, node counts per kind and a table of the BFS layers the
dynamic program evaluates bottom-up. With --nodes every node is listed too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := in.options()
			if err != nil {
				return err
			}
			return c.runNormalize(cmd.Context(), opts, nodes)
		},
	}

	in.register(cmd)
	cmd.Flags().BoolVar(&nodes, "nodes", false, "list every node, layer by layer")

	return cmd
}

func (c *CLI) runNormalize(ctx context.Context, opts pipeline.Options, listNodes bool) error {
	runner := pipeline.NewRunner(nil, nil, nil, c.Logger)
	p, err := runner.Prepare(ctx, opts)
	if err != nil {
		return err
	}
	d := p.Nice

	printStats(p.Stats, opts.Trivial)
	printKeyValue("Root", d.RootNode().String())
	kinds := d.KindCounts()
	for _, k := range []nice.Kind{nice.KindLeaf, nice.KindIntroduce, nice.KindForget, nice.KindJoin} {
		printKeyValue(k.String()+" nodes", kindStyles[k].Render(strconv.Itoa(kinds[k])))
	}
	printNewline()
	fmt.Fprintln(stdout, layerTable(d))

	if listNodes {
		for depth, layer := range d.Layers {
			printNewline()
			fmt.Fprintln(stdout, StyleTitle.Render(fmt.Sprintf("Layer %d", depth)))
			for _, id := range layer {
				n := d.Node(id)
				printDetail("n%-5d %s", id, kindStyles[n.Kind].Render(n.String()))
			}
		}
	}

	printNewline()
	printNextStep("Browse interactively", fmt.Sprintf("%s inspect %s", appName, inputArgs(opts)))
	return nil
}

// inputArgs is a display hint for the matching inspect invocation.
func inputArgs(opts pipeline.Options) string {
	if opts.Trivial {
		return "-g <graph> --trivial"
	}
	return "-g <graph> -t <tree>"
}
