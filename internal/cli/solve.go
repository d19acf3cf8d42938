package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/twbisect/pkg/pipeline"
	"github.com/matzehuels/twbisect/pkg/render/nodelink"
)

// inputFlags are shared by every command that reads an instance.
type inputFlags struct {
	graphPath string
	treePath  string
	trivial   bool
	validate  bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.graphPath, "graph", "g", "", "graph file (PACE .gr)")
	cmd.Flags().StringVarP(&f.treePath, "tree", "t", "", "tree decomposition file (PACE .td)")
	cmd.Flags().BoolVar(&f.trivial, "trivial", false, "use the single-bag decomposition instead of --tree")
	cmd.Flags().BoolVar(&f.validate, "validate", false, "check the decomposition against the graph")
	_ = cmd.MarkFlagRequired("graph")
	cmd.MarkFlagsMutuallyExclusive("tree", "trivial")
	cmd.MarkFlagsOneRequired("tree", "trivial")
}

// options reads the input files into pipeline options.
func (f *inputFlags) options() (pipeline.Options, error) {
	opts := pipeline.Options{Trivial: f.trivial, Validate: f.validate}
	var err error
	if opts.GraphText, err = readInput(f.graphPath); err != nil {
		return opts, err
	}
	if !f.trivial {
		if opts.TreeText, err = readInput(f.treePath); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		in       inputFlags
		workers  int
		noCache  bool
		refresh  bool
		showPath string
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Compute the maximum-weight bisection of a graph",
		Long: `Compute the maximum-weight bisection of a graph.

The graph (-g) is read in PACE .gr format. The tree decomposition (-t) is read
in PACE .td format and normalized into a nice tree decomposition before the
dynamic program runs. With --trivial the whole vertex set forms a single bag,
which only works for graphs with at most 31 vertices.

Results are cached by content hash; use --refresh to recompute.`,
		Example: `  twbisect solve -g instance.gr -t instance.td
  twbisect solve -g small.gr --trivial --workers 1
  twbisect solve -g instance.gr -t instance.td --show tree.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := in.options()
			if err != nil {
				return err
			}
			opts.Workers = workers
			if opts.Workers == 0 {
				opts.Workers = c.Config.Workers
			}
			opts.Refresh = refresh
			return c.runSolve(cmd.Context(), opts, noCache, showPath)
		},
	}

	in.register(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel workers per layer (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")
	cmd.Flags().StringVar(&showPath, "show", "", "also render the nice tree decomposition to this file (.svg, .dot, .pdf, .png)")

	return cmd
}

func (c *CLI) runSolve(ctx context.Context, opts pipeline.Options, noCache bool, showPath string) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer closeRunner(ctx, runner, c.Logger)

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Solving...")
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Solve failed")
		return err
	}
	spinner.Stop()
	prog.done("Solved instance")

	printStats(res.Stats, opts.Trivial)
	printNewline()
	printSuccess("Max bisection weight: %s", StyleNumber.Render(strconv.FormatFloat(res.Weight, 'g', -1, 64)))
	printTimings(res.Stats, res.CacheHit)
	if runner.Store != nil {
		printDetail("run %s", res.RunID)
	}

	if showPath == "" {
		return nil
	}
	p, err := runner.Prepare(ctx, opts)
	if err != nil {
		return err
	}
	if err := writeRendered(ctx, nodelink.TreeDOT(p.Nice, nodelink.Options{}), showPath); err != nil {
		return err
	}
	printFile(showPath)
	return nil
}
