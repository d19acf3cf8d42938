package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/twbisect/pkg/pipeline"
)

// inspectCommand creates the interactive layer browser command.
func (c *CLI) inspectCommand() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Browse the nice tree decomposition layer by layer",
		Long: `Browse the nice tree decomposition layer by layer.

Opens a terminal UI positioned on the root. Move between nodes of a layer
with up/down, between layers with left/right, and follow tree edges with
enter (first child) and p (parent).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := in.options()
			if err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), opts)
		},
	}

	in.register(cmd)
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, opts pipeline.Options) error {
	runner := pipeline.NewRunner(nil, nil, nil, c.Logger)
	p, err := runner.Prepare(ctx, opts)
	if err != nil {
		return err
	}

	prog := tea.NewProgram(NewInspectModel(p.Nice), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("inspect: %w", err)
	}
	return nil
}
