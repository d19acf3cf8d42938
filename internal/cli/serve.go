package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/twbisect/pkg/observability"
	"github.com/matzehuels/twbisect/pkg/pipeline"
	"github.com/matzehuels/twbisect/pkg/server"
	"github.com/matzehuels/twbisect/pkg/store"
)

// serveCommand creates the HTTP API command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bisection API over HTTP",
		Long: `Serve the bisection API over HTTP.

Routes:
  GET  /healthz
  POST /v1/bisect       {"graph": "...", "tree_decomposition": "...", "trivial": false}
  GET  /v1/runs?limit=n
  GET  /v1/runs/{id}

Results are cached in the configured backend (file or redis). Runs are
recorded in MongoDB when [store] mongo_uri is set, otherwise in memory.
Instances above [server] max_vertices or max_width are answered with 422.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	if runner.Store == nil {
		runner.Store = store.NewMemoryStore()
		c.Logger.Info("recording runs in memory")
	}
	defer closeRunner(ctx, runner, c.Logger)
	runner.Limits = c.serverLimits()

	if c.Logger.GetLevel() <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		defer observability.Reset()
	}

	srv := server.New(runner, c.Logger)
	srv.Workers = c.Config.Workers
	return srv.ListenAndServe(ctx, addr)
}

// serverLimits bounds API requests; local commands run unbounded.
func (c *CLI) serverLimits() pipeline.Limits {
	return pipeline.Limits{
		MaxVertices: c.Config.Server.MaxVertices,
		MaxWidth:    c.Config.Server.MaxWidth,
	}
}

func closeRunner(ctx context.Context, r *pipeline.Runner, logger *log.Logger) {
	if err := r.Close(context.WithoutCancel(ctx)); err != nil {
		logger.Warn("closing backends", "err", err)
	}
}
