package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmap/pkg/api"
	"github.com/matzehuels/topicmap/pkg/cache"
	"github.com/matzehuels/topicmap/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

The server exposes layout and rendering under /v1 without authentication and
the per-user endpoints (generate, maps, topics, recommendations) behind the
X-User-ID header. It stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config()
			if addr == "" {
				addr = cfg.Server.Addr
			}

			backend, err := c.newCache(ctx, noCache)
			if err != nil {
				return err
			}
			backend = cache.Instrument(backend)
			runner := pipeline.NewRunner(backend, nil, c.Logger)
			client := c.newOpenAIClient(backend)
			runner.Generator = client
			defer runner.Close()

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := api.New(runner, st, client, c.Logger, api.Config{
				MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
				LinkTemplate:   cfg.Server.LinkTemplate,
				Iterations:     cfg.Layout.Iterations,
				Seed:           cfg.Layout.Seed,
			})
			printInfo("Listening on %s", StyleHighlight.Render(addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
