package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rnagraph/pkg/pipeline"
	"github.com/matzehuels/rnagraph/pkg/server"
)

type serveOpts struct {
	addr     string
	mongoURI string
	noCache  bool
}

// serveCommand runs the HTTP API until the context is cancelled.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes building, loop classification and rendering over HTTP.

Built graphs are cached in the configured cache backend (use --cache redis to
share it between instances) and stored graphs are kept in MongoDB when a URI
is configured, or in memory otherwise.`,
		Example: `  rnagraph serve --addr :8080
  rnagraph serve --cache redis --mongo mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", "", "MongoDB URI for stored graphs (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)
	cfg := c.Config
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.mongoURI != "" {
		cfg.Mongo.URI = opts.mongoURI
	}
	timeout, err := cfg.timeout()
	if err != nil {
		return err
	}

	cc, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cc, nil, logger)
	defer runner.Close()

	st, err := cfg.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(context.WithoutCancel(ctx))

	logger.Info("starting server",
		"addr", cfg.Server.Addr,
		"cache", cfg.Cache.Backend,
		"mongo", cfg.Mongo.URI != "")

	srv := server.New(server.Config{
		Runner:  runner,
		Store:   st,
		Logger:  logger,
		Timeout: timeout,
	})
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
