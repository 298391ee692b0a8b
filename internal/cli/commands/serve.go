package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/gdpplot/internal/server"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Addr  string
	Watch bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve GDP series and plots over HTTP",
		Long: `Start an HTTP API over the configured GDP table.

Routes:
  GET /healthz                      liveness
  GET /api/series?country=...       JSON series (min_year, max_year optional)
  GET /api/countries                sorted table keys with codes
  GET /api/plot.{svg|json|csv|xlsx} rendered plot
  GET /api/events                   server-sent "source-changed" events
  GET /metrics                      Prometheus metrics`,
		Example: `  # Serve on the default address (:8765)
  gdpplot serve

  # Custom address without file watching
  gdpplot serve --addr 127.0.0.1:9000 --watch=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Address to listen on (default: serve.addr)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Watch the source file for changes")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cc := NewCommandContext(cmd)
	cfg := cc.Cfg

	addr := cfg.Serve.Addr
	if opts.Addr != "" {
		addr = opts.Addr
	}
	watch := cfg.Serve.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	srv := server.New(server.Config{
		Dataset:         cfg.DatasetConfig(),
		CodeFieldName:   cfg.Dataset.CodeFieldName,
		Addr:            addr,
		Watch:           watch,
		RateLimit:       cfg.Serve.RateLimit,
		Burst:           cfg.Serve.Burst,
		ShutdownTimeout: cfg.Serve.ShutdownTimeout,
		Title:           cfg.Plot.Title,
		Width:           cfg.Plot.Width,
		Height:          cfg.Plot.Height,
		Logger:          cc.Logger,
	})

	cc.Renderer.Printf("Serving %s on %s\n", cfg.Dataset.SourcePath, addr)
	cc.Renderer.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Serve(ctx)
}
