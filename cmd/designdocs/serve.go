package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/designdocs/internal/config"
	"github.com/vango-dev/designdocs/pkg/middleware"
	"github.com/vango-dev/designdocs/pkg/server"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var (
		port    int
		host    string
		dev     bool
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the documentation server",
		Long: `Start the documentation server.

Every page view opens a live session; the thin client reports which
elements scroll into view and the server drives their reveal.

Examples:
  designdocs serve
  designdocs serve --port=8080 --host=0.0.0.0
  designdocs serve --dev --metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("dev") {
				cfg.Dev = dev
			}
			if cmd.Flags().Changed("metrics") {
				cfg.Metrics.Enabled = metrics
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := cfg.Logger(cmd.ErrOrStderr())
			srv, err := newServer(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success(cmd.OutOrStdout(), "Serving %s on http://%s", cfg.Name, cfg.Address())
			if cfg.Dev {
				info(cmd.OutOrStdout(), "dev mode: POST /debug/reveal/reset clears reveal state")
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development endpoints")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Expose Prometheus metrics")

	return cmd
}

// newServer wires the site, metrics and tracing described by cfg.
func newServer(cfg *config.Config, logger *slog.Logger) (*server.Server, error) {
	site, err := newSite(cfg, logger)
	if err != nil {
		return nil, err
	}

	sc := &server.Config{
		Address:         cfg.Address(),
		Site:            site,
		Logger:          logger,
		Dev:             cfg.Dev,
		AttachTimeout:   cfg.AttachTimeout(),
		IdleTimeout:     cfg.IdleTimeout(),
		MaxSessions:     cfg.Session.MaxSessions,
		ShutdownTimeout: cfg.ShutdownTimeout(),
		MetricsPath:     cfg.Metrics.Path,
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		sc.Metrics = middleware.NewMetrics(
			middleware.WithRegistry(reg),
			middleware.WithNamespace(cfg.Metrics.Namespace),
		)
		sc.Gatherer = reg
	}
	if cfg.Tracing.Enabled {
		sc.Tracing = middleware.NewTracing(middleware.WithTracerName(cfg.Tracing.TracerName))
	}

	return server.New(sc)
}

