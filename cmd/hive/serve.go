package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/hive/internal/config"
	"github.com/vango-dev/hive/pkg/middleware"
	"github.com/vango-dev/hive/pkg/server"
	"github.com/vango-dev/hive/pkg/store"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the store over WebSocket",
		Long: `Build the store described by hive.yaml and serve it.

Routes:
  GET /ws          WebSocket endpoint for remote components
  GET /state/...   JSON snapshot of a module
  GET /healthz     liveness
  GET /metrics     Prometheus metrics

The server shuts down gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			logger, err := cfg.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := newServer(cfg, logger, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
			return srv.Run(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides server.addr)")

	return cmd
}

// newServer wires the store, its middleware and the WebSocket bridge. The
// returned server's hub is started by Server.Run.
func newServer(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) *server.Server {
	hub := server.NewHub(logger)

	mws := []store.Middleware{middleware.Recover()}
	storeOpts := []store.Option{
		store.WithLogger(logger.With("component", "store")),
		store.WithScheduler(hub.Dispatch),
	}
	serverOpts := append(cfg.ServerOptions(),
		server.WithLogger(logger.With("component", "server")),
		server.WithGatherer(gatherer),
	)

	if !cfg.Tracing.Disabled {
		mws = append(mws, middleware.OpenTelemetry(middleware.WithTracerName(cfg.Tracing.Tracer)))
	}
	if !cfg.Metrics.Disabled {
		metrics := middleware.NewMetrics(
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithRegistry(reg),
		)
		mws = append(mws, metrics.Middleware())
		storeOpts = append(storeOpts, store.WithBroadcastObserver(metrics))
		serverOpts = append(serverOpts, server.WithMetrics(metrics))
	}
	mws = append(mws, middleware.Logger(logger))
	storeOpts = append(storeOpts, store.WithMiddleware(mws...))

	st := store.New(cfg.StoreConfig(), storeOpts...)
	return server.New(st, hub, serverOpts...)
}
