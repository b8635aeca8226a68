package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/statetree/config"
	"github.com/tailored-agentic-units/statetree/container"
	"github.com/tailored-agentic-units/statetree/demo"
	"github.com/tailored-agentic-units/statetree/inspect"
	"github.com/tailored-agentic-units/statetree/observability"
	"github.com/tailored-agentic-units/statetree/tui"
)

const shutdownTimeout = 5 * time.Second

type demoFlags struct {
	inspect   bool
	addr      string
	logFile   string
	authDelay time.Duration
}

func newDemoCmd(root *rootFlags) *cobra.Command {
	flags := &demoFlags{}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the interactive demo application",
		Long: `Run a counter, todo list and login session mounted on one state tree.

With --inspect the tree is also served on the inspection endpoint together
with Prometheus metrics at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if flags.inspect {
				cfg.Inspect.Enabled = true
			}
			if flags.addr != "" {
				cfg.Inspect.Addr = flags.addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return runDemo(ctx, cfg, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.inspect, "inspect", false, "Serve snapshots and metrics (overrides config)")
	cmd.Flags().StringVar(&flags.addr, "addr", "", "Inspection listen address (overrides config)")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "Write event logs to this file")
	cmd.Flags().DurationVar(&flags.authDelay, "auth-delay", 500*time.Millisecond, "Simulated login latency")
	return cmd
}

func runDemo(ctx context.Context, cfg config.TreeConfig, flags *demoFlags) error {
	// The TUI owns the terminal, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if flags.logFile != "" {
		f, err := os.OpenFile(flags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, cfg)
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := observability.NewPrometheusObserver(reg)

	base, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return err
	}
	minLevel, _ := observability.ParseLevel(cfg.LogLevel)
	observer := observability.NewMultiObserver(
		observability.LevelFilter{Min: minLevel, Next: base},
		metrics,
	)

	opts, err := container.FromConfig(cfg)
	if err != nil {
		return err
	}
	opts = append(opts,
		container.WithObserver(observer),
		container.WithIO(container.IO{
			"session": container.IO{demo.AuthKey: demo.LocalAuth{Delay: flags.authDelay}},
		}),
	)

	app, err := demo.NewApp(demo.AppState{}, opts...)
	if err != nil {
		return err
	}
	if err := app.Ready(ctx); err != nil {
		return err
	}

	if cfg.Inspect.Enabled {
		store := inspect.NewStore()
		detach := inspect.Attach(store, app)
		defer detach()

		stopServer, err := serveInspect(cfg.Inspect.Addr, store, observer, reg, logger)
		if err != nil {
			return err
		}
		defer stopServer()
	}

	logger.Info("demo started", "name", app.Name(), "modules", app.Modules())
	return tui.Run(tui.Options{Context: ctx, App: app})
}

// serveInspect starts the snapshot and metrics endpoint and returns a
// function shutting it down.
func serveInspect(addr string, store *inspect.Store, observer observability.Observer, reg *prometheus.Registry, logger *slog.Logger) (func(), error) {
	mux := http.NewServeMux()
	mux.Handle(inspect.NewHandler(store, observer))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("inspect server stopped", "error", err)
		}
	}()
	logger.Info("inspect server listening", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("inspect server shutdown", "error", err)
		}
	}, nil
}
