package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/moore/internal/cli"
	"github.com/aretw0/moore/internal/logging"
	"github.com/aretw0/moore/internal/metrics"
	httpAdapter "github.com/aretw0/moore/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Exposes the automaton as a JSON API over HTTP, with a server-sent event stream of changes and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("host") {
			cfg.APIHost, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			cfg.APIPort, _ = cmd.Flags().GetInt("port")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		engine, err := cli.CreateEngine(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer engine.Close()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector, err := metrics.NewCollector(engine.Automaton(), reg)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		engine.Manager().Subscribe(collector)

		handler := httpAdapter.NewHandler(engine.Manager(),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(collector, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		)

		srv := &http.Server{
			Addr:    cfg.APIAddr(),
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting moore server", slog.String("addr", srv.Addr), slog.String("store", cfg.Store))
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-cmd.Context().Done():
			logger.Info("Start shutdown", slog.Any("signal", signalOf(cmd.Context())))

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("Graceful shutdown did not complete", slog.Duration("timeout", cfg.ShutdownTimeout), logging.Err(err))
				if err := srv.Close(); err != nil {
					logger.Error("Error killing server", logging.Err(err))
				}
			}
			logger.Info("moore server stopped gracefully")
			return nil
		}
	},
}

func signalOf(ctx context.Context) any {
	if sc, ok := ctx.(*cli.SignalContext); ok && sc.Signal() != nil {
		return sc.Signal().String()
	}
	return "context cancelled"
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "127.0.0.1", "Host to listen on")
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}
