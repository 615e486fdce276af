package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/remap/internal/presentation/tui"
	httpAdapter "github.com/aretw0/remap/pkg/adapters/http"
	"github.com/aretw0/remap/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [source]",
	Short: "Start the HTTP query server",
	Long: `Builds the pipeline once and serves queries against it as a JSON API over HTTP.
The OpenAPI document is served at /openapi.yaml and Prometheus metrics at /metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd, args)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			opts.Config.Serve.Port, _ = cmd.Flags().GetInt("port")
		}

		metrics := observability.NewMetrics("remap")
		opts.Metrics = metrics

		engine, closeEngine, err := openEngine(cmd.Context(), opts)
		defer closeEngine()
		if err != nil {
			return err
		}

		handler := httpAdapter.NewHandler(engine,
			httpAdapter.WithMetrics(metrics),
			httpAdapter.WithLogger(opts.Logger),
		)

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Config.Serve.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		if tui.IsTerminal(os.Stderr) {
			tui.PrintBanner(os.Stderr)
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			opts.Logger.Info("Starting remap server", "addr", srv.Addr, "pipeline", engine.Name, "stages", engine.Pipeline().Len())
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-cmd.Context().Done():
			opts.Logger.Info("Start shutdown")

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				opts.Logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			opts.Logger.Info("remap server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}
