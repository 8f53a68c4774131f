package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/originlabs/ipminter/internal/config"
	"github.com/originlabs/ipminter/internal/gallery"
	"github.com/originlabs/ipminter/internal/guard"
	"github.com/originlabs/ipminter/internal/handlers"
	"github.com/originlabs/ipminter/internal/minting"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the minting wizard API",
		Long: `Starts the ipminter HTTP API on the specified port.

Each session walks through the minting wizard: connect a wallet and
authenticate with Origin, select a file, enter its name and description,
then mint. Minting returns immediately and completes in the background;
poll the session to see the result.`,
		Example: `  # Start server on default port 8888
  ipminter serve

  # Start server on custom port
  ipminter serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.PinataJWT == "" {
				slog.Warn("PINATA_JWT is not set; uploads will fail until it is configured")
			}
			if cfg.OriginAPIURL == "" {
				slog.Warn("ORIGIN_API_URL is not set; minting will fail until it is configured")
			}

			originClient := newOriginClient(cfg)
			handler := handlers.New(handlers.Options{
				Minting:     newMintingService(cfg),
				Providers:   newDialer(cfg),
				GuardDelay:  guard.DefaultDelay,
				Handles:     func(token string) minting.Minter { return originClient.ForToken(token) },
				Gallery:     gallery.NewClient(cfg.SubgraphURL),
				ExplorerURL: cfg.ExplorerURL,
			})

			// Set up routes
			mux := http.NewServeMux()
			handler.Routes(mux)
			mux.Handle("GET /metrics", promhttp.Handler())
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("ipminter API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return shutdown(shutdownCtx, server, handler.Close)
			case err := <-serverErr:
				handler.Close()
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}

// shutdown stops the server, then waits for in-flight mints and closes
// sessions even when the server did not stop cleanly
func shutdown(ctx context.Context, server *http.Server, closeHandler func()) error {
	err := server.Shutdown(ctx)
	if err != nil {
		slog.Error("Server shutdown failed", "err", err)
	}
	// mint calls cannot be cancelled once issued
	slog.Info("Waiting for in-flight mints")
	closeHandler()
	slog.Info("Server stopped")
	return err
}
