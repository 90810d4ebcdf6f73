package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/antihub/antihook/internal/bridge"
	"github.com/antihub/antihook/internal/healthcheck"
	"github.com/antihub/antihook/internal/httpserver"
	"github.com/antihub/antihook/internal/metrics"
)

const metricsBufferSize = 256

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the shell bridge on a loopback address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Bridge.Address
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			collector := metrics.NewCollector(metricsBufferSize, a.log)
			collector.Start(ctx)

			probe := healthcheck.New(a.cfg.HealthTimeout(), a.log, collector)
			handler := bridge.NewHandler(a.log, a.store, probe, collector.Handler())

			srv, err := httpserver.New(addr, handler.Routes())
			if err != nil {
				a.log.Error("Failed to create server", slog.Any("err", err))
				return err
			}

			listener, err := srv.Listen()
			if err != nil {
				a.log.Error("Failed to bind bridge address", slog.String("address", addr), slog.Any("err", err))
				return err
			}

			srvErrCh := make(chan error, 1)
			go func() {
				srvErrCh <- srv.Serve(listener)
			}()

			a.log.Info("Bridge listening", slog.String("address", listener.Addr().String()))

			select {
			case <-ctx.Done():
				a.log.Info("Shutting down gracefully...")
				if err := srv.Shutdown(context.Background()); err != nil {
					a.log.Error("Error during shutdown", slog.Any("err", err))
					return err
				}
				return nil
			case err := <-srvErrCh:
				if err != nil {
					a.log.Error("Error starting bridge", slog.Any("err", err))
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: bridge.address setting)")
	return cmd
}
