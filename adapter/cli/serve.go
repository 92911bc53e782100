package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nico-stef/aihack-2025-NeuroCore/adapter/api"
	"github.com/nico-stef/aihack-2025-NeuroCore/internal/app"
	"github.com/nico-stef/aihack-2025-NeuroCore/pkg/config"
)

// NewServeCommand creates the serve command, which runs the HTTP API.
func NewServeCommand(cfg *config.Config, container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the burnout API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := api.NewBurnoutHandler(api.BurnoutHandlerConfig{
				Burnout: container.BurnoutService,
				Stats:   container.StatsService,
				Sync:    container.SyncService,
				Logger:  container.Logger,
			})

			server := api.NewServer(api.ServerConfig{
				Addr:         cfg.HTTPAddr,
				ReadTimeout:  cfg.HTTPReadTimeout,
				WriteTimeout: cfg.HTTPWriteTimeout,
				IdleTimeout:  cfg.HTTPIdleTimeout,
			}, handler, container.Logger)

			errCh := make(chan error, 1)
			go func() {
				if err := server.Start(); !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				container.Logger.Info("shutdown signal received", "signal", sig.String())
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}
}
