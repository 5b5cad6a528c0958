package cli

import (
	"context"
	"fmt"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexanderramin/tasker/internal/api"
)

const defaultShutdownTimeout = 10 * time.Second

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.HTTPAddr
			}
			if addr == "" {
				addr = ":8080"
			}
			timeout := app.ShutdownTimeout
			if timeout <= 0 {
				timeout = defaultShutdownTimeout
			}
			logger := app.logger()

			server := api.NewApp(api.Services{
				Identity:    app.Identity,
				Tasks:       app.Tasks,
				Categories:  app.Categories,
				Commitments: app.Commitments,
				Suggestions: app.Suggestions,
			}, logger)

			listenErr := make(chan error, 1)
			go func() {
				logger.Info("http server listening", zap.String("addr", addr))
				listenErr <- server.Listen(addr)
			}()

			wait := gfshutdown.GracefulShutdown(
				context.Background(),
				timeout,
				map[string]gfshutdown.Operation{
					"http": func(ctx context.Context) error {
						logger.Info("http server shutting down")
						return server.ShutdownWithContext(ctx)
					},
					"storage": app.Close,
				},
			)

			select {
			case err := <-listenErr:
				if err != nil {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			case code := <-wait:
				if code != 0 {
					return fmt.Errorf("shutdown finished with exit code %d", code)
				}
				logger.Info("http server stopped")
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}
