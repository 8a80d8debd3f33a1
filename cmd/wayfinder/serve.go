package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/wayfinder/internal/presentation/tui"
	httpadapter "github.com/aretw0/wayfinder/pkg/adapters/http"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP transition server",
	Long: `Starts the Wayfinder engine as an HTTP server exposing POST /v1/transitions/next,
GET /v1/modes, GET /health, GET /metrics and GET /events (node reloads).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		userHeader, _ := cmd.Flags().GetString("user-header")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, logger, err := loadRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		handler := httpadapter.NewHandler(rt.Engine,
			httpadapter.WithLogger(logger),
			httpadapter.WithMetricsHandler(rt.Metrics.Handler()),
			httpadapter.WithUserHeader(userHeader),
		)

		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			tui.PrintBanner(cmd.ErrOrStderr())
			logger.Info("starting Wayfinder server", "addr", srv.Addr, "dir", viper.GetString("dir"))
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("shutdown signal received")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			logger.Info("Wayfinder server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
	serveCmd.Flags().Bool("watch", true, "Reload nodes when repository files change")
	serveCmd.Flags().String("user-header", httpadapter.DefaultUserHeader, "Header carrying the authenticated user id")
	_ = viper.BindPFlag("watch", serveCmd.Flags().Lookup("watch"))
}
