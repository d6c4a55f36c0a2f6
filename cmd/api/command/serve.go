package command

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"comicshare/cmd/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Server.Port = port
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		application, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := application.Close(); err != nil {
				log.Warn("shutdown cleanup failed", zap.Error(err))
			}
		}()

		go application.Limiter.Run(ctx, time.Minute)

		server := &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      application.Router(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		}

		serverErr := make(chan error, 1)
		go func() {
			log.Info("server listening",
				zap.String("addr", server.Addr),
				zap.String("database", cfg.DB.DbNAME),
				zap.String("bucket", cfg.MinIO.BucketName))
			serverErr <- server.ListenAndServe()
		}()

		select {
		case err := <-serverErr:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "listen port (overrides SERVER_PORT)")
	rootCmd.AddCommand(serveCmd)
}
