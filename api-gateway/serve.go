package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"video-extract-api/shared"
	"video-extract-api/web"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and web front-end",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, ytDlpPath, svc, err := bootstrap()
	if err != nil {
		return err
	}

	redisClient := shared.ConnectRedis(cmd.Context(), cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	limiter := shared.NewRateLimiter(cfg, redisClient)
	server := web.NewServer(cfg, svc, limiter, redisClient, ytDlpPath)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening",
			"port", cfg.Port,
			"yt_dlp", ytDlpPath,
			"temp_dir", cfg.TempDir,
			"rate_limit_rpm", cfg.RateLimitRPM,
			"coalesce", cfg.CoalesceRequests,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on :%s: %w", cfg.Port, err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
