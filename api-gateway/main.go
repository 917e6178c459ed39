// api-gateway/main.go
package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"video-extract-api/extractor"
	"video-extract-api/shared"
)

var rootCmd = &cobra.Command{
	Use:           "video-extract-api",
	Short:         "Extract video metadata, download links and clean subtitles with yt-dlp",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func main() {
	rootCmd.AddCommand(serveCmd, extractCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// bootstrap loads config, sets up logging and builds the extraction service
// shared by every subcommand.
func bootstrap() (*shared.Config, string, *extractor.Service, error) {
	cfg := shared.LoadConfig()
	shared.ConfigureLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if mode := os.Getenv(gin.EnvGinMode); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := cfg.EnsureTempDir(); err != nil {
		return nil, "", nil, fmt.Errorf("create temp dir %s: %w", cfg.TempDir, err)
	}

	ytDlpPath := shared.ResolveYtDlpPath(cfg, nil)
	svc := extractor.NewService(extractor.NewYtDlpRunner(ytDlpPath), cfg.TempDir, cfg.CoalesceRequests)
	return cfg, ytDlpPath, svc, nil
}
