package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"insights/internal/logger"
	"insights/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the document endpoints over HTTP:

  GET  /                       Service banner
  GET  /health                 Liveness check
  GET  /api/health             Service information
  POST /api/parse-document     Multipart field "file": returns the document text
  POST /api/analyze            Same as parse-document
  POST /api/extract-insights   Multipart field "file": returns structured insights

Uploads are processed in memory. Errors are returned as {"detail": "..."} with
status 400 for invalid uploads and 500 for server failures.

Optional environment variables:
  API_HOST - Listen host (default: 0.0.0.0)
  API_PORT - Listen port (default: 8000)`,
	Example: `  # Serve on the default address
  insights serve

  # Serve on another port
  insights serve --port 9000

  # Try it
  curl -F file=@brief.pdf http://localhost:8000/api/extract-insights`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "Listen host (default: API_HOST)")
	serveCmd.Flags().Int("port", 0, "Listen port (default: API_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.APIHost = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.APIPort = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := createPipeline(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := p.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close document parser")
		}
	}()

	srv := server.New(p.service, server.Config{
		Addr:        cfg.Addr(),
		MaxFileSize: cfg.MaxFileSize,
	})
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}
