package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"factuurscan/internal/config"
	"factuurscan/internal/extract"
	"factuurscan/internal/logger"
	"factuurscan/internal/ocr"
	"factuurscan/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the extraction HTTP API",
	Long: `Start an HTTP server exposing the extraction pipeline.

POST /api/extract accepts either a plain text body (OCR text) or a
multipart form with an "image" file; the response is the extracted
invoice record as JSON. GET /healthz reports liveness.

Image upload requires Google Cloud credentials in the environment; without
them the server starts in text-only mode.`,
	Example: `  # Serve on the configured address (SERVER_ADDR, default :8080)
  factuurscan serve

  # Serve on an explicit address
  factuurscan serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (overrides SERVER_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.ServerAddr
	}

	var recognizer ocr.Recognizer
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" || os.Getenv("GOOGLE_CREDENTIALS") != "" {
		recognizer, err = ocr.NewGoogleVisionRecognizer(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to create recognizer: %w", err)
		}
	} else {
		log.Warn().Msg("No Google Cloud credentials configured, serving in text-only mode")
	}

	extractor := extract.New(cfg.GetExtractorConfig())
	handler := server.New(extractor, recognizer)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		errChan <- srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info().Msg("HTTP server stopped")
	return nil
}
