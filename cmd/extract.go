package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"factuurscan/internal/config"
	"factuurscan/internal/extract"
	"factuurscan/internal/logger"
	"factuurscan/internal/ocr"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract a structured invoice record from a text or image file",
	Long: `Run the extraction pipeline over one invoice and print the resulting
record as JSON.

Files ending in .txt are treated as OCR text and processed directly, with
no network access. Anything else is treated as an invoice image and first
run through Google Cloud Vision document text detection.

Environment variables for image input:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  # Extract from OCR text you already have
  factuurscan extract invoice.txt

  # Extract from a scanned image, save the record to a file
  factuurscan extract scan.png -o record.json

  # Force text handling regardless of extension
  factuurscan extract dump.ocr --text`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().Bool("text", false, "Treat the input file as OCR text regardless of extension")
	extractCmd.Flags().Int("timeout", 300, "Processing timeout in seconds (image input only)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract-cmd")

	outputPath, _ := cmd.Flags().GetString("output")
	forceText, _ := cmd.Flags().GetBool("text")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	inputPath := args[0]
	isText := forceText || strings.EqualFold(filepath.Ext(inputPath), ".txt")

	log.Info().
		Str("file", inputPath).
		Str("output", outputPath).
		Bool("text", isText).
		Msg("Starting extraction")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var text string
	if isText {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			log.Error().Err(err).Str("file", inputPath).Msg("Failed to read text file")
			return fmt.Errorf("failed to read text file: %w", err)
		}
		text = string(data)
	} else {
		text, err = recognizeImageFile(inputPath, timeoutSecs, log)
		if err != nil {
			return err
		}
	}

	extractor := extract.New(cfg.GetExtractorConfig())
	record := extractor.Extract(text)

	log.Info().
		Str("invoice_number", record.InvoiceNumber).
		Str("language", record.Language).
		Int("line_items", len(record.LineItems)).
		Msg("Extraction completed")

	quality := extract.AssessQuality(record)
	for _, warning := range quality.Warnings {
		log.Warn().Str("warning", warning).Msg("Record inconsistency")
	}
	if len(quality.MissingFields) > 0 {
		log.Info().
			Strs("missing_fields", quality.MissingFields).
			Msg("Some fields could not be located")
	}

	outputData, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
			log.Error().Err(err).Str("output_file", outputPath).Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(outputData)).
			Msg("Record written to file")
		return nil
	}

	fmt.Println(string(outputData))
	return nil
}

// recognizeImageFile runs one image through the Vision recognizer and
// returns the recovered text.
func recognizeImageFile(imagePath string, timeoutSecs int, log zerolog.Logger) (string, error) {
	fileInfo, err := os.Stat(imagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("image file not found: %s", imagePath)
		}
		return "", fmt.Errorf("error accessing image file: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return "", fmt.Errorf("path is not a regular file: %s", imagePath)
	}
	if fileInfo.Size() == 0 {
		return "", fmt.Errorf("image file is empty: %s", imagePath)
	}
	if fileInfo.Size() > ocr.MaxImageSizeBytes {
		return "", fmt.Errorf("image file too large (%d bytes). Maximum size is %d bytes (20MB)",
			fileInfo.Size(), ocr.MaxImageSizeBytes)
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	recognizer, err := createRecognizer(ctx, log)
	if err != nil {
		return "", err
	}

	imageFile, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to open image file: %w", err)
	}
	defer func() {
		if closeErr := imageFile.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close image file")
		}
	}()

	log.Info().
		Str("file", imagePath).
		Int64("size", fileInfo.Size()).
		Msg("Recognizing image")

	result, err := recognizer.RecognizeImageWithMetadata(ctx, imageFile)
	if err != nil {
		return "", handleRecognitionError(err, log)
	}

	log.Info().
		Float32("confidence", result.Confidence).
		Dur("duration", result.ProcessingDuration).
		Int("text_length", len(result.Text)).
		Msg("Image recognition completed")

	return result.Text, nil
}

// createContextWithTimeout creates a context with timeout and signal handling.
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling recognition")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// createRecognizer creates and configures the Vision recognizer.
func createRecognizer(ctx context.Context, log zerolog.Logger) (ocr.Recognizer, error) {
	hasCredentials := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" || os.Getenv("GOOGLE_CREDENTIALS") != ""

	if !hasCredentials {
		log.Error().Msg("Google Cloud credentials not configured")
		return nil, fmt.Errorf("Google Cloud credentials not configured. Please set one of:\n\n" +
			"1. Export GOOGLE_APPLICATION_CREDENTIALS with path to service account JSON:\n" +
			"   export GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n\n" +
			"2. Export GOOGLE_CREDENTIALS with inline JSON:\n" +
			"   export GOOGLE_CREDENTIALS='{\"type\":\"service_account\",...}'\n\n" +
			"3. Use Application Default Credentials (if gcloud is configured):\n" +
			"   gcloud auth application-default login")
	}

	recognizer, err := ocr.NewGoogleVisionRecognizer(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create recognizer")
		return nil, fmt.Errorf("failed to create recognizer: %w", err)
	}

	log.Debug().Msg("Recognizer created successfully")
	return recognizer, nil
}

// handleRecognitionError provides user-friendly error messages for
// recognition failures.
func handleRecognitionError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Image recognition failed")

	errStr := err.Error()

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("recognition timed out. Try increasing --timeout or processing a smaller file")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("recognition was canceled")
	case errors.Is(err, ocr.ErrImageTooLarge):
		return fmt.Errorf("image is too large (maximum 20MB). Try scaling it down")
	case errors.Is(err, ocr.ErrUnsupportedFormat):
		return fmt.Errorf("unsupported image format. Supported formats are JPEG, PNG, TIFF, WebP, GIF and BMP")
	case errors.Is(err, ocr.ErrEmptyDocument):
		return fmt.Errorf("no readable text found in the image")
	case strings.Contains(errStr, "Unauthenticated") ||
		strings.Contains(errStr, "invalid_grant") ||
		strings.Contains(errStr, "auth:"):
		return fmt.Errorf("Google Cloud authentication failed. Check your credentials and ensure the "+
			"service account has the 'Cloud Vision API User' role. Original error: %v", err)
	case strings.Contains(errStr, "PERMISSION_DENIED") ||
		strings.Contains(errStr, "forbidden"):
		return fmt.Errorf("permission denied. Please ensure your Google Cloud service account has the 'Cloud Vision API User' role")
	case strings.Contains(errStr, "QUOTA_EXCEEDED") ||
		strings.Contains(errStr, "quota"):
		return fmt.Errorf("Google Cloud Vision API quota exceeded. Check your project quotas in the Google Cloud Console")
	default:
		return fmt.Errorf("image recognition failed: %w", err)
	}
}
