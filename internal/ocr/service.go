// Package ocr recovers text from scanned invoice images using the Google
// Cloud Vision API.
//
// The package is the only component that talks to the network; everything
// downstream consumes the recovered text as a plain string. Recognition
// uses document text detection with Dutch and English language hints, which
// matches the invoice population this pipeline is built for.
//
// Required Environment Variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//
// Cloud Vision API Limitations:
//   - Maximum image size: 20MB for synchronous processing
//   - Supported formats: JPEG, PNG, TIFF, WebP, GIF, BMP
package ocr

import (
	"context"
	"io"
	"time"
)

// Recognizer defines the interface for OCR text recovery services.
type Recognizer interface {
	// RecognizeImage extracts text from a single invoice image.
	RecognizeImage(ctx context.Context, image io.Reader) (string, error)

	// RecognizeImageWithMetadata extracts text from a single invoice image
	// with additional metadata such as confidence and detected languages.
	RecognizeImageWithMetadata(ctx context.Context, image io.Reader) (*Result, error)
}

// Result contains the outcome of recognizing one image.
type Result struct {
	// Text is the recovered text in reading order.
	Text string `json:"text"`

	// Confidence is the average confidence score across all detected
	// blocks (0.0 to 1.0). Higher values indicate more reliable detection.
	Confidence float32 `json:"confidence"`

	// LanguageCodes contains the languages detected in the image.
	LanguageCodes []string `json:"language_codes,omitempty"`

	// ProcessedAt is the timestamp when recognition completed.
	ProcessedAt time.Time `json:"processed_at"`

	// ProcessingDuration is how long the recognition took.
	ProcessingDuration time.Duration `json:"processing_duration"`
}
