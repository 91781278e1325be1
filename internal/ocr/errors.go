package ocr

import (
	"errors"
	"fmt"
)

// Common recognition errors
var (
	// ErrImageTooLarge is returned when the image exceeds the maximum file
	// size limit. Google Cloud Vision API has a 20MB limit for synchronous
	// processing.
	ErrImageTooLarge = errors.New("image size exceeds the maximum limit (20MB)")

	// ErrUnsupportedFormat is returned when the provided data is not a
	// recognized image format.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrRecognitionFailed is returned when the Google Cloud Vision API
	// fails to process the image.
	ErrRecognitionFailed = errors.New("text recognition failed")

	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS environment variables are configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrEmptyDocument is returned when the image contains no readable text.
	ErrEmptyDocument = errors.New("image contains no readable text")
)

// OCRError wraps errors with additional context about the recognition failure.
type OCRError struct {
	// Op is the operation that failed (e.g., "RecognizeImage").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *OCRError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *OCRError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *OCRError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewOCRError creates a new OCRError with the specified operation and underlying error.
func NewOCRError(op string, err error, details string) *OCRError {
	return &OCRError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapOCRError wraps an error as an OCRError if it isn't already one.
func WrapOCRError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var ocrErr *OCRError
	if errors.As(err, &ocrErr) {
		return err // Already wrapped
	}

	return NewOCRError(op, err, details)
}
