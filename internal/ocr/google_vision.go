package ocr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

const (
	// MaxImageSizeBytes is the maximum image size for synchronous processing (20MB)
	MaxImageSizeBytes = 20 * 1024 * 1024
)

// languageHints biases Vision's text detection toward the invoice
// population this pipeline handles.
var languageHints = []string{"nl", "en"}

// GoogleVisionRecognizer implements Recognizer using Google Cloud Vision API.
type GoogleVisionRecognizer struct {
	client *vision.ImageAnnotatorClient
}

// NewGoogleVisionRecognizer creates a new recognizer with credentials from
// the environment. It expects either GOOGLE_APPLICATION_CREDENTIALS path or
// GOOGLE_CREDENTIALS JSON in env, and falls back to application default
// credentials.
func NewGoogleVisionRecognizer(ctx context.Context) (Recognizer, error) {
	const op = "NewGoogleVisionRecognizer"

	var client *vision.ImageAnnotatorClient
	var err error

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &GoogleVisionRecognizer{
		client: client,
	}, nil
}

// NewGoogleVisionRecognizerWithClient creates a new recognizer with an
// explicit client (for testing).
func NewGoogleVisionRecognizerWithClient(client *vision.ImageAnnotatorClient) Recognizer {
	return &GoogleVisionRecognizer{
		client: client,
	}
}

// RecognizeImage extracts text from a single invoice image.
func (g *GoogleVisionRecognizer) RecognizeImage(ctx context.Context, image io.Reader) (string, error) {
	result, err := g.RecognizeImageWithMetadata(ctx, image)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// RecognizeImageWithMetadata extracts text from a single invoice image with
// additional metadata.
func (g *GoogleVisionRecognizer) RecognizeImageWithMetadata(ctx context.Context, image io.Reader) (*Result, error) {
	const op = "RecognizeImageWithMetadata"
	startTime := time.Now()

	imageBytes, err := io.ReadAll(image)
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to read image data")
	}

	if len(imageBytes) > MaxImageSizeBytes {
		return nil, WrapOCRError(op, ErrImageTooLarge, fmt.Sprintf("image size: %d bytes", len(imageBytes)))
	}

	contentType := http.DetectContentType(imageBytes)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, WrapOCRError(op, ErrUnsupportedFormat, fmt.Sprintf("detected content type: %s", contentType))
	}

	annotation, err := g.client.DetectDocumentText(ctx,
		&visionpb.Image{Content: imageBytes},
		&visionpb.ImageContext{LanguageHints: languageHints},
	)
	if err != nil {
		return nil, WrapOCRError(op, ErrRecognitionFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}

	result, err := annotationResult(annotation)
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to process Vision API response")
	}

	result.ProcessedAt = time.Now()
	result.ProcessingDuration = result.ProcessedAt.Sub(startTime)

	return result, nil
}

// annotationResult converts a full text annotation into a Result.
func annotationResult(annotation *visionpb.TextAnnotation) (*Result, error) {
	if annotation == nil || strings.TrimSpace(annotation.GetText()) == "" {
		return nil, ErrEmptyDocument
	}

	var confidenceSum float32
	var confidenceCount int
	languageSet := make(map[string]bool)

	for _, page := range annotation.GetPages() {
		if page.Property != nil {
			for _, lang := range page.Property.DetectedLanguages {
				if lang.LanguageCode != "" {
					languageSet[lang.LanguageCode] = true
				}
			}
		}
		for _, block := range page.GetBlocks() {
			if block.Confidence > 0 {
				confidenceSum += block.Confidence
				confidenceCount++
			}
		}
	}

	var avgConfidence float32
	if confidenceCount > 0 {
		avgConfidence = confidenceSum / float32(confidenceCount)
	}

	var languages []string
	for lang := range languageSet {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	return &Result{
		Text:          annotation.GetText(),
		Confidence:    avgConfidence,
		LanguageCodes: languages,
	}, nil
}

// Close closes the underlying Vision client.
func (g *GoogleVisionRecognizer) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
