package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"factuurscan/internal/extract"
	"factuurscan/internal/ocr"
	"factuurscan/pkg/models"
)

type stubRecognizer struct {
	text string
	err  error
}

func (s *stubRecognizer) RecognizeImage(ctx context.Context, image io.Reader) (string, error) {
	return s.text, s.err
}

func (s *stubRecognizer) RecognizeImageWithMetadata(ctx context.Context, image io.Reader) (*ocr.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ocr.Result{Text: s.text}, nil
}

func TestHealthz(t *testing.T) {
	srv := New(extract.New(extract.Config{}), nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestExtractTextBody(t *testing.T) {
	srv := New(extract.New(extract.Config{}), nil)

	text := "Factuurnummer: F2024-0091\nTotaal incl. btw € 121,00"
	req := httptest.NewRequest(http.MethodPost, "/api/extract", strings.NewReader(text))
	req.Header.Set("Content-Type", "text/plain")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var record models.InvoiceRecord
	if err := json.NewDecoder(rec.Body).Decode(&record); err != nil {
		t.Fatal(err)
	}
	if record.InvoiceNumber != "F2024-0091" {
		t.Errorf("InvoiceNumber = %q", record.InvoiceNumber)
	}
	if !record.Financial.TotalAmount.Valid {
		t.Error("TotalAmount unset")
	}
}

func TestExtractImageUpload(t *testing.T) {
	recognizer := &stubRecognizer{text: "Factuurnummer: F2024-0091"}
	srv := New(extract.New(extract.Config{}), recognizer)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", "scan.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("fake image bytes")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/extract", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var record models.InvoiceRecord
	if err := json.NewDecoder(rec.Body).Decode(&record); err != nil {
		t.Fatal(err)
	}
	if record.InvoiceNumber != "F2024-0091" {
		t.Errorf("InvoiceNumber = %q", record.InvoiceNumber)
	}
}

func TestExtractImageWithoutRecognizer(t *testing.T) {
	srv := New(extract.New(extract.Config{}), nil)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if _, err := w.CreateFormFile("image", "scan.png"); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/extract", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestExtractRecognizerFailure(t *testing.T) {
	recognizer := &stubRecognizer{err: ocr.ErrEmptyDocument}
	srv := New(extract.New(extract.Config{}), recognizer)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, _ := w.CreateFormFile("image", "scan.png")
	part.Write([]byte("fake"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/extract", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestExtractEmptyBody(t *testing.T) {
	srv := New(extract.New(extract.Config{}), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/extract", strings.NewReader(""))
	req.Header.Set("Content-Type", "text/plain")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: empty input is an empty record, not an error", rec.Code)
	}
	var record models.InvoiceRecord
	if err := json.NewDecoder(rec.Body).Decode(&record); err != nil {
		t.Fatal(err)
	}
	if record.InvoiceNumber != "" || len(record.LineItems) != 0 {
		t.Errorf("expected empty record, got %+v", record)
	}
}
