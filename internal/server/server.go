// Package server exposes the extraction pipeline over HTTP.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"factuurscan/internal/extract"
	"factuurscan/internal/logger"
	"factuurscan/internal/ocr"
)

// maxUploadBytes caps request bodies; matches the Vision API's 20MB
// synchronous limit.
const maxUploadBytes = 20 * 1024 * 1024

// Server routes extraction requests. The recognizer is optional: without
// one the server only accepts plain text bodies.
type Server struct {
	router     chi.Router
	extractor  *extract.Extractor
	recognizer ocr.Recognizer
	log        zerolog.Logger
}

// New builds a Server around the given extractor. Pass a nil recognizer to
// disable image uploads.
func New(extractor *extract.Extractor, recognizer ocr.Recognizer) *Server {
	s := &Server{
		extractor:  extractor,
		recognizer: recognizer,
		log:        logger.WithComponent("server"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/extract", s.handleExtract)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleExtract accepts either a plain text body (the OCR text itself) or a
// multipart form with an "image" file to run through the recognizer first.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	text, ok := s.requestText(w, r)
	if !ok {
		return
	}

	record := s.extractor.Extract(text)

	if quality := extract.AssessQuality(record); !quality.Consistent {
		s.log.Warn().
			Strs("warnings", quality.Warnings).
			Msg("extracted record has inconsistent amounts")
	}

	s.writeJSON(w, http.StatusOK, record)
}

func (s *Server) requestText(w http.ResponseWriter, r *http.Request) (string, bool) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if s.recognizer == nil {
			s.writeError(w, http.StatusServiceUnavailable, "image recognition is not configured")
			return "", false
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "missing image form file")
			return "", false
		}
		defer file.Close()

		text, err := s.recognizer.RecognizeImage(r.Context(), file)
		if err != nil {
			s.log.Error().Err(err).Msg("image recognition failed")
			s.writeError(w, http.StatusBadGateway, "image recognition failed")
			return "", false
		}
		return text, true
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return "", false
	}
	return string(body), true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
