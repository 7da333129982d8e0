package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/bobmcallan/filinglens/internal/common"
)

// maxUploadSize caps uploaded PDF size. Large annual reports run to a few
// hundred MB of scanned pages; anything beyond this is rejected up front.
const maxUploadSize = 100 << 20 // 100MB

// handleFilingUpload handles POST /api/filings/upload (multipart PDF).
func (s *Server) handleFilingUpload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	filing, err := s.app.FilingService.IngestUpload(r.Context(), header.Filename, data)
	if err != nil {
		s.writeIngestError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, filing)
}

// handleFilingFetch handles POST /api/filings/fetch ({url}).
func (s *Server) handleFilingFetch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if req.URL == "" {
		WriteError(w, http.StatusBadRequest, "No URL provided")
		return
	}

	filing, err := s.app.FilingService.IngestURL(r.Context(), req.URL)
	if err != nil {
		s.writeIngestError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, filing)
}

// writeIngestError maps ingestion failures to HTTP responses. The
// underlying cause is logged server-side only.
func (s *Server) writeIngestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		WriteError(w, http.StatusBadRequest, userMessage(err))
	case errors.Is(err, common.ErrUpstreamFetch):
		s.logger.Warn().Err(err).Msg("Filing fetch failed")
		WriteError(w, http.StatusBadGateway, "Failed to fetch PDF from URL")
	case errors.Is(err, common.ErrParse):
		s.logger.Warn().Err(err).Msg("Filing parse failed")
		WriteError(w, http.StatusInternalServerError, "Failed to parse PDF file. Please ensure it is a valid PDF.")
	default:
		s.logger.Error().Err(err).Msg("Filing ingestion failed")
		WriteError(w, http.StatusInternalServerError, "Failed to ingest filing")
	}
}

// userMessage strips the internal error-category prefix from a
// sentinel-wrapped error, leaving the client-facing message.
func userMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{common.ErrValidation, common.ErrUpstreamFetch, common.ErrParse, common.ErrProviderStream} {
		msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
	}
	return msg
}
