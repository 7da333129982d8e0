package server

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/filinglens/internal/common"
	"github.com/bobmcallan/filinglens/internal/models"
)

// handleFilingAnalyze handles POST /api/filings/analyze. Validation
// failures return a plain JSON 400; once streaming has begun, provider
// failures surface as a single in-band error frame and the stream closes
// cleanly. Fragments are forwarded in model order with no buffering.
func (s *Server) handleFilingAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.AnalysisService == nil {
		WriteError(w, http.StatusServiceUnavailable, "Analysis is not configured")
		return
	}

	var req models.AnalyzeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	sw, ok := newStreamWriter(w)
	if !ok {
		WriteError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	err := s.app.AnalysisService.Analyze(r.Context(), &req, sw.writeText)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			// Validation happens before any fragment is emitted, so the
			// response can still be a plain 400.
			WriteError(w, http.StatusBadRequest, userMessage(err))
			return
		}

		if errors.Is(err, common.ErrProviderStream) {
			s.logger.Warn().Err(err).Str("type", string(req.AnalysisType)).Msg("Analysis stream failed")
			sw.writeErrorFrame("Analysis failed. Please check the API configuration and try again.")
			return
		}

		// emit returned an error: the client went away mid-stream.
		s.logger.Debug().Err(err).Str("type", string(req.AnalysisType)).Msg("Analysis stream aborted by client")
		return
	}

	sw.writeDone()
}
