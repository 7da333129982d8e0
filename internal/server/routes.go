package server

import (
	"net/http"

	"github.com/bobmcallan/filinglens/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Filings
	mux.HandleFunc("/api/filings/upload", s.handleFilingUpload)
	mux.HandleFunc("/api/filings/fetch", s.handleFilingFetch)
	mux.HandleFunc("/api/filings/analyze", s.handleFilingAnalyze)

	// Companies
	mux.HandleFunc("/api/companies/search", s.handleCompanySearch)
	mux.HandleFunc("/api/companies/reports", s.handleCompanyReports)
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":       cfg.Environment,
		"gemini_model":      cfg.Clients.Gemini.Model,
		"gemini_api_key":    maskSecret(cfg.Clients.Gemini.APIKey),
		"gemini_configured": s.app.AnalysisService != nil,
		"nse_base_url":      cfg.Clients.NSE.BaseURL,
		"bse_base_url":      cfg.Clients.BSE.BaseURL,
		"logging_level":     cfg.Logging.Level,
	})
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
