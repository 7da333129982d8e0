package server

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/filinglens/internal/common"
	"github.com/bobmcallan/filinglens/internal/models"
)

// handleCompanySearch handles POST /api/companies/search ({query}).
func (s *Server) handleCompanySearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	results, err := s.app.LookupService.SearchCompanies(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			WriteError(w, http.StatusBadRequest, userMessage(err))
			return
		}
		s.logger.Error().Err(err).Str("query", req.Query).Msg("Company search failed")
		WriteError(w, http.StatusInternalServerError, "Search failed. Please try again.")
		return
	}

	if results == nil {
		results = []models.CompanyResult{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// handleCompanyReports handles POST /api/companies/reports
// ({bseScripCode?, symbol?}).
func (s *Server) handleCompanyReports(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		BSEScripCode string `json:"bseScripCode"`
		Symbol       string `json:"symbol"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	reports, err := s.app.LookupService.ListReports(r.Context(), req.BSEScripCode, req.Symbol)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			WriteError(w, http.StatusBadRequest, userMessage(err))
			return
		}
		s.logger.Error().Err(err).Msg("Report listing failed")
		WriteError(w, http.StatusInternalServerError, "Failed to list annual reports")
		return
	}

	if reports == nil {
		reports = []models.AnnualReportListing{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}
