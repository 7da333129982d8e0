package interfaces

import (
	"context"

	"github.com/bobmcallan/filinglens/internal/models"
)

// FilingService ingests annual-report PDFs and derives sections
type FilingService interface {
	// IngestUpload parses an uploaded PDF and returns the filing
	IngestUpload(ctx context.Context, fileName string, data []byte) (*models.Filing, error)

	// IngestURL fetches a remote PDF and returns the filing
	IngestURL(ctx context.Context, url string) (*models.Filing, error)
}

// LookupService resolves companies and annual-report PDF candidates
type LookupService interface {
	// SearchCompanies resolves a free-text query to company candidates
	SearchCompanies(ctx context.Context, query string) ([]models.CompanyResult, error)

	// ListReports resolves exchange identifiers to annual-report listings
	ListReports(ctx context.Context, scripCode, symbol string) ([]models.AnnualReportListing, error)
}

// AnalysisService streams LLM analysis of filing text
type AnalysisService interface {
	// Analyze validates the request, builds the prompt and message
	// sequence, and forwards model text fragments to emit in order.
	Analyze(ctx context.Context, req *models.AnalyzeRequest, emit func(fragment string) error) error
}
