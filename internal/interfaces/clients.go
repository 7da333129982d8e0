// Package interfaces defines service contracts for FilingLens
package interfaces

import (
	"context"

	"github.com/bobmcallan/filinglens/internal/models"
)

// NSEClient provides access to NSE India public endpoints
type NSEClient interface {
	// SearchCompanies queries the NSE autocomplete endpoint
	SearchCompanies(ctx context.Context, query string) ([]models.CompanyResult, error)

	// GetAnnualReports retrieves annual-report listings for an NSE symbol
	GetAnnualReports(ctx context.Context, symbol string) ([]models.AnnualReportListing, error)
}

// BSEClient provides access to BSE India public endpoints
type BSEClient interface {
	// GetAnnualReports retrieves annual-report listings for a BSE scrip code
	GetAnnualReports(ctx context.Context, scripCode string) ([]models.AnnualReportListing, error)

	// SearchAnnouncements searches corporate filing announcements in the
	// "Annual Report" category for a BSE scrip code
	SearchAnnouncements(ctx context.Context, scripCode string) ([]models.AnnualReportListing, error)
}

// LLMClient provides streaming text generation
type LLMClient interface {
	// StreamGenerate runs a streaming generation call, invoking emit for
	// each text fragment in arrival order. A non-nil error from emit stops
	// forwarding and is returned unchanged.
	StreamGenerate(ctx context.Context, req *models.GenerationRequest, emit func(fragment string) error) error

	// Close releases client resources
	Close() error
}
