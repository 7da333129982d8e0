// Package lookup resolves companies and annual-report PDF candidates from
// NSE/BSE endpoints, with static fallbacks when the exchanges are
// unreachable. Discovery is best-effort by design: upstream failures fall
// through to the next strategy instead of failing the request.
package lookup

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/filinglens/internal/common"
	"github.com/bobmcallan/filinglens/internal/interfaces"
	"github.com/bobmcallan/filinglens/internal/models"
)

const (
	// MinQueryLength is the shortest accepted search query.
	MinQueryLength = 2

	// strategyTimeout bounds each report-listing strategy so one slow
	// upstream cannot block the rest. Strategies run sequentially.
	strategyTimeout = 10 * time.Second

	// fallbackYears is how many fiscal years of manual-download links are
	// synthesized when every live strategy comes up empty.
	fallbackYears = 5
)

// Service implements the LookupService interface
type Service struct {
	nse    interfaces.NSEClient
	bse    interfaces.BSEClient
	logger *common.Logger
}

// NewService creates a new lookup service
func NewService(nse interfaces.NSEClient, bse interfaces.BSEClient, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		nse:    nse,
		bse:    bse,
		logger: logger,
	}
}

// SearchCompanies resolves a free-text query to company candidates. The
// live NSE autocomplete is tried first; any transport failure or empty
// result falls back to the static table.
func (s *Service) SearchCompanies(ctx context.Context, query string) ([]models.CompanyResult, error) {
	if len(query) < MinQueryLength {
		return nil, fmt.Errorf("%w: search query must be at least %d characters", common.ErrValidation, MinQueryLength)
	}

	if s.nse != nil {
		results, err := s.nse.SearchCompanies(ctx, query)
		if err != nil {
			s.logger.Debug().Err(err).Str("query", query).Msg("NSE search unavailable, using fallback table")
		} else if len(results) > 0 {
			return results, nil
		}
	}

	return filterKnownCompanies(query), nil
}

// reportStrategy is one attempt at resolving annual-report listings.
// A strategy that fails or returns nothing yields to the next one.
type reportStrategy struct {
	name string
	run  func(ctx context.Context) ([]models.AnnualReportListing, error)
}

// ListReports resolves exchange identifiers to annual-report PDF listings.
// Strategies are tried sequentially in fixed priority order, each bounded
// by its own timeout; if every live strategy comes up empty, manual
// download links for the most recent fiscal years are synthesized.
func (s *Service) ListReports(ctx context.Context, scripCode, symbol string) ([]models.AnnualReportListing, error) {
	if scripCode == "" && symbol == "" {
		return nil, fmt.Errorf("%w: BSE scrip code or symbol is required", common.ErrValidation)
	}

	var strategies []reportStrategy
	if scripCode != "" && s.bse != nil {
		strategies = append(strategies,
			reportStrategy{"bse-annual-report", func(ctx context.Context) ([]models.AnnualReportListing, error) {
				return s.bse.GetAnnualReports(ctx, scripCode)
			}},
			reportStrategy{"bse-announcements", func(ctx context.Context) ([]models.AnnualReportListing, error) {
				return s.bse.SearchAnnouncements(ctx, scripCode)
			}},
		)
	}
	if symbol != "" && s.nse != nil {
		strategies = append(strategies,
			reportStrategy{"nse-annual-reports", func(ctx context.Context) ([]models.AnnualReportListing, error) {
				return s.nse.GetAnnualReports(ctx, symbol)
			}},
		)
	}

	for _, strat := range strategies {
		stratCtx, cancel := context.WithTimeout(ctx, strategyTimeout)
		listings, err := strat.run(stratCtx)
		cancel()

		if err != nil {
			s.logger.Debug().Err(err).Str("strategy", strat.name).Msg("Report strategy failed, trying next")
			continue
		}
		if len(listings) == 0 {
			s.logger.Debug().Str("strategy", strat.name).Msg("Report strategy returned nothing, trying next")
			continue
		}

		s.logger.Info().Str("strategy", strat.name).Int("count", len(listings)).Msg("Resolved annual-report listings")
		return listings, nil
	}

	if scripCode != "" {
		s.logger.Info().Str("scrip", scripCode).Msg("All report strategies empty, synthesizing manual-download links")
		return manualDownloadLinks(scripCode), nil
	}

	return nil, nil
}

// manualDownloadLinks builds BSE annual-report page links for the most
// recent fiscal years. These point at the exchange's download page rather
// than a PDF directly.
func manualDownloadLinks(scripCode string) []models.AnnualReportListing {
	currentYear := time.Now().Year()

	var listings []models.AnnualReportListing
	for yr := currentYear; yr > currentYear-fallbackYears; yr-- {
		listings = append(listings, models.AnnualReportListing{
			Year:   fmt.Sprintf("%d-%d", yr-1, yr),
			Title:  fmt.Sprintf("Annual Report FY%d-%02d", yr-1, yr%100),
			PDFURL: fmt.Sprintf("https://www.bseindia.com/corporates/annualreport.aspx?scripcd=%s&year=%d-%d", scripCode, yr-1, yr),
			Source: "BSE (manual download)",
		})
	}
	return listings
}

// Ensure Service implements LookupService
var _ interfaces.LookupService = (*Service)(nil)
