package lookup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/filinglens/internal/common"
	"github.com/bobmcallan/filinglens/internal/models"
)

type mockNSEClient struct {
	searchCompanies  func(ctx context.Context, query string) ([]models.CompanyResult, error)
	getAnnualReports func(ctx context.Context, symbol string) ([]models.AnnualReportListing, error)
}

func (m *mockNSEClient) SearchCompanies(ctx context.Context, query string) ([]models.CompanyResult, error) {
	if m.searchCompanies != nil {
		return m.searchCompanies(ctx, query)
	}
	return nil, errors.New("unavailable")
}

func (m *mockNSEClient) GetAnnualReports(ctx context.Context, symbol string) ([]models.AnnualReportListing, error) {
	if m.getAnnualReports != nil {
		return m.getAnnualReports(ctx, symbol)
	}
	return nil, errors.New("unavailable")
}

type mockBSEClient struct {
	getAnnualReports    func(ctx context.Context, scripCode string) ([]models.AnnualReportListing, error)
	searchAnnouncements func(ctx context.Context, scripCode string) ([]models.AnnualReportListing, error)
}

func (m *mockBSEClient) GetAnnualReports(ctx context.Context, scripCode string) ([]models.AnnualReportListing, error) {
	if m.getAnnualReports != nil {
		return m.getAnnualReports(ctx, scripCode)
	}
	return nil, errors.New("unavailable")
}

func (m *mockBSEClient) SearchAnnouncements(ctx context.Context, scripCode string) ([]models.AnnualReportListing, error) {
	if m.searchAnnouncements != nil {
		return m.searchAnnouncements(ctx, scripCode)
	}
	return nil, errors.New("unavailable")
}

func newTestService(nse *mockNSEClient, bse *mockBSEClient) *Service {
	return NewService(nse, bse, common.NewSilentLogger())
}

// --- SearchCompanies ---

func TestSearchCompanies_QueryTooShort(t *testing.T) {
	svc := newTestService(&mockNSEClient{}, &mockBSEClient{})

	_, err := svc.SearchCompanies(context.Background(), "R")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestSearchCompanies_LiveResultsPreferred(t *testing.T) {
	nse := &mockNSEClient{
		searchCompanies: func(ctx context.Context, query string) ([]models.CompanyResult, error) {
			return []models.CompanyResult{
				{Name: "Live Result Ltd", Symbol: "LIVE", Exchange: "NSE"},
			}, nil
		},
	}
	svc := newTestService(nse, &mockBSEClient{})

	results, err := svc.SearchCompanies(context.Background(), "live")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "LIVE", results[0].Symbol)
}

func TestSearchCompanies_FallbackOnTransportFailure(t *testing.T) {
	svc := newTestService(&mockNSEClient{}, &mockBSEClient{})

	results, err := svc.SearchCompanies(context.Background(), "Reliance")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "RELIANCE", results[0].Symbol)
}

func TestSearchCompanies_FallbackOnEmptyLiveResult(t *testing.T) {
	nse := &mockNSEClient{
		searchCompanies: func(ctx context.Context, query string) ([]models.CompanyResult, error) {
			return nil, nil
		},
	}
	svc := newTestService(nse, &mockBSEClient{})

	results, err := svc.SearchCompanies(context.Background(), "Infosys")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "INFY", results[0].Symbol)
}

func TestSearchCompanies_FallbackMatchesSymbolAndScripCode(t *testing.T) {
	svc := newTestService(&mockNSEClient{}, &mockBSEClient{})

	bySymbol, err := svc.SearchCompanies(context.Background(), "tcs")
	require.NoError(t, err)
	require.NotEmpty(t, bySymbol)
	assert.Equal(t, "TCS", bySymbol[0].Symbol)

	byScrip, err := svc.SearchCompanies(context.Background(), "500325")
	require.NoError(t, err)
	require.NotEmpty(t, byScrip)
	assert.Equal(t, "RELIANCE", byScrip[0].Symbol)
}

func TestSearchCompanies_FallbackNoMatch(t *testing.T) {
	svc := newTestService(&mockNSEClient{}, &mockBSEClient{})

	results, err := svc.SearchCompanies(context.Background(), "zzzz-no-such-company")
	require.NoError(t, err)
	assert.Empty(t, results)
}

// --- ListReports ---

func TestListReports_RequiresIdentifier(t *testing.T) {
	svc := newTestService(&mockNSEClient{}, &mockBSEClient{})

	_, err := svc.ListReports(context.Background(), "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestListReports_PrimaryStrategyWins(t *testing.T) {
	bse := &mockBSEClient{
		getAnnualReports: func(ctx context.Context, scripCode string) ([]models.AnnualReportListing, error) {
			return []models.AnnualReportListing{
				{Year: "2024-25", Title: "Annual Report", PDFURL: "https://example.com/ar.pdf", Source: "BSE"},
			}, nil
		},
		searchAnnouncements: func(ctx context.Context, scripCode string) ([]models.AnnualReportListing, error) {
			t.Fatal("announcement search must not run when the primary strategy succeeds")
			return nil, nil
		},
	}
	svc := newTestService(&mockNSEClient{}, bse)

	reports, err := svc.ListReports(context.Background(), "500325", "")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "BSE", reports[0].Source)
}

func TestListReports_FallsThroughToAnnouncements(t *testing.T) {
	bse := &mockBSEClient{
		searchAnnouncements: func(ctx context.Context, scripCode string) ([]models.AnnualReportListing, error) {
			return []models.AnnualReportListing{
				{Year: "2024", Title: "Annual Report 2024", PDFURL: "https://example.com/a.pdf", Source: "BSE Filing"},
			}, nil
		},
	}
	svc := newTestService(&mockNSEClient{}, bse)

	reports, err := svc.ListReports(context.Background(), "500325", "")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "BSE Filing", reports[0].Source)
}

func TestListReports_FallsThroughToNSE(t *testing.T) {
	nse := &mockNSEClient{
		getAnnualReports: func(ctx context.Context, symbol string) ([]models.AnnualReportListing, error) {
			assert.Equal(t, "RELIANCE", symbol)
			return []models.AnnualReportListing{
				{Year: "2024", Title: "Reliance Annual Report", PDFURL: "https://example.com/r.pdf", Source: "NSE"},
			}, nil
		},
	}
	svc := newTestService(nse, &mockBSEClient{})

	reports, err := svc.ListReports(context.Background(), "500325", "RELIANCE")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "NSE", reports[0].Source)
}

func TestListReports_EmptyStrategyResultFallsThrough(t *testing.T) {
	bse := &mockBSEClient{
		getAnnualReports: func(ctx context.Context, scripCode string) ([]models.AnnualReportListing, error) {
			return nil, nil // reachable but empty
		},
		searchAnnouncements: func(ctx context.Context, scripCode string) ([]models.AnnualReportListing, error) {
			return []models.AnnualReportListing{
				{Year: "2023", Title: "Annual Report", PDFURL: "https://example.com/b.pdf", Source: "BSE Filing"},
			}, nil
		},
	}
	svc := newTestService(&mockNSEClient{}, bse)

	reports, err := svc.ListReports(context.Background(), "500325", "")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "BSE Filing", reports[0].Source)
}

func TestListReports_SynthesizesManualLinksWhenAllFail(t *testing.T) {
	svc := newTestService(&mockNSEClient{}, &mockBSEClient{})

	reports, err := svc.ListReports(context.Background(), "500325", "RELIANCE")
	require.NoError(t, err)
	require.Len(t, reports, 5)

	for _, r := range reports {
		assert.Equal(t, "BSE (manual download)", r.Source)
		assert.Contains(t, r.PDFURL, "scripcd=500325")
		assert.NotEmpty(t, r.Year)
	}
}

func TestListReports_SymbolOnlyNoFallbackLinks(t *testing.T) {
	// Manual-download links need a scrip code; with only a symbol and a
	// dead NSE API the result is simply empty.
	svc := newTestService(&mockNSEClient{}, &mockBSEClient{})

	reports, err := svc.ListReports(context.Background(), "", "RELIANCE")
	require.NoError(t, err)
	assert.Empty(t, reports)
}
