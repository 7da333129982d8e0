package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/filinglens/internal/app"
	"github.com/bobmcallan/filinglens/internal/common"
	"github.com/bobmcallan/filinglens/internal/models"
)

type mockFilingService struct {
	ingestUpload func(ctx context.Context, fileName string, data []byte) (*models.Filing, error)
	ingestURL    func(ctx context.Context, rawURL string) (*models.Filing, error)
}

func (m *mockFilingService) IngestUpload(ctx context.Context, fileName string, data []byte) (*models.Filing, error) {
	if m.ingestUpload != nil {
		return m.ingestUpload(ctx, fileName, data)
	}
	return &models.Filing{FileName: fileName}, nil
}

func (m *mockFilingService) IngestURL(ctx context.Context, rawURL string) (*models.Filing, error) {
	if m.ingestURL != nil {
		return m.ingestURL(ctx, rawURL)
	}
	return &models.Filing{FileName: "fetched-report.pdf"}, nil
}

type mockLookupService struct {
	searchCompanies func(ctx context.Context, query string) ([]models.CompanyResult, error)
	listReports     func(ctx context.Context, scripCode, symbol string) ([]models.AnnualReportListing, error)
}

func (m *mockLookupService) SearchCompanies(ctx context.Context, query string) ([]models.CompanyResult, error) {
	if m.searchCompanies != nil {
		return m.searchCompanies(ctx, query)
	}
	return nil, nil
}

func (m *mockLookupService) ListReports(ctx context.Context, scripCode, symbol string) ([]models.AnnualReportListing, error) {
	if m.listReports != nil {
		return m.listReports(ctx, scripCode, symbol)
	}
	return nil, nil
}

type mockAnalysisService struct {
	analyze func(ctx context.Context, req *models.AnalyzeRequest, emit func(string) error) error
}

func (m *mockAnalysisService) Analyze(ctx context.Context, req *models.AnalyzeRequest, emit func(string) error) error {
	if m.analyze != nil {
		return m.analyze(ctx, req, emit)
	}
	return nil
}

func newTestServer(t *testing.T, configure func(a *app.App)) *Server {
	t.Helper()

	a := &app.App{
		Config:        common.NewDefaultConfig(),
		Logger:        common.NewSilentLogger(),
		FilingService: &mockFilingService{},
		LookupService: &mockLookupService{},
	}
	if configure != nil {
		configure(a)
	}

	return NewServer(a)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func doRequest(t *testing.T, srv *Server, method, path string, body *bytes.Reader) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

// --- System ---

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHandleConfig_MasksAPIKey(t *testing.T) {
	srv := newTestServer(t, func(a *app.App) {
		a.Config.Clients.Gemini.APIKey = "AIzaSyExample1234567890"
	})

	rec := doRequest(t, srv, http.MethodGet, "/api/config", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "AIza****", resp["gemini_api_key"])
	assert.Equal(t, false, resp["gemini_configured"])
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/filings/fetch", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST", rec.Header().Get("Allow"))
}

// --- Filings ---

func multipartUpload(t *testing.T, fieldName, fileName string, content []byte) (*bytes.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return bytes.NewReader(buf.Bytes()), mw.FormDataContentType()
}

func TestHandleFilingUpload(t *testing.T) {
	srv := newTestServer(t, func(a *app.App) {
		a.FilingService = &mockFilingService{
			ingestUpload: func(ctx context.Context, fileName string, data []byte) (*models.Filing, error) {
				assert.Equal(t, "report.pdf", fileName)
				assert.Equal(t, []byte("%PDF-1.4 fake"), data)
				return &models.Filing{
					FileName: fileName,
					Pages:    3,
					Sections: []models.SectionSummary{{Name: "Chairman's Statement"}},
				}, nil
			},
		}
	})

	body, contentType := multipartUpload(t, "file", "report.pdf", []byte("%PDF-1.4 fake"))
	req := httptest.NewRequest(http.MethodPost, "/api/filings/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var filing models.Filing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filing))
	assert.Equal(t, "report.pdf", filing.FileName)
	assert.Equal(t, 3, filing.Pages)
	require.Len(t, filing.Sections, 1)
}

func TestHandleFilingUpload_NoFile(t *testing.T) {
	srv := newTestServer(t, nil)

	body, contentType := multipartUpload(t, "attachment", "report.pdf", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/filings/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file provided", decodeError(t, rec))
}

func TestHandleFilingUpload_ValidationError(t *testing.T) {
	srv := newTestServer(t, func(a *app.App) {
		a.FilingService = &mockFilingService{
			ingestUpload: func(ctx context.Context, fileName string, data []byte) (*models.Filing, error) {
				return nil, fmt.Errorf("%w: only PDF files are supported", common.ErrValidation)
			},
		}
	})

	body, contentType := multipartUpload(t, "file", "report.docx", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/filings/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "only PDF files are supported", decodeError(t, rec))
}

func TestHandleFilingFetch(t *testing.T) {
	srv := newTestServer(t, func(a *app.App) {
		a.FilingService = &mockFilingService{
			ingestURL: func(ctx context.Context, rawURL string) (*models.Filing, error) {
				assert.Equal(t, "https://example.com/ar.pdf", rawURL)
				return &models.Filing{FileName: "ar.pdf", Pages: 10}, nil
			},
		}
	})

	rec := doRequest(t, srv, http.MethodPost, "/api/filings/fetch",
		jsonBody(t, map[string]string{"url": "https://example.com/ar.pdf"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ar.pdf")
}

func TestHandleFilingFetch_NoURL(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doRequest(t, srv, http.MethodPost, "/api/filings/fetch",
		jsonBody(t, map[string]string{}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No URL provided", decodeError(t, rec))
}

func TestHandleFilingFetch_UpstreamError(t *testing.T) {
	srv := newTestServer(t, func(a *app.App) {
		a.FilingService = &mockFilingService{
			ingestURL: func(ctx context.Context, rawURL string) (*models.Filing, error) {
				return nil, fmt.Errorf("%w: status 404", common.ErrUpstreamFetch)
			},
		}
	})

	rec := doRequest(t, srv, http.MethodPost, "/api/filings/fetch",
		jsonBody(t, map[string]string{"url": "https://example.com/missing.pdf"}))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to fetch PDF from URL", decodeError(t, rec))
}

func TestHandleFilingFetch_ParseError(t *testing.T) {
	srv := newTestServer(t, func(a *app.App) {
		a.FilingService = &mockFilingService{
			ingestURL: func(ctx context.Context, rawURL string) (*models.Filing, error) {
				return nil, fmt.Errorf("%w: bad xref", common.ErrParse)
			},
		}
	})

	rec := doRequest(t, srv, http.MethodPost, "/api/filings/fetch",
		jsonBody(t, map[string]string{"url": "https://example.com/not-a-pdf"}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to parse PDF file. Please ensure it is a valid PDF.", decodeError(t, rec))
}

// --- Companies ---

func TestHandleCompanySearch(t *testing.T) {
	srv := newTestServer(t, func(a *app.App) {
		a.LookupService = &mockLookupService{
			searchCompanies: func(ctx context.Context, query string) ([]models.CompanyResult, error) {
				assert.Equal(t, "reliance", query)
				return []models.CompanyResult{
					{Name: "Reliance Industries Limited", Symbol: "RELIANCE", Exchange: "NSE"},
				}, nil
			},
		}
	})

	rec := doRequest(t, srv, http.MethodPost, "/api/companies/search",
		jsonBody(t, map[string]string{"query": "reliance"}))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results []models.CompanyResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "RELIANCE", resp.Results[0].Symbol)
}

func TestHandleCompanySearch_ValidationError(t *testing.T) {
	srv := newTestServer(t, func(a *app.App) {
		a.LookupService = &mockLookupService{
			searchCompanies: func(ctx context.Context, query string) ([]models.CompanyResult, error) {
				return nil, fmt.Errorf("%w: search query must be at least 2 characters", common.ErrValidation)
			},
		}
	})

	rec := doRequest(t, srv, http.MethodPost, "/api/companies/search",
		jsonBody(t, map[string]string{"query": "r"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "search query must be at least 2 characters", decodeError(t, rec))
}

func TestHandleCompanySearch_EmptyResultIsArray(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doRequest(t, srv, http.MethodPost, "/api/companies/search",
		jsonBody(t, map[string]string{"query": "nothing"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"results":[]`)
}

func TestHandleCompanyReports(t *testing.T) {
	srv := newTestServer(t, func(a *app.App) {
		a.LookupService = &mockLookupService{
			listReports: func(ctx context.Context, scripCode, symbol string) ([]models.AnnualReportListing, error) {
				assert.Equal(t, "500325", scripCode)
				assert.Equal(t, "RELIANCE", symbol)
				return []models.AnnualReportListing{
					{Year: "2024-25", Title: "Annual Report", PDFURL: "https://example.com/ar.pdf", Source: "BSE"},
				}, nil
			},
		}
	})

	rec := doRequest(t, srv, http.MethodPost, "/api/companies/reports",
		jsonBody(t, map[string]string{"bseScripCode": "500325", "symbol": "RELIANCE"}))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Reports []models.AnnualReportListing `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Reports, 1)
	assert.Equal(t, "BSE", resp.Reports[0].Source)
}

func TestHandleCompanyReports_ValidationError(t *testing.T) {
	srv := newTestServer(t, func(a *app.App) {
		a.LookupService = &mockLookupService{
			listReports: func(ctx context.Context, scripCode, symbol string) ([]models.AnnualReportListing, error) {
				return nil, fmt.Errorf("%w: BSE scrip code or symbol is required", common.ErrValidation)
			},
		}
	})

	rec := doRequest(t, srv, http.MethodPost, "/api/companies/reports",
		jsonBody(t, map[string]string{}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BSE scrip code or symbol is required", decodeError(t, rec))
}

// --- Analyze (SSE) ---

func sseFrames(t *testing.T, body string) []string {
	t.Helper()
	var frames []string
	for _, block := range strings.Split(body, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		require.True(t, strings.HasPrefix(block, "data: "), "unexpected SSE block: %q", block)
		frames = append(frames, strings.TrimPrefix(block, "data: "))
	}
	return frames
}

func TestHandleFilingAnalyze_Streams(t *testing.T) {
	srv := newTestServer(t, func(a *app.App) {
		a.AnalysisService = &mockAnalysisService{
			analyze: func(ctx context.Context, req *models.AnalyzeRequest, emit func(string) error) error {
				assert.Equal(t, models.AnalysisSummarize, req.AnalysisType)
				for _, f := range []string{"Revenue grew ", "12% YoY."} {
					if err := emit(f); err != nil {
						return err
					}
				}
				return nil
			},
		}
	})

	rec := doRequest(t, srv, http.MethodPost, "/api/filings/analyze",
		jsonBody(t, map[string]string{"text": "report body", "analysisType": "summarize"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	frames := sseFrames(t, rec.Body.String())
	require.Len(t, frames, 3)
	assert.JSONEq(t, `{"text":"Revenue grew "}`, frames[0])
	assert.JSONEq(t, `{"text":"12% YoY."}`, frames[1])
	assert.Equal(t, "[DONE]", frames[2])
}

func TestHandleFilingAnalyze_ValidationIsPlainJSON(t *testing.T) {
	srv := newTestServer(t, func(a *app.App) {
		a.AnalysisService = &mockAnalysisService{
			analyze: func(ctx context.Context, req *models.AnalyzeRequest, emit func(string) error) error {
				return fmt.Errorf("%w: no text provided", common.ErrValidation)
			},
		}
	})

	rec := doRequest(t, srv, http.MethodPost, "/api/filings/analyze",
		jsonBody(t, map[string]string{"analysisType": "summarize"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no text provided", decodeError(t, rec))
}

func TestHandleFilingAnalyze_ProviderErrorFrame(t *testing.T) {
	srv := newTestServer(t, func(a *app.App) {
		a.AnalysisService = &mockAnalysisService{
			analyze: func(ctx context.Context, req *models.AnalyzeRequest, emit func(string) error) error {
				if err := emit("partial output"); err != nil {
					return err
				}
				return fmt.Errorf("%w: upstream hiccup", common.ErrProviderStream)
			},
		}
	})

	rec := doRequest(t, srv, http.MethodPost, "/api/filings/analyze",
		jsonBody(t, map[string]string{"text": "report body", "analysisType": "summarize"}))

	assert.Equal(t, http.StatusOK, rec.Code)

	frames := sseFrames(t, rec.Body.String())
	require.Len(t, frames, 2)
	assert.JSONEq(t, `{"text":"partial output"}`, frames[0])
	assert.JSONEq(t, `{"error":"Analysis failed. Please check the API configuration and try again."}`, frames[1])
}

func TestHandleFilingAnalyze_NotConfigured(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doRequest(t, srv, http.MethodPost, "/api/filings/analyze",
		jsonBody(t, map[string]string{"text": "report body"}))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Analysis is not configured", decodeError(t, rec))
}
