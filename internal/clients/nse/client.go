// Package nse provides a client for NSE India public endpoints
package nse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/filinglens/internal/common"
	"github.com/bobmcallan/filinglens/internal/interfaces"
	"github.com/bobmcallan/filinglens/internal/models"
)

const (
	DefaultBaseURL   = "https://www.nseindia.com"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 2 // requests per second

	// sessionPrimeTimeout bounds the cookie-priming request that NSE
	// requires before its JSON APIs answer.
	sessionPrimeTimeout = 5 * time.Second

	maxSearchResults = 10

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Client implements the NSEClient interface.
// NSE endpoints are public but reject non-browser clients, so every request
// carries desktop browser headers and the annual-reports API is preceded by
// a session-cookie priming request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new NSE India client.
// No API key is required — these are public endpoints.
func NewClient(opts ...ClientOption) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// autocompleteResponse is the NSE search autocomplete payload.
type autocompleteResponse struct {
	Symbols []struct {
		Symbol      string `json:"symbol"`
		SymbolInfo  string `json:"symbol_info"`
		CompanyName string `json:"company_name"`
	} `json:"symbols"`
}

// SearchCompanies queries the NSE autocomplete endpoint and normalizes the
// top matches to CompanyResult.
func (c *Client) SearchCompanies(ctx context.Context, query string) ([]models.CompanyResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s/api/search/autocomplete?q=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setBrowserHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Warn().Err(err).Str("query", query).Dur("elapsed", elapsed).Msg("NSE autocomplete request failed")
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Str("query", query).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("NSE autocomplete non-OK response")
		return nil, fmt.Errorf("NSE autocomplete error: status %d", resp.StatusCode)
	}

	var apiResp autocompleteResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var results []models.CompanyResult
	for i, item := range apiResp.Symbols {
		if i >= maxSearchResults {
			break
		}
		name := item.SymbolInfo
		if name == "" {
			name = item.CompanyName
		}
		if name == "" {
			name = item.Symbol
		}
		results = append(results, models.CompanyResult{
			Name:     name,
			Symbol:   item.Symbol,
			Exchange: "NSE",
		})
	}

	c.logger.Debug().Str("query", query).Int("count", len(results)).Dur("elapsed", elapsed).Msg("NSE autocomplete call")

	return results, nil
}

// annualReportItem is one row of the NSE annual-reports payload.
type annualReportItem struct {
	Year        string `json:"year"`
	FromYear    string `json:"fromYear"`
	CompanyName string `json:"companyName"`
	FileName    string `json:"fileName"`
	PDFLink     string `json:"pdfLink"`
}

// GetAnnualReports retrieves annual-report listings for an NSE symbol.
// A priming request against the NSE home page establishes the session
// cookies the JSON API requires.
func (c *Client) GetAnnualReports(ctx context.Context, symbol string) ([]models.AnnualReportListing, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	if err := c.primeSession(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/api/annual-reports?index=equities&symbol=%s", c.baseURL, url.QueryEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setBrowserHeaders(req)
	req.Header.Set("Referer", c.baseURL+"/")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Dur("elapsed", elapsed).Msg("NSE annual-reports request failed")
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Str("symbol", symbol).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("NSE annual-reports non-OK response")
		return nil, fmt.Errorf("NSE annual-reports error: status %d for symbol %s", resp.StatusCode, symbol)
	}

	var items []annualReportItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var listings []models.AnnualReportListing
	for _, item := range items {
		pdfURL := item.FileName
		if pdfURL == "" {
			pdfURL = item.PDFLink
		}
		if pdfURL == "" {
			continue
		}

		year := item.Year
		if year == "" {
			year = item.FromYear
		}
		if year == "" {
			year = "Unknown"
		}

		title := "Annual Report"
		if item.CompanyName != "" {
			title = item.CompanyName + " Annual Report"
		}

		listings = append(listings, models.AnnualReportListing{
			Year:   year,
			Title:  title,
			PDFURL: pdfURL,
			Source: "NSE",
		})
	}

	c.logger.Info().Str("symbol", symbol).Int("count", len(listings)).Dur("elapsed", elapsed).Msg("NSE annual-reports call")

	return listings, nil
}

// primeSession visits the NSE home page to collect session cookies.
func (c *Client) primeSession(ctx context.Context) error {
	primeCtx, cancel := context.WithTimeout(ctx, sessionPrimeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(primeCtx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create session request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to prime NSE session: %w", err)
	}
	resp.Body.Close()

	return nil
}

func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
}

// Ensure Client implements NSEClient
var _ interfaces.NSEClient = (*Client)(nil)
