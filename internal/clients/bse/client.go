// Package bse provides a client for BSE India public endpoints
package bse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/filinglens/internal/common"
	"github.com/bobmcallan/filinglens/internal/interfaces"
	"github.com/bobmcallan/filinglens/internal/models"
)

const (
	DefaultBaseURL   = "https://api.bseindia.com/BseIndiaAPI/api"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 2 // requests per second

	siteURL          = "https://www.bseindia.com"
	attachmentPrefix = siteURL + "/xml-data/corpfiling/AttachHis/"

	// announcementLookback is how many years of filings the announcement
	// search spans.
	announcementLookback = 3

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Client implements the BSEClient interface.
// BSE endpoints require browser-like Referer/Origin headers but no API key.
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

// NewClient creates a new BSE India client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// annReportItem is one row of the BSE annual-report API payload. Field
// names vary across report vintages, so several aliases are decoded.
type annReportItem struct {
	FilePath      string `json:"FilePath"`
	PDFPath       string `json:"PDFPath"`
	AttachmentURL string `json:"AttachmentUrl"`
	RptFor        string `json:"RptFor"`
	Year          string `json:"Year"`
	RptType       string `json:"RptType"`
	HeadLine      string `json:"HeadLine"`
}

// GetAnnualReports retrieves annual-report listings for a BSE scrip code.
func (c *Client) GetAnnualReports(ctx context.Context, scripCode string) ([]models.AnnualReportListing, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s/AnnualReport/GetAnnReportData?strType=C&scripcode=%s", c.baseURL, url.QueryEscape(scripCode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Warn().Err(err).Str("scrip", scripCode).Dur("elapsed", elapsed).Msg("BSE annual-report request failed")
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Str("scrip", scripCode).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("BSE annual-report non-OK response")
		return nil, fmt.Errorf("BSE annual-report error: status %d for scrip %s", resp.StatusCode, scripCode)
	}

	var items []annReportItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var listings []models.AnnualReportListing
	for _, item := range items {
		pdfURL := item.FilePath
		if pdfURL == "" {
			pdfURL = item.PDFPath
		}
		if pdfURL == "" {
			pdfURL = item.AttachmentURL
		}
		if pdfURL == "" {
			continue
		}
		if !strings.HasPrefix(pdfURL, "http") {
			pdfURL = siteURL + pdfURL
		}

		year := item.RptFor
		if year == "" {
			year = item.Year
		}
		if year == "" {
			year = "Unknown"
		}

		title := item.RptType
		if title == "" {
			title = item.HeadLine
		}
		if title == "" {
			title = "Annual Report"
		}

		listings = append(listings, models.AnnualReportListing{
			Year:   year,
			Title:  title,
			PDFURL: pdfURL,
			Source: "BSE",
		})
	}

	c.logger.Info().Str("scrip", scripCode).Int("count", len(listings)).Dur("elapsed", elapsed).Msg("BSE annual-report call")

	return listings, nil
}

// announcementResponse is the BSE corporate-filing search payload.
type announcementResponse struct {
	Table []struct {
		AttachmentName string `json:"ATTACHMENTNAME"`
		HeadLine       string `json:"HEADLINE"`
		NewsDate       string `json:"NEWS_DT"`
	} `json:"Table"`
}

// SearchAnnouncements searches corporate filing announcements in the
// "Annual Report" category for a BSE scrip code, spanning the last few
// fiscal years.
func (c *Client) SearchAnnouncements(ctx context.Context, scripCode string) ([]models.AnnualReportListing, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	currentYear := time.Now().Year()
	reqURL := fmt.Sprintf(
		"%s/AnnSubCategoryGetData/GetAnnSubCategoryDataForAll?strCat=Annual%%20Report&strType=C&strScrip=%s&strSearch=P&strFromDate=01/01/%d&strToDate=31/12/%d",
		c.baseURL, url.QueryEscape(scripCode), currentYear-announcementLookback, currentYear)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Warn().Err(err).Str("scrip", scripCode).Dur("elapsed", elapsed).Msg("BSE announcement search failed")
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Str("scrip", scripCode).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("BSE announcement search non-OK response")
		return nil, fmt.Errorf("BSE announcement search error: status %d for scrip %s", resp.StatusCode, scripCode)
	}

	var apiResp announcementResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var listings []models.AnnualReportListing
	for _, item := range apiResp.Table {
		if item.AttachmentName == "" {
			continue
		}

		pdfURL := item.AttachmentName
		if !strings.HasPrefix(pdfURL, "http") {
			pdfURL = attachmentPrefix + pdfURL
		}

		year := "Unknown"
		if item.NewsDate != "" {
			if t, err := time.Parse("2006-01-02T15:04:05", item.NewsDate); err == nil {
				year = fmt.Sprintf("%d", t.Year())
			}
		}

		title := item.HeadLine
		if title == "" {
			title = "Annual Report"
		}

		listings = append(listings, models.AnnualReportListing{
			Year:   year,
			Title:  title,
			PDFURL: pdfURL,
			Source: "BSE Filing",
		})
	}

	c.logger.Info().Str("scrip", scripCode).Int("count", len(listings)).Dur("elapsed", elapsed).Msg("BSE announcement search call")

	return listings, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", siteURL+"/")
	req.Header.Set("Origin", siteURL)
}

// Ensure Client implements BSEClient
var _ interfaces.BSEClient = (*Client)(nil)
