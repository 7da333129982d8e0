package filing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/bobmcallan/filinglens/internal/common"
	"github.com/bobmcallan/filinglens/internal/interfaces"
	"github.com/bobmcallan/filinglens/internal/models"
)

const (
	// DefaultFetchTimeout bounds remote PDF downloads. Annual reports run
	// to hundreds of pages, so this is generous.
	DefaultFetchTimeout = 60 * time.Second

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Service implements the FilingService interface
type Service struct {
	httpClient *http.Client
	logger     *common.Logger
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithFetchTimeout sets the remote PDF fetch timeout
func WithFetchTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		s.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the HTTP client used for remote fetches
func WithHTTPClient(client *http.Client) ServiceOption {
	return func(s *Service) {
		s.httpClient = client
	}
}

// NewService creates a new filing ingestion service
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		httpClient: &http.Client{Timeout: DefaultFetchTimeout},
		logger:     common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// IngestUpload parses an uploaded PDF and returns the filing with detected
// sections. The file name must end in .pdf.
func (s *Service) IngestUpload(ctx context.Context, fileName string, data []byte) (*models.Filing, error) {
	if !strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
		return nil, fmt.Errorf("%w: only PDF files are accepted", common.ErrValidation)
	}

	filing, err := s.build(fileName, data)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("file", fileName).
		Int("pages", filing.Pages).
		Int("sections", len(filing.FullSections)).
		Int("chars", len(filing.Text)).
		Msg("Ingested uploaded PDF")

	return filing, nil
}

// IngestURL downloads a PDF from a remote URL and returns the filing with
// detected sections. The request carries a desktop browser User-Agent since
// exchange attachment servers reject default Go clients. Single attempt,
// no retry.
func (s *Service) IngestURL(ctx context.Context, rawURL string) (*models.Filing, error) {
	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: invalid URL", common.ErrValidation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamFetch, err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", rawURL).Msg("PDF fetch failed")
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Warn().Int("status", resp.StatusCode).Str("url", rawURL).Msg("PDF fetch non-OK status")
		return nil, fmt.Errorf("%w: HTTP %d", common.ErrUpstreamFetch, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamFetch, err)
	}

	fileName := path.Base(parsed.Path)
	if fileName == "" || fileName == "/" || fileName == "." {
		fileName = "fetched-report.pdf"
	}

	filing, err := s.build(fileName, data)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("url", rawURL).
		Int("pages", filing.Pages).
		Int("sections", len(filing.FullSections)).
		Dur("elapsed", time.Since(start)).
		Msg("Ingested fetched PDF")

	return filing, nil
}

// build extracts text and assembles the Filing from raw PDF bytes.
func (s *Service) build(fileName string, data []byte) (*models.Filing, error) {
	text, pages, err := extractText(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("file", fileName).Msg("PDF text extraction failed")
		return nil, fmt.Errorf("%w: %v", common.ErrParse, err)
	}

	sections := DetectSections(text)

	return &models.Filing{
		Text:         text,
		Pages:        pages,
		FileName:     fileName,
		FileSize:     int64(len(data)),
		Sections:     models.Summarize(sections),
		FullSections: sections,
	}, nil
}

// extractText extracts plain text and the page count from PDF bytes.
// Pages whose content cannot be decoded are skipped rather than failing
// the whole document.
func extractText(data []byte) (string, int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	totalPages := reader.NumPage()

	var sb strings.Builder
	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return sb.String(), totalPages, nil
}

// Ensure Service implements FilingService
var _ interfaces.FilingService = (*Service)(nil)
