// Package app wires configuration, clients, and services for FilingLens
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/filinglens/internal/clients/bse"
	"github.com/bobmcallan/filinglens/internal/clients/gemini"
	"github.com/bobmcallan/filinglens/internal/clients/nse"
	"github.com/bobmcallan/filinglens/internal/common"
	"github.com/bobmcallan/filinglens/internal/interfaces"
	"github.com/bobmcallan/filinglens/internal/services/analysis"
	"github.com/bobmcallan/filinglens/internal/services/filing"
	"github.com/bobmcallan/filinglens/internal/services/lookup"
)

// App holds all initialized services and clients. It is the shared core
// used by cmd/filinglens-server and by tests.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	NSEClient       interfaces.NSEClient
	BSEClient       interfaces.BSEClient
	LLMClient       interfaces.LLMClient
	FilingService   interfaces.FilingService
	LookupService   interfaces.LookupService
	AnalysisService interfaces.AnalysisService
	StartupTime     time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, logging, clients, and services.
// configPath may be empty, in which case the default resolution logic is
// used: FILINGLENS_CONFIG, then filinglens.toml next to the binary, then
// config/filinglens.toml for development.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("FILINGLENS_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "filinglens.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/filinglens.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	nseClient := nse.NewClient(
		nse.WithBaseURL(config.Clients.NSE.BaseURL),
		nse.WithRateLimit(config.Clients.NSE.RateLimit),
		nse.WithTimeout(config.Clients.NSE.GetTimeout()),
		nse.WithLogger(logger),
	)

	bseClient := bse.NewClient(
		bse.WithBaseURL(config.Clients.BSE.BaseURL),
		bse.WithRateLimit(config.Clients.BSE.RateLimit),
		bse.WithTimeout(config.Clients.BSE.GetTimeout()),
		bse.WithLogger(logger),
	)

	// The Gemini client is optional: without an API key the service still
	// ingests and looks up filings, but analyze calls fail fast.
	var llmClient interfaces.LLMClient
	if apiKey, err := common.ResolveAPIKey(config.Clients.Gemini.APIKey); err != nil {
		logger.Warn().Msg("Gemini API key not configured, analysis disabled")
	} else {
		llmClient, err = gemini.NewClient(ctx, apiKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithMaxOutputTokens(config.Clients.Gemini.MaxOutputTokens),
			gemini.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
	}

	a := &App{
		Config:    config,
		Logger:    logger,
		NSEClient: nseClient,
		BSEClient: bseClient,
		LLMClient: llmClient,
		FilingService: filing.NewService(
			filing.WithLogger(logger),
			filing.WithFetchTimeout(config.Clients.Fetch.GetTimeout()),
		),
		LookupService: lookup.NewService(nseClient, bseClient, logger),
		StartupTime:   time.Now(),
	}

	if llmClient != nil {
		a.AnalysisService = analysis.NewService(llmClient,
			analysis.WithLogger(logger),
			analysis.WithBudgets(
				config.Analysis.SummarizeCharBudget,
				config.Analysis.DiffCharBudget,
				config.Analysis.ChatCharBudget,
			),
		)
	}

	return a, nil
}

// Close releases client resources.
func (a *App) Close() {
	if a.LLMClient != nil {
		if err := a.LLMClient.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM client")
		}
	}
}
