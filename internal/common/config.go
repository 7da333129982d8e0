// Package common provides shared utilities for FilingLens
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for FilingLens
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Clients     ClientsConfig `toml:"clients"`
	Analysis    AnalysisConfig `toml:"analysis"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	NSE    NSEConfig    `toml:"nse"`
	BSE    BSEConfig    `toml:"bse"`
	Gemini GeminiConfig `toml:"gemini"`
	Fetch  FetchConfig  `toml:"fetch"`
}

// NSEConfig holds NSE India API configuration
type NSEConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *NSEConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// BSEConfig holds BSE India API configuration
type BSEConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *BSEConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey          string `toml:"api_key"`
	Model           string `toml:"model"`
	MaxOutputTokens int    `toml:"max_output_tokens"`
}

// FetchConfig holds remote PDF fetch configuration
type FetchConfig struct {
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration for remote PDF fetches
func (c *FetchConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// AnalysisConfig holds analysis text budgets
type AnalysisConfig struct {
	SummarizeCharBudget int `toml:"summarize_char_budget"`
	DiffCharBudget      int `toml:"diff_char_budget"`
	ChatCharBudget      int `toml:"chat_char_budget"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Clients: ClientsConfig{
			NSE: NSEConfig{
				BaseURL:   "https://www.nseindia.com",
				RateLimit: 2,
				Timeout:   "10s",
			},
			BSE: BSEConfig{
				BaseURL:   "https://api.bseindia.com/BseIndiaAPI/api",
				RateLimit: 2,
				Timeout:   "10s",
			},
			Gemini: GeminiConfig{
				Model:           "gemini-2.0-flash",
				MaxOutputTokens: 4096,
			},
			Fetch: FetchConfig{
				Timeout: "60s",
			},
		},
		Analysis: AnalysisConfig{
			SummarizeCharBudget: 100_000,
			DiffCharBudget:      80_000,
			ChatCharBudget:      100_000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FILINGLENS_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FILINGLENS_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FILINGLENS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FILINGLENS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if model := os.Getenv("FILINGLENS_GEMINI_MODEL"); model != "" {
		config.Clients.Gemini.Model = model
	}
}

// ResolveAPIKey resolves the Gemini API key from environment or config fallback
func ResolveAPIKey(fallback string) (string, error) {
	for _, name := range []string{"GEMINI_API_KEY", "FILINGLENS_GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			return v, nil
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("gemini API key not found in environment or config")
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
