// Package config loads process configuration for the roastz binaries.
package config

import (
	"errors"
	"time"

	"github.com/codeGROOVE-dev/roastz/pkg/gemini"
	"github.com/codeGROOVE-dev/roastz/pkg/github"
	"github.com/codeGROOVE-dev/roastz/pkg/roast"
)

// Defaults.
const (
	DefaultAddr           = ":8080"
	DefaultCounterDSN     = "roastz.db"
	DefaultRateLimit      = 15
	DefaultRequestTimeout = 30 * time.Second
	DefaultGCPLocation    = "us-central1"
)

// Config holds everything the server and CLI need.
type Config struct {
	Addr     string `koanf:"addr"`
	LogLevel string `koanf:"log_level"`

	GitHubToken  string `koanf:"github_token"`
	GitHubAPIURL string `koanf:"github_api_url"`

	GeminiAPIKey  string `koanf:"gemini_api_key"`
	GeminiModel   string `koanf:"gemini_model"`
	GeminiBaseURL string `koanf:"gemini_base_url"`
	GCPProject    string `koanf:"gcp_project"`
	GCPLocation   string `koanf:"gcp_location"`

	// CounterDSN selects the roast counter backend: a SQLite path, "sqlite:<path>",
	// a postgres:// URL, or "memory:".
	CounterDSN string `koanf:"counter_dsn"`

	// RateLimit is the number of roasts one client IP may request per minute.
	RateLimit      int           `koanf:"rate_limit"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	MaxReadmeBytes int           `koanf:"max_readme_bytes"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:           DefaultAddr,
		LogLevel:       "info",
		GitHubAPIURL:   github.DefaultBaseURL,
		GeminiModel:    gemini.DefaultModel,
		GCPLocation:    DefaultGCPLocation,
		CounterDSN:     DefaultCounterDSN,
		RateLimit:      DefaultRateLimit,
		RequestTimeout: DefaultRequestTimeout,
		MaxReadmeBytes: roast.DefaultMaxReadmeBytes,
	}
}

// Validate reports every missing or malformed setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.GitHubToken == "" {
		errs = append(errs, errors.New("a GitHub token is required (set GITHUB_TOKEN, ROASTZ_GITHUB_TOKEN or log in with gh)"))
	} else if !github.LooksLikeToken(c.GitHubToken) {
		errs = append(errs, errors.New("the GitHub token does not look like a GitHub token"))
	}
	if c.GeminiAPIKey == "" && c.GCPProject == "" {
		errs = append(errs, errors.New("either a Gemini API key (GEMINI_API_KEY) or a GCP project (GCP_PROJECT) is required"))
	}
	if c.CounterDSN == "" {
		errs = append(errs, errors.New("counter_dsn must not be empty"))
	}
	if c.RateLimit <= 0 {
		errs = append(errs, errors.New("rate_limit must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	return errors.Join(errs...)
}

// GeminiConfig returns the generation client settings.
func (c *Config) GeminiConfig() gemini.Config {
	return gemini.Config{
		APIKey:     c.GeminiAPIKey,
		Model:      c.GeminiModel,
		GCPProject: c.GCPProject,
		Location:   c.GCPLocation,
		BaseURL:    c.GeminiBaseURL,
	}
}
