package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every roastz environment variable, e.g. ROASTZ_RATE_LIMIT.
const EnvPrefix = "ROASTZ_"

// wellKnownEnv fills settings from the conventional variable names when the
// ROASTZ_ form is not set.
var wellKnownEnv = []struct {
	name  string
	field func(*Config) *string
}{
	{"GITHUB_TOKEN", func(c *Config) *string { return &c.GitHubToken }},
	{"GEMINI_API_KEY", func(c *Config) *string { return &c.GeminiAPIKey }},
	{"GCP_PROJECT", func(c *Config) *string { return &c.GCPProject }},
	{"GOOGLE_CLOUD_PROJECT", func(c *Config) *string { return &c.GCPProject }},
	{"DATABASE_URL", func(c *Config) *string { return &c.CounterDSN }},
}

// Load builds a Config by layering, from lowest to highest precedence:
//  1. defaults (New)
//  2. well-known variables such as GITHUB_TOKEN and DATABASE_URL
//  3. the YAML file named by ROASTZ_CONFIG, if set
//  4. ROASTZ_* environment variables
//
// A .env file in the working directory is loaded into the environment first;
// variables that are already set win over it.
func Load(_ context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := New()
	for _, e := range wellKnownEnv {
		if v := os.Getenv(e.name); v != "" {
			*e.field(cfg) = v
		}
	}
	// GEMINI_MODEL only overrides the default, never a configured value.
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}

	k := koanf.New(".")

	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// ResolveGitHubToken falls back to the gh CLI when no token is configured.
// It is a no-op when a token is already set or gh is unavailable.
func (c *Config) ResolveGitHubToken(ctx context.Context, logger *slog.Logger) {
	if c.GitHubToken != "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err != nil {
		logger.Debug("gh auth token unavailable", "error", err)
		return
	}
	if token := strings.TrimSpace(string(out)); token != "" {
		logger.Debug("using GitHub token from gh CLI")
		c.GitHubToken = token
	}
}

// ParseLevel maps a log level name to a slog level. Unknown names mean info.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}
