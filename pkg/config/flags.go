package config

import "flag"

// RegisterFlags binds command-line flags to c. Call it after Load so that the
// loaded values become the flag defaults and explicit flags win.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.GitHubToken, "github-token", c.GitHubToken, "GitHub API token (or set GITHUB_TOKEN)")
	fs.StringVar(&c.GitHubAPIURL, "github-api", c.GitHubAPIURL, "GitHub API base URL")
	fs.StringVar(&c.GeminiAPIKey, "gemini-key", c.GeminiAPIKey, "Gemini API key (or set GEMINI_API_KEY)")
	fs.StringVar(&c.GeminiModel, "gemini-model", c.GeminiModel, "Gemini model to use (or set GEMINI_MODEL)")
	fs.StringVar(&c.GCPProject, "gcp-project", c.GCPProject, "GCP project ID for Vertex AI (or set GCP_PROJECT)")
	fs.StringVar(&c.CounterDSN, "counter-dsn", c.CounterDSN, "Roast counter store: SQLite path, postgres:// URL or memory: (or set DATABASE_URL)")
	fs.DurationVar(&c.RequestTimeout, "timeout", c.RequestTimeout, "Timeout for one roast")
}

// RegisterServerFlags binds the flags only the HTTP server uses.
func (c *Config) RegisterServerFlags(fs *flag.FlagSet) {
	c.RegisterFlags(fs)
	fs.StringVar(&c.Addr, "addr", c.Addr, "Listen address")
	fs.IntVar(&c.RateLimit, "rate-limit", c.RateLimit, "Roasts per minute per client IP")
}
