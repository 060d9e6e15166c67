// Package github fetches the public identity data the roast pipeline works from:
// profile, repositories, contribution total and profile README.
package github

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public GitHub API root.
const DefaultBaseURL = "https://api.github.com"

// Client provides methods for interacting with the GitHub API.
type Client struct {
	logger      *slog.Logger
	httpClient  *http.Client
	githubToken string
	baseURL     string
}

// NewClient creates a new GitHub API client. An empty baseURL selects api.github.com.
func NewClient(logger *slog.Logger, httpClient *http.Client, githubToken, baseURL string) *Client {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		logger:      logger,
		httpClient:  httpClient,
		githubToken: githubToken,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
	}
}

// newRequest builds an authenticated API request relative to the base URL.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.githubToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.githubToken)
	}
	return req, nil
}

// do sends req and logs the outcome. The caller closes the response body.
func (c *Client) do(req *http.Request, endpoint string) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("GitHub request failed",
			"endpoint", endpoint,
			"url", req.URL.String(),
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	c.logger.Debug("GitHub request completed",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"rate_limit_remaining", resp.Header.Get("X-Ratelimit-Remaining"),
		"duration_ms", time.Since(start).Milliseconds())
	return resp, nil
}

func (c *Client) closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.logger.Debug("failed to close response body", "error", err)
	}
}

// defaultHTTPClient returns a default HTTP client with timeout.
func defaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
	}
}
