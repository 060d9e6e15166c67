package roast

import (
	"context"

	"github.com/codeGROOVE-dev/roastz/pkg/github"
	"github.com/codeGROOVE-dev/roastz/pkg/stats"
)

// Fetcher retrieves identity data for a GitHub handle. *github.Client implements it.
type Fetcher interface {
	FetchUser(ctx context.Context, username string) (*github.User, error)
	FetchRepositories(ctx context.Context, username string) ([]github.Repository, error)
	FetchContributionTotal(ctx context.Context, username string) (int, error)
	FetchReadme(ctx context.Context, username string) (string, error)
}

// Generator turns a prompt into text. *gemini.Client implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result is the outcome of one successful roast.
type Result struct {
	User          *github.User  `json:"user"`
	Roast         string        `json:"roast"`
	Summary       stats.Summary `json:"summary"`
	Contributions int           `json:"contributions"`
	// TotalRoasts is the global counter after this roast, 0 if it could not be recorded.
	TotalRoasts int64 `json:"total_roasts"`
	// Prompt is only kept when the Roaster was built WithKeepPrompt.
	Prompt string `json:"prompt,omitempty"`
	// CounterErr is set when the roast succeeded but the counter write failed.
	CounterErr error `json:"-"`
}

// identity is everything fetched from GitHub for one handle.
type identity struct {
	user          *github.User
	repos         []github.Repository
	contributions int
	readme        string
}
