// Package roast runs the profile roast pipeline: fetch a GitHub user's public
// data, summarize it, ask the model for a roast and count the result.
package roast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codeGROOVE-dev/roastz/pkg/counter"
	"github.com/codeGROOVE-dev/roastz/pkg/stats"
)

// counterWriteTimeout bounds the counter write once a roast exists.
const counterWriteTimeout = 5 * time.Second

// Roaster sequences the pipeline for one handle at a time; it is safe for concurrent use.
type Roaster struct {
	logger         *slog.Logger
	fetcher        Fetcher
	generator      Generator
	counter        counter.Store
	keepPrompt     bool
	maxReadmeBytes int
}

// New creates a Roaster from its collaborators.
func New(logger *slog.Logger, fetcher Fetcher, generator Generator, store counter.Store, opts ...Option) (*Roaster, error) {
	if fetcher == nil || generator == nil || store == nil {
		return nil, errors.New("roast: fetcher, generator and counter are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	optHolder := &OptionHolder{maxReadmeBytes: DefaultMaxReadmeBytes}
	for _, opt := range opts {
		opt(optHolder)
	}

	return &Roaster{
		logger:         logger,
		fetcher:        fetcher,
		generator:      generator,
		counter:        store,
		keepPrompt:     optHolder.keepPrompt,
		maxReadmeBytes: optHolder.maxReadmeBytes,
	}, nil
}

// Roast produces a roast for handle. Fetch and generation failures abort the
// pipeline and are returned as-is. A counter failure does not: it is logged and
// reported through Result.CounterErr.
func (r *Roaster) Roast(ctx context.Context, handle string) (*Result, error) {
	username := strings.TrimSpace(handle)
	if username == "" {
		return nil, ErrInvalidInput
	}

	start := time.Now()
	r.logger.Info("roast started", "username", username)

	id, err := r.collect(ctx, username)
	if err != nil {
		r.logger.Warn("identity fetch failed", "username", username, "error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	summary := stats.Compute(id.repos)
	readme := truncateUTF8(flattenReadme(id.readme), r.maxReadmeBytes)
	prompt := BuildPrompt(id.user, id.contributions, summary.TotalStars, readme, summary.DominantLanguage)

	r.logger.Debug("prompt built",
		"username", username,
		"most_used_language", summary.DominantLanguage,
		"total_stars", summary.TotalStars,
		"contributions", id.contributions,
		"prompt_length", len(prompt))

	text, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		r.logger.Warn("roast generation failed", "username", username, "error", err)
		return nil, &GenerationError{Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &GenerationError{Err: errors.New("model returned no text")}
	}

	// An abandoned request must not be counted.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		User:          id.user,
		Roast:         text,
		Summary:       summary,
		Contributions: id.contributions,
	}
	if r.keepPrompt {
		result.Prompt = prompt
	}

	// The roast exists now; record it even if the caller goes away mid-write.
	countCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), counterWriteTimeout)
	defer cancel()
	total, err := r.counter.Increment(countCtx)
	if err != nil {
		r.logger.Error("failed to record roast", "username", username, "error", err)
		result.CounterErr = err
	} else {
		result.TotalRoasts = total
	}

	r.logger.Info("roast completed",
		"username", username,
		"total_roasts", result.TotalRoasts,
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

// TotalRoasts returns the global roast count.
func (r *Roaster) TotalRoasts(ctx context.Context) (int64, error) {
	return r.counter.Count(ctx)
}

// collect runs the four independent fetches concurrently. The first failure
// cancels the rest. When several fail, the error of the earliest fetch in
// profile, contributions, readme, repositories order is returned unchanged.
func (r *Roaster) collect(ctx context.Context, username string) (*identity, error) {
	var id identity
	var errs [4]error
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		user, err := r.fetcher.FetchUser(gctx, username)
		if err == nil && user == nil {
			err = fmt.Errorf("no profile returned for %s", username)
		}
		id.user, errs[0] = user, err
		return err
	})
	g.Go(func() error {
		id.contributions, errs[1] = r.fetcher.FetchContributionTotal(gctx, username)
		return errs[1]
	})
	g.Go(func() error {
		id.readme, errs[2] = r.fetcher.FetchReadme(gctx, username)
		return errs[2]
	})
	g.Go(func() error {
		id.repos, errs[3] = r.fetcher.FetchRepositories(gctx, username)
		return errs[3]
	})

	first := g.Wait()
	if first == nil {
		return &id, nil
	}
	if ctx.Err() != nil {
		return nil, first
	}
	for _, err := range errs {
		if err == nil {
			continue
		}
		if err == first {
			return nil, err
		}
		// A sibling's failure cancels gctx with that failure as its cause, and
		// net/http surfaces the cause rather than context.Canceled.
		if errors.Is(err, context.Canceled) || errors.Is(err, first) {
			continue
		}
		return nil, err
	}
	return nil, first
}
