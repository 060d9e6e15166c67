// Package main implements the roastz web server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/roastz/pkg/config"
	"github.com/codeGROOVE-dev/roastz/pkg/counter"
	"github.com/codeGROOVE-dev/roastz/pkg/gemini"
	"github.com/codeGROOVE-dev/roastz/pkg/github"
	"github.com/codeGROOVE-dev/roastz/pkg/metrics"
	"github.com/codeGROOVE-dev/roastz/pkg/roast"
	"github.com/codeGROOVE-dev/roastz/pkg/server"
)

var (
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	version = flag.Bool("version", false, "Show version")
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roastz-server: %v\n", err)
		os.Exit(1)
	}
	cfg.RegisterServerFlags(flag.CommandLine)
	flag.Parse()

	if *version {
		fmt.Println("roastz server v1.0.0")
		return
	}

	level := config.ParseLevel(cfg.LogLevel)
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg.ResolveGitHubToken(ctx, logger)
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Log configuration (without exposing sensitive keys)
	logger.Info("Server configuration",
		"addr", cfg.Addr,
		"gemini_model", cfg.GeminiModel,
		"github_api", cfg.GitHubAPIURL,
		"rate_limit", cfg.RateLimit,
		"request_timeout", cfg.RequestTimeout,
		"has_github_token", cfg.GitHubToken != "",
		"has_gemini_key", cfg.GeminiAPIKey != "",
		"has_gcp_project", cfg.GCPProject != "")

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	m := metrics.New()

	httpClient := &http.Client{
		Timeout:   cfg.RequestTimeout,
		Transport: m.InstrumentTransport(nil),
	}
	gh := github.NewClient(logger, httpClient, cfg.GitHubToken, cfg.GitHubAPIURL)

	generator, err := gemini.NewClient(ctx, cfg.GeminiConfig(), logger)
	if err != nil {
		return fmt.Errorf("creating Gemini client: %w", err)
	}
	defer func() {
		if err := generator.Close(); err != nil {
			logger.Error("Failed to close Gemini client", "error", err)
		}
	}()

	store, err := counter.Open(ctx, cfg.CounterDSN, logger)
	if err != nil {
		return fmt.Errorf("opening roast counter: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close roast counter", "error", err)
		}
	}()
	if total, err := store.Count(ctx); err == nil {
		m.SetTotalRoasts(total)
	}

	roaster, err := roast.New(logger, gh, generator, store, roast.WithMaxReadmeBytes(cfg.MaxReadmeBytes))
	if err != nil {
		return err
	}

	handler, err := server.New(logger, roaster,
		server.WithMetrics(m),
		server.WithRateLimit(cfg.RateLimit),
		server.WithRequestTimeout(cfg.RequestTimeout),
	).Handler()
	if err != nil {
		return fmt.Errorf("building handler: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
