// Package main implements the roastz CLI, which roasts a GitHub profile from the terminal.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/codeGROOVE-dev/roastz/pkg/config"
	"github.com/codeGROOVE-dev/roastz/pkg/counter"
	"github.com/codeGROOVE-dev/roastz/pkg/gemini"
	"github.com/codeGROOVE-dev/roastz/pkg/github"
	"github.com/codeGROOVE-dev/roastz/pkg/histogram"
	"github.com/codeGROOVE-dev/roastz/pkg/roast"
)

var (
	jsonOutput = flag.Bool("json", false, "Print the result as JSON")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging and print the prompt")
	version    = flag.Bool("version", false, "Show version")
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roastz: %v\n", err)
		os.Exit(1)
	}
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if *version {
		fmt.Println("roastz CLI v1.0.0")
		return
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <github-username>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg.ResolveGitHubToken(ctx, logger)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "roastz: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	result, err := roastUser(ctx, cfg, logger, args[0])
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("roast failed:"), err)
		os.Exit(exitCode(err))
	}

	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "roastz: %v\n", err)
			os.Exit(1)
		}
		return
	}
	printResult(os.Stdout, result, *verbose)
}

func roastUser(ctx context.Context, cfg *config.Config, logger *slog.Logger, username string) (*roast.Result, error) {
	gh := github.NewClient(logger, &http.Client{Timeout: cfg.RequestTimeout}, cfg.GitHubToken, cfg.GitHubAPIURL)

	generator, err := gemini.NewClient(ctx, cfg.GeminiConfig(), logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := generator.Close(); err != nil {
			logger.Error("Failed to close Gemini client", "error", err)
		}
	}()

	store, err := counter.Open(ctx, cfg.CounterDSN, logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close roast counter", "error", err)
		}
	}()

	roaster, err := roast.New(logger, gh, generator, store,
		roast.WithKeepPrompt(*verbose),
		roast.WithMaxReadmeBytes(cfg.MaxReadmeBytes))
	if err != nil {
		return nil, err
	}
	return roaster.Roast(ctx, username)
}

func printResult(w io.Writer, result *roast.Result, showPrompt bool) {
	if showPrompt && result.Prompt != "" {
		fmt.Fprintln(w, "\n🤖 Gemini Roast Prompt")
		fmt.Fprintln(w, strings.Repeat("═", 50))
		fmt.Fprintln(w, result.Prompt)
		fmt.Fprintln(w, strings.Repeat("═", 50))
		fmt.Fprintln(w)
	}

	bold := color.New(color.Bold)
	grey := color.New(color.FgHiBlack)
	user := result.User
	name := user.Name
	if name == "" {
		name = user.Login
	}
	fmt.Fprintf(w, "%s %s\n", bold.Sprint(name), grey.Sprint("@"+user.Login))
	if user.AvatarURL != "" {
		fmt.Fprintln(w, grey.Sprint(user.AvatarURL))
	}

	language := result.Summary.DominantLanguage
	if language == "" {
		language = "nothing"
	}
	fmt.Fprintf(w, "%d contributions · %d stars · mostly %s\n\n",
		result.Contributions, result.Summary.TotalStars, language)

	if chart := histogram.Languages(result.Summary.Languages, 30); chart != "" {
		fmt.Fprintln(w, chart)
	}

	fmt.Fprintf(w, "🔥 %s\n\n", color.New(color.FgRed, color.Bold).Sprint(strings.TrimSpace(result.Roast)))

	if result.CounterErr != nil {
		fmt.Fprintln(w, color.YellowString("(roast counter unavailable: %v)", result.CounterErr))
		return
	}
	fmt.Fprintln(w, grey.Sprintf("%d profiles roasted so far", result.TotalRoasts))
}

// exitCode distinguishes user errors from upstream failures for scripts.
func exitCode(err error) int {
	switch {
	case errors.Is(err, roast.ErrInvalidInput), github.IsNotFound(err):
		return 2
	default:
		return 1
	}
}
