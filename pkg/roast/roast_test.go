package roast

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/roastz/pkg/counter"
	"github.com/codeGROOVE-dev/roastz/pkg/github"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	text    string
	err     error
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.text, g.err
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type failingCounter struct{ counter.Memory }

func (*failingCounter) Increment(context.Context) (int64, error) {
	return 0, &counter.PersistenceError{Op: "increment", Err: errors.New("disk full")}
}

// fakeGitHub serves the four endpoints for alice and counts requests. With
// stall set, endpoints that are not configured to fail wait for the client to
// give up.
type fakeGitHub struct {
	requests      atomic.Int32
	profileStatus int
	readmeStatus  int
	reposStatus   int
	queryErrors   bool
	stall         bool
}

func (f *fakeGitHub) failing(path string) bool {
	switch path {
	case "/users/alice":
		return f.profileStatus != 0
	case "/users/alice/repos":
		return f.reposStatus != 0
	case "/graphql":
		return f.queryErrors
	case "/repos/alice/alice/contents/README.md":
		return f.readmeStatus != 0
	}
	return true
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	if f.stall && !f.failing(r.URL.Path) {
		select {
		case <-r.Context().Done():
		case <-time.After(10 * time.Second):
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/users/alice":
		if f.profileStatus != 0 {
			w.WriteHeader(f.profileStatus)
			return
		}
		_, _ = w.Write([]byte(`{"login":"alice","name":"Alice A","public_repos":3,"private_repos":7,"followers":4,
			"following":5,"avatar_url":"https://avatars.example/alice","html_url":"https://github.com/alice"}`))
	case r.URL.Path == "/users/alice/repos":
		if f.reposStatus != 0 {
			w.WriteHeader(f.reposStatus)
			return
		}
		_, _ = w.Write([]byte(`[
			{"name":"one","language":"Go","stargazers_count":5},
			{"name":"two","language":"Go","stargazers_count":2},
			{"name":"three","language":"Rust","stargazers_count":1}]`))
	case r.URL.Path == "/graphql":
		if f.queryErrors {
			_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"rate limited","type":"RATE_LIMITED"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":{"user":{"contributionsCollection":{"contributionCalendar":{"totalContributions":120}}}}}`))
	case r.URL.Path == "/repos/alice/alice/contents/README.md":
		if f.readmeStatus != 0 {
			w.WriteHeader(f.readmeStatus)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"content": base64.StdEncoding.EncodeToString([]byte("Hi"))})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestRoaster(t *testing.T, gh *fakeGitHub, gen Generator, store counter.Store, opts ...Option) *Roaster {
	t.Helper()
	server := httptest.NewServer(gh)
	t.Cleanup(server.Close)
	client := github.NewClient(discardLogger(), server.Client(), "ghp_test", server.URL)
	roaster, err := New(discardLogger(), client, gen, store, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return roaster
}

func TestRoastEndToEnd(t *testing.T) {
	gen := &fakeGenerator{text: "Alice writes Go like it owes her money."}
	store := counter.NewMemory()
	roaster := newTestRoaster(t, &fakeGitHub{}, gen, store, WithKeepPrompt(true))

	result, err := roaster.Roast(context.Background(), "  alice ")
	if err != nil {
		t.Fatalf("Roast() error = %v", err)
	}

	if result.Summary.DominantLanguage != "Go" {
		t.Errorf("DominantLanguage = %q, want Go", result.Summary.DominantLanguage)
	}
	if result.Summary.TotalStars != 8 {
		t.Errorf("TotalStars = %d, want 8", result.Summary.TotalStars)
	}
	if result.Contributions != 120 {
		t.Errorf("Contributions = %d, want 120", result.Contributions)
	}
	if result.User.Login != "alice" || result.User.Name != "Alice A" {
		t.Errorf("User = %+v", result.User)
	}
	if result.Roast != gen.text {
		t.Errorf("Roast = %q", result.Roast)
	}
	if result.TotalRoasts != 1 || result.CounterErr != nil {
		t.Errorf("TotalRoasts = %d, CounterErr = %v; want 1, nil", result.TotalRoasts, result.CounterErr)
	}

	if gen.calls() != 1 {
		t.Fatalf("generator called %d times, want 1", gen.calls())
	}
	prompt := gen.prompts[0]
	if result.Prompt != prompt {
		t.Error("Result.Prompt should hold the prompt sent to the model")
	}
	for _, want := range []string{"Go", "8", "120", "Hi", "Username: alice", "Total Private Repositories: 7"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	if n, _ := store.Count(context.Background()); n != 1 {
		t.Errorf("counter = %d, want 1", n)
	}
}

func TestRoastInvalidInput(t *testing.T) {
	gh := &fakeGitHub{}
	gen := &fakeGenerator{text: "unused"}
	store := counter.NewMemory()
	roaster := newTestRoaster(t, gh, gen, store)

	for _, handle := range []string{"", "   ", "\t\n"} {
		_, err := roaster.Roast(context.Background(), handle)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Roast(%q) error = %v, want ErrInvalidInput", handle, err)
		}
	}
	if n := gh.requests.Load(); n != 0 {
		t.Errorf("%d GitHub requests issued for invalid input, want 0", n)
	}
	if gen.calls() != 0 {
		t.Errorf("generator called for invalid input")
	}
}

func TestRoastProfileNotFound(t *testing.T) {
	gen := &fakeGenerator{text: "unused"}
	store := counter.NewMemory()
	roaster := newTestRoaster(t, &fakeGitHub{profileStatus: http.StatusNotFound}, gen, store)

	_, err := roaster.Roast(context.Background(), "alice")
	var se *github.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Roast() error = %v, want *github.StatusError", err)
	}
	if se.StatusCode != http.StatusNotFound || se.Endpoint != "profile" {
		t.Errorf("StatusError = %+v, want profile 404", se)
	}
	if gen.calls() != 0 {
		t.Error("generator should not run after a fetch failure")
	}
	if n, _ := store.Count(context.Background()); n != 0 {
		t.Errorf("counter = %d after failure, want 0", n)
	}
}

func TestRoastFetchFailureReturnedUnmodified(t *testing.T) {
	tests := []struct {
		name  string
		gh    *fakeGitHub
		check func(t *testing.T, err error)
	}{
		{
			name: "repositories status",
			gh:   &fakeGitHub{reposStatus: http.StatusInternalServerError},
			check: func(t *testing.T, err error) {
				se, ok := err.(*github.StatusError)
				if !ok {
					t.Fatalf("Roast() error = %T %v, want *github.StatusError", err, err)
				}
				if se.Endpoint != "repositories" || se.StatusCode != http.StatusInternalServerError {
					t.Errorf("StatusError = %+v, want repositories 500", se)
				}
			},
		},
		{
			name: "repositories status while siblings stall",
			gh:   &fakeGitHub{reposStatus: http.StatusInternalServerError, stall: true},
			check: func(t *testing.T, err error) {
				se, ok := err.(*github.StatusError)
				if !ok {
					t.Fatalf("Roast() error = %T %v, want *github.StatusError", err, err)
				}
				if got, want := se.Error(), "GitHub repositories fetch failed with status 500"; got != want {
					t.Errorf("error = %q, want %q", got, want)
				}
			},
		},
		{
			name: "contributions query errors while siblings stall",
			gh:   &fakeGitHub{queryErrors: true, stall: true},
			check: func(t *testing.T, err error) {
				qe, ok := err.(*github.QueryError)
				if !ok {
					t.Fatalf("Roast() error = %T %v, want *github.QueryError", err, err)
				}
				if len(qe.Messages) != 1 || qe.Messages[0] != "rate limited" {
					t.Errorf("Messages = %v", qe.Messages)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{text: "unused"}
			store := counter.NewMemory()
			roaster := newTestRoaster(t, tt.gh, gen, store)

			_, err := roaster.Roast(context.Background(), "alice")
			tt.check(t, err)
			if gen.calls() != 0 {
				t.Error("generator should not run after a fetch failure")
			}
			if n, _ := store.Count(context.Background()); n != 0 {
				t.Errorf("counter = %d after failure, want 0", n)
			}
		})
	}
}

func TestRoastMissingReadmeUsesSentinel(t *testing.T) {
	gen := &fakeGenerator{text: "no readme, no personality"}
	roaster := newTestRoaster(t, &fakeGitHub{readmeStatus: http.StatusNotFound}, gen, counter.NewMemory())

	if _, err := roaster.Roast(context.Background(), "alice"); err != nil {
		t.Fatalf("Roast() error = %v", err)
	}
	if !strings.Contains(gen.prompts[0], "README: "+github.NoReadme) {
		t.Error("prompt should carry the README sentinel")
	}
}

func TestRoastGenerationError(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"model failure", &fakeGenerator{err: errors.New("quota exceeded")}},
		{"empty text", &fakeGenerator{text: "  \n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := counter.NewMemory()
			roaster := newTestRoaster(t, &fakeGitHub{}, tt.gen, store)

			_, err := roaster.Roast(context.Background(), "alice")
			var ge *GenerationError
			if !errors.As(err, &ge) {
				t.Fatalf("Roast() error = %v, want *GenerationError", err)
			}
			if n, _ := store.Count(context.Background()); n != 0 {
				t.Errorf("counter = %d after generation failure, want 0", n)
			}
		})
	}
}

func TestRoastCounterFailureKeepsRoast(t *testing.T) {
	gen := &fakeGenerator{text: "still roasted"}
	roaster := newTestRoaster(t, &fakeGitHub{}, gen, &failingCounter{})

	result, err := roaster.Roast(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Roast() error = %v, want nil despite counter failure", err)
	}
	if result.Roast != "still roasted" {
		t.Errorf("Roast = %q", result.Roast)
	}
	var pe *counter.PersistenceError
	if !errors.As(result.CounterErr, &pe) {
		t.Errorf("CounterErr = %v, want *counter.PersistenceError", result.CounterErr)
	}
	if result.TotalRoasts != 0 {
		t.Errorf("TotalRoasts = %d, want 0", result.TotalRoasts)
	}
}

type cancellingGenerator struct {
	cancel context.CancelFunc
}

func (g *cancellingGenerator) Generate(context.Context, string) (string, error) {
	g.cancel()
	return "too late", nil
}

func TestRoastCancelledBeforeCountIsNotCounted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := counter.NewMemory()
	roaster := newTestRoaster(t, &fakeGitHub{}, &cancellingGenerator{cancel: cancel}, store)

	_, err := roaster.Roast(ctx, "alice")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Roast() error = %v, want context.Canceled", err)
	}
	if n, _ := store.Count(context.Background()); n != 0 {
		t.Errorf("counter = %d after cancellation, want 0", n)
	}
}

func TestRoastConcurrentCallsCountEveryRoast(t *testing.T) {
	store := counter.NewMemory()
	roaster := newTestRoaster(t, &fakeGitHub{}, &fakeGenerator{text: "ouch"}, store)

	const callers = 10
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := roaster.Roast(context.Background(), "alice"); err != nil {
				t.Errorf("Roast() error = %v", err)
			}
		}()
	}
	wg.Wait()

	total, err := roaster.TotalRoasts(context.Background())
	if err != nil {
		t.Fatalf("TotalRoasts() error = %v", err)
	}
	if total != callers {
		t.Errorf("TotalRoasts() = %d, want %d", total, callers)
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(discardLogger(), nil, &fakeGenerator{}, counter.NewMemory()); err == nil {
		t.Error("New() without fetcher should fail")
	}
}
