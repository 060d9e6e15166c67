package github

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
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(logger, server.Client(), "ghp_testtoken", server.URL)
}

func TestFetchUser(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/alice" {
			t.Errorf("Unexpected path: %v", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer ghp_testtoken" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{
			"login": "alice",
			"name": "Alice A",
			"avatar_url": "https://avatars.example/alice.png",
			"bio": null,
			"public_repos": 3,
			"followers": 10,
			"following": 2,
			"company": "@acme",
			"location": null,
			"blog": "",
			"twitter_username": "alice_tw",
			"html_url": "https://github.com/alice"
		}`)); err != nil {
			t.Errorf("write failed: %v", err)
		}
	}))

	user, err := client.FetchUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchUser() error = %v", err)
	}
	if user.Login != "alice" || user.Name != "Alice A" {
		t.Errorf("FetchUser() = %+v", user)
	}
	if user.PublicRepos != 3 || user.Followers != 10 || user.Following != 2 {
		t.Errorf("counts = %d/%d/%d", user.PublicRepos, user.Followers, user.Following)
	}
	if user.Bio != "" || user.Location != "" {
		t.Errorf("null fields should decode empty, got bio=%q location=%q", user.Bio, user.Location)
	}
	if user.PrivateRepos != nil {
		t.Errorf("PrivateRepos = %v, want nil when absent", *user.PrivateRepos)
	}
	if user.TwitterHandle != "alice_tw" {
		t.Errorf("TwitterHandle = %q", user.TwitterHandle)
	}
}

func TestFetchUserPrivateRepos(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"private_repos", `{"login":"alice","public_repos":3,"private_repos":7}`, 7},
		{"total_private_repos", `{"login":"alice","public_repos":3,"total_private_repos":4}`, 4},
		{"both prefers private_repos", `{"login":"alice","private_repos":7,"total_private_repos":4}`, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))

			user, err := client.FetchUser(context.Background(), "alice")
			if err != nil {
				t.Fatalf("FetchUser() error = %v", err)
			}
			if user.PrivateRepos == nil || *user.PrivateRepos != tt.want {
				t.Errorf("PrivateRepos = %v, want %d", user.PrivateRepos, tt.want)
			}
		})
	}
}

func TestFetchUserNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))

	_, err := client.FetchUser(context.Background(), "ghost")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("FetchUser() error = %v, want *StatusError", err)
	}
	if se.StatusCode != http.StatusNotFound || se.Endpoint != "profile" {
		t.Errorf("StatusError = %+v", se)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound() = false, want true")
	}
}

func TestFetchRepositories(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/alice/repos" {
			t.Errorf("Unexpected path: %v", r.URL.Path)
		}
		if got := r.URL.Query().Get("per_page"); got != "100" {
			t.Errorf("per_page = %q, want 100", got)
		}
		if _, err := w.Write([]byte(`[
			{"name": "a", "language": "Go", "stargazers_count": 5},
			{"name": "b", "language": null, "stargazers_count": 0}
		]`)); err != nil {
			t.Errorf("write failed: %v", err)
		}
	}))

	repos, err := client.FetchRepositories(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchRepositories() error = %v", err)
	}
	if len(repos) != 2 {
		t.Fatalf("len(repos) = %d, want 2", len(repos))
	}
	if repos[0].Language != "Go" || repos[0].StarCount != 5 {
		t.Errorf("repos[0] = %+v", repos[0])
	}
	if repos[1].Language != "" {
		t.Errorf("repos[1].Language = %q, want empty", repos[1].Language)
	}
}

func TestFetchRepositoriesStatusError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.FetchRepositories(context.Background(), "alice")
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusForbidden {
		t.Fatalf("FetchRepositories() error = %v, want 403 StatusError", err)
	}
}

func TestFetchReadme(t *testing.T) {
	text := "# Hi there\n\nI write Go."
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	// GitHub wraps content at 60 columns.
	var wrapped strings.Builder
	for i := 0; i < len(encoded); i += 60 {
		end := min(i+60, len(encoded))
		wrapped.WriteString(encoded[i:end])
		wrapped.WriteString("\n")
	}

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/alice/alice/contents/README.md" {
			t.Errorf("Unexpected path: %v", r.URL.Path)
		}
		if err := json.NewEncoder(w).Encode(map[string]string{
			"content":  wrapped.String(),
			"encoding": "base64",
		}); err != nil {
			t.Errorf("encode failed: %v", err)
		}
	}))

	got, err := client.FetchReadme(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchReadme() error = %v", err)
	}
	if got != text {
		t.Errorf("FetchReadme() = %q, want %q", got, text)
	}
}

func TestFetchReadmeAbsent(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError} {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		got, err := client.FetchReadme(context.Background(), "alice")
		if err != nil {
			t.Errorf("status %d: FetchReadme() error = %v, want nil", status, err)
		}
		if got != NoReadme {
			t.Errorf("status %d: FetchReadme() = %q, want %q", status, got, NoReadme)
		}
	}
}

func TestFetchReadmeBadContent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte(`{"content": "!!not base64!!", "encoding": "base64"}`)); err != nil {
			t.Errorf("write failed: %v", err)
		}
	}))

	if _, err := client.FetchReadme(context.Background(), "alice"); err == nil {
		t.Error("FetchReadme() with undecodable content should return error")
	}
}

func TestUsernameIsPathEscaped(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/users/a%2Fb" {
			t.Errorf("EscapedPath = %q", r.URL.EscapedPath())
		}
		if _, err := w.Write([]byte(`{"login":"a/b"}`)); err != nil {
			t.Errorf("write failed: %v", err)
		}
	}))

	if _, err := client.FetchUser(context.Background(), "a/b"); err != nil {
		t.Fatalf("FetchUser() error = %v", err)
	}
}

func TestDecodeContentInvalidUTF8(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte{'o', 'k', 0xff})
	got, err := decodeContent(encoded)
	if err != nil {
		t.Fatalf("decodeContent() error = %v", err)
	}
	if got != "ok�" {
		t.Errorf("decodeContent() = %q", got)
	}
}
