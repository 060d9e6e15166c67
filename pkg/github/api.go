package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode"
)

// MaxRepositories is the single page size requested from the repositories endpoint.
const MaxRepositories = 100

// NoReadme is returned by FetchReadme when the profile repository has no README.
const NoReadme = "No README found."

// FetchUser fetches the profile of username.
func (c *Client) FetchUser(ctx context.Context, username string) (*User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/users/"+url.PathEscape(username), http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req, "profile")
	if err != nil {
		return nil, err
	}
	defer c.closeBody(resp)

	if !successful(resp) {
		return nil, &StatusError{Endpoint: "profile", StatusCode: resp.StatusCode}
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	user.PrivateRepos = user.privateRepoCount()

	c.logger.Debug("fetched profile", "username", username, "public_repos", user.PublicRepos)
	return &user, nil
}

// FetchRepositories fetches up to MaxRepositories repositories owned by username.
func (c *Client) FetchRepositories(ctx context.Context, username string) ([]Repository, error) {
	path := fmt.Sprintf("/users/%s/repos?per_page=%d", url.PathEscape(username), MaxRepositories)
	req, err := c.newRequest(ctx, http.MethodGet, path, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req, "repositories")
	if err != nil {
		return nil, err
	}
	defer c.closeBody(resp)

	if !successful(resp) {
		return nil, &StatusError{Endpoint: "repositories", StatusCode: resp.StatusCode}
	}

	var repos []Repository
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, fmt.Errorf("decoding repositories: %w", err)
	}

	c.logger.Debug("fetched repositories", "username", username, "count", len(repos))
	return repos, nil
}

// FetchReadme fetches README.md from the user's profile repository (owner/owner).
// Any non-2xx answer yields NoReadme rather than an error.
func (c *Client) FetchReadme(ctx context.Context, username string) (string, error) {
	escaped := url.PathEscape(username)
	req, err := c.newRequest(ctx, http.MethodGet, "/repos/"+escaped+"/"+escaped+"/contents/README.md", http.NoBody)
	if err != nil {
		return "", err
	}

	resp, err := c.do(req, "readme")
	if err != nil {
		return "", err
	}
	defer c.closeBody(resp)

	if !successful(resp) {
		c.logger.Debug("no profile README", "username", username, "status", resp.StatusCode)
		return NoReadme, nil
	}

	var content readmeContent
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return "", fmt.Errorf("decoding readme: %w", err)
	}

	text, err := decodeContent(content.Content)
	if err != nil {
		return "", fmt.Errorf("decoding readme content: %w", err)
	}
	return text, nil
}

// decodeContent decodes the base64 payload of the contents API. GitHub wraps the
// payload at 60 columns, so whitespace is dropped first.
func decodeContent(encoded string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, encoded)

	raw, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(raw), "�"), nil
}

func successful(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
