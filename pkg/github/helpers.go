package github

import (
	"strings"
)

// IsValidUsername reports whether username is a plausible GitHub login:
// at most 39 alphanumerics or single hyphens, not starting or ending with one.
func IsValidUsername(username string) bool {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > 39 {
		return false
	}

	if username[0] == '-' || username[len(username)-1] == '-' {
		return false
	}

	if strings.Contains(username, "--") {
		return false
	}

	for _, ch := range username {
		if (ch < 'a' || ch > 'z') && (ch < 'A' || ch > 'Z') &&
			(ch < '0' || ch > '9') && ch != '-' {
			return false
		}
	}

	return true
}

// tokenPrefixes are the current GitHub token formats: fine-grained PAT, classic PAT,
// OAuth, App user-to-server, App installation and refresh.
var tokenPrefixes = []string{"github_pat_", "ghp_", "gho_", "ghu_", "ghs_", "ghr_"}

// LooksLikeToken checks if a token looks valid (basic check)
func LooksLikeToken(token string) bool {
	if token == "" {
		return false
	}

	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}

	// Legacy tokens are 40 hex chars
	if len(token) == 40 {
		for _, c := range token {
			if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
				return false
			}
		}
		return true
	}

	return false
}
