// Package stats derives the summary numbers a roast is built from.
package stats

import (
	"slices"

	"github.com/codeGROOVE-dev/roastz/pkg/github"
)

// Summary holds the statistics derived from a user's repositories.
type Summary struct {
	// DominantLanguage is empty when no repository declares a language.
	DominantLanguage string `json:"most_used_language,omitempty"`
	TotalStars       int    `json:"total_stars"`
	// Languages lists every declared language, most used first.
	Languages []LanguageCount `json:"languages,omitempty"`
}

// LanguageCount is the number of repositories declaring one language.
type LanguageCount struct {
	Language string `json:"language"`
	Repos    int    `json:"repos"`
}

// Compute derives the Summary for repos.
func Compute(repos []github.Repository) Summary {
	languages := LanguageBreakdown(repos)
	summary := Summary{
		TotalStars: TotalStars(repos),
		Languages:  languages,
	}
	if len(languages) > 0 {
		summary.DominantLanguage = languages[0].Language
	}
	return summary
}

// DominantLanguage returns the most frequently declared repository language.
// Repositories without a language are ignored. On a tie the language seen
// first in repos wins. It returns "" when no repository declares a language.
func DominantLanguage(repos []github.Repository) string {
	languages := LanguageBreakdown(repos)
	if len(languages) == 0 {
		return ""
	}
	return languages[0].Language
}

// LanguageBreakdown counts repositories per declared language, ordered by count
// descending. Equal counts keep the order in which languages first appear.
func LanguageBreakdown(repos []github.Repository) []LanguageCount {
	index := make(map[string]int)
	var out []LanguageCount
	for _, repo := range repos {
		if repo.Language == "" {
			continue
		}
		i, seen := index[repo.Language]
		if !seen {
			i = len(out)
			index[repo.Language] = i
			out = append(out, LanguageCount{Language: repo.Language})
		}
		out[i].Repos++
	}

	slices.SortStableFunc(out, func(a, b LanguageCount) int {
		return b.Repos - a.Repos
	})
	return out
}

// TotalStars sums the star counts of repos.
func TotalStars(repos []github.Repository) int {
	total := 0
	for _, repo := range repos {
		total += repo.StarCount
	}
	return total
}
