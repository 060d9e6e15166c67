package roast

import (
	"regexp"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/codeGROOVE-dev/roastz/pkg/github"
)

// DefaultMaxReadmeBytes bounds the README text placed in a prompt.
const DefaultMaxReadmeBytes = 4000

var htmlTagRegex = regexp.MustCompile(`<[a-zA-Z!/][^>]*>`)

// flattenReadme rewrites lines of inline HTML (badges, centered headers, comments)
// as Markdown and leaves everything else untouched. Blocks that convert to nothing
// are dropped.
func flattenReadme(readme string) string {
	if readme == github.NoReadme || !htmlTagRegex.MatchString(readme) {
		return readme
	}

	lines := strings.Split(readme, "\n")
	out := make([]string, 0, len(lines))
	var block []string

	flush := func() {
		if len(block) == 0 {
			return
		}
		raw := strings.Join(block, "\n")
		block = block[:0]

		markdown, err := md.ConvertString(raw)
		if err != nil {
			out = append(out, raw)
			return
		}
		if markdown = strings.TrimSpace(markdown); markdown != "" {
			out = append(out, markdown)
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "<") && htmlTagRegex.MatchString(trimmed) {
			block = append(block, line)
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()

	return strings.Join(out, "\n")
}

// truncateUTF8 cuts s to at most limit bytes without splitting a rune.
func truncateUTF8(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
