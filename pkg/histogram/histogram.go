// Package histogram renders terminal charts of repository statistics.
package histogram

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/codeGROOVE-dev/roastz/pkg/stats"
)

// MaxRows is the number of languages drawn before the rest are folded into "other".
const MaxRows = 8

// rankColor returns the bar color for the language at rank i.
func rankColor(i int) *color.Color {
	colors := []*color.Color{
		color.New(color.FgBlue),
		color.New(color.FgYellow),
		color.New(color.FgRed),
	}
	if i < len(colors) {
		return colors[i]
	}
	return color.New(color.FgHiBlack)
}

// Languages draws one bar per language scaled so the longest bar is width cells.
// It returns "" when there are no languages.
func Languages(languages []stats.LanguageCount, width int) string {
	if len(languages) == 0 {
		return ""
	}
	if width <= 0 {
		width = 30
	}

	rows := languages
	if len(rows) > MaxRows {
		other := stats.LanguageCount{Language: "other"}
		for _, l := range languages[MaxRows-1:] {
			other.Repos += l.Repos
		}
		rows = append(append([]stats.LanguageCount{}, languages[:MaxRows-1]...), other)
	}

	total, widest, label := 0, 0, 0
	for _, l := range rows {
		total += l.Repos
		widest = max(widest, l.Repos)
		label = max(label, len(l.Language))
	}

	var output strings.Builder
	output.WriteString("📊 Languages by repository\n")
	output.WriteString(strings.Repeat("─", label+width+14) + "\n")

	for i, l := range rows {
		cells := l.Repos * width / widest
		if cells == 0 {
			cells = 1
		}
		bar := rankColor(i).Sprint(strings.Repeat("█", cells))
		pct := float64(l.Repos) * 100 / float64(total)
		fmt.Fprintf(&output, "%-*s %s%s %3d (%.0f%%)\n",
			label, l.Language, bar, strings.Repeat(" ", width-cells), l.Repos, pct)
	}
	return output.String()
}
