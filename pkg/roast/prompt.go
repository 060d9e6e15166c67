package roast

import (
	"fmt"
	"strconv"

	"github.com/codeGROOVE-dev/roastz/pkg/gemini"
	"github.com/codeGROOVE-dev/roastz/pkg/github"
)

// notAvailable stands in for absent optional profile fields.
const notAvailable = "N/A"

// BuildPrompt renders the roast request for one user. It performs no I/O and
// returns identical output for identical input.
func BuildPrompt(user *github.User, contributions, totalStars int, readme, dominantLanguage string) string {
	if user == nil {
		user = &github.User{}
	}

	privateRepos := notAvailable
	if user.PrivateRepos != nil {
		privateRepos = strconv.Itoa(*user.PrivateRepos)
	}

	return fmt.Sprintf(gemini.RoastPrompt(),
		user.Login,
		orNA(user.Name),
		orNA(user.Bio),
		contributions,
		user.PublicRepos,
		privateRepos,
		totalStars,
		orNA(dominantLanguage),
		user.Followers,
		user.Following,
		orNA(user.Company),
		orNA(user.Location),
		orNA(user.Blog),
		orNA(user.TwitterHandle),
		user.HTMLURL,
		readme,
		gemini.MaxRoastWords,
	)
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
