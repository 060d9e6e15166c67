package github

import "encoding/json"

// User represents a GitHub user profile. Optional string fields are empty when GitHub
// reports null.
type User struct {
	Login         string `json:"login"`
	Name          string `json:"name"`
	AvatarURL     string `json:"avatar_url"`
	Bio           string `json:"bio"`
	Company       string `json:"company"`
	Location      string `json:"location"`
	Blog          string `json:"blog"`
	TwitterHandle string `json:"twitter_username"`
	HTMLURL       string `json:"html_url"`
	PublicRepos   int    `json:"public_repos"`
	PrivateRepos  *int   `json:"private_repos,omitempty"`
	// TotalPrivateRepos is what the REST API reports, and only for the token owner.
	TotalPrivateRepos *int `json:"total_private_repos,omitempty"`
	Followers         int  `json:"followers"`
	Following         int  `json:"following"`
}

// privateRepoCount returns private_repos, falling back to total_private_repos.
func (u *User) privateRepoCount() *int {
	if u.PrivateRepos != nil {
		return u.PrivateRepos
	}
	return u.TotalPrivateRepos
}

// Repository represents a GitHub repository
type Repository struct {
	Name      string `json:"name"`
	Language  string `json:"language"`
	StarCount int    `json:"stargazers_count"`
}

// GraphQLResponse represents the response from a GraphQL query.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents an error in a GraphQL response.
type GraphQLError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// contributionsResponse is the data payload of the contributions query.
type contributionsResponse struct {
	User *struct {
		ContributionsCollection struct {
			ContributionCalendar struct {
				TotalContributions int `json:"totalContributions"`
			} `json:"contributionCalendar"`
		} `json:"contributionsCollection"`
	} `json:"user"`
}

// readmeContent is the subset of the contents API response we read.
type readmeContent struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}
