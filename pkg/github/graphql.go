package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const contributionsQuery = `
	query($login: String!) {
		user(login: $login) {
			contributionsCollection {
				contributionCalendar {
					totalContributions
				}
			}
		}
	}`

// FetchContributionTotal returns the contribution count GitHub reports for the default
// (trailing year) window. A login GitHub does not know yields 0.
func (c *Client) FetchContributionTotal(ctx context.Context, username string) (int, error) {
	variables := map[string]any{
		"login": username,
	}

	resp, err := c.executeQuery(ctx, contributionsQuery, variables)
	if err != nil {
		c.logger.Debug("GraphQL contributions query failed", "username", username, "error", err)
		return 0, err
	}

	var result contributionsResponse
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &result); err != nil {
			return 0, fmt.Errorf("unmarshaling contributions: %w", err)
		}
	}
	if result.User == nil {
		c.logger.Debug("GraphQL returned no user", "username", username)
		return 0, nil
	}

	total := result.User.ContributionsCollection.ContributionCalendar.TotalContributions
	c.logger.Debug("fetched contribution total", "username", username, "total", total)
	return total, nil
}

// executeQuery executes a single GraphQL query.
func (c *Client) executeQuery(ctx context.Context, query string, variables map[string]any) (*GraphQLResponse, error) {
	payload := map[string]any{
		"query":     query,
		"variables": variables,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling query: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/graphql", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req, "contributions")
	if err != nil {
		return nil, err
	}
	defer c.closeBody(resp)

	if !successful(resp) {
		return nil, &StatusError{Endpoint: "contributions", StatusCode: resp.StatusCode}
	}

	var graphqlResp GraphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&graphqlResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(graphqlResp.Errors) > 0 {
		messages := make([]string, 0, len(graphqlResp.Errors))
		for _, e := range graphqlResp.Errors {
			messages = append(messages, e.Message)
		}
		c.logger.Warn("GraphQL errors in response", "errors", messages, "type", graphqlResp.Errors[0].Type)
		return nil, &QueryError{Messages: messages}
	}

	return &graphqlResp, nil
}
