package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/codeGROOVE-dev/roastz/pkg/github"
	"github.com/codeGROOVE-dev/roastz/pkg/metrics"
	"github.com/codeGROOVE-dev/roastz/pkg/roast"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

// classify maps a pipeline error to the HTTP status, JSON body and metrics outcome
// sent to the client. Context errors are checked first because generation and
// fetch errors may wrap them.
func classify(err error, username string) (int, errorResponse, string) {
	var (
		statusErr *github.StatusError
		queryErr  *github.QueryError
		genErr    *roast.GenerationError
	)

	switch {
	case errors.Is(err, roast.ErrInvalidInput):
		return http.StatusBadRequest, errorResponse{
			Error:   "Invalid username",
			Details: roast.ErrInvalidInput.Error(),
			Code:    "INVALID_USERNAME",
		}, metrics.OutcomeInvalidInput
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errorResponse{
			Error:   "Roast took too long",
			Details: err.Error(),
			Code:    "TIMEOUT",
		}, metrics.OutcomeTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, errorResponse{
			Error:   "Request was canceled",
			Details: err.Error(),
			Code:    "CANCELED",
		}, metrics.OutcomeCanceled
	case errors.As(err, &genErr):
		return http.StatusServiceUnavailable, errorResponse{
			Error:   "Roast generation failed",
			Details: err.Error(),
			Code:    "GENERATION_ERROR",
		}, metrics.OutcomeGenerationError
	case errors.As(err, &statusErr) && statusErr.NotFound():
		return http.StatusNotFound, errorResponse{
			Error:   "GitHub user not found",
			Details: fmt.Sprintf("The username '%s' doesn't exist on GitHub. Please check the spelling.", username),
			Code:    "USER_NOT_FOUND",
		}, metrics.OutcomeNotFound
	case errors.As(err, &statusErr):
		return http.StatusBadGateway, errorResponse{
			Error:   "Unable to fetch GitHub profile",
			Details: err.Error(),
			Code:    "GITHUB_API_ERROR",
		}, metrics.OutcomeGitHubError
	case errors.As(err, &queryErr):
		return http.StatusBadGateway, errorResponse{
			Error:   "GitHub query failed",
			Details: err.Error(),
			Code:    "GITHUB_QUERY_ERROR",
		}, metrics.OutcomeGitHubError
	default:
		return http.StatusInternalServerError, errorResponse{
			Error:   "Roast failed",
			Details: err.Error(),
			Code:    "INTERNAL_ERROR",
		}, metrics.OutcomeInternalError
	}
}
