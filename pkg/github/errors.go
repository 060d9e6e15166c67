package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// StatusError reports a non-2xx response from a GitHub endpoint.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GitHub %s fetch failed with status %d", e.Endpoint, e.StatusCode)
}

// NotFound reports whether the endpoint answered 404.
func (e *StatusError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// QueryError reports errors carried in a GraphQL response body.
type QueryError struct {
	Messages []string
}

func (e *QueryError) Error() string {
	return "GitHub GraphQL query failed: " + strings.Join(e.Messages, "; ")
}

// IsNotFound reports whether err is a 404 from any GitHub endpoint.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.NotFound()
}
