package cheftonic

import (
	"errors"
	"fmt"
	"strings"
)

const maxErrorBodyPreview = 800

var (
	// ErrUpstream indicates a Cheftonic API failure.
	ErrUpstream = errors.New("[Cheftonic] error when trying to get response from cheftonic api")
	// ErrRestaurantNotFound is returned when the API has no restaurant for the key.
	ErrRestaurantNotFound = errors.New("restaurant not found")
)

// UpstreamRequestError carries HTTP context for failed upstream calls.
type UpstreamRequestError struct {
	Operation  string
	Method     string
	URL        string
	StatusCode int
	Body       string
	Cause      error
}

func (e *UpstreamRequestError) Error() string {
	parts := []string{ErrUpstream.Error()}
	if e.Operation != "" {
		parts = append(parts, "operation="+e.Operation)
	}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	method := strings.TrimSpace(e.Method)
	url := strings.TrimSpace(e.URL)
	if method != "" || url != "" {
		parts = append(parts, strings.TrimSpace(method+" "+url))
	}
	if trimmed := compactBodyPreview(e.Body); trimmed != "" {
		parts = append(parts, fmt.Sprintf("body=%q", trimmed))
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Cause))
	}
	return strings.Join(parts, "; ")
}

func (e *UpstreamRequestError) Unwrap() error {
	return ErrUpstream
}

// GraphQLError reports the errors array of a GraphQL response.
type GraphQLError struct {
	Operation string
	Messages  []string
}

func (e *GraphQLError) Error() string {
	return fmt.Sprintf("%s; operation=%s; graphql errors: %s", ErrUpstream.Error(), e.Operation, strings.Join(e.Messages, "; "))
}

func (e *GraphQLError) Unwrap() error {
	return ErrUpstream
}

func compactBodyPreview(body string) string {
	body = strings.Join(strings.Fields(body), " ")
	if len(body) > maxErrorBodyPreview {
		return body[:maxErrorBodyPreview] + "..."
	}
	return body
}
