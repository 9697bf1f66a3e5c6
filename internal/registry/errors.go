package registry

import (
	"errors"
	"fmt"
)

// Registry client errors.
var (
	// ErrEmptyToken is returned by NewClient when no API token is given.
	ErrEmptyToken = errors.New("registry API token is empty")

	// ErrInvalidBaseURL is returned by NewClient when the base URL is not an
	// absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid registry base URL: expected absolute http(s) URL")

	// ErrInvalidPathTemplate is returned when the path template lacks the
	// {org_id} placeholder.
	ErrInvalidPathTemplate = errors.New("invalid path template: missing {org_id} placeholder")

	// ErrUnexpectedStatus is wrapped by StatusError for any non-200 response.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrInvalidResponse is returned when a 200 response body is not a JSON object.
	ErrInvalidResponse = errors.New("invalid registry response")
)

// StatusError describes a non-200 response from the registry.
type StatusError struct {
	// StatusCode is the HTTP status code returned by the registry.
	StatusCode int

	// Body is the beginning of the response body, kept for diagnostics.
	Body string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %d", ErrUnexpectedStatus, e.StatusCode)
	}
	return fmt.Sprintf("%s: %d: %s", ErrUnexpectedStatus, e.StatusCode, e.Body)
}

// Unwrap allows errors.Is(err, ErrUnexpectedStatus).
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}
