package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// UnreachableError is returned when the Toxiproxy server could not be reached at all
// (connection refused, DNS failure, etc).
// Its message never contains the low-level network error, only the remediation hint.
type UnreachableError struct {
	BaseURL string
	Err     error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("Cannot connect to Toxiproxy server. Make sure it's running on %s", e.BaseURL)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// APIError is returned when Toxiproxy replies with a non-2xx status code.
type APIError struct {
	StatusCode int

	// Body is the raw response body sent by the server.
	Body string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Toxiproxy API error (%d): %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// IsUnreachable returns true if err (or any error it wraps) is an *UnreachableError.
func IsUnreachable(err error) bool {
	var ue *UnreachableError
	return errors.As(err, &ue)
}

// IsNotFound returns true if err is an *APIError with status 404.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusNotFound
}
