package stats

import (
	"fmt"
)

// NetworkError is returned when the stats endpoint can't be reached (connection refused,
// name resolution failure, timeout, etc.)
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Cause returns the underlying transport error (github.com/pkg/errors compatible)
func (e *NetworkError) Cause() error {
	return e.Err
}

// HTTPStatusError is returned when the stats endpoint answers with anything but 200. The body
// is kept (truncated) for diagnostics but isn't part of the error message
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// MalformedResponseError is returned when the body of a 200 response isn't valid JSON
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed stats response: %v", e.Err)
}

// Unwrap returns the underlying decoding error
func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Cause returns the underlying decoding error (github.com/pkg/errors compatible)
func (e *MalformedResponseError) Cause() error {
	return e.Err
}
