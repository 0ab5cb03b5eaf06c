package domain

import (
	"errors"
	"fmt"
)

// UnknownErrorMessage is shown when a failure carries no description
const UnknownErrorMessage = "An unknown error occurred."

// ErrEmptyQuery indicates a search was requested without a query
var ErrEmptyQuery = errors.New("search query is empty")

// TransportError indicates the request failed before a response was obtained
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil || e.Err.Error() == "" {
		return UnknownErrorMessage
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPStatusError indicates the endpoint answered with a non-success status
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("Response status: %d", e.StatusCode)
}

// ParseError indicates the response body was not a list of result records
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "failed to parse search results"
	}
	return "failed to parse search results: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// FailureMessage returns the user-visible text for a failed search
func FailureMessage(err error) string {
	if err == nil {
		return UnknownErrorMessage
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Error()
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return UnknownErrorMessage
}
