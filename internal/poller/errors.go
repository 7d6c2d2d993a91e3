package poller

import (
	"errors"
	"strconv"
)

// Lifecycle errors returned by [Controller] operations.
var (
	ErrActive      = errors.New("controller already active")
	ErrNotActive   = errors.New("controller not active")
	ErrDeactivated = errors.New("controller deactivated")
)

// NetworkError reports that no HTTP response was obtained, or that its body
// could not be read.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return "unknown error occurred"
	}
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError reports a response with a non-2xx status code.
// Message is the "message" field of the JSON error body, if any.
type HTTPError struct {
	Status  int
	Message string
}

// Error returns "Error: <status>" or "Error: <status> - <message>".
func (e *HTTPError) Error() string {
	s := "Error: " + strconv.Itoa(e.Status)
	if e.Message != "" {
		s += " - " + e.Message
	}
	return s
}

// ParseError reports a 2xx response whose body is not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "invalid JSON response: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }
