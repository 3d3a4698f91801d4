package paddle

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrMalformedResponse is returned when a response body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed paddle response")

	// ErrForeignCursor is returned when a pagination cursor points at a host
	// other than the configured base URL.
	ErrForeignCursor = errors.New("pagination cursor points to foreign host")
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors other than 429.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 Too Many Requests.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// APIError is a non-2xx response from the Paddle API.
type APIError struct {
	StatusCode int
	Class      ErrorClass
	Endpoint   string

	// Body is the raw response body, kept for diagnostics
	Body string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("paddle %s error (status %d) on %s", e.Class, e.StatusCode, e.Endpoint)
}

// classifyStatus maps a status code to an ErrorClass. 2xx and 3xx yield "".
func classifyStatus(status int) ErrorClass {
	switch {
	case status == 429:
		return ErrorClassRateLimit
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}
