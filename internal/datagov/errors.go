package datagov

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized means the API key was rejected. Never retried.
var ErrUnauthorized = errors.New("data.gov.in rejected the API key (401)")

// StatusError reports a non-2xx HTTP response from the data API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("data API returned HTTP %d", e.Code)
	}
	return fmt.Sprintf("data API returned HTTP %d: %s", e.Code, e.Body)
}

// Transient reports whether the status is worth retrying.
func (e *StatusError) Transient() bool {
	switch e.Code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// APIError carries an explicit {"status": "error"} payload from the API.
// The API signals overload this way, so it is retried like a 5xx.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "data API reported an error"
	}
	return "data API reported an error: " + e.Message
}
