package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRequestFailed is returned by views for any failed call.
	ErrRequestFailed = errors.New("request failed")
	// ErrLoginRequired is returned by like and comment actions when the
	// server rejects the caller's identity or ownership.
	ErrLoginRequired = errors.New("login required")
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// requestFailed wraps err so callers can match ErrRequestFailed and still
// inspect the APIError.
func requestFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrRequestFailed, err)
}

// actionFailed is requestFailed for like and comment actions.
func actionFailed(err error) error {
	switch StatusOf(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrLoginRequired, err)
	}
	return requestFailed(err)
}
