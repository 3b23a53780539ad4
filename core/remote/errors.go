package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the structured failure returned for every transport or API error.
type APIError struct {
	// StatusCode is the HTTP status, or 0 when the request never completed.
	StatusCode int `json:"status_code"`
	// Detail is a human readable description.
	Detail string `json:"error_detail"`
	// URL is the request that failed.
	URL string `json:"request_url"`
	// Err is the underlying transport error, if any.
	Err error `json:"-"`
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("remote catalog: %s (status %d, %s)", e.Detail, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("remote catalog: %s (%s)", e.Detail, e.URL)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying the request may succeed.
func (e *APIError) Temporary() bool {
	if e.StatusCode == 0 {
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// IsUnauthorized reports whether err is an authorization failure from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

func statusDetail(code int) string {
	switch code {
	case http.StatusUnauthorized:
		return "unauthorized: check the API username and key"
	case http.StatusForbidden:
		return "forbidden: the account has no access to this resource"
	case http.StatusNotFound:
		return "not found"
	case http.StatusInternalServerError:
		return "server error"
	default:
		return fmt.Sprintf("unexpected status %d", code)
	}
}
