package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when the repository answers 404.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (connection errors, non-2xx responses).
	ErrNetwork = errors.New("network error")

	// ErrInvalidResponse is returned when a response body cannot be decoded.
	ErrInvalidResponse = errors.New("invalid response")
)

// NewHTTPClient creates an HTTP client for repository requests.
// A zero timeout leaves requests unbounded; they still end when the request
// context is cancelled.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// NormalizeBaseURL trims whitespace and trailing slashes from a repository
// base URL so that API paths can be appended directly.
func NormalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

// Host returns the host name of a base URL, or the input unchanged when it
// cannot be parsed.
func Host(raw string) string {
	u, err := url.Parse(NormalizeBaseURL(raw))
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Hostname()
}

// URLEncode percent-encodes a string for use in URLs.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }
