// Package apierr holds the error types shared by the Confluence and JIRA
// clients.  Callers use the Is* helpers to decide whether a failure is fatal
// (bad credentials), skippable (missing item in a batch), or something to
// surface as-is (throttling, server trouble).
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// AuthenticationError means the service rejected our credentials (401) or
// refused access outright (403).  Always fatal.
type AuthenticationError struct {
	Service    string // "confluence" or "jira"
	StatusCode int
}

func (e *AuthenticationError) Error() string {
	if e.StatusCode == http.StatusForbidden {
		return fmt.Sprintf("%s: access forbidden, check token permissions", e.Service)
	}
	return fmt.Sprintf("%s: authentication failed, check username and API token", e.Service)
}

// NotFoundError means the identifier didn't resolve.  Batch commands log and
// skip these; single-item commands treat them as fatal.
type NotFoundError struct {
	Service string
	Kind    string // "space", "page", "issue", "project", "sprint"
	ID      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %q not found", e.Service, e.Kind, e.ID)
}

// RateLimitedError is a 429 from the service.  It propagates untouched; no
// retry loop on our side, the limiter already paces requests.
type RateLimitedError struct {
	Service    string
	RetryAfter time.Duration // zero if the server didn't say
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: rate limited, server asks to retry after %s", e.Service, e.RetryAfter)
	}
	return fmt.Sprintf("%s: rate limited", e.Service)
}

// HTTPError covers every other non-2xx response.
type HTTPError struct {
	Service    string
	StatusCode int
	Status     string
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: unexpected HTTP response %s: %s", e.Service, e.Status, e.URL)
}

func (e *HTTPError) IsServerError() bool {
	return e.StatusCode >= 500
}

func IsAuthentication(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsRateLimited(err error) bool {
	var target *RateLimitedError
	return errors.As(err, &target)
}

// FromResponse maps a non-2xx status code onto the taxonomy.  kind and id
// describe what was being fetched, for NotFoundError messages.
func FromResponse(service string, resp *http.Response, kind, id string) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthenticationError{Service: service, StatusCode: resp.StatusCode}
	case http.StatusNotFound:
		return &NotFoundError{Service: service, Kind: kind, ID: id}
	case http.StatusTooManyRequests:
		return &RateLimitedError{Service: service, RetryAfter: retryAfter(resp)}
	default:
		return &HTTPError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        resp.Request.URL.Redacted(),
		}
	}
}

func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
