package apierr

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"
)

func respWithStatus(t *testing.T, code int, header http.Header) *http.Response {
	t.Helper()
	u, err := url.Parse("https://example.atlassian.net/rest/api/3/issue/PROJ-1")
	if err != nil {
		t.Fatal(err)
	}
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode: code,
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:     header,
		Request:    &http.Request{URL: u},
	}
}

func TestFromResponseTaxonomy(t *testing.T) {
	tests := []struct {
		name  string
		code  int
		check func(error) bool
	}{
		{"unauthorized is authentication", http.StatusUnauthorized, IsAuthentication},
		{"forbidden is authentication", http.StatusForbidden, IsAuthentication},
		{"not found", http.StatusNotFound, IsNotFound},
		{"too many requests", http.StatusTooManyRequests, IsRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromResponse("jira", respWithStatus(t, tt.code, nil), "issue", "PROJ-1")
			if err == nil {
				t.Fatal("expected an error")
			}
			if !tt.check(err) {
				t.Errorf("FromResponse(%d) = %v, classified wrong", tt.code, err)
			}
		})
	}
}

func TestFromResponseServerError(t *testing.T) {
	err := FromResponse("confluence", respWithStatus(t, http.StatusBadGateway, nil), "page", "123")
	httpErr, ok := err.(*HTTPError)
	if !ok {
		t.Fatalf("expected *HTTPError, got %T", err)
	}
	if !httpErr.IsServerError() {
		t.Errorf("502 should report as server error")
	}
	if IsNotFound(err) || IsAuthentication(err) || IsRateLimited(err) {
		t.Errorf("502 wrongly matched a specific taxonomy class")
	}
}

func TestRetryAfterParsed(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "30")
	err := FromResponse("jira", respWithStatus(t, http.StatusTooManyRequests, header), "issue", "PROJ-1")

	rle, ok := err.(*RateLimitedError)
	if !ok {
		t.Fatalf("expected *RateLimitedError, got %T", err)
	}
	if rle.RetryAfter != 30*time.Second {
		t.Errorf("RetryAfter = %s, want 30s", rle.RetryAfter)
	}
}

func TestRetryAfterGarbageIgnored(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "Wed, 21 Oct 2015 07:28:00 GMT")
	err := FromResponse("jira", respWithStatus(t, http.StatusTooManyRequests, header), "issue", "PROJ-1")

	rle, ok := err.(*RateLimitedError)
	if !ok {
		t.Fatalf("expected *RateLimitedError, got %T", err)
	}
	if rle.RetryAfter != 0 {
		t.Errorf("RetryAfter = %s, want 0 for unparseable header", rle.RetryAfter)
	}
}

func TestNotFoundMessageNamesTheThing(t *testing.T) {
	err := &NotFoundError{Service: "jira", Kind: "issue", ID: "NOPE-404"}
	want := `jira: issue "NOPE-404" not found`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrappedErrorsStillMatch(t *testing.T) {
	inner := &NotFoundError{Service: "confluence", Kind: "space", ID: "DOCS"}
	wrapped := fmt.Errorf("confluence: fetching space: %w", inner)
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should see through fmt.Errorf wrapping")
	}
}
