package confluence

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// getPageByIDEndpoint returns the (v2) API endpoint to download one page:
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-page/#api-pages-id-get
func (a *API) getPageByIDEndpoint(opts GetPageByIDQuery) (*url.URL, error) {
	if opts.ID < 1 {
		return nil, fmt.Errorf("confluence: please provide ID to get page by ID")
	}

	ep, err := a.resolveEndpoint(fmt.Sprintf("/wiki/api/v2/pages/%d", opts.ID))
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// getPagesEndpoint returns the (v2) API endpoint to list pages
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-page/#api-pages-get
func (a *API) getPagesEndpoint(opts GetPagesQuery) (*url.URL, error) {
	ep, err := a.resolveEndpoint("/wiki/api/v2/pages")
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// getSpaceEndpoint returns the (v2) API endpoint to list spaces
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-space/#api-spaces-get
func (a *API) getSpaceEndpoint(opts SpacesQuery) (*url.URL, error) {
	ep, err := a.resolveEndpoint("/wiki/api/v2/spaces")
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// getFooterCommentsEndpoint returns the (v2) API endpoint to list the comments
// below a page:
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-comment/#api-pages-id-footer-comments-get
func (a *API) getFooterCommentsEndpoint(opts GetFooterCommentsQuery) (*url.URL, error) {
	if opts.ID < 1 {
		return nil, fmt.Errorf("confluence: please provide page ID to get comments")
	}

	ep, err := a.resolveEndpoint(fmt.Sprintf("/wiki/api/v2/pages/%d/footer-comments", opts.ID))
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// getAttachmentsEndpoint returns the (v2) API endpoint to list a page's
// attachments:
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-attachment/#api-pages-id-attachments-get
func (a *API) getAttachmentsEndpoint(opts GetAttachmentsQuery) (*url.URL, error) {
	if opts.ID < 1 {
		return nil, fmt.Errorf("confluence: please provide page ID to get attachments")
	}

	ep, err := a.resolveEndpoint(fmt.Sprintf("/wiki/api/v2/pages/%d/attachments", opts.ID))
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// getCurrentUserEndpoint returns the (v1) API endpoint to query current user
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-users/#api-wiki-rest-api-user-current-get
//
// This API is supported.  We use it as the cheapest possible credentials
// check before starting a long extraction.
func (a *API) getCurrentUserEndpoint() (*url.URL, error) {
	return a.resolveEndpoint("/wiki/rest/api/user/current")
}

// Do a bit of error checking on endpoint format, and return it relative to the base URI.
func (a *API) resolveEndpoint(endpoint string) (*url.URL, error) {
	baseUri := a.BaseURI

	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("confluence: failed to parse endpoint ref: %w", err)
	}

	return baseUri.ResolveReference(ref), nil
}
