package jira

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// getMyselfEndpoint returns the API endpoint for the caller's identity:
// https://developer.atlassian.com/cloud/jira/platform/rest/v3/api-group-myself/#api-rest-api-3-myself-get
//
// We use it as the cheapest possible credentials check before starting a
// long extraction.
func (a *API) getMyselfEndpoint() (*url.URL, error) {
	return a.resolveEndpoint("/rest/api/3/myself")
}

// getIssueEndpoint returns the API endpoint to fetch one issue:
// https://developer.atlassian.com/cloud/jira/platform/rest/v3/api-group-issues/#api-rest-api-3-issue-issueidorkey-get
func (a *API) getIssueEndpoint(opts GetIssueQuery) (*url.URL, error) {
	if opts.Key == "" {
		return nil, fmt.Errorf("jira: please provide issue key")
	}

	ep, err := a.resolveEndpoint(fmt.Sprintf("/rest/api/3/issue/%s", opts.Key))
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// searchEndpoint returns the API endpoint for bounded JQL search:
// https://developer.atlassian.com/cloud/jira/platform/rest/v3/api-group-issue-search/#api-rest-api-3-search-jql-get
func (a *API) searchEndpoint(opts SearchQuery) (*url.URL, error) {
	if opts.JQL == "" {
		return nil, fmt.Errorf("jira: please provide a JQL query")
	}

	ep, err := a.resolveEndpoint("/rest/api/3/search/jql")
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// getChangelogEndpoint returns the API endpoint for an issue's paginated
// changelog:
// https://developer.atlassian.com/cloud/jira/platform/rest/v3/api-group-issues/#api-rest-api-3-issue-issueidorkey-changelog-get
func (a *API) getChangelogEndpoint(opts ChangelogQuery) (*url.URL, error) {
	if opts.Key == "" {
		return nil, fmt.Errorf("jira: please provide issue key to get changelog")
	}

	ep, err := a.resolveEndpoint(fmt.Sprintf("/rest/api/3/issue/%s/changelog", opts.Key))
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// getProjectSearchEndpoint returns the API endpoint to list projects:
// https://developer.atlassian.com/cloud/jira/platform/rest/v3/api-group-projects/#api-rest-api-3-project-search-get
func (a *API) getProjectSearchEndpoint(opts ProjectSearchQuery) (*url.URL, error) {
	ep, err := a.resolveEndpoint("/rest/api/3/project/search")
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// getProjectEndpoint returns the API endpoint to fetch one project:
// https://developer.atlassian.com/cloud/jira/platform/rest/v3/api-group-projects/#api-rest-api-3-project-projectidorkey-get
func (a *API) getProjectEndpoint(key string) (*url.URL, error) {
	if key == "" {
		return nil, fmt.Errorf("jira: please provide project key")
	}

	return a.resolveEndpoint(fmt.Sprintf("/rest/api/3/project/%s", key))
}

// getSprintEndpoint returns the agile API endpoint to fetch one sprint:
// https://developer.atlassian.com/cloud/jira/software/rest/api-group-sprint/#api-rest-agile-1-0-sprint-sprintid-get
func (a *API) getSprintEndpoint(id int) (*url.URL, error) {
	if id < 1 {
		return nil, fmt.Errorf("jira: please provide sprint ID")
	}

	return a.resolveEndpoint(fmt.Sprintf("/rest/agile/1.0/sprint/%d", id))
}

// Do a bit of error checking on endpoint format, and return it relative to the base URI.
func (a *API) resolveEndpoint(endpoint string) (*url.URL, error) {
	baseUri := a.BaseURI

	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("jira: failed to parse endpoint ref: %w", err)
	}

	return baseUri.ResolveReference(ref), nil
}
