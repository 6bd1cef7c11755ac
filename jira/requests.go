package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/toothbrush/atlassian-rag/internal/apierr"
	"github.com/toothbrush/atlassian-rag/internal/cache"
)

func (api *API) GetIssue(ctx context.Context, opts GetIssueQuery) (*Issue, error) {
	ep, err := api.getIssueEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't get issue endpoint: %w", err)
	}

	key := cache.Key("jira", "issue", opts.Key)
	body, err := api.requestCached(ctx, ep, key, "issue", opts.Key)
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't perform request: %w", err)
	}

	var issue Issue

	if err := json.Unmarshal(body, &issue); err != nil {
		return nil, fmt.Errorf("jira: couldn't parse json response: %w", err)
	}

	return &issue, nil
}

func (api *API) search(ctx context.Context, opts SearchQuery) (*SearchResponse, error) {
	ep, err := api.searchEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't get search endpoint: %w", err)
	}

	body, err := api.request(ctx, ep, "search", opts.JQL)
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't perform request: %w", err)
	}

	var page SearchResponse

	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("jira: couldn't parse json response: %w", err)
	}

	return &page, nil
}

func (api *API) getChangelogPage(ctx context.Context, opts ChangelogQuery) (*ChangelogResponse, error) {
	ep, err := api.getChangelogEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't get changelog endpoint: %w", err)
	}

	body, err := api.request(ctx, ep, "issue", opts.Key)
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't perform request: %w", err)
	}

	var page ChangelogResponse

	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("jira: couldn't parse json response: %w", err)
	}

	return &page, nil
}

func (api *API) getProjectsPage(ctx context.Context, opts ProjectSearchQuery) (*ProjectSearchResponse, error) {
	ep, err := api.getProjectSearchEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't get project search endpoint: %w", err)
	}

	body, err := api.request(ctx, ep, "projects", "")
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't perform request: %w", err)
	}

	var page ProjectSearchResponse

	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("jira: couldn't parse json response: %w", err)
	}

	return &page, nil
}

func (api *API) GetProject(ctx context.Context, key string) (*Project, error) {
	ep, err := api.getProjectEndpoint(key)
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't get project endpoint: %w", err)
	}

	body, err := api.request(ctx, ep, "project", key)
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't perform request: %w", err)
	}

	var project Project

	if err := json.Unmarshal(body, &project); err != nil {
		return nil, fmt.Errorf("jira: couldn't parse json response: %w", err)
	}

	return &project, nil
}

func (api *API) GetSprint(ctx context.Context, id int) (*Sprint, error) {
	ep, err := api.getSprintEndpoint(id)
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't get sprint endpoint: %w", err)
	}

	body, err := api.request(ctx, ep, "sprint", strconv.Itoa(id))
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't perform request: %w", err)
	}

	var sprint Sprint

	if err := json.Unmarshal(body, &sprint); err != nil {
		return nil, fmt.Errorf("jira: couldn't parse json response: %w", err)
	}

	return &sprint, nil
}

// Myself returns the authenticated user's identity.
func (api *API) Myself(ctx context.Context) (*User, error) {
	ep, err := api.getMyselfEndpoint()
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't get myself endpoint: %w", err)
	}

	body, err := api.request(ctx, ep, "user", "myself")
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't perform http request: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("jira: couldn't parse json response: %w", err)
	}

	return &user, nil
}

// requestCached is request with a read-through cache in front.  Issue bodies
// keep for half an hour; a hit skips the network round trip entirely.
func (api *API) requestCached(ctx context.Context, url *url.URL, key string, kind, id string) ([]byte, error) {
	if hit, ok := api.Cache.Get(ctx, key); ok {
		return []byte(hit), nil
	}

	body, err := api.request(ctx, url, kind, id)
	if err != nil {
		return nil, err
	}

	api.Cache.Set(ctx, key, string(body), cache.TTLDefault)
	return body, nil
}

// Request implements the basic Request function.  kind and id say what we
// were after, so 404s come back as a useful NotFoundError.
func (api *API) request(ctx context.Context, url *url.URL, kind, id string) ([]byte, error) {
	if err := api.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("jira: rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't instantiate http request: %w", err)
	}

	req.Header.Add("Accept", "application/json, */*")

	// if user & token are not set, do not add authorization header
	if api.username != "" && api.token != "" {
		req.SetBasicAuth(api.username, api.token)
	} else if api.token != "" {
		req.Header.Set("Authorization", "Bearer "+api.token)
	}

	response, err := api.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't perform http request: %w", err)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("jira: couldn't read http response body: %w", err)
	}

	if err := response.Body.Close(); err != nil {
		return nil, fmt.Errorf("jira: couldn't close response body: %w", err)
	}

	switch response.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusPartialContent, http.StatusNoContent, http.StatusResetContent:
		return body, nil
	}

	return nil, apierr.FromResponse("jira", response, kind, id)
}
