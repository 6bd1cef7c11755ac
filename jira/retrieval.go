package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/toothbrush/atlassian-rag/internal/cache"
)

// Each individual round trip gets this long; the pagination loops
// themselves can run as long as they need to.
const perRequestTimeout = 5 * time.Second

// SearchAllIssues walks a JQL search to the end, page by page.  MaxResults
// defaults to 50 and is clamped to the server's cap of 100; StartAt is
// managed by the loop.
func (api *API) SearchAllIssues(ctx context.Context, opts SearchQuery) ([]Issue, error) {
	if opts.MaxResults < 1 {
		opts.MaxResults = 50
	}
	if opts.MaxResults > 100 {
		opts.MaxResults = 100
	}
	opts.StartAt = 0

	var issues []Issue

	for {
		reqCtx, cancel := context.WithTimeout(ctx, perRequestTimeout)
		page, err := api.search(reqCtx, opts)
		cancel()

		if err != nil {
			return nil, fmt.Errorf("jira: search %q failed: %w", opts.JQL, err)
		}

		issues = append(issues, page.Issues...)

		opts.StartAt += len(page.Issues)
		if opts.StartAt >= page.Total || len(page.Issues) == 0 {
			break
		}
	}

	return issues, nil
}

// GetIssueChangelog walks an issue's full change history.
func (api *API) GetIssueChangelog(ctx context.Context, key string) ([]ChangelogHistory, error) {
	opts := ChangelogQuery{
		Key:        key,
		MaxResults: 100,
	}

	var histories []ChangelogHistory

	for {
		reqCtx, cancel := context.WithTimeout(ctx, perRequestTimeout)
		page, err := api.getChangelogPage(reqCtx, opts)
		cancel()

		if err != nil {
			return nil, fmt.Errorf("jira: couldn't fetch changelog for %s: %w", key, err)
		}

		histories = append(histories, page.Values...)

		opts.StartAt += len(page.Values)
		if opts.StartAt >= page.Total || len(page.Values) == 0 {
			break
		}
	}

	return histories, nil
}

// ListProjects walks the project listing to the end.  Cached for half an
// hour, the project list barely changes.
func (api *API) ListProjects(ctx context.Context) ([]Project, error) {
	cacheKey := cache.Key("jira", "projects")
	if hit, ok := api.Cache.Get(ctx, cacheKey); ok {
		var projects []Project
		if err := json.Unmarshal([]byte(hit), &projects); err == nil {
			return projects, nil
		}
	}

	opts := ProjectSearchQuery{
		OrderBy:    "key",
		MaxResults: 50,
	}

	var projects []Project

	for {
		reqCtx, cancel := context.WithTimeout(ctx, perRequestTimeout)
		page, err := api.getProjectsPage(reqCtx, opts)
		cancel()

		if err != nil {
			return nil, fmt.Errorf("jira: couldn't list projects: %w", err)
		}

		projects = append(projects, page.Values...)

		opts.StartAt += len(page.Values)
		if page.IsLast || opts.StartAt >= page.Total || len(page.Values) == 0 {
			break
		}
	}

	if marshalled, err := json.Marshal(projects); err == nil {
		api.Cache.Set(ctx, cacheKey, string(marshalled), cache.TTLDefault)
	}

	return projects, nil
}
