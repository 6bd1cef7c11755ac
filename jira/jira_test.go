package jira

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/dnaeon/go-vcr.v3/recorder"

	"github.com/toothbrush/atlassian-rag/internal/apierr"
	"github.com/toothbrush/atlassian-rag/internal/cache"
)

// replayAPI builds an API whose HTTP client replays a recorded cassette from
// fixtures/.  No network involved.
func replayAPI(t *testing.T, cassette string) *API {
	t.Helper()

	r, err := recorder.NewWithOptions(&recorder.Options{
		CassetteName:       "fixtures/" + cassette,
		Mode:               recorder.ModeReplayOnly,
		SkipRequestLatency: true,
	})
	if err != nil {
		t.Fatalf("couldn't start recorder: %v", err)
	}
	t.Cleanup(func() {
		if err := r.Stop(); err != nil {
			t.Errorf("couldn't stop recorder: %v", err)
		}
	})

	api, err := NewAPI("https://example.atlassian.net", "sam@example.com", "token123")
	if err != nil {
		t.Fatalf("couldn't construct API: %v", err)
	}
	api.Client = r.GetDefaultClient()
	return api
}

type fakeCache struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeCache) Set(_ context.Context, key, value string, ttl time.Duration) {
	f.values[key] = value
	f.ttls[key] = ttl
}

func TestGetIssue(t *testing.T) {
	api := replayAPI(t, "issue_demo1")

	issue, err := api.GetIssue(context.Background(), GetIssueQuery{
		Key:    "DEMO-1",
		Fields: []string{"summary", "description", "status", "comment"},
		Expand: []string{"renderedFields"},
	})
	if err != nil {
		t.Fatalf("GetIssue: %v", err)
	}

	if issue.Key != "DEMO-1" {
		t.Errorf("Key = %q", issue.Key)
	}
	if issue.Fields.Summary != "Fix login flow" {
		t.Errorf("Summary = %q", issue.Fields.Summary)
	}
	if issue.Fields.Status == nil || issue.Fields.Status.StatusCategory.Key != "indeterminate" {
		t.Errorf("status category = %+v", issue.Fields.Status)
	}
	if issue.RenderedFields == nil || !strings.Contains(issue.RenderedFields.Description, "<b>500</b>") {
		t.Errorf("rendered description missing: %+v", issue.RenderedFields)
	}
	if issue.Fields.Comment == nil || len(issue.Fields.Comment.Comments) != 1 {
		t.Fatalf("comments = %+v", issue.Fields.Comment)
	}
	if issue.Fields.Comment.Comments[0].Author.DisplayName != "Sam Doe" {
		t.Errorf("comment author = %+v", issue.Fields.Comment.Comments[0].Author)
	}
	if issue.RenderedFields.Comment == nil || issue.RenderedFields.Comment.Comments[0].Body != "<p>Repro steps attached.</p>" {
		t.Errorf("rendered comment = %+v", issue.RenderedFields.Comment)
	}
}

func TestGetIssueADFFallback(t *testing.T) {
	api := replayAPI(t, "issue_demo1")

	issue, err := api.GetIssue(context.Background(), GetIssueQuery{
		Key:    "DEMO-1",
		Fields: []string{"summary", "description", "status", "comment"},
		Expand: []string{"renderedFields"},
	})
	if err != nil {
		t.Fatalf("GetIssue: %v", err)
	}

	got := ADFText(issue.Fields.Description)
	if got != "Users get a 500 when logging in." {
		t.Errorf("ADFText(description) = %q", got)
	}
}

func TestGetIssueCustomNumber(t *testing.T) {
	api := replayAPI(t, "issue_demo1")

	issue, err := api.GetIssue(context.Background(), GetIssueQuery{
		Key:    "DEMO-1",
		Fields: []string{"summary", "description", "status", "comment"},
		Expand: []string{"renderedFields"},
	})
	if err != nil {
		t.Fatalf("GetIssue: %v", err)
	}

	points, ok := issue.CustomNumber("customfield_10016")
	if !ok || points != 5 {
		t.Errorf("CustomNumber = %v, %v; want 5, true", points, ok)
	}
	if _, ok := issue.CustomNumber("customfield_99999"); ok {
		t.Error("absent custom field should report false")
	}
}

func TestGetIssueNotFound(t *testing.T) {
	api := replayAPI(t, "issue_missing")

	_, err := api.GetIssue(context.Background(), GetIssueQuery{
		Key:    "NOPE-404",
		Fields: []string{"summary"},
		Expand: []string{"renderedFields"},
	})
	if !apierr.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	var nf *apierr.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatal("errors.As failed")
	}
	if nf.Kind != "issue" || nf.ID != "NOPE-404" {
		t.Errorf("NotFoundError = %+v", nf)
	}
}

func TestGetIssueCachesResponse(t *testing.T) {
	api := replayAPI(t, "issue_demo1")
	fc := newFakeCache()
	api.Cache = fc

	opts := GetIssueQuery{
		Key:    "DEMO-1",
		Fields: []string{"summary", "description", "status", "comment"},
		Expand: []string{"renderedFields"},
	}
	if _, err := api.GetIssue(context.Background(), opts); err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	key := cache.Key("jira", "issue", "DEMO-1")
	if fc.values[key] == "" {
		t.Fatalf("expected response cached under %q", key)
	}

	// One interaction on the cassette; a second round trip would fail, so
	// success here means the cache answered.
	issue, err := api.GetIssue(context.Background(), opts)
	if err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if issue.Fields.Summary != "Fix login flow" {
		t.Errorf("cached Summary = %q", issue.Fields.Summary)
	}
}

func TestSearchAllIssuesPaginates(t *testing.T) {
	api := replayAPI(t, "search_paginated")

	issues, err := api.SearchAllIssues(context.Background(), SearchQuery{
		JQL:        "project = DEMO ORDER BY created ASC",
		Fields:     []string{"summary", "status"},
		MaxResults: 2,
	})
	if err != nil {
		t.Fatalf("SearchAllIssues: %v", err)
	}

	if len(issues) != 3 {
		t.Fatalf("got %d issues, want 3 across two result pages", len(issues))
	}
	if issues[2].Key != "DEMO-3" {
		t.Errorf("issues[2].Key = %q", issues[2].Key)
	}
	if issues[0].Fields.Status.StatusCategory.Key != "done" {
		t.Errorf("issues[0] status category = %+v", issues[0].Fields.Status)
	}
}

func TestGetIssueChangelog(t *testing.T) {
	api := replayAPI(t, "changelog_demo1")

	histories, err := api.GetIssueChangelog(context.Background(), "DEMO-1")
	if err != nil {
		t.Fatalf("GetIssueChangelog: %v", err)
	}

	if len(histories) != 2 {
		t.Fatalf("got %d histories, want 2", len(histories))
	}
	first := histories[0].Items[0]
	if first.Field != "status" || first.From != "To Do" || first.To != "In Progress" {
		t.Errorf("first change = %+v", first)
	}
	if len(histories[1].Items) != 2 {
		t.Errorf("second history should carry two field changes, got %d", len(histories[1].Items))
	}
}

func TestListProjects(t *testing.T) {
	api := replayAPI(t, "projects")
	fc := newFakeCache()
	api.Cache = fc

	projects, err := api.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}

	if len(projects) != 2 {
		t.Fatalf("got %d projects, want 2", len(projects))
	}
	if projects[0].Key != "DEMO" || projects[1].Key != "OPS" {
		t.Errorf("projects = %+v", projects)
	}
	if fc.ttls[cache.Key("jira", "projects")] != cache.TTLDefault {
		t.Errorf("project list should cache for %s", cache.TTLDefault)
	}
}

func TestGetSprint(t *testing.T) {
	api := replayAPI(t, "sprint_42")

	sprint, err := api.GetSprint(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetSprint: %v", err)
	}

	if sprint.ID != 42 || sprint.Name != "Sprint 7" || sprint.State != "closed" {
		t.Errorf("sprint = %+v", sprint)
	}
	if sprint.Goal != "Ship login revamp" {
		t.Errorf("Goal = %q", sprint.Goal)
	}
}

func TestGetSprintNotFound(t *testing.T) {
	api := replayAPI(t, "sprint_missing")

	_, err := api.GetSprint(context.Background(), 99)
	if !apierr.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestMyself(t *testing.T) {
	api := replayAPI(t, "myself")

	user, err := api.Myself(context.Background())
	if err != nil {
		t.Fatalf("Myself: %v", err)
	}
	if user.DisplayName != "Sam Doe" || !user.Active {
		t.Errorf("user = %+v", user)
	}
}
