package confluence

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

func TestNewAPIValidatesInputs(t *testing.T) {
	if _, err := NewAPI("", "sam", "tok"); err == nil {
		t.Error("expected error for empty base URL")
	}
	if _, err := NewAPI("https://x.atlassian.net", "", "tok"); err == nil {
		t.Error("expected error for empty username")
	}
	if _, err := NewAPI("https://x.atlassian.net", "sam", ""); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestNewAPIStripsWikiSuffix(t *testing.T) {
	api, err := NewAPI("https://x.atlassian.net/wiki", "sam", "tok")
	if err != nil {
		t.Fatal(err)
	}
	if got := api.BaseURI.String(); got != "https://x.atlassian.net" {
		t.Errorf("BaseURI = %q, want bare instance URL", got)
	}
}

func TestGetPageByID(t *testing.T) {
	api := replayAPI(t, "page_123")

	page, err := api.GetPageByID(context.Background(), GetPageByIDQuery{ID: 123, BodyFormat: "storage"})
	if err != nil {
		t.Fatalf("GetPageByID: %v", err)
	}

	if page.ID != "123" {
		t.Errorf("ID = %q, want 123", page.ID)
	}
	if page.Title != "Getting Started" {
		t.Errorf("Title = %q", page.Title)
	}
	if !strings.Contains(page.Body.Storage.Value, "<p>Hello <b>World</b></p>") {
		t.Errorf("storage body = %q", page.Body.Storage.Value)
	}
	if page.Version == nil || page.Version.Number != 7 {
		t.Errorf("version = %+v, want number 7", page.Version)
	}
}

func TestGetPageByIDNotFound(t *testing.T) {
	api := replayAPI(t, "page_missing")

	_, err := api.GetPageByID(context.Background(), GetPageByIDQuery{ID: 999, BodyFormat: "storage"})
	if !apierr.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	var nf *apierr.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatal("errors.As failed")
	}
	if nf.Kind != "page" || nf.ID != "999" {
		t.Errorf("NotFoundError = %+v", nf)
	}
}

func TestGetPageByIDCachesResponse(t *testing.T) {
	api := replayAPI(t, "page_123")
	fc := newFakeCache()
	api.Cache = fc

	if _, err := api.GetPageByID(context.Background(), GetPageByIDQuery{ID: 123, BodyFormat: "storage"}); err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	key := cache.Key("confluence", "page", "123", "storage")
	if fc.values[key] == "" {
		t.Fatalf("expected response cached under %q", key)
	}
	if fc.ttls[key] != cache.TTLDefault {
		t.Errorf("ttl = %s, want %s", fc.ttls[key], cache.TTLDefault)
	}

	// The cassette holds exactly one interaction, so a second round trip
	// would fail: success here means the cache answered.
	page, err := api.GetPageByID(context.Background(), GetPageByIDQuery{ID: 123, BodyFormat: "storage"})
	if err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if page.Title != "Getting Started" {
		t.Errorf("cached Title = %q", page.Title)
	}
}

func TestGetSpaceByKey(t *testing.T) {
	api := replayAPI(t, "spaces_by_key")

	space, err := api.GetSpaceByKey(context.Background(), "DOCS")
	if err != nil {
		t.Fatalf("GetSpaceByKey: %v", err)
	}
	if space.ID != "88" || space.Name != "Documentation" {
		t.Errorf("space = %+v", space)
	}

	_, err = api.GetSpaceByKey(context.Background(), "NOPE")
	if !apierr.IsNotFound(err) {
		t.Fatalf("expected NotFoundError for unknown key, got %v", err)
	}
	var nf *apierr.NotFoundError
	if errors.As(err, &nf) && nf.Kind != "space" {
		t.Errorf("Kind = %q, want space", nf.Kind)
	}
}

func TestListAllSpacesPaginates(t *testing.T) {
	api := replayAPI(t, "spaces_paginated")
	fc := newFakeCache()
	api.Cache = fc

	spaces, err := api.ListAllSpaces(context.Background(), false)
	if err != nil {
		t.Fatalf("ListAllSpaces: %v", err)
	}

	if len(spaces) != 3 {
		t.Fatalf("got %d spaces, want 3 across two result pages", len(spaces))
	}
	if spaces["HR"].Name != "People Ops" {
		t.Errorf("second page didn't land: %+v", spaces["HR"])
	}

	if fc.ttls[cache.Key("confluence", "spaces", "global")] != cache.TTLSpaces {
		t.Errorf("spaces list should cache for %s", cache.TTLSpaces)
	}
}

func TestListPagesInSpace(t *testing.T) {
	api := replayAPI(t, "pages_in_space")

	pages, err := api.ListPagesInSpace(context.Background(), Space{ID: "88", Key: "DOCS"}, "storage", false)
	if err != nil {
		t.Fatalf("ListPagesInSpace: %v", err)
	}

	if len(pages) != 3 {
		t.Fatalf("got %d pages, want 3 across two result pages", len(pages))
	}
	for _, page := range pages {
		if page.SpaceKey != "DOCS" {
			t.Errorf("page %s missing space key stamp: %q", page.ID, page.SpaceKey)
		}
	}
	if pages[2].ID != "125" {
		t.Errorf("pages[2].ID = %q, want 125", pages[2].ID)
	}
}

func TestGetFooterComments(t *testing.T) {
	api := replayAPI(t, "comments_123")

	comments, err := api.GetFooterComments(context.Background(), 123)
	if err != nil {
		t.Fatalf("GetFooterComments: %v", err)
	}

	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(comments))
	}
	if !strings.Contains(comments[0].Body.Storage.Value, "staging URL") {
		t.Errorf("comment body = %q", comments[0].Body.Storage.Value)
	}
	if comments[1].Version == nil || comments[1].Version.AuthorID == "" {
		t.Error("comment author missing")
	}
}

func TestGetAttachments(t *testing.T) {
	api := replayAPI(t, "attachments_123")

	attachments, err := api.GetAttachments(context.Background(), 123)
	if err != nil {
		t.Fatalf("GetAttachments: %v", err)
	}

	if len(attachments) != 1 {
		t.Fatalf("got %d attachments, want 1", len(attachments))
	}
	att := attachments[0]
	if att.Title != "deploy-diagram.png" || att.MediaType != "image/png" || att.FileSize != 48213 {
		t.Errorf("attachment = %+v", att)
	}
}

func TestCurrentUser(t *testing.T) {
	api := replayAPI(t, "current_user")

	user, err := api.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if user.DisplayName != "Sam Doe" {
		t.Errorf("DisplayName = %q", user.DisplayName)
	}
}

func TestCurrentUserUnauthorized(t *testing.T) {
	api := replayAPI(t, "current_user_unauthorized")

	_, err := api.CurrentUser(context.Background())
	if !apierr.IsAuthentication(err) {
		t.Fatalf("expected AuthenticationError, got %v", err)
	}
}
