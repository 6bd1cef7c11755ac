package jira

// DefaultIssueFields is what the extraction commands ask for: everything the
// record mapper knows how to place.  Callers append the instance's story
// points custom field when one is configured.
var DefaultIssueFields = []string{
	"assignee",
	"attachment",
	"comment",
	"created",
	"description",
	"issuelinks",
	"issuetype",
	"labels",
	"priority",
	"project",
	"reporter",
	"status",
	"summary",
	"updated",
}

// GetIssueQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/jira/platform/rest/v3/api-group-issues/#api-rest-api-3-issue-issueidorkey-get
type GetIssueQuery struct {
	Key string `url:"-"` // issue key, e.g. PROJ-123; required

	Fields []string `url:"fields,omitempty,comma"` // which fields to return
	Expand []string `url:"expand,omitempty,comma"` // e.g. renderedFields for HTML bodies
}

// SearchQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/jira/platform/rest/v3/api-group-issue-search/#api-rest-api-3-search-jql-get
type SearchQuery struct {
	JQL string `url:"jql"` // bounded JQL; required

	Fields []string `url:"fields,omitempty,comma"`
	Expand []string `url:"expand,omitempty,comma"`

	// startAt/maxResults pagination; the retrieval loop advances StartAt by
	// the number of issues actually received.
	StartAt    int `url:"startAt"`
	MaxResults int `url:"maxResults,omitempty"` // server caps this at 100
}

// ChangelogQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/jira/platform/rest/v3/api-group-issues/#api-rest-api-3-issue-issueidorkey-changelog-get
type ChangelogQuery struct {
	Key string `url:"-"` // issue key; required

	StartAt    int `url:"startAt"`
	MaxResults int `url:"maxResults,omitempty"`
}

// ProjectSearchQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/jira/platform/rest/v3/api-group-projects/#api-rest-api-3-project-search-get
type ProjectSearchQuery struct {
	Query   string `url:"query,omitempty"`   // filter by key or name
	OrderBy string `url:"orderBy,omitempty"` // e.g. key, -key, name

	StartAt    int `url:"startAt"`
	MaxResults int `url:"maxResults,omitempty"`
}
