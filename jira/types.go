package jira

import "encoding/json"

// User shows up as the caller identity (/rest/api/3/myself) and as
// assignee/reporter/author fields on issues and comments.
type User struct {
	AccountID   string `json:"accountId,omitempty"`
	AccountType string `json:"accountType,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"emailAddress,omitempty"`
	Active      bool   `json:"active,omitempty"`
}

// Issue is one JIRA issue with whatever fields were requested.
// https://developer.atlassian.com/cloud/jira/platform/rest/v3/api-group-issues/#api-rest-api-3-issue-issueidorkey-get
type Issue struct {
	ID     string      `json:"id,omitempty"`
	Key    string      `json:"key"`
	Self   string      `json:"self,omitempty"`
	Fields IssueFields `json:"fields"`

	// Present when expand=renderedFields was requested: rich-text fields as
	// HTML, ready for the cleaner.
	RenderedFields *RenderedFields `json:"renderedFields,omitempty"`

	// FieldsRaw keeps the undecoded fields blob so instance-specific custom
	// fields (story points live under some customfield_NNNNN key) can still
	// be dug out.  Not part of the wire format.
	FieldsRaw json.RawMessage `json:"-"`
}

func (i *Issue) UnmarshalJSON(data []byte) error {
	type plain Issue
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*i = Issue(p)

	var envelope struct {
		Fields json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	i.FieldsRaw = envelope.Fields
	return nil
}

// CustomNumber digs a numeric custom field out of the raw fields blob.
// Reports false when the field is absent, null, or not a number.
func (i Issue) CustomNumber(field string) (float64, bool) {
	if len(i.FieldsRaw) == 0 || field == "" {
		return 0, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(i.FieldsRaw, &fields); err != nil {
		return 0, false
	}
	raw, ok := fields[field]
	if !ok {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

type IssueFields struct {
	Summary     string          `json:"summary,omitempty"`
	Description json.RawMessage `json:"description,omitempty"` // ADF document, or null
	Status      *Status         `json:"status,omitempty"`
	IssueType   *IssueType      `json:"issuetype,omitempty"`
	Priority    *Priority       `json:"priority,omitempty"`
	Assignee    *User           `json:"assignee,omitempty"`
	Reporter    *User           `json:"reporter,omitempty"`
	Labels      []string        `json:"labels,omitempty"`
	Created     string          `json:"created,omitempty"`
	Updated     string          `json:"updated,omitempty"`
	Project     *Project        `json:"project,omitempty"`
	Comment     *CommentPage    `json:"comment,omitempty"`
	Attachment  []Attachment    `json:"attachment,omitempty"`
	IssueLinks  []IssueLink     `json:"issuelinks,omitempty"`
}

type Status struct {
	Name           string          `json:"name,omitempty"`
	StatusCategory *StatusCategory `json:"statusCategory,omitempty"`
}

// StatusCategory's Key is one of "new", "indeterminate", "done".  It's the
// only stable way to tell whether an issue counts as completed, since status
// names are free-form per instance.
type StatusCategory struct {
	Key  string `json:"key,omitempty"`
	Name string `json:"name,omitempty"`
}

type IssueType struct {
	Name    string `json:"name,omitempty"`
	Subtask bool   `json:"subtask,omitempty"`
}

type Priority struct {
	Name string `json:"name,omitempty"`
}

// RenderedFields mirrors the requested rich-text fields with bodies as HTML.
type RenderedFields struct {
	Description string            `json:"description,omitempty"`
	Comment     *RenderedComments `json:"comment,omitempty"`
}

type RenderedComments struct {
	Comments []RenderedComment `json:"comments,omitempty"`
}

type RenderedComment struct {
	ID   string `json:"id,omitempty"`
	Body string `json:"body,omitempty"`
}

type CommentPage struct {
	Comments   []Comment `json:"comments,omitempty"`
	StartAt    int       `json:"startAt,omitempty"`
	MaxResults int       `json:"maxResults,omitempty"`
	Total      int       `json:"total,omitempty"`
}

type Comment struct {
	ID      string          `json:"id,omitempty"`
	Author  *User           `json:"author,omitempty"`
	Body    json.RawMessage `json:"body,omitempty"` // ADF document
	Created string          `json:"created,omitempty"`
	Updated string          `json:"updated,omitempty"`
}

type Attachment struct {
	ID       string `json:"id,omitempty"`
	Filename string `json:"filename,omitempty"`
	Author   *User  `json:"author,omitempty"`
	Created  string `json:"created,omitempty"`
	Size     int64  `json:"size,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Content  string `json:"content,omitempty"` // download URL
}

type IssueLink struct {
	ID           string          `json:"id,omitempty"`
	Type         IssueLinkType   `json:"type"`
	InwardIssue  *LinkedIssueRef `json:"inwardIssue,omitempty"`
	OutwardIssue *LinkedIssueRef `json:"outwardIssue,omitempty"`
}

type IssueLinkType struct {
	Name    string `json:"name,omitempty"`
	Inward  string `json:"inward,omitempty"`  // e.g. "is blocked by"
	Outward string `json:"outward,omitempty"` // e.g. "blocks"
}

type LinkedIssueRef struct {
	ID     string `json:"id,omitempty"`
	Key    string `json:"key"`
	Fields struct {
		Summary string  `json:"summary,omitempty"`
		Status  *Status `json:"status,omitempty"`
	} `json:"fields"`
}

type Project struct {
	ID             string `json:"id,omitempty"`
	Key            string `json:"key"`
	Name           string `json:"name,omitempty"`
	ProjectTypeKey string `json:"projectTypeKey,omitempty"`
	Lead           *User  `json:"lead,omitempty"`
}

// Sprint comes from the agile API, not the platform one.
// https://developer.atlassian.com/cloud/jira/software/rest/api-group-sprint/#api-rest-agile-1-0-sprint-sprintid-get
type Sprint struct {
	ID            int    `json:"id"`
	Self          string `json:"self,omitempty"`
	State         string `json:"state,omitempty"` // future, active, closed
	Name          string `json:"name,omitempty"`
	StartDate     string `json:"startDate,omitempty"`
	EndDate       string `json:"endDate,omitempty"`
	CompleteDate  string `json:"completeDate,omitempty"`
	OriginBoardID int    `json:"originBoardId,omitempty"`
	Goal          string `json:"goal,omitempty"`
}

// ChangelogHistory is one changelog event: who, when, and the fields that
// changed in that event.
type ChangelogHistory struct {
	ID      string          `json:"id,omitempty"`
	Author  *User           `json:"author,omitempty"`
	Created string          `json:"created,omitempty"`
	Items   []ChangelogItem `json:"items,omitempty"`
}

type ChangelogItem struct {
	Field     string `json:"field,omitempty"`
	FieldType string `json:"fieldtype,omitempty"`
	From      string `json:"fromString,omitempty"`
	To        string `json:"toString,omitempty"`
}
