// Package record maps Confluence pages and JIRA issues onto a single
// ContentRecord shape that the output writers understand.  Records are
// values: the mappers build them once and nothing mutates them afterwards.
package record

import (
	"strconv"
	"strings"

	"github.com/toothbrush/atlassian-rag/confluence"
	"github.com/toothbrush/atlassian-rag/htmlclean"
	"github.com/toothbrush/atlassian-rag/jira"
)

// ContentRecord is one piece of content ready for export: cleaned text plus
// whatever metadata and satellite records came with it.  Raw carries the
// original body and only the raw CSV writer looks at it.
type ContentRecord struct {
	Content      string             `json:"content"`
	Raw          string             `json:"-"`
	Metadata     Metadata           `json:"metadata"`
	Comments     []CommentRecord    `json:"comments,omitempty"`
	Attachments  []AttachmentRecord `json:"attachments,omitempty"`
	Changelog    []ChangelogEntry   `json:"changelog,omitempty"`
	LinkedIssues []LinkedIssue      `json:"linked_issues,omitempty"`
}

// Metadata holds the descriptive fields of a record.  The zero value of a
// field means "absent": JSON marshalling drops it and Pairs skips it.
type Metadata struct {
	ID           string   `json:"id,omitempty"`
	Key          string   `json:"key,omitempty"`
	Title        string   `json:"title,omitempty"`
	Type         string   `json:"type,omitempty"`
	Status       string   `json:"status,omitempty"`
	URL          string   `json:"url,omitempty"`
	Version      int      `json:"version,omitempty"`
	LastModified string   `json:"last_modified,omitempty"`
	Updated      string   `json:"updated,omitempty"`
	Created      string   `json:"created,omitempty"`
	Source       string   `json:"source,omitempty"`
	Space        string   `json:"space,omitempty"`
	Project      string   `json:"project,omitempty"`
	Priority     string   `json:"priority,omitempty"`
	Assignee     string   `json:"assignee,omitempty"`
	Reporter     string   `json:"reporter,omitempty"`
	Labels       []string `json:"labels,omitempty"`
}

// Pair is one present metadata field, stringified for tabular output.
type Pair struct {
	Key   string
	Value string
}

// metadataKeys fixes the column order for tabular output.  Pairs and the
// CSV writer both follow it, so columns line up across records.
var metadataKeys = []string{
	"id", "key", "title", "type", "status", "url", "version",
	"last_modified", "updated", "created", "source", "space", "project",
	"priority", "assignee", "reporter", "labels",
}

// MetadataKeys returns the canonical metadata column order.
func MetadataKeys() []string {
	keys := make([]string, len(metadataKeys))
	copy(keys, metadataKeys)
	return keys
}

// Pairs returns the present fields as key/value pairs in canonical order.
func (m Metadata) Pairs() []Pair {
	var pairs []Pair
	for _, key := range metadataKeys {
		if value := m.value(key); value != "" {
			pairs = append(pairs, Pair{Key: key, Value: value})
		}
	}
	return pairs
}

func (m Metadata) value(key string) string {
	switch key {
	case "id":
		return m.ID
	case "key":
		return m.Key
	case "title":
		return m.Title
	case "type":
		return m.Type
	case "status":
		return m.Status
	case "url":
		return m.URL
	case "version":
		if m.Version == 0 {
			return ""
		}
		return strconv.Itoa(m.Version)
	case "last_modified":
		return m.LastModified
	case "updated":
		return m.Updated
	case "created":
		return m.Created
	case "source":
		return m.Source
	case "space":
		return m.Space
	case "project":
		return m.Project
	case "priority":
		return m.Priority
	case "assignee":
		return m.Assignee
	case "reporter":
		return m.Reporter
	case "labels":
		return strings.Join(m.Labels, ", ")
	}
	return ""
}

// CommentRecord is a cleaned comment on a page or issue.
type CommentRecord struct {
	ID      string `json:"id,omitempty"`
	Author  string `json:"author,omitempty"`
	Created string `json:"created,omitempty"`
	Body    string `json:"body,omitempty"`
}

// AttachmentRecord points at a file; the bytes themselves stay on the server.
type AttachmentRecord struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title,omitempty"`
	Filename  string `json:"filename,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	Size      int64  `json:"size,omitempty"`
	URL       string `json:"url,omitempty"`
}

// ChangelogEntry is one field change from an issue's history.
type ChangelogEntry struct {
	ID      string `json:"id,omitempty"`
	Author  string `json:"author,omitempty"`
	Created string `json:"created,omitempty"`
	Field   string `json:"field,omitempty"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
}

// LinkedIssue is one end of an issue link, seen from the issue being mapped.
type LinkedIssue struct {
	Key       string `json:"key"`
	LinkType  string `json:"link_type,omitempty"`
	Direction string `json:"direction,omitempty"` // inward or outward
	Summary   string `json:"summary,omitempty"`
	Status    string `json:"status,omitempty"`
}

// PageOptions carries what FromPage needs beyond the page itself.
type PageOptions struct {
	// BaseURL is the site root (https://org.atlassian.net); web links in
	// API payloads are relative to its /wiki context.
	BaseURL     string
	Comments    []confluence.FooterComment
	Attachments []confluence.Attachment
}

// FromPage maps a Confluence page onto a ContentRecord.
func FromPage(page confluence.Page, opts PageOptions) ContentRecord {
	body := page.Body.Storage.Value
	if body == "" && page.Body.View != nil {
		body = page.Body.View.Value
	}

	meta := Metadata{
		ID:      page.ID,
		Title:   page.Title,
		Type:    "page",
		Status:  page.Status,
		URL:     wikiURL(opts.BaseURL, page.Links.WebUI),
		Created: page.CreatedAt,
		Source:  "confluence",
		Space:   page.SpaceKey,
	}
	if meta.Space == "" {
		meta.Space = page.SpaceID
	}
	if page.Version != nil {
		meta.Version = page.Version.Number
		meta.LastModified = page.Version.CreatedAt
	}

	rec := ContentRecord{
		Content:  htmlclean.Clean(body),
		Raw:      body,
		Metadata: meta,
	}

	for _, c := range opts.Comments {
		cr := CommentRecord{
			ID:   c.ID,
			Body: htmlclean.Clean(c.Body.Storage.Value),
		}
		if c.Version != nil {
			cr.Author = c.Version.AuthorID
			cr.Created = c.Version.CreatedAt
		}
		rec.Comments = append(rec.Comments, cr)
	}

	for _, a := range opts.Attachments {
		link := a.DownloadLink
		if link == "" {
			link = a.WebUILink
		}
		rec.Attachments = append(rec.Attachments, AttachmentRecord{
			ID:        a.ID,
			Title:     a.Title,
			Filename:  a.Title,
			MediaType: a.MediaType,
			Size:      a.FileSize,
			URL:       wikiURL(opts.BaseURL, link),
		})
	}

	return rec
}

// IssueOptions carries what FromIssue needs beyond the issue itself.
type IssueOptions struct {
	// BaseURL is the site root (https://org.atlassian.net).
	BaseURL            string
	IncludeComments    bool
	IncludeAttachments bool
	// Changelog is attached verbatim when non-empty; fetching it is the
	// caller's business.
	Changelog []jira.ChangelogHistory
}

// FromIssue maps a JIRA issue onto a ContentRecord.  The description comes
// from renderedFields (HTML, cleaned) when the expand was requested, and
// falls back to flattening the ADF document otherwise.
func FromIssue(issue jira.Issue, opts IssueOptions) ContentRecord {
	var raw, content string
	if issue.RenderedFields != nil && issue.RenderedFields.Description != "" {
		raw = issue.RenderedFields.Description
		content = htmlclean.Clean(raw)
	} else {
		raw = adfRaw(issue.Fields.Description)
		content = jira.ADFText(issue.Fields.Description)
	}

	meta := Metadata{
		ID:      issue.ID,
		Key:     issue.Key,
		Title:   issue.Fields.Summary,
		URL:     browseURL(opts.BaseURL, issue.Key),
		Created: issue.Fields.Created,
		Updated: issue.Fields.Updated,
		Source:  "jira",
		Labels:  issue.Fields.Labels,
	}
	if issue.Fields.IssueType != nil {
		meta.Type = issue.Fields.IssueType.Name
	}
	if issue.Fields.Status != nil {
		meta.Status = issue.Fields.Status.Name
	}
	if issue.Fields.Priority != nil {
		meta.Priority = issue.Fields.Priority.Name
	}
	if issue.Fields.Assignee != nil {
		meta.Assignee = issue.Fields.Assignee.DisplayName
	}
	if issue.Fields.Reporter != nil {
		meta.Reporter = issue.Fields.Reporter.DisplayName
	}
	if issue.Fields.Project != nil {
		meta.Project = issue.Fields.Project.Key
	}

	rec := ContentRecord{
		Content:  content,
		Raw:      raw,
		Metadata: meta,
	}

	if opts.IncludeComments && issue.Fields.Comment != nil {
		rendered := renderedCommentBodies(issue.RenderedFields)
		for _, c := range issue.Fields.Comment.Comments {
			cr := CommentRecord{
				ID:      c.ID,
				Created: c.Created,
			}
			if c.Author != nil {
				cr.Author = c.Author.DisplayName
			}
			if html, ok := rendered[c.ID]; ok {
				cr.Body = htmlclean.Clean(html)
			} else {
				cr.Body = jira.ADFText(c.Body)
			}
			rec.Comments = append(rec.Comments, cr)
		}
	}

	if opts.IncludeAttachments {
		for _, a := range issue.Fields.Attachment {
			rec.Attachments = append(rec.Attachments, AttachmentRecord{
				ID:        a.ID,
				Filename:  a.Filename,
				MediaType: a.MimeType,
				Size:      a.Size,
				URL:       a.Content,
			})
		}
	}

	for _, history := range opts.Changelog {
		author := ""
		if history.Author != nil {
			author = history.Author.DisplayName
		}
		for _, item := range history.Items {
			rec.Changelog = append(rec.Changelog, ChangelogEntry{
				ID:      history.ID,
				Author:  author,
				Created: history.Created,
				Field:   item.Field,
				From:    item.From,
				To:      item.To,
			})
		}
	}

	for _, link := range issue.Fields.IssueLinks {
		if link.InwardIssue != nil {
			rec.LinkedIssues = append(rec.LinkedIssues, linkedIssue(link.InwardIssue, link.Type.Inward, "inward"))
		}
		if link.OutwardIssue != nil {
			rec.LinkedIssues = append(rec.LinkedIssues, linkedIssue(link.OutwardIssue, link.Type.Outward, "outward"))
		}
	}

	return rec
}

func linkedIssue(ref *jira.LinkedIssueRef, linkType, direction string) LinkedIssue {
	li := LinkedIssue{
		Key:       ref.Key,
		LinkType:  linkType,
		Direction: direction,
		Summary:   ref.Fields.Summary,
	}
	if ref.Fields.Status != nil {
		li.Status = ref.Fields.Status.Name
	}
	return li
}

func renderedCommentBodies(rf *jira.RenderedFields) map[string]string {
	if rf == nil || rf.Comment == nil {
		return nil
	}
	bodies := make(map[string]string, len(rf.Comment.Comments))
	for _, c := range rf.Comment.Comments {
		bodies[c.ID] = c.Body
	}
	return bodies
}

// FromRawRow rebuilds a record from one row of a raw CSV export: metadata
// values come back verbatim from their columns and the content column is
// cleaned afresh.  Count columns and unknown columns are ignored.
func FromRawRow(fields map[string]string) ContentRecord {
	raw := fields["content"]
	meta := Metadata{
		ID:           fields["id"],
		Key:          fields["key"],
		Title:        fields["title"],
		Type:         fields["type"],
		Status:       fields["status"],
		URL:          fields["url"],
		LastModified: fields["last_modified"],
		Updated:      fields["updated"],
		Created:      fields["created"],
		Source:       fields["source"],
		Space:        fields["space"],
		Project:      fields["project"],
		Priority:     fields["priority"],
		Assignee:     fields["assignee"],
		Reporter:     fields["reporter"],
	}
	if v := fields["version"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			meta.Version = n
		}
	}
	if labels := fields["labels"]; labels != "" {
		for _, label := range strings.Split(labels, ",") {
			if label = strings.TrimSpace(label); label != "" {
				meta.Labels = append(meta.Labels, label)
			}
		}
	}
	return ContentRecord{
		Content:  htmlclean.Clean(raw),
		Raw:      raw,
		Metadata: meta,
	}
}

func adfRaw(doc []byte) string {
	s := strings.TrimSpace(string(doc))
	if s == "" || s == "null" {
		return ""
	}
	return s
}

func wikiURL(base, link string) string {
	if link == "" {
		return ""
	}
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return strings.TrimSuffix(base, "/") + "/wiki" + link
}

func browseURL(base, key string) string {
	if base == "" || key == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/") + "/browse/" + key
}
