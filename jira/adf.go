package jira

import (
	"encoding/json"
	"strings"
)

// adfNode is the slice of Atlassian Document Format we care about: enough
// structure to dig the human-readable text out, nothing more.
// https://developer.atlassian.com/cloud/jira/platform/apis/document/structure/
type adfNode struct {
	Type    string         `json:"type"`
	Text    string         `json:"text,omitempty"`
	Content []adfNode      `json:"content,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// ADFText flattens an Atlassian Document Format blob to plain text.  This is
// the fallback path for when renderedFields isn't available: block nodes
// become lines, list items get a dash, table rows read "A | B".  Best
// effort, anything unrecognised contributes whatever text its children
// carry.
func ADFText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var doc adfNode
	if err := json.Unmarshal(raw, &doc); err != nil {
		// JIRA Server (and some fields on Cloud) hand back a bare string
		// instead of a document.  Take it as-is.
		var plain string
		if err := json.Unmarshal(raw, &plain); err == nil {
			return strings.TrimSpace(plain)
		}
		return ""
	}

	return tidyLines(adfText(doc))
}

func adfText(n adfNode) string {
	joinChildren := func(sep string) string {
		var parts []string
		for _, child := range n.Content {
			if t := adfText(child); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, sep)
	}

	switch n.Type {
	case "text":
		return n.Text
	case "hardBreak", "rule":
		return "\n"
	case "mention", "emoji", "status":
		return attrString(n.Attrs, "text")
	case "inlineCard":
		return attrString(n.Attrs, "url")
	case "paragraph", "heading", "codeBlock":
		return joinChildren("")
	case "tableRow":
		return joinChildren(" | ")
	case "tableCell", "tableHeader", "listItem":
		text := joinChildren(" ")
		if n.Type == "listItem" {
			return "- " + text
		}
		return text
	case "doc", "blockquote", "panel", "expand", "bulletList", "orderedList", "table", "mediaGroup":
		return joinChildren("\n")
	default:
		return joinChildren("")
	}
}

func attrString(attrs map[string]any, key string) string {
	if value, ok := attrs[key].(string); ok {
		return value
	}
	return ""
}

// tidyLines trims each line and drops blank ones.
func tidyLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}
