// Package htmlclean turns Confluence storage-format markup and JIRA rendered
// HTML into plain text suitable for RAG ingestion.
package htmlclean

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// tagPattern is the final sweep: whatever survives text extraction (entity
// escapes that decode back into tag shapes, mostly) gets stripped so no
// <tag> delimiters ever reach the output.
var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Clean extracts plain text from an HTML fragment.  Block elements become
// line breaks, list items get a line each, tables render one row per line
// with cells joined by " | ", and Confluence macros are unwrapped to their
// visible text (CDATA code bodies included, macro parameters dropped).
//
// Clean never fails: malformed markup degrades to a best-effort tag strip.
func Clean(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return normalize(stripTags(fragment))
	}

	doc.Find("script, style").Remove()

	var b strings.Builder
	for _, node := range doc.Find("body").Nodes {
		writeText(&b, node)
	}

	return normalize(stripTags(b.String()))
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		// HTML parsers read CDATA sections (Confluence code macro bodies)
		// as comments; recover the payload, drop real comments.
		if payload, ok := cdataPayload(n.Data); ok {
			b.WriteString("\n")
			b.WriteString(payload)
			b.WriteString("\n")
		}
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "ac:parameter":
			// macro parameters are config (language names, panel flags),
			// not prose
			return
		case "br":
			b.WriteString("\n")
			return
		case "table":
			b.WriteString("\n")
			writeTable(b, n)
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteString("\n")
	}
}

// writeTable emits one line per row, cells joined " | ", rows in document
// order.  Nested markup inside a cell is flattened to spaces.
func writeTable(b *strings.Builder, table *html.Node) {
	var walkRows func(*html.Node)
	walkRows = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			collectCells(n, &cells)
			b.WriteString(strings.Join(cells, " | "))
			b.WriteString("\n")
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkRows(c)
		}
	}
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		walkRows(c)
	}
	b.WriteString("\n")
}

func collectCells(n *html.Node, cells *[]string) {
	if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
		*cells = append(*cells, cellText(n))
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectCells(c, cells)
	}
}

// cellText flattens a table cell to a single space-normalized string.
func cellText(cell *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.CommentNode:
			if payload, ok := cdataPayload(n.Data); ok {
				b.WriteString(payload)
			}
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "ac:parameter":
				return
			case "br":
				b.WriteString(" ")
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			b.WriteString(" ")
		}
	}
	for c := cell.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"details": true, "dd": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "pre": true,
	"section": true, "summary": true, "ul": true,

	// Confluence storage format containers
	"ac:structured-macro": true, "ac:rich-text-body": true,
	"ac:plain-text-body": true, "ac:layout": true,
	"ac:layout-section": true, "ac:layout-cell": true,
	"ac:task-list": true, "ac:task": true, "ac:task-body": true,
}

// cdataPayload unwraps the "[CDATA[...]]" comment form the HTML parser
// produces for XML CDATA sections.
func cdataPayload(comment string) (string, bool) {
	if strings.HasPrefix(comment, "[CDATA[") && strings.HasSuffix(comment, "]]") {
		return comment[len("[CDATA[") : len(comment)-len("]]")], true
	}
	return "", false
}

func stripTags(text string) string {
	return tagPattern.ReplaceAllString(text, "")
}

// normalize collapses whitespace runs within lines and drops blank lines.
func normalize(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		lines = append(lines, strings.Join(fields, " "))
	}
	return strings.Join(lines, "\n")
}
