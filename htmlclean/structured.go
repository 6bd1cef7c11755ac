package htmlclean

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Structure describes the tables and code blocks found in a piece of
// content.  The process command aggregates these across a batch so you can
// tell which documents carry structured data worth special treatment.
type Structure struct {
	Tables     []Table     `json:"tables,omitempty"`
	CodeBlocks []CodeBlock `json:"code_blocks,omitempty"`
}

// Table is an extracted HTML table.  Headers come from the leading <th>
// row when there is one; Shape reads rows x columns, headers excluded.
type Table struct {
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
	Shape   string     `json:"shape"`
}

// CodeBlock is an extracted code listing, from either a Confluence code
// macro or a rendered <pre> block.
type CodeBlock struct {
	Language string `json:"language,omitempty"`
	Content  string `json:"content"`
}

// Structured pulls tables and code blocks out of an HTML fragment.  Like
// Clean it never fails; unparseable input yields an empty Structure.
func Structured(fragment string) Structure {
	var s Structure
	if strings.TrimSpace(fragment) == "" {
		return s
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return s
	}

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		s.Tables = append(s.Tables, extractTable(table))
	})

	// Storage-format code macros carry their body in a CDATA section, which
	// goquery's Text() won't surface, so walk the raw nodes.
	for _, node := range doc.Find("body").Nodes {
		findCodeMacros(node, &s.CodeBlocks)
	}

	// Rendered HTML (JIRA descriptions, mostly) uses plain <pre> blocks.
	doc.Find("pre").Each(func(_ int, pre *goquery.Selection) {
		content := strings.TrimSpace(pre.Text())
		if content == "" {
			return
		}
		block := CodeBlock{Content: content}
		if class, ok := pre.Find("code").Attr("class"); ok {
			for _, cls := range strings.Fields(class) {
				if strings.HasPrefix(cls, "language-") {
					block.Language = strings.TrimPrefix(cls, "language-")
					break
				}
			}
		}
		s.CodeBlocks = append(s.CodeBlocks, block)
	})

	return s
}

func extractTable(table *goquery.Selection) Table {
	var t Table
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		isHeader := false
		row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			if goquery.NodeName(cell) == "th" {
				isHeader = true
			}
			cells = append(cells, squash(cell.Text()))
		})
		if len(cells) == 0 {
			return
		}
		if isHeader && t.Headers == nil && len(t.Rows) == 0 {
			t.Headers = cells
			return
		}
		t.Rows = append(t.Rows, cells)
	})

	cols := len(t.Headers)
	if cols == 0 && len(t.Rows) > 0 {
		cols = len(t.Rows[0])
	}
	t.Shape = fmt.Sprintf("%dx%d", len(t.Rows), cols)
	return t
}

func findCodeMacros(n *html.Node, out *[]CodeBlock) {
	if n.Type == html.ElementNode && n.Data == "ac:structured-macro" && attrValue(n, "ac:name") == "code" {
		block := CodeBlock{}
		var walk func(*html.Node)
		walk = func(c *html.Node) {
			if c.Type == html.ElementNode {
				switch {
				case c.Data == "ac:parameter" && attrValue(c, "ac:name") == "language":
					block.Language = squash(nodeText(c))
				case c.Data == "ac:plain-text-body":
					block.Content = plainTextBody(c)
				}
			}
			for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
				walk(cc)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		*out = append(*out, block)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		findCodeMacros(c, out)
	}
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// plainTextBody reads a macro body whether the parser kept it as text or
// folded the CDATA section into a comment node.
func plainTextBody(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.CommentNode:
			if payload, ok := cdataPayload(c.Data); ok {
				b.WriteString(payload)
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	walk(n)
	return b.String()
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
