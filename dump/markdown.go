package dump

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	mdplugin "github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"github.com/toothbrush/atlassian-rag/record"
	"gopkg.in/yaml.v3"
)

type markdownHeader struct {
	Title   string `yaml:"title"`
	ID      string `yaml:"id,omitempty"`
	Key     string `yaml:"key,omitempty"`
	URL     string `yaml:"url,omitempty"`
	Version int    `yaml:"version,omitempty"`
	Created string `yaml:"created,omitempty"`
	Updated string `yaml:"updated,omitempty"`
	Source  string `yaml:"source"`
}

// WriteMarkdown renders a single record to data/<id>-<slug>.md with a YAML
// frontmatter header.  HTML bodies go through the Markdown converter; a
// record without an HTML body (ADF-only issues, say) falls back to its
// cleaned text.
func (w *Writer) WriteMarkdown(rec record.ContentRecord) (string, error) {
	slug, err := canonicalise(rec.Metadata.Title)
	if err != nil {
		slug = "untitled"
	}
	abs, err := w.dataPath(fmt.Sprintf("%s-%s.md", identifier(rec), slug))
	if err != nil {
		return "", err
	}

	body := rec.Content
	if strings.HasPrefix(strings.TrimSpace(rec.Raw), "<") {
		converted, err := convertToMarkdown(rec.Raw, rec.Metadata.URL)
		if err != nil {
			return "", fmt.Errorf("dump: failed to convert to Markdown: %w", err)
		}
		body = converted
	}

	header := markdownHeader{
		Title:   rec.Metadata.Title,
		ID:      rec.Metadata.ID,
		Key:     rec.Metadata.Key,
		URL:     rec.Metadata.URL,
		Version: rec.Metadata.Version,
		Created: rec.Metadata.Created,
		Updated: rec.Metadata.Updated,
		Source:  rec.Metadata.Source,
	}
	yamlHeader, err := yaml.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("dump: couldn't marshal header YAML: %w", err)
	}

	contents := fmt.Sprintf(`---
%s
---
%s
`,
		strings.TrimSpace(string(yamlHeader)),
		body)

	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("dump: couldn't create file %s: %w", abs, err)
	}
	defer f.Close()

	if _, err := f.WriteString(contents); err != nil {
		return "", fmt.Errorf("dump: couldn't write to file %s: %w", abs, err)
	}
	return abs, nil
}

func convertToMarkdown(fragment, itemURL string) (string, error) {
	scheme, host := "https", ""
	if u, err := url.Parse(itemURL); err == nil && u.Host != "" {
		scheme, host = u.Scheme, u.Host
	}

	// Oh my, this is pretty awful.  md.NewConverter should really accept a BaseURI but actually it
	// only accepts a hostname.  So we have this hack, adapted from:
	// https://github.com/JohannesKaufmann/html-to-markdown/issues/44
	opt := &md.Options{
		GetAbsoluteURL: func(selec *goquery.Selection, rawURL string, domain string) string {
			// Function `DefaultGetAbsoluteURL` copied from
			// https://github.com/JohannesKaufmann/html-to-markdown, for us to be able to mess with
			// u.Scheme in this block.
			if domain == "" {
				return rawURL
			}

			u, err := url.Parse(rawURL)
			if err != nil {
				// we can't do anything with this url because it is invalid
				return rawURL
			}

			if u.Scheme == "data" {
				// this is a data uri (for example an inline base64 image)
				return rawURL
			}

			if u.Scheme == "" {
				u.Scheme = scheme
			}
			if u.Host == "" {
				u.Host = domain // this comes from the first arg to md.NewConverter
			}

			return u.String()
		},
	}

	converter := md.NewConverter(host, true, opt)
	// Github flavoured Markdown knows about tables 👍
	converter.Use(mdplugin.GitHubFlavored())

	return converter.ConvertString(fragment)
}
