// Package dump writes extraction results to disk: raw CSV, processed JSONL,
// PDF and Markdown renditions, and the various summary JSON files.  Every
// writer overwrites what was there before; the output directory is the only
// state this tool has.
package dump

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/toothbrush/atlassian-rag/record"
)

// Subdirectories under the output dir.  Data files and logs stay apart so
// `process` can glob data/ without tripping over log files.
const (
	DataDir = "data"
	LogsDir = "logs"
)

// Writer owns an output directory and knows where each artifact goes.
type Writer struct {
	OutputDir string
}

func NewWriter(outputDir string) *Writer {
	return &Writer{OutputDir: outputDir}
}

// Prepare ensures a subdirectory exists and returns its path.
func (w *Writer) Prepare(sub string) (string, error) {
	dir := path.Join(w.OutputDir, sub)
	// there's probably a nicer way to express 0750 but meh
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("dump: couldn't create directory %s: %w", dir, err)
	}
	return dir, nil
}

// dataPath ensures data/ exists and joins the filename onto it.
func (w *Writer) dataPath(filename string) (string, error) {
	dir, err := w.Prepare(DataDir)
	if err != nil {
		return "", err
	}
	return path.Join(dir, filename), nil
}

// writeJSON marshals v with indentation into data/<filename>.
func (w *Writer) writeJSON(filename string, v any) (string, error) {
	abs, err := w.dataPath(filename)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("dump: couldn't marshal %s: %w", filename, err)
	}

	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("dump: couldn't create file %s: %w", abs, err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return "", fmt.Errorf("dump: couldn't write to file %s: %w", abs, err)
	}
	return abs, nil
}

// identifier picks the filename stem for single-item outputs: the issue key
// when there is one, the numeric ID otherwise.
func identifier(rec record.ContentRecord) string {
	if rec.Metadata.Key != "" {
		return rec.Metadata.Key
	}
	return rec.Metadata.ID
}

// canonicalise boils a title down to a filename-safe slug.
func canonicalise(title string) (string, error) {
	str := regexp.MustCompile(`[^a-zA-Z0-9]+`).ReplaceAllString(title, " ")
	str = strings.ToLower(str)
	str = strings.Join(strings.Fields(str), "-")

	if len(str) > 101 {
		str = str[:100]
	}

	str = strings.Trim(str, "-")

	if len(str) < 2 {
		return "", fmt.Errorf("dump: slug too short: title was '%s'", title)
	}

	return str, nil
}
