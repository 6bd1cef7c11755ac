package dump

import (
	"os"
	"path"
	"reflect"
	"strings"
	"testing"

	"github.com/toothbrush/atlassian-rag/record"
)

func pageRecord() record.ContentRecord {
	return record.ContentRecord{
		Content: "Hello World",
		Raw:     "<p>Hello <b>World</b></p>",
		Metadata: record.Metadata{
			ID:      "123",
			Title:   "Getting Started",
			Type:    "page",
			Status:  "current",
			Version: 7,
			Source:  "confluence",
			Space:   "DOCS",
			Created: "2024-01-15T09:30:00Z",
		},
		Comments: []record.CommentRecord{{ID: "9001", Body: "Looks good."}},
	}
}

func issueRecord() record.ContentRecord {
	return record.ContentRecord{
		Content: "Users get a 500 when logging in.",
		Raw:     "<p>Users get a <b>500</b> when logging in.</p>",
		Metadata: record.Metadata{
			ID:      "10100",
			Key:     "DEMO-1",
			Title:   "Login page throws 500",
			Type:    "Bug",
			Status:  "In Progress",
			Source:  "jira",
			Project: "DEMO",
			Labels:  []string{"auth", "regression"},
			Created: "2024-05-01T12:00:00.000+0000",
		},
	}
}

func TestWriteRawCSVRoundTrip(t *testing.T) {
	w := NewWriter(t.TempDir())

	records := []record.ContentRecord{pageRecord(), issueRecord()}
	abs, err := w.WriteRawCSV("DOCS", records, CSVOptions{IncludeComments: true})
	if err != nil {
		t.Fatal(err)
	}
	if path.Base(abs) != "DOCS_content.csv" {
		t.Errorf("filename = %s", path.Base(abs))
	}

	rows, err := w.ReadRawCSV("DOCS")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first["content"] != "<p>Hello <b>World</b></p>" {
		t.Errorf("content column = %q", first["content"])
	}
	if first["space"] != "DOCS" || first["version"] != "7" {
		t.Errorf("row = %v", first)
	}
	if first["comment_count"] != "1" {
		t.Errorf("comment_count = %q", first["comment_count"])
	}

	second := rows[1]
	if second["key"] != "DEMO-1" || second["labels"] != "auth, regression" {
		t.Errorf("row = %v", second)
	}
	// The first record has no project, so its cell is empty but present.
	if project, ok := first["project"]; !ok || project != "" {
		t.Errorf("project cell = %q, present %v", project, ok)
	}
}

// Columns are the union of what the batch uses, in canonical order, with
// content always first.
func TestWriteRawCSVColumnOrder(t *testing.T) {
	w := NewWriter(t.TempDir())

	if _, err := w.WriteRawCSV("mix", []record.ContentRecord{pageRecord(), issueRecord()}, CSVOptions{}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path.Join(w.OutputDir, DataDir, "mix_content.csv"))
	if err != nil {
		t.Fatal(err)
	}
	header := strings.Split(strings.SplitN(string(data), "\n", 2)[0], ",")
	want := []string{"content", "id", "key", "title", "type", "status", "version", "created", "source", "space", "project", "labels"}
	if !reflect.DeepEqual(header, want) {
		t.Errorf("header = %v, want %v", header, want)
	}
}

func TestRawCSVNames(t *testing.T) {
	w := NewWriter(t.TempDir())

	if _, err := w.WriteRawCSV("DOCS", []record.ContentRecord{pageRecord()}, CSVOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := w.WriteRawCSV("DEMO", []record.ContentRecord{issueRecord()}, CSVOptions{}); err != nil {
		t.Fatal(err)
	}
	// A decoy that doesn't match the pattern.
	if err := os.WriteFile(path.Join(w.OutputDir, DataDir, "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	names, err := w.RawCSVNames()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"DEMO", "DOCS"}) {
		t.Errorf("names = %v", names)
	}
}

func TestReadRawCSVMissingFile(t *testing.T) {
	w := NewWriter(t.TempDir())
	if _, err := w.ReadRawCSV("nope"); err == nil {
		t.Error("expected an error for a missing CSV")
	}
}
