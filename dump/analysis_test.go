package dump

import (
	"encoding/json"
	"os"
	"path"
	"testing"

	"github.com/toothbrush/atlassian-rag/record"
)

func TestAnalyzeContent(t *testing.T) {
	structured := record.ContentRecord{
		Content: "Name | Role\nSam | Dev\nx := 1",
		Raw: "<table><tr><th>Name</th><th>Role</th></tr><tr><td>Sam</td><td>Dev</td></tr></table>" +
			`<ac:structured-macro ac:name="code"><ac:plain-text-body><![CDATA[x := 1]]></ac:plain-text-body></ac:structured-macro>`,
		Metadata: record.Metadata{Source: "confluence", Created: "2024-01-15T09:30:00Z"},
	}

	a := AnalyzeContent([]record.ContentRecord{structured, issueRecord()})

	if a.TotalRecords != 2 {
		t.Errorf("total = %d", a.TotalRecords)
	}
	if a.TotalTables != 1 || a.TotalCodeBlocks != 1 {
		t.Errorf("tables = %d, code blocks = %d", a.TotalTables, a.TotalCodeBlocks)
	}
	if a.BySource["confluence"] != 1 || a.BySource["jira"] != 1 {
		t.Errorf("by source = %v", a.BySource)
	}
	if a.OldestRecord != "2024-01-15T09:30:00Z" {
		t.Errorf("oldest = %q", a.OldestRecord)
	}
	if a.NewestRecord != "2024-05-01T12:00:00.000+0000" {
		t.Errorf("newest = %q", a.NewestRecord)
	}
	wantAvg := (len(structured.Content) + len(issueRecord().Content)) / 2
	if a.AverageContentLength != wantAvg {
		t.Errorf("average length = %d, want %d", a.AverageContentLength, wantAvg)
	}
	if a.GeneratedAt == "" {
		t.Error("generated_at not stamped")
	}
}

func TestAnalyzeContentEmpty(t *testing.T) {
	a := AnalyzeContent(nil)
	if a.TotalRecords != 0 || a.AverageContentLength != 0 {
		t.Errorf("empty analysis = %+v", a)
	}
	if a.OldestRecord != "" || a.NewestRecord != "" {
		t.Errorf("date range should be empty: %+v", a)
	}
}

func TestWriteContentAnalysis(t *testing.T) {
	w := NewWriter(t.TempDir())

	abs, err := w.WriteContentAnalysis(AnalyzeContent([]record.ContentRecord{pageRecord()}))
	if err != nil {
		t.Fatal(err)
	}
	if path.Base(abs) != "content_analysis.json" {
		t.Errorf("filename = %s", path.Base(abs))
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		t.Fatal(err)
	}
	var back ContentAnalysis
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.TotalRecords != 1 || back.BySource["confluence"] != 1 {
		t.Errorf("analysis = %+v", back)
	}
}
