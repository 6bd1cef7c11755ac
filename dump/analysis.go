package dump

import (
	"fmt"
	"time"

	"github.com/toothbrush/atlassian-rag/htmlclean"
	"github.com/toothbrush/atlassian-rag/record"
)

// Summary is the per-extraction receipt written next to batch output.
type Summary struct {
	SpaceKey       string   `json:"space_key,omitempty"`
	ProjectKey     string   `json:"project_key,omitempty"`
	TotalPages     int      `json:"total_pages,omitempty"`
	TotalIssues    int      `json:"total_issues,omitempty"`
	Skipped        int      `json:"skipped,omitempty"`
	ExtractionTime float64  `json:"extraction_time_seconds"`
	OutputFormats  []string `json:"output_formats"`
	RunID          string   `json:"run_id,omitempty"`
	GeneratedAt    string   `json:"generated_at"`
}

// WriteExtractionSummary writes data/<name>_extraction_summary.json.
func (w *Writer) WriteExtractionSummary(name string, s Summary) (string, error) {
	return w.writeJSON(name+"_extraction_summary.json", s)
}

// WriteSprintAnalysis writes data/sprint_<id>_analysis.json.
func (w *Writer) WriteSprintAnalysis(m record.SprintMetrics) (string, error) {
	return w.writeJSON(fmt.Sprintf("sprint_%d_analysis.json", m.Sprint.ID), m)
}

// ContentAnalysis sums up a processed batch: how much content, from where,
// and how much of it is structured (tables, code) rather than prose.
type ContentAnalysis struct {
	TotalRecords         int            `json:"total_records"`
	TotalTables          int            `json:"total_tables"`
	TotalCodeBlocks      int            `json:"total_code_blocks"`
	AverageContentLength int            `json:"average_content_length"`
	BySource             map[string]int `json:"by_source,omitempty"`
	OldestRecord         string         `json:"oldest_record,omitempty"`
	NewestRecord         string         `json:"newest_record,omitempty"`
	GeneratedAt          string         `json:"generated_at"`
	RunID                string         `json:"run_id,omitempty"`
}

// AnalyzeContent computes a ContentAnalysis over a batch.  Table and code
// block counts come from the raw bodies, so records rebuilt from a raw CSV
// still report them.
func AnalyzeContent(records []record.ContentRecord) ContentAnalysis {
	a := ContentAnalysis{
		TotalRecords: len(records),
		BySource:     map[string]int{},
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	totalLength := 0
	for _, rec := range records {
		totalLength += len(rec.Content)
		if rec.Metadata.Source != "" {
			a.BySource[rec.Metadata.Source]++
		}

		s := htmlclean.Structured(rec.Raw)
		a.TotalTables += len(s.Tables)
		a.TotalCodeBlocks += len(s.CodeBlocks)

		// ISO-ish timestamps compare fine lexically.
		stamp := rec.Metadata.Created
		if stamp == "" {
			stamp = rec.Metadata.Updated
		}
		if stamp == "" {
			continue
		}
		if a.OldestRecord == "" || stamp < a.OldestRecord {
			a.OldestRecord = stamp
		}
		if stamp > a.NewestRecord {
			a.NewestRecord = stamp
		}
	}

	if len(records) > 0 {
		a.AverageContentLength = totalLength / len(records)
	}
	return a
}

// WriteContentAnalysis writes data/content_analysis.json.
func (w *Writer) WriteContentAnalysis(a ContentAnalysis) (string, error) {
	return w.writeJSON("content_analysis.json", a)
}
