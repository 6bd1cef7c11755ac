package dump

import (
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/toothbrush/atlassian-rag/record"
)

// WritePDF renders a single record to data/<id>.pdf: title, a metadata
// block, then the cleaned body with automatic page breaks.
func (w *Writer) WritePDF(rec record.ContentRecord) (string, error) {
	abs, err := w.dataPath(identifier(rec) + ".pdf")
	if err != nil {
		return "", err
	}

	title := rec.Metadata.Title
	if title == "" {
		title = identifier(rec)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	// Core fonts are cp1252; translate rather than emit mojibake.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr(title), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "I", 10)
	for _, pair := range rec.Metadata.Pairs() {
		if pair.Key == "title" {
			continue
		}
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s: %s", pair.Key, pair.Value)), "", "L", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 6, tr(rec.Content), "", "L", false)

	if len(rec.Comments) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 6, "Comments", "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		for _, c := range rec.Comments {
			pdf.Ln(2)
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s (%s):", c.Author, c.Created)), "", "L", false)
			pdf.MultiCell(0, 5, tr(c.Body), "", "L", false)
		}
	}

	if err := pdf.OutputFileAndClose(abs); err != nil {
		return "", fmt.Errorf("dump: couldn't write PDF %s: %w", abs, err)
	}
	return abs, nil
}
