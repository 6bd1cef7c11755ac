package dump

import (
	"encoding/csv"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/toothbrush/atlassian-rag/record"
)

// CSVOptions controls the optional count columns on the raw CSV.
type CSVOptions struct {
	IncludeComments    bool
	IncludeAttachments bool
}

// WriteRawCSV writes data/<name>_content.csv with the uncleaned content in
// the first column and one column per metadata key any record in the batch
// actually uses, in canonical order.  This is the file `process` reads back.
func (w *Writer) WriteRawCSV(name string, records []record.ContentRecord, opts CSVOptions) (string, error) {
	abs, err := w.dataPath(name + "_content.csv")
	if err != nil {
		return "", err
	}

	present := map[string]bool{}
	for _, rec := range records {
		for _, pair := range rec.Metadata.Pairs() {
			present[pair.Key] = true
		}
	}
	header := []string{"content"}
	for _, key := range record.MetadataKeys() {
		if present[key] {
			header = append(header, key)
		}
	}
	if opts.IncludeComments {
		header = append(header, "comment_count")
	}
	if opts.IncludeAttachments {
		header = append(header, "attachment_count")
	}

	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("dump: couldn't create file %s: %w", abs, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("dump: couldn't write header to %s: %w", abs, err)
	}

	for _, rec := range records {
		values := map[string]string{"content": rec.Raw}
		for _, pair := range rec.Metadata.Pairs() {
			values[pair.Key] = pair.Value
		}
		if opts.IncludeComments {
			values["comment_count"] = strconv.Itoa(len(rec.Comments))
		}
		if opts.IncludeAttachments {
			values["attachment_count"] = strconv.Itoa(len(rec.Attachments))
		}

		row := make([]string, len(header))
		for i, col := range header {
			row[i] = values[col]
		}
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("dump: couldn't write row to %s: %w", abs, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("dump: couldn't flush %s: %w", abs, err)
	}
	return abs, nil
}

// ReadRawCSV reads data/<name>_content.csv back as one map per row, keyed
// by the header columns.
func (w *Writer) ReadRawCSV(name string) ([]map[string]string, error) {
	abs := path.Join(w.OutputDir, DataDir, name+"_content.csv")
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("dump: couldn't open %s: %w", abs, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dump: couldn't parse %s: %w", abs, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	var out []map[string]string
	for _, row := range rows[1:] {
		fields := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				fields[col] = row[i]
			}
		}
		out = append(out, fields)
	}
	return out, nil
}

// RawCSVNames lists the extraction names that have a raw CSV in data/,
// in sorted order.
func (w *Writer) RawCSVNames() ([]string, error) {
	dir := path.Join(w.OutputDir, DataDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("dump: couldn't read directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "_content.csv") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), "_content.csv"))
	}
	return names, nil
}
