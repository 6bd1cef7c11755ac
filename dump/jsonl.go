package dump

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/toothbrush/atlassian-rag/record"
)

// WriteJSONL writes data/processed_content.jsonl: one record per line, the
// canonical shape for RAG ingestion.  Raw bodies never appear here.
func (w *Writer) WriteJSONL(records []record.ContentRecord) (string, error) {
	abs, err := w.dataPath("processed_content.jsonl")
	if err != nil {
		return "", err
	}

	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("dump: couldn't create file %s: %w", abs, err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	enc := json.NewEncoder(buf)
	for _, rec := range records {
		// Encode appends the newline that makes this JSONL.
		if err := enc.Encode(rec); err != nil {
			return "", fmt.Errorf("dump: couldn't encode record %s: %w", identifier(rec), err)
		}
	}

	if err := buf.Flush(); err != nil {
		return "", fmt.Errorf("dump: couldn't flush %s: %w", abs, err)
	}
	return abs, nil
}
