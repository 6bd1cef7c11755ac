/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/toothbrush/atlassian-rag/dump"
	"github.com/toothbrush/atlassian-rag/record"
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process [NAME]",
	Short: "Rebuild processed outputs from raw CSVs, offline",
	Long: `
Re-run the cleaning pipeline over raw CSVs sitting in the output directory, without touching
the network.  Give a NAME to process a single data/<NAME>_content.csv, or nothing to process
every raw CSV found.  Writes fresh JSONL plus a content analysis JSON.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return runProcess(name)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func runProcess(name string) error {
	writer := dump.NewWriter(OutputDir)
	closeLog, err := openRunLog(writer, "process")
	if err != nil {
		return err
	}
	defer closeLog()

	names := []string{name}
	if name == "" {
		names, err = writer.RawCSVNames()
		if err != nil {
			return err
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("cmd: no raw CSVs under %s, run an extract command first", OutputDir)
	}

	var records []record.ContentRecord
	for _, n := range names {
		rows, err := writer.ReadRawCSV(n)
		if err != nil {
			return err
		}
		log.Printf("Read %d rows from %s_content.csv.", len(rows), n)

		for _, row := range rows {
			records = append(records, record.FromRawRow(row))
		}
	}

	jsonlPath, err := writer.WriteJSONL(records)
	if err != nil {
		return err
	}
	log.Printf("Wrote %s", jsonlPath)

	analysis := dump.AnalyzeContent(records)
	analysis.RunID = uuid.NewString()

	analysisPath, err := writer.WriteContentAnalysis(analysis)
	if err != nil {
		return err
	}
	log.Printf("Wrote %s", analysisPath)

	log.Printf("Processed %d records from %d raw CSVs.", len(records), len(names))
	return nil
}
