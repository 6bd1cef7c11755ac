/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/toothbrush/atlassian-rag/dump"
	"github.com/toothbrush/atlassian-rag/internal/apierr"
	"github.com/toothbrush/atlassian-rag/record"
)

// extractSpaceCmd represents the extract-space command
var extractSpaceCmd = &cobra.Command{
	Use:   "extract-space SPACE-KEY",
	Short: "Extract every page of a Confluence space",
	Long: `
Walk all pages of a Confluence space, clean the markup out of each body, and write the results
into the output directory: a raw CSV under --format raw, clean JSONL under --format processed,
both under --format all.  Finishes with an extraction summary JSON either way.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtractSpace(cmd.Context(), args[0])
	},
}

var (
	IncludeArchived bool
	BodyFormat      string
)

func init() {
	rootCmd.AddCommand(extractSpaceCmd)

	// Cobra also supports local flags, which will only run
	// when this action is called directly.
	extractSpaceCmd.Flags().BoolVar(&IncludeArchived, "include-archived", false, "also extract archived pages")
	extractSpaceCmd.Flags().StringVar(&BodyFormat, "body-format", "storage", "body representation to request: storage or view")
}

func runExtractSpace(ctx context.Context, spaceKey string) error {
	writer := dump.NewWriter(OutputDir)
	closeLog, err := openRunLog(writer, "extract_space")
	if err != nil {
		return err
	}
	defer closeLog()

	creds, err := loadCredentials()
	if err != nil {
		return err
	}
	cl, err := confluenceClient(creds)
	if err != nil {
		return err
	}
	defer cl.Close()
	api := cl.confluence

	// get current user information
	currentUser, err := api.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("cmd: couldn't query current user: %w", err)
	}
	log.Printf("Logged in to %s as '%s (%s)'...", api.BaseURI.Host, currentUser.DisplayName, currentUser.AccountID)

	space, err := api.GetSpaceByKey(ctx, spaceKey)
	if err != nil {
		return fmt.Errorf("cmd: couldn't resolve space: %w", err)
	}

	started := time.Now()
	runID := uuid.NewString()

	pages, err := api.ListPagesInSpace(ctx, *space, BodyFormat, IncludeArchived)
	if err != nil {
		return fmt.Errorf("cmd: couldn't list pages: %w", err)
	}
	log.Printf("Found %d pages in space %s.", len(pages), space.Key)

	p, bar := newProgressBar(len(pages), "Extracting pages")

	var records []record.ContentRecord
	skipped := 0

	// One page at a time.  The bodies came down with the listing; only the
	// optional comment and attachment lookups cost extra round trips.
	for _, page := range pages {
		opts := record.PageOptions{BaseURL: api.BaseURI.String()}

		if IncludeComments || IncludeAttachments {
			pageID, err := strconv.Atoi(page.ID)
			if err != nil {
				return fmt.Errorf("cmd: page ID %q isn't numeric: %w", page.ID, err)
			}

			if IncludeComments {
				comments, err := api.GetFooterComments(ctx, pageID)
				switch {
				case apierr.IsNotFound(err):
					// A page can vanish between the listing and now; note it
					// and move on.
					log.Printf("WARN: skipping comments on page %s: %v", page.ID, err)
					skipped++
				case err != nil:
					return err
				default:
					opts.Comments = comments
				}
			}

			if IncludeAttachments {
				attachments, err := api.GetAttachments(ctx, pageID)
				switch {
				case apierr.IsNotFound(err):
					log.Printf("WARN: skipping attachments on page %s: %v", page.ID, err)
					skipped++
				case err != nil:
					return err
				default:
					opts.Attachments = attachments
				}
			}
		}

		records = append(records, record.FromPage(page, opts))
		bar.Increment()
	}

	// wait for our bar to complete and flush
	p.Wait()

	outputs, err := writeBatch(writer, space.Key, records)
	if err != nil {
		return err
	}

	_, err = writer.WriteExtractionSummary(space.Key, dump.Summary{
		SpaceKey:       space.Key,
		TotalPages:     len(records),
		Skipped:        skipped,
		ExtractionTime: time.Since(started).Seconds(),
		OutputFormats:  outputs,
		RunID:          runID,
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	log.Printf("Extracted %d pages from %s in %.1fs.", len(records), space.Key, time.Since(started).Seconds())
	return nil
}

// writeBatch writes the raw and/or processed renditions of a batch, per
// --format, and reports which went out.
func writeBatch(writer *dump.Writer, name string, records []record.ContentRecord) ([]string, error) {
	var outputs []string

	if rawWanted() {
		csvPath, err := writer.WriteRawCSV(name, records, dump.CSVOptions{
			IncludeComments:    IncludeComments,
			IncludeAttachments: IncludeAttachments,
		})
		if err != nil {
			return nil, err
		}
		log.Printf("Wrote %s", csvPath)
		outputs = append(outputs, "csv")
	}

	if processedWanted() {
		jsonlPath, err := writer.WriteJSONL(records)
		if err != nil {
			return nil, err
		}
		log.Printf("Wrote %s", jsonlPath)
		outputs = append(outputs, "jsonl")
	}

	return outputs, nil
}
