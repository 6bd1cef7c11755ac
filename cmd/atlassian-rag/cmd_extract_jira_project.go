/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/toothbrush/atlassian-rag/dump"
	"github.com/toothbrush/atlassian-rag/internal/apierr"
	"github.com/toothbrush/atlassian-rag/jira"
	"github.com/toothbrush/atlassian-rag/record"
)

// extractJiraProjectCmd represents the extract-jira-project command
var extractJiraProjectCmd = &cobra.Command{
	Use:   "extract-jira-project PROJECT-KEY",
	Short: "Extract every issue of a JIRA project",
	Long: `
Page through all issues of a JIRA project (oldest first), clean the rendered descriptions, and
write the batch out per --format.  Use --jql to narrow the extraction, e.g.
--jql 'status != Done AND created > -90d'.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtractJiraProject(cmd.Context(), args[0])
	},
}

var ExtraJQL string

func init() {
	rootCmd.AddCommand(extractJiraProjectCmd)

	extractJiraProjectCmd.Flags().StringVar(&ExtraJQL, "jql", "", "extra JQL to AND onto the project filter")
}

func runExtractJiraProject(ctx context.Context, projectKey string) error {
	writer := dump.NewWriter(OutputDir)
	closeLog, err := openRunLog(writer, "extract_jira_project")
	if err != nil {
		return err
	}
	defer closeLog()

	creds, err := loadCredentials()
	if err != nil {
		return err
	}
	cl, err := jiraClient(creds)
	if err != nil {
		return err
	}
	defer cl.Close()
	api := cl.jira

	me, err := api.Myself(ctx)
	if err != nil {
		return fmt.Errorf("cmd: couldn't query current user: %w", err)
	}
	log.Printf("Logged in to %s as '%s (%s)'...", api.BaseURI.Host, me.DisplayName, me.AccountID)

	// Resolve the project up front so a bad key fails cleanly instead of as
	// an empty search result.
	project, err := api.GetProject(ctx, projectKey)
	if err != nil {
		return fmt.Errorf("cmd: couldn't resolve project: %w", err)
	}

	started := time.Now()
	runID := uuid.NewString()

	jql := fmt.Sprintf("project = %s ORDER BY created ASC", project.Key)
	if ExtraJQL != "" {
		jql = fmt.Sprintf("project = %s AND (%s) ORDER BY created ASC", project.Key, ExtraJQL)
	}

	issues, err := api.SearchAllIssues(ctx, jira.SearchQuery{
		JQL:    jql,
		Fields: issueFields(),
		Expand: []string{"renderedFields"},
	})
	if err != nil {
		return fmt.Errorf("cmd: couldn't search issues: %w", err)
	}
	log.Printf("Found %d issues in project %s.", len(issues), project.Key)

	p, bar := newProgressBar(len(issues), "Extracting issues")

	var records []record.ContentRecord
	skipped := 0

	for _, issue := range issues {
		opts := record.IssueOptions{
			BaseURL:            api.BaseURI.String(),
			IncludeComments:    IncludeComments,
			IncludeAttachments: IncludeAttachments,
		}

		if IncludeChangelog {
			histories, err := api.GetIssueChangelog(ctx, issue.Key)
			switch {
			case apierr.IsNotFound(err):
				// The issue can be deleted between the search and now.
				log.Printf("WARN: skipping changelog for %s: %v", issue.Key, err)
				skipped++
			case err != nil:
				return err
			default:
				opts.Changelog = histories
			}
		}

		records = append(records, record.FromIssue(issue, opts))
		bar.Increment()
	}

	// wait for our bar to complete and flush
	p.Wait()

	outputs, err := writeBatch(writer, project.Key, records)
	if err != nil {
		return err
	}

	_, err = writer.WriteExtractionSummary(project.Key, dump.Summary{
		ProjectKey:     project.Key,
		TotalIssues:    len(records),
		Skipped:        skipped,
		ExtractionTime: time.Since(started).Seconds(),
		OutputFormats:  outputs,
		RunID:          runID,
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	log.Printf("Extracted %d issues from %s in %.1fs.", len(records), project.Key, time.Since(started).Seconds())
	return nil
}

// issueFields is the field list for issue fetches: the mapper's defaults,
// plus the instance's story points field when one is configured.
func issueFields() []string {
	fields := jira.DefaultIssueFields
	if StoryPointsField != "" {
		fields = append(append([]string{}, fields...), StoryPointsField)
	}
	return fields
}
