/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/toothbrush/atlassian-rag/dump"
	"github.com/toothbrush/atlassian-rag/jira"
	"github.com/toothbrush/atlassian-rag/record"
)

// extractJiraIssueCmd represents the extract-jira-issue command
var extractJiraIssueCmd = &cobra.Command{
	Use:   "extract-jira-issue ISSUE-KEY",
	Short: "Extract a single JIRA issue",
	Long: `
Fetch one issue by key (e.g. PROJ-123) and write it out: raw CSV and/or JSONL per --format, plus
a PDF rendition, plus a Markdown rendition under --format all.  An issue key that doesn't
resolve is a hard failure and nothing gets written.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtractJiraIssue(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(extractJiraIssueCmd)
}

func runExtractJiraIssue(ctx context.Context, issueKey string) error {
	writer := dump.NewWriter(OutputDir)
	closeLog, err := openRunLog(writer, "extract_jira_issue")
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

	issue, err := api.GetIssue(ctx, jira.GetIssueQuery{
		Key:    issueKey,
		Fields: issueFields(),
		Expand: []string{"renderedFields"},
	})
	if err != nil {
		// Nothing gets written for an issue we couldn't fetch.
		log.Printf("ERROR: %v", err)
		return err
	}
	log.Printf("Fetched issue %s: %s", issue.Key, issue.Fields.Summary)

	opts := record.IssueOptions{
		BaseURL:            api.BaseURI.String(),
		IncludeComments:    IncludeComments,
		IncludeAttachments: IncludeAttachments,
	}

	if IncludeChangelog {
		histories, err := api.GetIssueChangelog(ctx, issue.Key)
		if err != nil {
			return err
		}
		opts.Changelog = histories
	}

	rec := record.FromIssue(*issue, opts)
	return writeSingle(writer, rec)
}
