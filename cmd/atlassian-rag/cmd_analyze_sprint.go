/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/toothbrush/atlassian-rag/dump"
	"github.com/toothbrush/atlassian-rag/internal/termfmt"
	"github.com/toothbrush/atlassian-rag/jira"
	"github.com/toothbrush/atlassian-rag/record"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// analyzeSprintCmd represents the analyze-sprint command
var analyzeSprintCmd = &cobra.Command{
	Use:   "analyze-sprint SPRINT-ID",
	Short: "Summarise a sprint's issues",
	Long: `
Fetch a sprint from the agile API together with its issues, tally them by status, type and
assignee, and write data/sprint_<id>_analysis.json.  Completion is judged by status category,
so it works on instances with homegrown status names.  Point totals need
--story-points-field (or the equivalent config key) since every JIRA hides
story points behind a different custom field.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyzeSprint(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeSprintCmd)
}

func runAnalyzeSprint(ctx context.Context, sprintArg string) error {
	sprintID, err := strconv.Atoi(sprintArg)
	if err != nil {
		return fmt.Errorf("cmd: sprint ID must be numeric, got %q", sprintArg)
	}

	writer := dump.NewWriter(OutputDir)
	closeLog, err := openRunLog(writer, "analyze_sprint")
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

	sprint, err := api.GetSprint(ctx, sprintID)
	if err != nil {
		log.Printf("ERROR: %v", err)
		return err
	}
	log.Printf("Analyzing sprint %d: %s", sprint.ID, sprint.Name)

	issues, err := api.SearchAllIssues(ctx, jira.SearchQuery{
		JQL:    fmt.Sprintf("sprint = %d ORDER BY created ASC", sprint.ID),
		Fields: issueFields(),
	})
	if err != nil {
		return fmt.Errorf("cmd: couldn't search sprint issues: %w", err)
	}

	metrics := record.ComputeSprintMetrics(*sprint, issues, StoryPointsField)
	metrics.RunID = uuid.NewString()

	outPath, err := writer.WriteSprintAnalysis(metrics)
	if err != nil {
		return err
	}
	log.Printf("Wrote %s", outPath)

	printSprintReport(metrics)
	return nil
}

// printSprintReport writes a human-oriented summary to stdout.  The JSON
// file carries the same numbers for machines.
func printSprintReport(m record.SprintMetrics) {
	fmt.Printf("\n%v (%s)\n", termfmt.Bold().V(m.Sprint.Name), m.Sprint.State)
	if m.Sprint.Goal != "" {
		fmt.Printf("Goal: %s\n", m.Sprint.Goal)
	}

	fmt.Printf("\nIssues:     %d total, %d done\n", m.TotalIssues, m.IssuesCompleted)
	if m.PointsCommitted > 0 {
		fmt.Printf("Points:     %.1f committed, %.1f completed\n", m.PointsCommitted, m.PointsCompleted)
	}
	fmt.Printf("Completion: %v\n", termfmt.Bold().V(fmt.Sprintf("%.0f%%", m.CompletionRate*100)))

	printBreakdown("By status", m.ByStatus)
	printBreakdown("By type", m.ByType)
	printBreakdown("By assignee", m.ByAssignee)
}

func printBreakdown(heading string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	fmt.Printf("\n%v\n", termfmt.Bold().V(heading))
	keys := maps.Keys(counts)
	slices.Sort(keys)
	for _, key := range keys {
		fmt.Printf("  %-24s %d\n", key, counts[key])
	}
}
