package record

import (
	"math"
	"time"

	"github.com/toothbrush/atlassian-rag/jira"
)

// SprintInfo is the sprint header carried into the analysis output.
type SprintInfo struct {
	ID           int    `json:"id"`
	Name         string `json:"name,omitempty"`
	State        string `json:"state,omitempty"`
	Goal         string `json:"goal,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	CompleteDate string `json:"complete_date,omitempty"`
}

// SprintMetrics is a one-shot summary of a sprint's issues.  Nothing is
// persisted between runs; every invocation recomputes from scratch.
type SprintMetrics struct {
	Sprint          SprintInfo     `json:"sprint"`
	TotalIssues     int            `json:"total_issues"`
	ByStatus        map[string]int `json:"by_status,omitempty"`
	ByType          map[string]int `json:"by_type,omitempty"`
	ByAssignee      map[string]int `json:"by_assignee,omitempty"`
	PointsCommitted float64        `json:"points_committed"`
	PointsCompleted float64        `json:"points_completed"`
	IssuesCompleted int            `json:"issues_completed"`
	CompletionRate  float64        `json:"completion_rate"`
	GeneratedAt     string         `json:"generated_at"`
	RunID           string         `json:"run_id,omitempty"`
}

// ComputeSprintMetrics scans a batch of issues and tallies them up.  An
// issue counts as completed when its status category is "done"; status
// names are free-form per instance, the category is not.  Story points are
// read from pointsField (a customfield_NNNNN key); pass "" to skip points.
func ComputeSprintMetrics(sprint jira.Sprint, issues []jira.Issue, pointsField string) SprintMetrics {
	m := SprintMetrics{
		Sprint: SprintInfo{
			ID:           sprint.ID,
			Name:         sprint.Name,
			State:        sprint.State,
			Goal:         sprint.Goal,
			StartDate:    sprint.StartDate,
			EndDate:      sprint.EndDate,
			CompleteDate: sprint.CompleteDate,
		},
		TotalIssues: len(issues),
		ByStatus:    map[string]int{},
		ByType:      map[string]int{},
		ByAssignee:  map[string]int{},
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, issue := range issues {
		done := false
		if s := issue.Fields.Status; s != nil {
			if s.Name != "" {
				m.ByStatus[s.Name]++
			}
			done = s.StatusCategory != nil && s.StatusCategory.Key == "done"
		}
		if t := issue.Fields.IssueType; t != nil && t.Name != "" {
			m.ByType[t.Name]++
		}
		assignee := "Unassigned"
		if a := issue.Fields.Assignee; a != nil && a.DisplayName != "" {
			assignee = a.DisplayName
		}
		m.ByAssignee[assignee]++

		points, _ := issue.CustomNumber(pointsField)
		m.PointsCommitted += points
		if done {
			m.IssuesCompleted++
			m.PointsCompleted += points
		}
	}

	if m.TotalIssues > 0 {
		m.CompletionRate = math.Round(float64(m.IssuesCompleted)/float64(m.TotalIssues)*100) / 100
	}
	return m
}
