// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// CommitActivity summarizes commit volume per author within the lookback window.
type CommitActivity struct {
	Total  int            `json:"total"`
	ByUser map[string]int `json:"byUser"`
	Period string         `json:"period"`
}

// PullRequestMetrics summarizes PR throughput and cycle time within the lookback window.
// Percentage and duration fields are pre-formatted to two decimals for presentation;
// the underlying math is done in full float64 precision before formatting.
type PullRequestMetrics struct {
	Total             int    `json:"total"`
	Merged            int    `json:"merged"`
	Open              int    `json:"open"`
	Closed            int    `json:"closed"`
	MergeRate         string `json:"mergeRate"`
	AvgCycleTimeHours string `json:"avgCycleTimeHours"`
	AvgCycleTimeDays  string `json:"avgCycleTimeDays"`
	Period            string `json:"period"`
}

// IssueMetrics summarizes issue triage and resolution speed within the lookback window.
type IssueMetrics struct {
	Total                  int    `json:"total"`
	Open                   int    `json:"open"`
	Closed                 int    `json:"closed"`
	AvgTriageTimeHours     string `json:"avgTriageTimeHours"`
	AvgResolutionTimeHours string `json:"avgResolutionTimeHours"`
	AvgResolutionTimeDays  string `json:"avgResolutionTimeDays"`
	Period                 string `json:"period"`
}

// ContributorStat holds the activity counts for a single contributor.
// PRsReviewed is reserved and always zero for now.
type ContributorStat struct {
	User          string `json:"user"`
	Commits       int    `json:"commits"`
	PRsCreated    int    `json:"prsCreated"`
	PRsReviewed   int    `json:"prsReviewed"`
	TotalActivity int    `json:"totalActivity"`
}

// ContributorRanking lists contributors ordered by total activity, highest first.
type ContributorRanking struct {
	Contributors      []ContributorStat `json:"contributors"`
	TotalContributors int               `json:"totalContributors"`
	Period            string            `json:"period"`
}

// ActivityHeatmap buckets commit activity by calendar day, hour of day and day of week.
// ActivityByDayOfWeek always carries all seven day names, even at zero.
type ActivityHeatmap struct {
	ActivityByDay       map[string]int `json:"activityByDay"`
	ActivityByHour      map[int]int    `json:"activityByHour"`
	ActivityByDayOfWeek map[string]int `json:"activityByDayOfWeek"`
	TotalCommits        int            `json:"totalCommits"`
	Period              string         `json:"period"`
}

// DashboardMetrics nests all five metric results produced by a single combined run.
type DashboardMetrics struct {
	Commits            *CommitActivity     `json:"commits"`
	PRMetrics          *PullRequestMetrics `json:"prMetrics"`
	IssueMetrics       *IssueMetrics       `json:"issueMetrics"`
	ContributionTrends *ContributorRanking `json:"contributionTrends"`
	ActivityHeatmap    *ActivityHeatmap    `json:"activityHeatmap"`
	GeneratedAt        time.Time           `json:"generatedAt"`
}
