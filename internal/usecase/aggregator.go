// Package usecase contains the business logic of the application: the five
// metric aggregations and the combined dashboard computation.
package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yshino/repo-metrics/internal/domain"
	"github.com/yshino/repo-metrics/internal/gateway"
)

// triageSampleLimit caps the number of per-issue comment lookups per call.
// Each lookup is one extra API request, so an unbounded loop over a busy
// repository would burn the hourly quota.
const triageSampleLimit = 50

// Service is the set of metric computations exposed to the delivery layer.
type Service interface {
	CommitsPerUser(ctx context.Context, lookbackDays int) (*domain.CommitActivity, error)
	PRMetrics(ctx context.Context, lookbackDays int) (*domain.PullRequestMetrics, error)
	IssueMetrics(ctx context.Context, lookbackDays int) (*domain.IssueMetrics, error)
	ContributionTrends(ctx context.Context, lookbackDays int) (*domain.ContributorRanking, error)
	ActivityHeatmap(ctx context.Context, lookbackDays int) (*domain.ActivityHeatmap, error)
	AllMetrics(ctx context.Context, lookbackDays int) (*domain.DashboardMetrics, error)
}

// Aggregator computes repository metrics from the data the gateway fetches.
// Every computation builds fresh local accumulators, so a single Aggregator
// is safe for concurrent requests.
type Aggregator struct {
	fetcher gateway.Fetcher
	logger  *zap.SugaredLogger
	now     func() time.Time
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger *zap.SugaredLogger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// cutoff converts a lookback day-count into the absolute window start.
// Zero or negative day-counts yield an empty or near-empty window, which is
// valid: nothing older than "now" survives the filter.
func (a *Aggregator) cutoff(lookbackDays int) time.Time {
	return a.now().UTC().AddDate(0, 0, -lookbackDays)
}

func period(lookbackDays int) string {
	return fmt.Sprintf("%d days", lookbackDays)
}

// inWindow reports whether ts falls on or after the window cutoff.
func inWindow(ts, cutoff time.Time) bool {
	return !ts.Before(cutoff)
}

// formatHours renders a duration in hours with two decimals, the shape the
// dashboard consumes.
func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}

// mean returns the arithmetic mean of values, or 0 for an empty set.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}

// CommitsPerUser counts in-window commits per author identity. The commits
// listing filters by authored date server-side, so no client-side date filter
// is applied here.
func (a *Aggregator) CommitsPerUser(ctx context.Context, lookbackDays int) (*domain.CommitActivity, error) {
	commits, err := a.fetcher.FetchCommits(ctx, a.cutoff(lookbackDays))
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]int)
	for _, c := range commits {
		byUser[domain.ResolveAuthor(c.AuthorLogin, c.AuthorName)]++
	}

	return &domain.CommitActivity{
		Total:  len(commits),
		ByUser: byUser,
		Period: period(lookbackDays),
	}, nil
}

// PRMetrics partitions in-window pull requests into merged, open and
// closed-unmerged, and derives merge rate and cycle time over the merged set.
// The PR listing cannot filter by creation date server-side, so the full set
// is fetched and filtered here.
func (a *Aggregator) PRMetrics(ctx context.Context, lookbackDays int) (*domain.PullRequestMetrics, error) {
	allPRs, err := a.fetcher.FetchPullRequests(ctx)
	if err != nil {
		return nil, err
	}

	cut := a.cutoff(lookbackDays)
	var recent []gateway.PullRequest
	for _, pr := range allPRs {
		if inWindow(pr.CreatedAt, cut) {
			recent = append(recent, pr)
		}
	}

	var merged, open, closed int
	var cycleTimes []float64
	for _, pr := range recent {
		switch {
		case pr.MergedAt != nil:
			merged++
			cycleTimes = append(cycleTimes, pr.MergedAt.Sub(pr.CreatedAt).Hours())
		case pr.State == "open":
			open++
		case pr.State == "closed":
			closed++
		}
	}

	avgCycleTime := mean(cycleTimes)
	mergeRate := 0.0
	if len(recent) > 0 {
		mergeRate = float64(merged) / float64(len(recent)) * 100
	}

	return &domain.PullRequestMetrics{
		Total:             len(recent),
		Merged:            merged,
		Open:              open,
		Closed:            closed,
		MergeRate:         fmt.Sprintf("%.2f%%", mergeRate),
		AvgCycleTimeHours: formatHours(avgCycleTime),
		AvgCycleTimeDays:  formatHours(avgCycleTime / 24),
		Period:            period(lookbackDays),
	}, nil
}

// IssueMetrics derives triage and resolution speed for in-window issues.
// Records that are actually pull requests (the unified listing returns both)
// are excluded first. Resolution time covers the entire closed set; triage
// time is sampled from at most the first triageSampleLimit issues because
// each sample costs one extra API call. A failed comment lookup only drops
// that issue from the sample.
func (a *Aggregator) IssueMetrics(ctx context.Context, lookbackDays int) (*domain.IssueMetrics, error) {
	fetched, err := a.fetcher.FetchIssues(ctx, a.cutoff(lookbackDays))
	if err != nil {
		return nil, err
	}

	var issues []gateway.Issue
	for _, is := range fetched {
		if !is.IsPullRequest {
			issues = append(issues, is)
		}
	}

	var open, closed int
	var resolutionTimes []float64
	for _, is := range issues {
		if is.State == "open" {
			open++
		}
		if is.State == "closed" {
			closed++
		}
		if is.ClosedAt != nil {
			resolutionTimes = append(resolutionTimes, is.ClosedAt.Sub(is.CreatedAt).Hours())
		}
	}

	var triageTimes []float64
	for i, is := range issues {
		if i >= triageSampleLimit {
			break
		}
		comment, err := a.fetcher.FetchFirstComment(ctx, is.Number)
		if err != nil {
			a.logger.Warnw("skipping issue in triage sample", "issue", is.Number, "error", err)
			continue
		}
		if comment != nil {
			triageTimes = append(triageTimes, comment.CreatedAt.Sub(is.CreatedAt).Hours())
		}
	}

	avgResolution := mean(resolutionTimes)

	return &domain.IssueMetrics{
		Total:                  len(issues),
		Open:                   open,
		Closed:                 closed,
		AvgTriageTimeHours:     formatHours(mean(triageTimes)),
		AvgResolutionTimeHours: formatHours(avgResolution),
		AvgResolutionTimeDays:  formatHours(avgResolution / 24),
		Period:                 period(lookbackDays),
	}, nil
}

// ContributionTrends folds in-window commits and pull requests into one
// activity ranking keyed on author identity. The two fetches are independent
// and run concurrently.
func (a *Aggregator) ContributionTrends(ctx context.Context, lookbackDays int) (*domain.ContributorRanking, error) {
	cut := a.cutoff(lookbackDays)

	var commits []gateway.Commit
	var allPRs []gateway.PullRequest

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		commits, err = a.fetcher.FetchCommits(egCtx, cut)
		return err
	})
	eg.Go(func() error {
		var err error
		allPRs, err = a.fetcher.FetchPullRequests(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Track insertion order so that activity ties keep a stable ranking.
	statsByUser := make(map[string]*domain.ContributorStat)
	var order []string
	ensure := func(user string) *domain.ContributorStat {
		if s, ok := statsByUser[user]; ok {
			return s
		}
		s := &domain.ContributorStat{User: user}
		statsByUser[user] = s
		order = append(order, user)
		return s
	}

	for _, c := range commits {
		ensure(domain.ResolveAuthor(c.AuthorLogin, c.AuthorName)).Commits++
	}
	for _, pr := range allPRs {
		if !inWindow(pr.CreatedAt, cut) {
			continue
		}
		ensure(domain.ResolvePRAuthor(pr.AuthorLogin)).PRsCreated++
	}

	contributors := make([]domain.ContributorStat, 0, len(order))
	for _, user := range order {
		s := statsByUser[user]
		s.TotalActivity = s.Commits + s.PRsCreated + s.PRsReviewed
		contributors = append(contributors, *s)
	}
	sort.SliceStable(contributors, func(i, j int) bool {
		return contributors[i].TotalActivity > contributors[j].TotalActivity
	})

	return &domain.ContributorRanking{
		Contributors:      contributors,
		TotalContributors: len(contributors),
		Period:            period(lookbackDays),
	}, nil
}

// ActivityHeatmap buckets in-window commits by calendar day, hour of day and
// day of week, all in UTC using each commit's authored timestamp.
func (a *Aggregator) ActivityHeatmap(ctx context.Context, lookbackDays int) (*domain.ActivityHeatmap, error) {
	commits, err := a.fetcher.FetchCommits(ctx, a.cutoff(lookbackDays))
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int)
	byHour := make(map[int]int)
	byDayOfWeek := make(map[string]int, 7)
	// Pre-fill all seven buckets so zero-count days are still observable.
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		byDayOfWeek[wd.String()] = 0
	}

	for _, c := range commits {
		ts := c.AuthoredAt.UTC()
		byDay[ts.Format("2006-01-02")]++
		byHour[ts.Hour()]++
		byDayOfWeek[ts.Weekday().String()]++
	}

	return &domain.ActivityHeatmap{
		ActivityByDay:       byDay,
		ActivityByHour:      byHour,
		ActivityByDayOfWeek: byDayOfWeek,
		TotalCommits:        len(commits),
		Period:              period(lookbackDays),
	}, nil
}

// AllMetrics runs the five metric computations concurrently and combines
// their results. Any single failure fails the whole computation; no partial
// dashboard is ever returned.
func (a *Aggregator) AllMetrics(ctx context.Context, lookbackDays int) (*domain.DashboardMetrics, error) {
	a.logger.Debugw("computing all metrics", "lookback_days", lookbackDays)

	var (
		commits *domain.CommitActivity
		prs     *domain.PullRequestMetrics
		issues  *domain.IssueMetrics
		trends  *domain.ContributorRanking
		heatmap *domain.ActivityHeatmap
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		commits, err = a.CommitsPerUser(egCtx, lookbackDays)
		return err
	})
	eg.Go(func() error {
		var err error
		prs, err = a.PRMetrics(egCtx, lookbackDays)
		return err
	})
	eg.Go(func() error {
		var err error
		issues, err = a.IssueMetrics(egCtx, lookbackDays)
		return err
	})
	eg.Go(func() error {
		var err error
		trends, err = a.ContributionTrends(egCtx, lookbackDays)
		return err
	})
	eg.Go(func() error {
		var err error
		heatmap, err = a.ActivityHeatmap(egCtx, lookbackDays)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &domain.DashboardMetrics{
		Commits:            commits,
		PRMetrics:          prs,
		IssueMetrics:       issues,
		ContributionTrends: trends,
		ActivityHeatmap:    heatmap,
		GeneratedAt:        a.now().UTC(),
	}, nil
}
