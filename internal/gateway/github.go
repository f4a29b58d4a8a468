// Package gateway provides a gateway to the GitHub API, abstracting away the
// underlying REST client, authentication and rate-limit handling.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/yshino/repo-metrics/internal/domain"
)

const defaultPageSize = 100

// Commit is one commit from the repository commits listing. AuthoredAt is the
// commit's own authored timestamp, not the wrapper metadata of the listing.
type Commit struct {
	AuthorLogin string
	AuthorName  string
	AuthoredAt  time.Time
}

// PullRequest is one pull request from the repository PR listing. A PR is
// merged iff MergedAt is set; closed-unmerged iff State is "closed" and
// MergedAt is absent.
type PullRequest struct {
	Number      int
	AuthorLogin string
	State       string
	CreatedAt   time.Time
	MergedAt    *time.Time
}

// Issue is one record from the unified issues listing. The listing also
// returns pull requests; those carry IsPullRequest and must be excluded from
// issue counts by the caller.
type Issue struct {
	Number        int
	State         string
	CreatedAt     time.Time
	ClosedAt      *time.Time
	IsPullRequest bool
}

// Comment holds the creation time of an issue comment. Only the first comment
// per issue is ever needed.
type Comment struct {
	CreatedAt time.Time
}

// Fetcher defines the behavior of a gateway for fetching repository history
// from the remote hosting API.
type Fetcher interface {
	// FetchCommits returns all commits authored on or after since.
	FetchCommits(ctx context.Context, since time.Time) ([]Commit, error)
	// FetchPullRequests returns all pull requests regardless of state.
	// The API cannot filter PRs by creation date server-side.
	FetchPullRequests(ctx context.Context) ([]PullRequest, error)
	// FetchIssues returns all issues whose last update is on or after since.
	FetchIssues(ctx context.Context, since time.Time) ([]Issue, error)
	// FetchFirstComment returns the first comment on an issue, or nil if the
	// issue has no comments.
	FetchFirstComment(ctx context.Context, issueNumber int) (*Comment, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface,
// bound to a single owner/repo pair.
type GitHubGateway struct {
	client  *github.Client
	owner   string
	repo    string
	limiter *rate.Limiter
	logger  *zap.SugaredLogger
}

// NewGitHubGateway creates a gateway authenticated with the given bearer token.
// The HTTP transport waits out GitHub secondary rate limits; on top of that a
// client-side limiter paces requests to stay under the primary hourly quota.
func NewGitHubGateway(token, owner, repo string, logger *zap.SugaredLogger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		client: github.NewClient(httpClient),
		owner:  owner,
		repo:   repo,
		// GitHub allows 5,000 requests/hour. Two requests per second keeps
		// a burst of paginated listings well under that.
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		logger:  logger,
	}, nil
}

func (g *GitHubGateway) FetchCommits(ctx context.Context, since time.Time) ([]Commit, error) {
	g.logger.Debugw("fetching commits", "owner", g.owner, "repo", g.repo, "since", since)
	opts := &github.CommitsListOptions{
		Since:       since,
		ListOptions: github.ListOptions{PerPage: defaultPageSize},
	}
	var all []Commit
	for {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, domain.NewRemoteFetchError("list commits", err)
		}
		commits, resp, err := g.client.Repositories.ListCommits(ctx, g.owner, g.repo, opts)
		if err != nil {
			return nil, domain.NewRemoteFetchError("list commits", err)
		}
		for _, c := range commits {
			all = append(all, Commit{
				AuthorLogin: c.GetAuthor().GetLogin(),
				AuthorName:  c.GetCommit().GetAuthor().GetName(),
				AuthoredAt:  c.GetCommit().GetAuthor().GetDate().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debugw("fetching next page of commits", "page", resp.NextPage)
	}
	g.logger.Debugw("completed fetching commits", "count", len(all))
	return all, nil
}

func (g *GitHubGateway) FetchPullRequests(ctx context.Context) ([]PullRequest, error) {
	g.logger.Debugw("fetching pull requests", "owner", g.owner, "repo", g.repo)
	opts := &github.PullRequestListOptions{
		State:       "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: defaultPageSize},
	}
	var all []PullRequest
	for {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, domain.NewRemoteFetchError("list pull requests", err)
		}
		prs, resp, err := g.client.PullRequests.List(ctx, g.owner, g.repo, opts)
		if err != nil {
			return nil, domain.NewRemoteFetchError("list pull requests", err)
		}
		for _, pr := range prs {
			rec := PullRequest{
				Number:      pr.GetNumber(),
				AuthorLogin: pr.GetUser().GetLogin(),
				State:       pr.GetState(),
				CreatedAt:   pr.GetCreatedAt().Time,
			}
			if pr.MergedAt != nil {
				t := pr.MergedAt.Time
				rec.MergedAt = &t
			}
			all = append(all, rec)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debugw("fetching next page of pull requests", "page", resp.NextPage)
	}
	g.logger.Debugw("completed fetching pull requests", "count", len(all))
	return all, nil
}

func (g *GitHubGateway) FetchIssues(ctx context.Context, since time.Time) ([]Issue, error) {
	g.logger.Debugw("fetching issues", "owner", g.owner, "repo", g.repo, "since", since)
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Since:       since,
		ListOptions: github.ListOptions{PerPage: defaultPageSize},
	}
	var all []Issue
	for {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, domain.NewRemoteFetchError("list issues", err)
		}
		issues, resp, err := g.client.Issues.ListByRepo(ctx, g.owner, g.repo, opts)
		if err != nil {
			return nil, domain.NewRemoteFetchError("list issues", err)
		}
		for _, is := range issues {
			rec := Issue{
				Number:        is.GetNumber(),
				State:         is.GetState(),
				CreatedAt:     is.GetCreatedAt().Time,
				IsPullRequest: is.IsPullRequest(),
			}
			if is.ClosedAt != nil {
				t := is.ClosedAt.Time
				rec.ClosedAt = &t
			}
			all = append(all, rec)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debugw("fetching next page of issues", "page", resp.NextPage)
	}
	g.logger.Debugw("completed fetching issues", "count", len(all))
	return all, nil
}

func (g *GitHubGateway) FetchFirstComment(ctx context.Context, issueNumber int) (*Comment, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, domain.NewRemoteFetchError("list issue comments", err)
	}
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	}
	comments, _, err := g.client.Issues.ListComments(ctx, g.owner, g.repo, issueNumber, opts)
	if err != nil {
		return nil, domain.NewRemoteFetchError(fmt.Sprintf("list comments for issue %d", issueNumber), err)
	}
	if len(comments) == 0 {
		return nil, nil
	}
	return &Comment{CreatedAt: comments[0].GetCreatedAt().Time}, nil
}
