package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v50/github"
	"golang.org/x/oauth2"

	"relbot/internal/logger"
)

// PullRequest is the subset of pull-request data the maintenance
// workflows operate on.
type PullRequest struct {
	Number       int
	Title        string
	State        string
	Labels       []string
	HeadRef      string
	HeadCloneURL string
	BaseRef      string
}

// Client wraps the GitHub API client.
type Client struct {
	github *github.Client
	logger logger.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client) error

// WithBaseURL points the client at a different API root. Used in tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) error {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return fmt.Errorf("invalid base URL: %w", err)
		}
		c.github.BaseURL = u
		return nil
	}
}

// WithLogger attaches a logger to the client.
func WithLogger(log logger.Logger) ClientOption {
	return func(c *Client) error {
		c.logger = log
		return nil
	}
}

// NewClient creates a GitHub API client authenticated with the given token.
func NewClient(token string, opts ...ClientOption) (*Client, error) {
	if token == "" {
		return nil, errors.New("GitHub token is required")
	}

	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	c := &Client{
		github: github.NewClient(tc),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// GetPullRequest fetches a single pull request.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	if owner == "" {
		return nil, errors.New("owner is required")
	}
	if repo == "" {
		return nil, errors.New("repo is required")
	}
	if number <= 0 {
		return nil, errors.New("pull request number must be positive")
	}

	pr, _, err := c.github.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request #%d: %w", number, err)
	}

	result := convertPullRequest(pr)

	if c.logger != nil {
		c.logger.Debug("Fetched pull request",
			"owner", owner,
			"repo", repo,
			"number", result.Number,
			"labels", result.Labels,
			"head_ref", result.HeadRef,
			"base_ref", result.BaseRef,
		)
	}

	return result, nil
}

// ListPullRequestsByLabel returns the open pull requests carrying the given
// label. The label filter runs through the issues API, which covers pull
// requests, and each hit is resolved to its full pull-request record.
func (c *Client) ListPullRequestsByLabel(ctx context.Context, owner, repo, label string) ([]*PullRequest, error) {
	if owner == "" {
		return nil, errors.New("owner is required")
	}
	if repo == "" {
		return nil, errors.New("repo is required")
	}
	if label == "" {
		return nil, errors.New("label is required")
	}

	opts := &github.IssueListByRepoOptions{
		Labels: []string{label},
		State:  "open",
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	var numbers []int
	for {
		issues, resp, err := c.github.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list pull requests with label %q: %w", label, err)
		}
		for _, issue := range issues {
			if issue.IsPullRequest() {
				numbers = append(numbers, issue.GetNumber())
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	prs := make([]*PullRequest, 0, len(numbers))
	for _, number := range numbers {
		pr, err := c.GetPullRequest(ctx, owner, repo, number)
		if err != nil {
			return nil, err
		}
		prs = append(prs, pr)
	}

	if c.logger != nil {
		c.logger.Debug("Listed pull requests by label",
			"owner", owner,
			"repo", repo,
			"label", label,
			"count", len(prs),
		)
	}

	return prs, nil
}

// ListPullRequestCommits returns the commit SHAs of a pull request in order.
func (c *Client) ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]string, error) {
	if owner == "" {
		return nil, errors.New("owner is required")
	}
	if repo == "" {
		return nil, errors.New("repo is required")
	}

	opts := &github.ListOptions{PerPage: 100}

	var shas []string
	for {
		commits, resp, err := c.github.PullRequests.ListCommits(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list commits for pull request #%d: %w", number, err)
		}
		for _, commit := range commits {
			shas = append(shas, commit.GetSHA())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return shas, nil
}

// convertPullRequest maps a go-github pull request onto the local type.
func convertPullRequest(pr *github.PullRequest) *PullRequest {
	result := &PullRequest{
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		State:  pr.GetState(),
	}

	for _, label := range pr.Labels {
		result.Labels = append(result.Labels, label.GetName())
	}

	if head := pr.GetHead(); head != nil {
		result.HeadRef = head.GetRef()
		if repo := head.GetRepo(); repo != nil {
			result.HeadCloneURL = repo.GetCloneURL()
		}
	}
	if base := pr.GetBase(); base != nil {
		result.BaseRef = base.GetRef()
	}

	return result
}
