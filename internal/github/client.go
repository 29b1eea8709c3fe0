package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v58/github"
	"issuemanager/internal/logging"
)

// ErrAccessDenied is returned when the credential is rejected or the repository
// cannot be reached
var ErrAccessDenied = errors.New("failed to access GitHub API")

// DefaultTimeout bounds every tracker call
const DefaultTimeout = 10 * time.Second

const searchPageSize = 100

// Issue is the tracker's view of a GitHub issue
type Issue struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	State  string   `json:"state"`
	Labels []string `json:"labels"`
	URL    string   `json:"html_url"`
}

// HasLabel reports whether the issue carries the given label
func (i Issue) HasLabel(label string) bool {
	for _, l := range i.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Options configures a Client
type Options struct {
	Token      string
	Repository string // "owner/name"
	BaseURL    string // optional, for GitHub Enterprise or tests
	Timeout    time.Duration
	Logger     *slog.Logger
}

type Client struct {
	client  *github.Client
	owner   string
	repo    string
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient creates a tracker client for the repository in opts.
// Only malformed options produce an error; no network call is made.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	owner, repo, err := ParseRepository(opts.Repository)
	if err != nil {
		return nil, err
	}

	client := github.NewClient(NewHTTPClient(ctx, opts.Token))
	if opts.BaseURL != "" {
		client, err = client.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL %q: %w", opts.BaseURL, err)
		}
	}

	return newClient(client, owner, repo, opts.Timeout, opts.Logger), nil
}

func newClient(client *github.Client, owner, repo string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger = logging.OrDiscard(logger)
	return &Client{
		client:  client,
		owner:   owner,
		repo:    repo,
		timeout: timeout,
		logger:  logger.With("repo", owner+"/"+repo),
	}
}

// ParseRepository splits an "owner/name" identifier
func ParseRepository(fullName string) (string, string, error) {
	parts := strings.Split(strings.TrimSpace(fullName), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/name", fullName)
	}
	return parts[0], parts[1], nil
}

// Repository returns the "owner/name" identifier the client is scoped to
func (c *Client) Repository() string {
	return c.owner + "/" + c.repo
}

// CheckAccess verifies the credential can read the repository
func (c *Client) CheckAccess(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, resp, err := c.client.Repositories.Get(ctx, c.owner, c.repo)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("%w: %s returned HTTP %d", ErrAccessDenied, c.Repository(), resp.StatusCode)
		}
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	return nil
}

// CreateIssue opens a new issue. It returns false when the tracker refused or
// could not be reached.
func (c *Client) CreateIssue(ctx context.Context, title, body string, labels []string) (*Issue, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if labels == nil {
		labels = []string{}
	}
	req := &github.IssueRequest{
		Title:  github.String(title),
		Body:   github.String(body),
		Labels: &labels,
	}

	created, _, err := c.client.Issues.Create(ctx, c.owner, c.repo, req)
	if err != nil {
		c.logger.Warn("create issue failed", "title", title, "error", err)
		return nil, false
	}

	issue := convertIssue(created)
	c.logger.Debug("created issue", "number", issue.Number, "title", issue.Title)
	return &issue, true
}

// SearchIssues runs a search scoped to the client's repository. Failures yield
// whatever was collected before the failing page, usually nothing.
func (c *Client) SearchIssues(ctx context.Context, query string) []Issue {
	q := strings.TrimSpace(query + " repo:" + c.Repository())
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: searchPageSize}}

	result := []Issue{}
	for {
		page, resp, err := c.searchPage(ctx, q, opts)
		if err != nil {
			c.logger.Warn("search issues failed", "query", q, "error", err)
			return result
		}
		for _, issue := range page.Issues {
			result = append(result, convertIssue(issue))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.Debug("searched issues", "query", q, "count", len(result))
	return result
}

func (c *Client) searchPage(ctx context.Context, q string, opts *github.SearchOptions) (*github.IssuesSearchResult, *github.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Search.Issues(ctx, q, opts)
}

// CloseIssue transitions an issue to closed. A "duplicate" reason is recorded
// as not_planned, anything else as completed.
func (c *Client) CloseIssue(ctx context.Context, number int, reason string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := &github.IssueRequest{
		State:       github.String("closed"),
		StateReason: github.String(stateReason(reason)),
	}
	if _, _, err := c.client.Issues.Edit(ctx, c.owner, c.repo, number, req); err != nil {
		c.logger.Warn("close issue failed", "number", number, "reason", reason, "error", err)
		return false
	}

	c.logger.Debug("closed issue", "number", number, "reason", reason)
	return true
}

func stateReason(reason string) string {
	if reason == "duplicate" {
		return "not_planned"
	}
	return "completed"
}

// AddComment posts a comment on an issue
func (c *Client) AddComment(ctx context.Context, number int, text string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	comment := &github.IssueComment{Body: github.String(text)}
	if _, _, err := c.client.Issues.CreateComment(ctx, c.owner, c.repo, number, comment); err != nil {
		c.logger.Warn("add comment failed", "number", number, "error", err)
		return false
	}
	return true
}

// ListIssues lists repository issues in the given state (open, closed, all).
// Pull requests returned by the issues endpoint are skipped.
func (c *Client) ListIssues(ctx context.Context, state string) []Issue {
	if state == "" {
		state = "open"
	}
	opts := &github.IssueListByRepoOptions{
		State:       state,
		ListOptions: github.ListOptions{PerPage: searchPageSize},
	}

	result := []Issue{}
	for {
		page, resp, err := c.listPage(ctx, opts)
		if err != nil {
			c.logger.Warn("list issues failed", "state", state, "error", err)
			return result
		}
		for _, issue := range page {
			if issue.IsPullRequest() {
				continue
			}
			result = append(result, convertIssue(issue))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return result
}

func (c *Client) listPage(ctx context.Context, opts *github.IssueListByRepoOptions) ([]*github.Issue, *github.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Issues.ListByRepo(ctx, c.owner, c.repo, opts)
}

func convertIssue(issue *github.Issue) Issue {
	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.GetName())
	}
	return Issue{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		State:  issue.GetState(),
		Labels: labels,
		URL:    issue.GetHTMLURL(),
	}
}

// NewHTTPClient returns an HTTP client presenting token with the scheme its
// shape requires
func NewHTTPClient(ctx context.Context, token string) *http.Client {
	if token == "" {
		return nil
	}
	return newAuthClient(ctx, token)
}
