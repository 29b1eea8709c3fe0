// Package events routes a repository webhook payload to the handler that files
// or closes tickets for it.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	gh "github.com/google/go-github/v58/github"

	"issuemanager/internal/github"
	"issuemanager/internal/logging"
	"issuemanager/internal/tickets"
)

// Route names the handler a payload was sent to
type Route string

const (
	RouteReviewComment Route = "review_comment"
	RoutePullRequest   Route = "pull_request_merged"
	RouteCodeScanning  Route = "code_scanning_alert"
	RouteIgnored       Route = "ignored"
)

// MergedCloseReason is the reason given when a merge closes review tickets
const MergedCloseReason = "PR merged"

var alertActions = []string{"created", "reopened", "appeared_in_branch"}

// Payload is the subset of a webhook event the dispatcher reads
type Payload struct {
	Action      string                 `json:"action"`
	Comment     *gh.PullRequestComment `json:"comment,omitempty"`
	PullRequest *gh.PullRequest        `json:"pull_request,omitempty"`
	Alert       *gh.Alert              `json:"alert,omitempty"`
}

// Outcome reports what one dispatch did
type Outcome struct {
	Route  Route
	Reason string          // why the payload was ignored
	Ticket *tickets.Result // review comment and alert routes
	Closed []int           // merged route
	Failed []int           // merged route
}

// Options configures routing
type Options struct {
	BotLogins    []string
	CopilotLabel string
	CodeQLLabels []string
}

// Dispatcher routes events to ticket handlers
type Dispatcher struct {
	tracker github.Tracker
	policy  *tickets.Policy
	opts    Options
	logger  *slog.Logger
}

// NewDispatcher creates a dispatcher sharing one tracker client with its policy
func NewDispatcher(tracker github.Tracker, opts Options, logger *slog.Logger) *Dispatcher {
	logger = logging.OrDiscard(logger)
	return &Dispatcher{
		tracker: tracker,
		policy:  tickets.NewPolicy(tracker, logger),
		opts:    opts,
		logger:  logger,
	}
}

// DispatchFile reads the payload at path and dispatches it. A missing path or
// unreadable file is ignored, not an error.
func (d *Dispatcher) DispatchFile(ctx context.Context, path string) Outcome {
	if path == "" {
		return ignored("no event payload path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ignored("event payload not found")
		}
		d.logger.Warn("failed to read event payload", "path", path, "error", err)
		return ignored("event payload unreadable")
	}
	return d.Dispatch(ctx, data)
}

// Dispatch decodes a payload and routes it
func (d *Dispatcher) Dispatch(ctx context.Context, data []byte) Outcome {
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		d.logger.Debug("malformed event payload", "error", err)
		return ignored("malformed payload")
	}
	return d.Route(ctx, payload)
}

// Route sends a decoded payload to its handler
func (d *Dispatcher) Route(ctx context.Context, p Payload) Outcome {
	switch {
	case p.Comment != nil && p.PullRequest != nil:
		return d.handleReviewComment(ctx, p)
	case p.Comment != nil:
		// issue_comment and commit_comment carry a comment but no pull request
		return ignored("unrecognized event")
	case p.PullRequest != nil:
		return d.handlePullRequest(ctx, p)
	case isCodeScanningAlert(p.Alert):
		return d.handleAlert(ctx, p)
	default:
		return ignored("unrecognized event")
	}
}

// isCodeScanningAlert tells code scanning alerts apart from Dependabot and
// secret scanning alerts, which share the "alert" key but have no rule or tool.
func isCodeScanningAlert(a *gh.Alert) bool {
	return a != nil && (a.Rule != nil || a.Tool != nil)
}

func (d *Dispatcher) handleReviewComment(ctx context.Context, p Payload) Outcome {
	if p.Action != "created" {
		return ignored(fmt.Sprintf("review comment action %q", p.Action))
	}
	author := p.Comment.GetUser().GetLogin()
	if !slices.Contains(d.opts.BotLogins, author) {
		d.logger.Debug("ignoring review comment", "author", author)
		return ignored("comment author is not a review bot")
	}

	comment := tickets.ReviewComment{
		ID:     p.Comment.GetID(),
		Path:   p.Comment.GetPath(),
		Line:   p.Comment.GetLine(),
		Author: author,
		Body:   p.Comment.GetBody(),
		URL:    p.Comment.GetHTMLURL(),
	}
	result := d.policy.Ensure(ctx, tickets.CopilotTicket(comment, labelList(d.opts.CopilotLabel)))
	return Outcome{Route: RouteReviewComment, Ticket: &result}
}

func (d *Dispatcher) handlePullRequest(ctx context.Context, p Payload) Outcome {
	if p.Action != "closed" {
		return ignored(fmt.Sprintf("pull request action %q", p.Action))
	}
	if !p.PullRequest.GetMerged() {
		return ignored("pull request closed without merge")
	}

	query := fmt.Sprintf("label:%s state:open", d.opts.CopilotLabel)
	outcome := Outcome{Route: RoutePullRequest}
	for _, issue := range d.tracker.SearchIssues(ctx, query) {
		if d.tracker.CloseIssue(ctx, issue.Number, MergedCloseReason) {
			outcome.Closed = append(outcome.Closed, issue.Number)
		} else {
			d.logger.Warn("failed to close review ticket", "number", issue.Number)
			outcome.Failed = append(outcome.Failed, issue.Number)
		}
	}
	return outcome
}

func (d *Dispatcher) handleAlert(ctx context.Context, p Payload) Outcome {
	if !slices.Contains(alertActions, p.Action) {
		return ignored(fmt.Sprintf("alert action %q", p.Action))
	}

	alert := convertAlert(p.Alert)
	result := d.policy.Ensure(ctx, tickets.CodeQLTicket(alert, d.opts.CodeQLLabels))
	return Outcome{Route: RouteCodeScanning, Ticket: &result}
}

func convertAlert(a *gh.Alert) tickets.SecurityAlert {
	rule := a.GetRule()
	instance := a.GetMostRecentInstance()
	location := instance.GetLocation()
	return tickets.SecurityAlert{
		Number: a.GetNumber(),
		Rule: tickets.AlertRule{
			ID:          rule.GetID(),
			Severity:    rule.GetSeverity(),
			Description: rule.GetDescription(),
		},
		Location: tickets.AlertLocation{
			Path:      location.GetPath(),
			StartLine: location.GetStartLine(),
			EndLine:   location.GetEndLine(),
		},
		Message: instance.GetMessage().GetText(),
		URL:     a.GetHTMLURL(),
	}
}

func labelList(label string) []string {
	if label == "" {
		return nil
	}
	return []string{label}
}

func ignored(reason string) Outcome {
	return Outcome{Route: RouteIgnored, Reason: reason}
}
