// Package tickets files issues for detected conditions without filing the same
// condition twice.
//
// Every ticket has a deterministic title that doubles as its deduplication key.
// Before creating, the policy searches the tracker for an issue with exactly
// that title and skips creation when one exists. The check and the create are
// separate calls, so two runs that overlap can both pass the check; this is a
// best-effort guarantee, not exactly-once filing.
package tickets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"issuemanager/internal/github"
	"issuemanager/internal/logging"
)

// Outcome describes what Ensure did with a ticket
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeExists  Outcome = "exists"
	OutcomeFailed  Outcome = "failed"
	OutcomeInvalid Outcome = "invalid"
)

// Ticket is an issue the system wants to exist. Title is the dedup key.
type Ticket struct {
	Title  string
	Body   string
	Labels []string
}

// Result reports the outcome of one Ensure call
type Result struct {
	Outcome  Outcome
	Title    string
	Issue    *github.Issue  // set when created
	Existing []github.Issue // set when a matching issue already exists
}

// Message renders a one-line, user-facing description of the result
func (r Result) Message() string {
	switch r.Outcome {
	case OutcomeCreated:
		return fmt.Sprintf("created #%d %q", r.Issue.Number, r.Title)
	case OutcomeExists:
		return fmt.Sprintf("already exists as #%d %q", r.Existing[0].Number, r.Title)
	case OutcomeInvalid:
		return "skipped ticket without a title"
	default:
		return fmt.Sprintf("failed to create %q", r.Title)
	}
}

// Policy applies search-before-create against a tracker
type Policy struct {
	tracker github.Tracker
	logger  *slog.Logger
}

// NewPolicy creates a policy bound to one tracker client
func NewPolicy(tracker github.Tracker, logger *slog.Logger) *Policy {
	return &Policy{
		tracker: tracker,
		logger:  logging.OrDiscard(logger),
	}
}

// SearchQuery returns the tracker query used to look a key up
func SearchQuery(key string) string {
	return fmt.Sprintf("%q in:title is:issue", key)
}

// Ensure creates the ticket unless an issue with the same title exists.
// A failed search counts as "nothing found".
func (p *Policy) Ensure(ctx context.Context, t Ticket) Result {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return Result{Outcome: OutcomeInvalid}
	}

	if existing := p.FindExisting(ctx, title); len(existing) > 0 {
		p.logger.Info("ticket already exists", "title", title, "number", existing[0].Number)
		return Result{Outcome: OutcomeExists, Title: title, Existing: existing}
	}

	issue, ok := p.tracker.CreateIssue(ctx, title, t.Body, t.Labels)
	if !ok {
		p.logger.Warn("ticket creation failed", "title", title)
		return Result{Outcome: OutcomeFailed, Title: title}
	}

	p.logger.Info("ticket created", "title", title, "number", issue.Number)
	return Result{Outcome: OutcomeCreated, Title: title, Issue: issue}
}

// FindExisting returns issues whose title equals key exactly. Search matches
// loosely, so results are filtered client-side.
func (p *Policy) FindExisting(ctx context.Context, key string) []github.Issue {
	var matches []github.Issue
	for _, issue := range p.tracker.SearchIssues(ctx, SearchQuery(key)) {
		if issue.Title == key {
			matches = append(matches, issue)
		}
	}
	return matches
}
