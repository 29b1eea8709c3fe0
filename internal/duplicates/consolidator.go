// Package duplicates closes issues that share an exact title with an older
// issue. The lowest-numbered issue of each title group survives.
package duplicates

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"issuemanager/internal/github"
	"issuemanager/internal/logging"
)

// OpenIssuesQuery selects the candidates for consolidation
const OpenIssuesQuery = "is:issue state:open"

// CloseReason is passed to the tracker for every duplicate closure
const CloseReason = "duplicate"

// TitleGroup holds every issue sharing one exact, case-sensitive title
type TitleGroup struct {
	Title  string
	Issues []github.Issue // ascending by number
}

// Survivor returns the issue that stays open
func (g TitleGroup) Survivor() github.Issue {
	return g.Issues[0]
}

// Duplicates returns every member except the survivor
func (g TitleGroup) Duplicates() []github.Issue {
	return g.Issues[1:]
}

// Decision records what happened to one duplicate
type Decision struct {
	Number   int
	Title    string
	Survivor int
	Closed   bool
}

// Report is the result of one consolidation pass
type Report struct {
	Groups     []TitleGroup
	Duplicates []Decision
	DryRun     bool
}

// Count is the number of duplicates identified (dry run) or attempted (live)
func (r Report) Count() int {
	return len(r.Duplicates)
}

// Failed lists live closures the tracker rejected
func (r Report) Failed() []Decision {
	if r.DryRun {
		return nil
	}
	var failed []Decision
	for _, d := range r.Duplicates {
		if !d.Closed {
			failed = append(failed, d)
		}
	}
	return failed
}

// GroupByTitle partitions issues by exact title. Every issue lands in exactly
// one group.
func GroupByTitle(issues []github.Issue) map[string][]github.Issue {
	grouped := make(map[string][]github.Issue)
	for _, issue := range issues {
		grouped[issue.Title] = append(grouped[issue.Title], issue)
	}
	return grouped
}

// Groups returns the title groups ordered by survivor number, members ascending
func Groups(issues []github.Issue) []TitleGroup {
	grouped := GroupByTitle(issues)

	groups := make([]TitleGroup, 0, len(grouped))
	for title, members := range grouped {
		sorted := append([]github.Issue(nil), members...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Number < sorted[j].Number
		})
		groups = append(groups, TitleGroup{Title: title, Issues: sorted})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Survivor().Number < groups[j].Survivor().Number
	})
	return groups
}

// Consolidator closes duplicates through a tracker
type Consolidator struct {
	tracker        github.Tracker
	logger         *slog.Logger
	commentOnClose bool
}

// NewConsolidator creates a consolidator. When commentOnClose is set, each
// duplicate gets a pointer to its survivor before being closed.
func NewConsolidator(tracker github.Tracker, logger *slog.Logger, commentOnClose bool) *Consolidator {
	return &Consolidator{
		tracker:        tracker,
		logger:         logging.OrDiscard(logger),
		commentOnClose: commentOnClose,
	}
}

// Run fetches the open issues and consolidates them
func (c *Consolidator) Run(ctx context.Context, dryRun bool) Report {
	issues := c.tracker.SearchIssues(ctx, OpenIssuesQuery)
	c.logger.Debug("fetched open issues", "count", len(issues))
	return c.Consolidate(ctx, issues, dryRun)
}

// Consolidate closes every non-survivor in each title group. In dry-run mode
// nothing is written and the same duplicates are reported. A failed closure
// is recorded and the pass continues.
func (c *Consolidator) Consolidate(ctx context.Context, issues []github.Issue, dryRun bool) Report {
	report := Report{DryRun: dryRun}
	if len(issues) == 0 {
		return report
	}

	for _, group := range Groups(issues) {
		if len(group.Issues) < 2 {
			continue
		}
		report.Groups = append(report.Groups, group)
		survivor := group.Survivor().Number

		for _, dup := range group.Duplicates() {
			decision := Decision{Number: dup.Number, Title: group.Title, Survivor: survivor}
			if dryRun {
				c.logger.Info("would close duplicate", "number", dup.Number, "survivor", survivor)
				report.Duplicates = append(report.Duplicates, decision)
				continue
			}

			if c.commentOnClose {
				if !c.tracker.AddComment(ctx, dup.Number, DuplicateComment(survivor)) {
					c.logger.Warn("duplicate comment failed", "number", dup.Number)
				}
			}
			decision.Closed = c.tracker.CloseIssue(ctx, dup.Number, CloseReason)
			if decision.Closed {
				c.logger.Info("closed duplicate", "number", dup.Number, "survivor", survivor)
			} else {
				c.logger.Warn("failed to close duplicate", "number", dup.Number, "survivor", survivor)
			}
			report.Duplicates = append(report.Duplicates, decision)
		}
	}
	return report
}

// DuplicateComment is posted on a duplicate before it is closed
func DuplicateComment(survivor int) string {
	return fmt.Sprintf("Closing as duplicate of #%d", survivor)
}
