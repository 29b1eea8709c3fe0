package github

import "context"

// Tracker defines the issue operations the policy layer depends on.
// Implementations swallow transport errors: failures surface as nil, false or
// an empty slice. No implementation deduplicates on its own.
type Tracker interface {
	CreateIssue(ctx context.Context, title, body string, labels []string) (*Issue, bool)
	SearchIssues(ctx context.Context, query string) []Issue
	CloseIssue(ctx context.Context, number int, reason string) bool
	AddComment(ctx context.Context, number int, text string) bool
	ListIssues(ctx context.Context, state string) []Issue
}

// AccessChecker verifies that the configured credential can reach the repository
type AccessChecker interface {
	CheckAccess(ctx context.Context) error
}

// TrackerClient is the full capability set the CLI constructs once per run
type TrackerClient interface {
	Tracker
	AccessChecker
}

// Ensure Client implements TrackerClient
var _ TrackerClient = (*Client)(nil)

// Ensure MockTracker implements TrackerClient
var _ TrackerClient = (*MockTracker)(nil)
