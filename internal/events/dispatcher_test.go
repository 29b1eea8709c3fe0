package events

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"issuemanager/internal/github"
	"issuemanager/internal/tickets"
)

func testOptions() Options {
	return Options{
		BotLogins:    []string{"github-copilot[bot]"},
		CopilotLabel: "copilot-review",
		CodeQLLabels: []string{"codeql", "security"},
	}
}

const copilotCommentEvent = `{
  "action": "created",
  "comment": {
    "id": 42,
    "path": "src/test.py",
    "line": 10,
    "body": "This needs improvement",
    "html_url": "https://github.com/o/r/pull/1#discussion_r42",
    "user": {"login": "github-copilot[bot]"}
  },
  "pull_request": {"number": 1, "merged": false}
}`

func TestDispatch_CopilotCommentCreatesTicket(t *testing.T) {
	mock := github.NewMockTracker()
	d := NewDispatcher(mock, testOptions(), nil)

	outcome := d.Dispatch(context.Background(), []byte(copilotCommentEvent))

	assert.Equal(t, RouteReviewComment, outcome.Route)
	require.NotNil(t, outcome.Ticket)
	assert.Equal(t, tickets.OutcomeCreated, outcome.Ticket.Outcome)

	require.Len(t, mock.CreateCalls, 1)
	call := mock.CreateCalls[0]
	assert.Equal(t, "Copilot Review: src/test.py", call.Title)
	assert.Equal(t, []string{"copilot-review"}, call.Labels)
	assert.Contains(t, call.Body, "This needs improvement")
	assert.Contains(t, call.Body, "<!-- copilot-data: 42 -->")
}

func TestDispatch_RepeatedCommentDoesNotDuplicate(t *testing.T) {
	mock := github.NewMockTracker()
	d := NewDispatcher(mock, testOptions(), nil)

	d.Dispatch(context.Background(), []byte(copilotCommentEvent))
	outcome := d.Dispatch(context.Background(), []byte(copilotCommentEvent))

	assert.Equal(t, tickets.OutcomeExists, outcome.Ticket.Outcome)
	assert.Len(t, mock.CreateCalls, 1)
}

func TestDispatch_IgnoresHumanComment(t *testing.T) {
	mock := github.NewMockTracker()
	d := NewDispatcher(mock, testOptions(), nil)

	outcome := d.Dispatch(context.Background(), []byte(`{
	  "action": "created",
	  "comment": {"id": 1, "path": "a.go", "body": "lgtm", "user": {"login": "octocat"}},
	  "pull_request": {"number": 1}
	}`))

	assert.Equal(t, RouteIgnored, outcome.Route)
	assert.Empty(t, mock.SearchCalls)
	assert.Empty(t, mock.CreateCalls)
}

func TestDispatch_IgnoresEditedComment(t *testing.T) {
	mock := github.NewMockTracker()
	d := NewDispatcher(mock, testOptions(), nil)

	outcome := d.Dispatch(context.Background(), []byte(`{
	  "action": "edited",
	  "comment": {"id": 1, "path": "a.go", "user": {"login": "github-copilot[bot]"}},
	  "pull_request": {"number": 1}
	}`))

	assert.Equal(t, RouteIgnored, outcome.Route)
	assert.Empty(t, mock.CreateCalls)
}

func TestDispatch_MergedPullRequestClosesReviewTickets(t *testing.T) {
	mock := github.NewMockTracker()
	mock.AddIssues(
		github.Issue{Number: 10, Title: "Copilot Review: a.go", Labels: []string{"copilot-review"}},
		github.Issue{Number: 11, Title: "Copilot Review: b.go", Labels: []string{"copilot-review"}},
		github.Issue{Number: 12, Title: "Unrelated", Labels: []string{"bug"}},
	)
	d := NewDispatcher(mock, testOptions(), nil)

	outcome := d.Dispatch(context.Background(), []byte(`{"action": "closed", "pull_request": {"number": 3, "merged": true}}`))

	assert.Equal(t, RoutePullRequest, outcome.Route)
	assert.Equal(t, []string{"label:copilot-review state:open"}, mock.SearchCalls)
	assert.Equal(t, []int{10, 11}, outcome.Closed)
	assert.Empty(t, outcome.Failed)
	for _, call := range mock.CloseCalls {
		assert.Equal(t, MergedCloseReason, call.Reason)
	}
}

func TestDispatch_MergedPullRequestReportsCloseFailures(t *testing.T) {
	mock := github.NewMockTracker()
	mock.AddIssues(
		github.Issue{Number: 10, Title: "Copilot Review: a.go", Labels: []string{"copilot-review"}},
		github.Issue{Number: 11, Title: "Copilot Review: b.go", Labels: []string{"copilot-review"}},
	)
	mock.SetCloseFailure(10)
	d := NewDispatcher(mock, testOptions(), nil)

	outcome := d.Dispatch(context.Background(), []byte(`{"action": "closed", "pull_request": {"merged": true}}`))

	assert.Equal(t, []int{11}, outcome.Closed)
	assert.Equal(t, []int{10}, outcome.Failed)
}

func TestDispatch_UnmergedCloseIsIgnored(t *testing.T) {
	mock := github.NewMockTracker()
	d := NewDispatcher(mock, testOptions(), nil)

	outcome := d.Dispatch(context.Background(), []byte(`{"action": "closed", "pull_request": {"merged": false}}`))

	assert.Equal(t, RouteIgnored, outcome.Route)
	assert.Empty(t, mock.SearchCalls)
	assert.Empty(t, mock.CloseCalls)
}

func TestDispatch_CodeScanningAlertCreatesTicket(t *testing.T) {
	mock := github.NewMockTracker()
	d := NewDispatcher(mock, testOptions(), nil)

	outcome := d.Dispatch(context.Background(), []byte(`{
	  "action": "created",
	  "alert": {
	    "number": 123,
	    "html_url": "https://github.com/o/r/security/code-scanning/123",
	    "rule": {"id": "py/sql-injection", "severity": "error", "description": "SQL injection"},
	    "most_recent_instance": {
	      "location": {"path": "app.py", "start_line": 10, "end_line": 15},
	      "message": {"text": "Query built from user input"}
	    }
	  }
	}`))

	assert.Equal(t, RouteCodeScanning, outcome.Route)
	require.Len(t, mock.CreateCalls, 1)
	call := mock.CreateCalls[0]
	assert.Equal(t, "CodeQL Security Alert #123", call.Title)
	assert.Equal(t, []string{"codeql", "security"}, call.Labels)
	assert.Contains(t, call.Body, "**Rule:** py/sql-injection")
	assert.Contains(t, call.Body, "Lines: 10-15")
	assert.Contains(t, call.Body, "Query built from user input")
}

func TestDispatch_FixedAlertIsIgnored(t *testing.T) {
	mock := github.NewMockTracker()
	d := NewDispatcher(mock, testOptions(), nil)

	outcome := d.Dispatch(context.Background(), []byte(`{"action": "fixed", "alert": {"number": 1, "rule": {"id": "go/sql-injection"}}}`))

	assert.Equal(t, RouteIgnored, outcome.Route)
	assert.Empty(t, mock.CreateCalls)
}

func TestDispatch_BotCommentOutsidePullRequestIsIgnored(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{
			name: "issue comment",
			payload: `{"action": "created", "issue": {"number": 7},
			  "comment": {"id": 5, "body": "hi", "user": {"login": "github-copilot[bot]"}}}`,
		},
		{
			name: "commit comment",
			payload: `{"action": "created",
			  "comment": {"id": 6, "path": "a.go", "body": "hi", "commit_id": "abc", "user": {"login": "github-copilot[bot]"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := github.NewMockTracker()
			d := NewDispatcher(mock, testOptions(), nil)

			outcome := d.Dispatch(context.Background(), []byte(tt.payload))

			assert.Equal(t, RouteIgnored, outcome.Route)
			assert.Empty(t, mock.SearchCalls)
			assert.Empty(t, mock.CreateCalls)
		})
	}
}

func TestDispatch_NonCodeScanningAlertsAreIgnored(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{
			name: "dependabot alert",
			payload: `{"action": "created", "alert": {"number": 3,
			  "dependency": {"package": {"ecosystem": "npm", "name": "lodash"}},
			  "security_advisory": {"ghsa_id": "GHSA-xxxx-xxxx-xxxx", "severity": "high"}}}`,
		},
		{
			name:    "secret scanning alert",
			payload: `{"action": "created", "alert": {"number": 9, "secret_type": "github_personal_access_token"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := github.NewMockTracker()
			d := NewDispatcher(mock, testOptions(), nil)

			outcome := d.Dispatch(context.Background(), []byte(tt.payload))

			assert.Equal(t, RouteIgnored, outcome.Route)
			assert.Empty(t, mock.SearchCalls)
			assert.Empty(t, mock.CreateCalls)
		})
	}
}

func TestDispatch_UnknownAndMalformedPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "unknown event", payload: `{"action": "opened", "issue": {"number": 1}}`},
		{name: "empty object", payload: `{}`},
		{name: "malformed json", payload: `{"action": `},
		{name: "not an object", payload: `[1, 2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := github.NewMockTracker()
			d := NewDispatcher(mock, testOptions(), nil)

			outcome := d.Dispatch(context.Background(), []byte(tt.payload))

			assert.Equal(t, RouteIgnored, outcome.Route)
			assert.NotEmpty(t, outcome.Reason)
			assert.Empty(t, mock.CreateCalls)
			assert.Empty(t, mock.CloseCalls)
		})
	}
}

func TestDispatchFile(t *testing.T) {
	mock := github.NewMockTracker()
	d := NewDispatcher(mock, testOptions(), nil)

	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(copilotCommentEvent), 0o600))

	outcome := d.DispatchFile(context.Background(), path)

	assert.Equal(t, RouteReviewComment, outcome.Route)
	assert.Len(t, mock.CreateCalls, 1)
}

func TestDispatchFile_MissingPayload(t *testing.T) {
	mock := github.NewMockTracker()
	d := NewDispatcher(mock, testOptions(), nil)

	assert.Equal(t, RouteIgnored, d.DispatchFile(context.Background(), "").Route)
	assert.Equal(t, RouteIgnored, d.DispatchFile(context.Background(), filepath.Join(t.TempDir(), "missing.json")).Route)
	assert.Empty(t, mock.SearchCalls)
}
