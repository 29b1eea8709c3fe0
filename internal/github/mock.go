package github

import (
	"context"
	"regexp"
	"sort"
	"strings"
)

// CloseCall records a CloseIssue invocation
type CloseCall struct {
	Number int
	Reason string
}

// CommentCall records an AddComment invocation
type CommentCall struct {
	Number int
	Text   string
}

// CreateCall records a CreateIssue invocation
type CreateCall struct {
	Title  string
	Body   string
	Labels []string
}

// MockTracker provides an in-memory tracker for testing. Created issues become
// visible to later searches, so search-before-create flows can be exercised end
// to end.
type MockTracker struct {
	issues     map[int]*Issue
	nextNumber int

	// Error control
	accessError error
	failCreate  bool
	failSearch  bool
	failClose   map[int]bool
	failComment bool

	// Canned search responses keyed by exact query
	searchResults map[string][]Issue

	// Call tracking
	CreateCalls      []CreateCall
	SearchCalls      []string
	CloseCalls       []CloseCall
	CommentCalls     []CommentCall
	ListCalls        []string
	CheckAccessCalls int
}

// NewMockTracker creates an empty mock tracker
func NewMockTracker() *MockTracker {
	return &MockTracker{
		issues:        make(map[int]*Issue),
		nextNumber:    1,
		failClose:     make(map[int]bool),
		searchResults: make(map[string][]Issue),
	}
}

// Configuration methods

// AddIssues seeds the tracker. Missing states default to open.
func (m *MockTracker) AddIssues(issues ...Issue) {
	for _, issue := range issues {
		issue := issue
		if issue.State == "" {
			issue.State = "open"
		}
		m.issues[issue.Number] = &issue
		if issue.Number >= m.nextNumber {
			m.nextNumber = issue.Number + 1
		}
	}
}

// SetSearchResults fixes the response for an exact query string
func (m *MockTracker) SetSearchResults(query string, issues []Issue) {
	m.searchResults[query] = issues
}

func (m *MockTracker) SetAccessError(err error) {
	m.accessError = err
}

func (m *MockTracker) SetCreateFailure(fail bool) {
	m.failCreate = fail
}

func (m *MockTracker) SetSearchFailure(fail bool) {
	m.failSearch = fail
}

func (m *MockTracker) SetCommentFailure(fail bool) {
	m.failComment = fail
}

// SetCloseFailure makes CloseIssue fail for the given numbers
func (m *MockTracker) SetCloseFailure(numbers ...int) {
	for _, n := range numbers {
		m.failClose[n] = true
	}
}

// Issue returns the current state of a tracked issue
func (m *MockTracker) Issue(number int) (Issue, bool) {
	issue, ok := m.issues[number]
	if !ok {
		return Issue{}, false
	}
	return *issue, true
}

// ClosedNumbers returns the numbers passed to CloseIssue in call order
func (m *MockTracker) ClosedNumbers() []int {
	numbers := make([]int, 0, len(m.CloseCalls))
	for _, call := range m.CloseCalls {
		numbers = append(numbers, call.Number)
	}
	return numbers
}

// TrackerClient implementation

func (m *MockTracker) CheckAccess(ctx context.Context) error {
	m.CheckAccessCalls++
	return m.accessError
}

func (m *MockTracker) CreateIssue(ctx context.Context, title, body string, labels []string) (*Issue, bool) {
	m.CreateCalls = append(m.CreateCalls, CreateCall{Title: title, Body: body, Labels: labels})
	if m.failCreate {
		return nil, false
	}

	issue := &Issue{
		Number: m.nextNumber,
		Title:  title,
		State:  "open",
		Labels: append([]string(nil), labels...),
	}
	m.issues[issue.Number] = issue
	m.nextNumber++

	result := *issue
	return &result, true
}

func (m *MockTracker) SearchIssues(ctx context.Context, query string) []Issue {
	m.SearchCalls = append(m.SearchCalls, query)
	if m.failSearch {
		return []Issue{}
	}
	if canned, ok := m.searchResults[query]; ok {
		return canned
	}

	result := []Issue{}
	for _, issue := range m.sortedIssues() {
		if matchesQuery(query, issue) {
			result = append(result, issue)
		}
	}
	return result
}

func (m *MockTracker) CloseIssue(ctx context.Context, number int, reason string) bool {
	m.CloseCalls = append(m.CloseCalls, CloseCall{Number: number, Reason: reason})
	if m.failClose[number] {
		return false
	}
	if issue, ok := m.issues[number]; ok {
		issue.State = "closed"
	}
	return true
}

func (m *MockTracker) AddComment(ctx context.Context, number int, text string) bool {
	m.CommentCalls = append(m.CommentCalls, CommentCall{Number: number, Text: text})
	return !m.failComment
}

func (m *MockTracker) ListIssues(ctx context.Context, state string) []Issue {
	m.ListCalls = append(m.ListCalls, state)
	result := []Issue{}
	for _, issue := range m.sortedIssues() {
		if state == "all" || state == "" || issue.State == state {
			result = append(result, issue)
		}
	}
	return result
}



func (m *MockTracker) sortedIssues() []Issue {
	issues := make([]Issue, 0, len(m.issues))
	for _, issue := range m.issues {
		issues = append(issues, *issue)
	}
	sort.Slice(issues, func(i, j int) bool {
		return issues[i].Number < issues[j].Number
	})
	return issues
}

var quotedPhraseRegex = regexp.MustCompile(`"([^"]*)"`)

// matchesQuery understands the subset of GitHub search syntax the policy layer
// emits: quoted title phrases, label:, state: and free words.
func matchesQuery(query string, issue Issue) bool {
	for _, phrase := range quotedPhraseRegex.FindAllStringSubmatch(query, -1) {
		if !strings.Contains(issue.Title, phrase[1]) {
			return false
		}
	}

	rest := quotedPhraseRegex.ReplaceAllString(query, " ")
	for _, term := range strings.Fields(rest) {
		switch {
		case strings.HasPrefix(term, "label:"):
			if !issue.HasLabel(strings.TrimPrefix(term, "label:")) {
				return false
			}
		case strings.HasPrefix(term, "state:"):
			if issue.State != strings.TrimPrefix(term, "state:") {
				return false
			}
		case strings.HasPrefix(term, "in:"), strings.HasPrefix(term, "is:"), strings.HasPrefix(term, "repo:"):
			// qualifiers without an in-memory meaning
		default:
			if !strings.Contains(issue.Title, term) {
				return false
			}
		}
	}
	return true
}
