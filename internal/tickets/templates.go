package tickets

import (
	"fmt"
	"strconv"
	"strings"
)

const unknown = "unknown"

// FormattingTitle is the dedup key for the formatting report ticket
const FormattingTitle = "Formatting issues detected"

// ReviewComment is a pull request review comment left by the review bot
type ReviewComment struct {
	ID     int64
	Path   string
	Line   int
	Author string
	Body   string
	URL    string
}

// SecurityAlert is a code scanning alert
type SecurityAlert struct {
	Number   int
	Rule     AlertRule
	Location AlertLocation
	Message  string
	URL      string
}

type AlertRule struct {
	ID          string
	Severity    string
	Description string
}

type AlertLocation struct {
	Path      string
	StartLine int
	EndLine   int
}

// CopilotTitle is the dedup key for review comments on path
func CopilotTitle(path string) string {
	return "Copilot Review: " + orUnknown(path)
}

// CodeQLTitle is the dedup key for a security alert
func CodeQLTitle(number int) string {
	return "CodeQL Security Alert #" + intOrUnknown(number)
}

// CopilotMarker is the hidden marker correlating a ticket with its comment
func CopilotMarker(commentID int64) string {
	id := unknown
	if commentID != 0 {
		id = strconv.FormatInt(commentID, 10)
	}
	return fmt.Sprintf("<!-- copilot-data: %s -->", id)
}

// CodeQLMarker is the hidden marker correlating a ticket with its alert
func CodeQLMarker(number int) string {
	return fmt.Sprintf("<!-- codeql-alert: %s -->", intOrUnknown(number))
}

// CopilotTicket builds the ticket for a bot review comment
func CopilotTicket(c ReviewComment, labels []string) Ticket {
	lines := []string{
		"## Copilot Review Comment",
		"",
		"**File:** " + orUnknown(c.Path),
		"**Line:** " + intOrUnknown(c.Line),
		"**URL:** " + orUnknown(c.URL),
		"",
		"### Comment:",
		StripHTMLComments(c.Body),
		"",
		CopilotMarker(c.ID),
	}
	return Ticket{
		Title:  CopilotTitle(c.Path),
		Body:   strings.Join(lines, "\n"),
		Labels: labels,
	}
}

// CodeQLTicket builds the ticket for a code scanning alert
func CodeQLTicket(a SecurityAlert, labels []string) Ticket {
	description := a.Rule.Description
	if description == "" {
		description = "No description available"
	}
	message := a.Message
	if message == "" {
		message = "No message available"
	}

	lines := []string{
		fmt.Sprintf("## CodeQL Security Alert #%s", intOrUnknown(a.Number)),
		"",
		"**Rule:** " + orUnknown(a.Rule.ID),
		"**Severity:** " + orUnknown(a.Rule.Severity),
		"**File:** " + orUnknown(a.Location.Path),
		fmt.Sprintf("Lines: %s-%s", intOrUnknown(a.Location.StartLine), intOrUnknown(a.Location.EndLine)),
		"",
		"### Description:",
		description,
		"",
		"### Message:",
		message,
		"",
		"**Alert URL:** " + orUnknown(a.URL),
		"",
		CodeQLMarker(a.Number),
	}
	return Ticket{
		Title:  CodeQLTitle(a.Number),
		Body:   strings.Join(lines, "\n"),
		Labels: labels,
	}
}

// FormattingTicket wraps a formatting summary in a ticket
func FormattingTicket(summary string, labels []string) Ticket {
	return Ticket{
		Title:  FormattingTitle,
		Body:   summary,
		Labels: labels,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}

func intOrUnknown(n int) string {
	if n == 0 {
		return unknown
	}
	return strconv.Itoa(n)
}
