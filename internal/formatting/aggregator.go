// Package formatting groups repository files into language categories and
// collects findings from a pluggable checker per category.
package formatting

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"issuemanager/internal/logging"
)

// Status of one category after a run
type Status string

const (
	StatusNoFiles Status = "no_files"
	StatusChecked Status = "checked"
)

// FindingCheckerError marks a finding produced when the checker itself failed
const FindingCheckerError = "checker_error"

// Finding is one problem reported by a checker
type Finding struct {
	File    string
	Type    string
	Message string
}

// Checker inspects a set of files of one category
type Checker interface {
	Check(ctx context.Context, files []string) ([]Finding, error)
}

// NopChecker accepts every file
type NopChecker struct{}

func (NopChecker) Check(ctx context.Context, files []string) ([]Finding, error) {
	return nil, nil
}

// CheckerFunc adapts a function to Checker
type CheckerFunc func(ctx context.Context, files []string) ([]Finding, error)

func (f CheckerFunc) Check(ctx context.Context, files []string) ([]Finding, error) {
	return f(ctx, files)
}

// Category is a named set of file extensions with its checker
type Category struct {
	Name       string
	Extensions []string
	Checker    Checker
}

// Matches reports whether file belongs to the category
func (c Category) Matches(file string) bool {
	return slices.Contains(c.Extensions, strings.ToLower(path.Ext(file)))
}

// DefaultCategories returns the built-in categories, all with NopChecker
func DefaultCategories() []Category {
	return []Category{
		{Name: "python_files", Extensions: []string{".py"}, Checker: NopChecker{}},
		{Name: "javascript_files", Extensions: []string{".js", ".ts"}, Checker: NopChecker{}},
		{Name: "go_files", Extensions: []string{".go"}, Checker: NopChecker{}},
	}
}

// FileLister enumerates candidate files
type FileLister interface {
	Files() ([]string, error)
}

// Result is the outcome for one category
type Result struct {
	Category   string
	Status     Status
	Files      []string
	TotalFiles int
	Issues     []Finding
}

// Report collects results in category order
type Report struct {
	Results []Result
}

// Issues returns every finding across categories
func (r Report) Issues() []Finding {
	var all []Finding
	for _, result := range r.Results {
		all = append(all, result.Issues...)
	}
	return all
}

// HasIssues reports whether any category produced a finding
func (r Report) HasIssues() bool {
	return len(r.Issues()) > 0
}

// Summary renders the report as markdown
func (r Report) Summary() string {
	title := cases.Title(language.English)
	lines := []string{"## Formatting Check Summary", ""}
	for _, result := range r.Results {
		name := title.String(strings.ReplaceAll(result.Category, "_", " "))
		if result.Status == StatusNoFiles {
			lines = append(lines, fmt.Sprintf("**%s**: no files found", name))
			continue
		}
		lines = append(lines, fmt.Sprintf("**%s**: %d files checked, %d issues found", name, result.TotalFiles, len(result.Issues)))
		for _, issue := range result.Issues {
			lines = append(lines, fmt.Sprintf("- %s: %s", orDefault(issue.File, "unknown"), orDefault(issue.Type, "format")))
		}
	}
	return strings.Join(lines, "\n")
}

// Aggregator runs each category's checker over the listed files
type Aggregator struct {
	lister     FileLister
	categories []Category
	logger     *slog.Logger
}

// NewAggregator creates an aggregator; nil categories means DefaultCategories
func NewAggregator(lister FileLister, categories []Category, logger *slog.Logger) *Aggregator {
	if categories == nil {
		categories = DefaultCategories()
	}
	return &Aggregator{
		lister:     lister,
		categories: categories,
		logger:     logging.OrDiscard(logger),
	}
}

// Run lists the files once and checks every category. A checker error is
// reported as a finding and does not stop other categories.
func (a *Aggregator) Run(ctx context.Context) (Report, error) {
	files, err := a.lister.Files()
	if err != nil {
		return Report{}, fmt.Errorf("failed to list files: %w", err)
	}
	a.logger.Debug("listed files", "count", len(files))

	report := Report{Results: make([]Result, 0, len(a.categories))}
	for _, category := range a.categories {
		report.Results = append(report.Results, a.check(ctx, category, files))
	}
	return report, nil
}

func (a *Aggregator) check(ctx context.Context, category Category, files []string) Result {
	var matched []string
	for _, file := range files {
		if category.Matches(file) {
			matched = append(matched, file)
		}
	}

	result := Result{Category: category.Name, Files: matched, TotalFiles: len(matched)}
	if len(matched) == 0 {
		result.Status = StatusNoFiles
		return result
	}

	result.Status = StatusChecked
	checker := category.Checker
	if checker == nil {
		checker = NopChecker{}
	}
	findings, err := checker.Check(ctx, matched)
	if err != nil {
		a.logger.Warn("checker failed", "category", category.Name, "error", err)
		result.Issues = []Finding{{File: category.Name, Type: FindingCheckerError, Message: err.Error()}}
		return result
	}
	result.Issues = findings
	return result
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
