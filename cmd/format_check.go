package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"issuemanager/internal/formatting"
	"issuemanager/internal/git"
	"issuemanager/internal/tickets"
)

// File enumeration and categories used by format-check. Tests replace them.
var (
	newFileLister = func() formatting.FileLister {
		return git.NewLister(".")
	}
	formatCategories = formatting.DefaultCategories
)

var formatCheckCmd = &cobra.Command{
	Use:   "format-check",
	Short: "Check repository formatting and file a ticket for findings",
	Long: `Group the repository's tracked files by language, run each category's
checker and print a summary. When findings exist a single
"Formatting issues detected" ticket is filed unless one already exists.`,
	Args: cobra.NoArgs,
	RunE: runFormatCheck,
}

func runFormatCheck(cmd *cobra.Command, args []string) error {
	rc, err := prepare(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	report, err := formatting.NewAggregator(newFileLister(), formatCategories(), rc.logger).Run(ctx)
	if err != nil {
		return fmt.Errorf("format check failed: %w", err)
	}

	for _, result := range report.Results {
		if result.Status == formatting.StatusNoFiles {
			rc.console.Next("%s: no files", result.Category)
			continue
		}
		rc.console.Success("%s: %d files checked, %d issues", result.Category, result.TotalFiles, len(result.Issues))
	}

	if !report.HasIssues() {
		rc.console.Success("Format check completed, no issues found")
		return nil
	}
	if !rc.cfg.Formatting.FileIssue {
		rc.console.Warning("%d formatting issues found, ticket filing disabled", len(report.Issues()))
		return nil
	}

	ticket := tickets.FormattingTicket(report.Summary(), labelList(rc.cfg.Formatting.Label))
	result := tickets.NewPolicy(rc.tracker, rc.logger).Ensure(ctx, ticket)
	printTicketResult(rc, result)
	return nil
}

func printTicketResult(rc *runContext, result tickets.Result) {
	switch result.Outcome {
	case tickets.OutcomeCreated:
		rc.console.Success("%s", result.Message())
	case tickets.OutcomeExists:
		rc.console.Next("%s", result.Message())
	case tickets.OutcomeInvalid:
		rc.console.Warning("%s", result.Message())
	default:
		rc.console.Error("%s", result.Message())
	}
}
