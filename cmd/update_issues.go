package cmd

import (
	"github.com/spf13/cobra"

	"issuemanager/internal/updates"
)

var updatesFile string

var updateIssuesCmd = &cobra.Command{
	Use:   "update-issues",
	Short: "Apply a batch of issue operations from a file",
	Long: `Read a JSON array (or YAML list for .yml/.yaml files) of operations and
apply them in order. Only "create" is applied; "update" and "close" are
reported as unsupported. A missing or empty file means nothing to do.

File format:
  [{"action": "create", "title": "...", "body": "...", "labels": ["..."]}]`,
	Args: cobra.NoArgs,
	RunE: runUpdateIssues,
}

func init() {
	updateIssuesCmd.Flags().StringVar(&updatesFile, "file", "", "Path to the update file (default issue_updates.json)")
}

func runUpdateIssues(cmd *cobra.Command, args []string) error {
	rc, err := prepare(cmd)
	if err != nil {
		return err
	}

	path := updatesFile
	if path == "" {
		path = rc.cfg.Updates.File
	}

	report := updates.NewProcessor(rc.tracker, rc.logger).Process(cmd.Context(), path)
	if report.NothingToDo {
		rc.console.Warning("No issue updates to process in %s", path)
		return nil
	}

	for _, result := range report.Results {
		op := result.Operation
		switch result.Outcome {
		case updates.OutcomeCreated:
			rc.console.Success("created #%d %q", result.Issue.Number, op.Title)
		case updates.OutcomeExists:
			rc.console.Next("%q already exists", op.Title)
		case updates.OutcomeUnsupported:
			rc.console.Warning("action %q is not supported (%q)", op.Action, op.Title)
		case updates.OutcomeInvalid:
			rc.console.Warning("operation %d has no title", result.Index+1)
		default:
			rc.console.Error("failed to create %q", op.Title)
		}
	}

	rc.console.Println("")
	rc.console.Printf("Processed %d updates: %d created, %d existing, %d unsupported, %d failed\n",
		len(report.Results),
		report.Count(updates.OutcomeCreated),
		report.Count(updates.OutcomeExists),
		report.Count(updates.OutcomeUnsupported),
		report.Count(updates.OutcomeFailed)+report.Count(updates.OutcomeInvalid))
	return nil
}
