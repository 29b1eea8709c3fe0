package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"issuemanager/internal/duplicates"
	"issuemanager/internal/ui"
)

var dryRun bool

var closeDuplicatesCmd = &cobra.Command{
	Use:   "close-duplicates",
	Short: "Close open issues that duplicate an older issue's title",
	Long: `Group open issues by exact title and close every issue except the
lowest-numbered one in each group.

Use --dry-run to list the duplicates without changing anything.`,
	Args: cobra.NoArgs,
	RunE: runCloseDuplicates,
}

func init() {
	closeDuplicatesCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report duplicates without closing them")
}

func runCloseDuplicates(cmd *cobra.Command, args []string) error {
	rc, err := prepare(cmd)
	if err != nil {
		return err
	}

	consolidator := duplicates.NewConsolidator(rc.tracker, rc.logger, rc.cfg.Duplicates.Comment)
	report := consolidator.Run(cmd.Context(), dryRun)

	if report.Count() == 0 {
		rc.console.Success("No duplicate issues found")
		return nil
	}

	rows := make([][]string, 0, report.Count())
	for _, d := range report.Duplicates {
		rows = append(rows, []string{fmt.Sprintf("#%d", d.Number), fmt.Sprintf("#%d", d.Survivor), d.Title})
	}
	rc.console.Println(ui.SectionDivider("Duplicate issues"))
	rc.console.Print(ui.Table([]string{"Issue", "Survivor", "Title"}, rows))
	rc.console.Println("")

	if report.DryRun {
		rc.console.Next("Would close %d duplicate issues", report.Count())
		return nil
	}

	failed := report.Failed()
	for _, d := range failed {
		rc.console.Error("failed to close #%d", d.Number)
	}
	rc.console.Success("Closed %d of %d duplicate issues", report.Count()-len(failed), report.Count())
	return nil
}
