package cmd

import (
	"github.com/spf13/cobra"

	"issuemanager/internal/events"
)

var eventHandlerCmd = &cobra.Command{
	Use:   "event-handler",
	Short: "Handle the webhook event in GITHUB_EVENT_PATH",
	Long: `Route the current workflow's event payload:

  review comment by the review bot   -> file a "Copilot Review: <path>" ticket
  pull request closed and merged     -> close open review tickets
  code scanning alert created/reopened -> file a "CodeQL Security Alert #N" ticket

Any other event is ignored.`,
	Args: cobra.NoArgs,
	RunE: runEventHandler,
}

func runEventHandler(cmd *cobra.Command, args []string) error {
	rc, err := prepare(cmd)
	if err != nil {
		return err
	}

	dispatcher := events.NewDispatcher(rc.tracker, events.Options{
		BotLogins:    rc.cfg.Copilot.BotLogins,
		CopilotLabel: rc.cfg.Copilot.Label,
		CodeQLLabels: rc.cfg.CodeQL.Labels,
	}, rc.logger)

	outcome := dispatcher.DispatchFile(cmd.Context(), rc.cfg.EventPath)
	switch outcome.Route {
	case events.RouteIgnored:
		rc.console.Next("Event ignored: %s", outcome.Reason)
	case events.RoutePullRequest:
		rc.console.Success("Closed %d review tickets", len(outcome.Closed))
		for _, number := range outcome.Failed {
			rc.console.Error("failed to close #%d", number)
		}
	default:
		printTicketResult(rc, *outcome.Ticket)
	}
	return nil
}
