package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// Version information (set at build time)
var (
	appVersion    = "dev"
	appCommitHash = "unknown"
	appBuildDate  = "unknown"
)

// Persistent flags
var (
	configPath string
	logLevel   string
)

// SetVersionInfo sets the version information from build-time variables
func SetVersionInfo(version, commitHash, buildDate string) {
	appVersion = version
	appCommitHash = commitHash
	appBuildDate = buildDate
}

var rootCmd = &cobra.Command{
	Use:   "issue-manager",
	Short: "Keep a repository's issue tracker free of duplicate tickets",
	Long: `issue-manager files and closes GitHub issues from CI events without
filing the same condition twice.

Examples:
  issue-manager format-check              # File a ticket for formatting findings
  issue-manager update-issues             # Apply issue_updates.json
  issue-manager event-handler             # Handle the event in GITHUB_EVENT_PATH
  issue-manager close-duplicates --dry-run  # Show duplicates without closing them

Environment:
  GH_TOKEN           credential presented to the GitHub API
  REPO               repository as owner/name (falls back to GITHUB_REPOSITORY)
  GITHUB_EVENT_PATH  webhook payload read by event-handler
  GITHUB_API_URL     API base URL for GitHub Enterprise`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command; an interrupt cancels in-flight API calls
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config file (default .github/issue-manager.yml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(closeDuplicatesCmd)
	rootCmd.AddCommand(eventHandlerCmd)
	rootCmd.AddCommand(formatCheckCmd)
	rootCmd.AddCommand(updateIssuesCmd)
	rootCmd.AddCommand(versionCmd)
}
