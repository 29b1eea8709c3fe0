package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"issuemanager/internal/config"
	"issuemanager/internal/github"
	"issuemanager/internal/logging"
	"issuemanager/internal/ui"
)

// newTracker builds the tracker client for a run. Tests replace it.
var newTracker = func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (github.TrackerClient, error) {
	return github.NewClient(ctx, github.Options{
		Token:      cfg.Token,
		Repository: cfg.Repository,
		BaseURL:    cfg.APIURL,
		Timeout:    cfg.Timeout,
		Logger:     logger,
	})
}

// runContext holds what every tracker-backed command needs
type runContext struct {
	cfg     *config.Config
	logger  *slog.Logger
	tracker github.TrackerClient
	console *ui.Console
}

// prepare loads and validates configuration, then verifies repository access.
// Nothing reaches the network before validation passes.
func prepare(cmd *cobra.Command) (*runContext, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.LogLevel).With("command", cmd.Name())
	ctx := cmd.Context()

	tracker, err := newTracker(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := tracker.CheckAccess(ctx); err != nil {
		return nil, err
	}
	logger.Debug("repository access verified", "repo", cfg.Repository)

	ui.ConfigureColor(cmd.OutOrStdout())
	return &runContext{
		cfg:     cfg,
		logger:  logger,
		tracker: tracker,
		console: ui.NewConsole(cmd.OutOrStdout()),
	}, nil
}

func labelList(label string) []string {
	if label == "" {
		return nil
	}
	return []string{label}
}
