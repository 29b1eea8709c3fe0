package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"issuemanager/internal/config"
	"issuemanager/internal/github"
)

// setTestEnv provides a valid configuration and isolates the run from the
// CI environment the tests may be running in
func setTestEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvToken, "ghp_test")
	t.Setenv(config.EnvRepository, "owner/name")
	t.Setenv(config.EnvActionsRepository, "")
	t.Setenv(config.EnvEventPath, "")
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvLogLevel, "")
}

// useMockTracker makes every command in the test talk to mock. The returned
// counter reports how many times a client was constructed.
func useMockTracker(t *testing.T, mock *github.MockTracker) *int {
	t.Helper()
	built := 0
	original := newTracker
	newTracker = func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (github.TrackerClient, error) {
		built++
		return mock, nil
	}
	t.Cleanup(func() { newTracker = original })
	return &built
}

// executeCommand runs the root command with args and a config path that does
// not exist, returning stdout
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		configPath = ""
		logLevel = ""
		updatesFile = ""
		dryRun = false
	})

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yml")}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}
