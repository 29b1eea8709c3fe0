package cmd

import (
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuemanager/internal/config"
	"issuemanager/internal/github"
)

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	expected := []string{"close-duplicates", "event-handler", "format-check", "update-issues", "version"}
	for _, name := range expected {
		t.Run(name, func(t *testing.T) {
			found, _, err := rootCmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, found.Name())
		})
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("log-level"))
	assert.NotNil(t, closeDuplicatesCmd.Flags().Lookup("dry-run"))
	assert.NotNil(t, updateIssuesCmd.Flags().Lookup("file"))
}

func TestVersionCommand_NeedsNoConfiguration(t *testing.T) {
	t.Setenv(config.EnvToken, "")
	t.Setenv(config.EnvRepository, "")
	t.Setenv(config.EnvActionsRepository, "")
	built := useMockTracker(t, github.NewMockTracker())

	SetVersionInfo("1.2.3", "abc123", "2026-01-01")
	t.Cleanup(func() { SetVersionInfo("dev", "unknown", "unknown") })

	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "issue-manager version 1.2.3")
	assert.Contains(t, out, "Commit: abc123")
	assert.Contains(t, out, "Go version: "+runtime.Version())
	assert.Equal(t, 0, *built)
}

func TestCommands_MissingEnvironmentFailsBeforeNetwork(t *testing.T) {
	commands := []string{"format-check", "update-issues", "event-handler", "close-duplicates"}
	for _, name := range commands {
		t.Run(name, func(t *testing.T) {
			setTestEnv(t)
			t.Setenv(config.EnvToken, "")
			mock := github.NewMockTracker()
			built := useMockTracker(t, mock)

			_, err := executeCommand(t, name)

			require.Error(t, err)
			assert.True(t, errors.Is(err, config.ErrMissingEnvironment))
			assert.Contains(t, err.Error(), "GH_TOKEN")
			assert.Equal(t, 0, *built)
		})
	}
}

func TestCommands_InvalidRepository(t *testing.T) {
	setTestEnv(t)
	t.Setenv(config.EnvRepository, "not-a-repo")
	built := useMockTracker(t, github.NewMockTracker())

	_, err := executeCommand(t, "close-duplicates")

	assert.ErrorIs(t, err, config.ErrInvalidRepository)
	assert.Equal(t, 0, *built)
}

func TestCommands_RepositoryFallsBackToActionsVariable(t *testing.T) {
	setTestEnv(t)
	t.Setenv(config.EnvRepository, "")
	t.Setenv(config.EnvActionsRepository, "owner/name")
	mock := github.NewMockTracker()
	useMockTracker(t, mock)

	_, err := executeCommand(t, "close-duplicates")

	require.NoError(t, err)
	assert.Equal(t, 1, mock.CheckAccessCalls)
}

func TestCommands_AccessDeniedIsFatal(t *testing.T) {
	setTestEnv(t)
	mock := github.NewMockTracker()
	mock.SetAccessError(fmt.Errorf("%w: owner/name: HTTP 401", github.ErrAccessDenied))
	useMockTracker(t, mock)

	_, err := executeCommand(t, "update-issues")

	assert.ErrorIs(t, err, github.ErrAccessDenied)
	assert.Equal(t, 1, mock.CheckAccessCalls)
	assert.Empty(t, mock.SearchCalls)
	assert.Empty(t, mock.CreateCalls)
}
