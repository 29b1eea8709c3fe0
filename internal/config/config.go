package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"issuemanager/internal/github"
)

const (
	ConfigFile  = ".github/issue-manager.yml"
	UpdatesFile = "issue_updates.json"
)

// Environment variables read at startup
const (
	EnvToken      = "GH_TOKEN"
	EnvRepository = "REPO"
	EnvEventPath  = "GITHUB_EVENT_PATH"
	EnvAPIURL     = "GITHUB_API_URL"
	EnvLogLevel   = "ISSUE_MANAGER_LOG_LEVEL"

	// EnvActionsRepository is the fallback GitHub Actions sets for every job
	EnvActionsRepository = "GITHUB_REPOSITORY"
)

var (
	// ErrMissingEnvironment is returned when the credential or repository is not set
	ErrMissingEnvironment = errors.New("missing required environment variables")
	// ErrInvalidRepository is returned when the repository is not in owner/name form
	ErrInvalidRepository = errors.New("invalid repository identifier")
)

type Config struct {
	Token      string        `mapstructure:"token"`
	Repository string        `mapstructure:"repository"`
	EventPath  string        `mapstructure:"event_path"`
	APIURL     string        `mapstructure:"api_url"`
	LogLevel   string        `mapstructure:"log_level"`
	Timeout    time.Duration `mapstructure:"timeout"`

	Copilot    CopilotSettings    `mapstructure:"copilot"`
	CodeQL     CodeQLSettings     `mapstructure:"codeql"`
	Duplicates DuplicateSettings  `mapstructure:"duplicates"`
	Formatting FormattingSettings `mapstructure:"formatting"`
	Updates    UpdateSettings     `mapstructure:"updates"`
}

type CopilotSettings struct {
	BotLogins []string `mapstructure:"bot_logins"` // Authors treated as the review bot
	Label     string   `mapstructure:"label"`      // Label applied to review tickets and used for bulk close
}

type CodeQLSettings struct {
	Labels []string `mapstructure:"labels"`
}

type DuplicateSettings struct {
	Comment bool `mapstructure:"comment"` // Explain the closure on each duplicate before closing it
}

type FormattingSettings struct {
	FileIssue bool   `mapstructure:"file_issue"` // Open a ticket when findings exist
	Label     string `mapstructure:"label"`
}

type UpdateSettings struct {
	File string `mapstructure:"file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("timeout", github.DefaultTimeout)
	v.SetDefault("log_level", "warn")
	v.SetDefault("copilot.bot_logins", []string{"github-copilot[bot]"})
	v.SetDefault("copilot.label", "copilot-review")
	v.SetDefault("codeql.labels", []string{"codeql", "security"})
	v.SetDefault("duplicates.comment", true)
	v.SetDefault("formatting.file_issue", true)
	v.SetDefault("formatting.label", "formatting")
	v.SetDefault("updates.file", UpdatesFile)
}

func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"token":      {EnvToken},
		"repository": {EnvRepository, EnvActionsRepository},
		"event_path": {EnvEventPath},
		"api_url":    {EnvAPIURL},
		"log_level":  {EnvLogLevel},
	}
	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// Load reads defaults, the optional YAML file at path and the environment.
// An empty path means ConfigFile; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path == "" {
		path = ConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.APIURL = normalizeAPIURL(cfg.APIURL)
	return &cfg, nil
}

// The public API URL needs no override
func normalizeAPIURL(url string) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if url == "https://api.github.com" {
		return ""
	}
	return url
}

// Validate reports configuration errors that must stop the run before any
// network call
func (c *Config) Validate() error {
	var missing []string
	if c.Token == "" {
		missing = append(missing, EnvToken)
	}
	if c.Repository == "" {
		missing = append(missing, EnvRepository)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingEnvironment, strings.Join(missing, ", "))
	}

	if _, _, err := github.ParseRepository(c.Repository); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRepository, err)
	}
	return nil
}
