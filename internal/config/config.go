package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

// Config is the application-wide configuration.
type Config struct {
	GitHub GitHubConfig `mapstructure:"github"`
	Smoke  SmokeConfig  `mapstructure:"smoke"`
}

// GitHubConfig holds GitHub API and repository settings.
type GitHubConfig struct {
	Token        string      `mapstructure:"token"`
	Owner        string      `mapstructure:"owner"`
	Repo         string      `mapstructure:"repo"`
	RepoDir      string      `mapstructure:"repo_dir"`
	TargetBranch string      `mapstructure:"target_branch"`
	Labels       LabelConfig `mapstructure:"labels"`
}

// LabelConfig holds the labels that select a PR maintenance workflow.
type LabelConfig struct {
	Stalled  string `mapstructure:"stalled"`
	Backport string `mapstructure:"backport"`
}

// SmokeConfig holds smoke-test runner settings.
type SmokeConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	Manifest    string `mapstructure:"manifest"`
	FailOnError bool   `mapstructure:"fail_on_error"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			TargetBranch: "main",
			Labels: LabelConfig{
				Stalled:  "stalled",
				Backport: "backport",
			},
		},
		Smoke: SmokeConfig{
			Endpoint: "http://localhost:9200",
			Manifest: "smoke.yml",
		},
	}
}

// Load reads configuration from the given file, environment variables and
// defaults, in that order of precedence. An empty path skips the file and
// loads from environment and defaults only.
func (c *Config) Load(configPath string) error {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	v.SetEnvPrefix("RELBOT")
	v.AutomaticEnv()

	// GITHUB_TOKEN is the name CI runners export
	v.BindEnv("github.token", "GITHUB_TOKEN", "RELBOT_GITHUB_TOKEN")
	v.BindEnv("github.repo_dir", "REPO_DIR", "RELBOT_REPO_DIR")

	v.SetDefault("github.target_branch", "main")
	v.SetDefault("github.labels.stalled", "stalled")
	v.SetDefault("github.labels.backport", "backport")
	v.SetDefault("smoke.endpoint", "http://localhost:9200")
	v.SetDefault("smoke.manifest", "smoke.yml")

	if configPath != "" {
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}

	if err := v.Unmarshal(c); err != nil {
		return err
	}

	return nil
}

// LoadOrDefault loads the config file if it exists, otherwise loads from
// environment and defaults only.
func (c *Config) LoadOrDefault(configPath string) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		_ = c.Load("")
		return
	}

	_ = c.Load(configPath)
}

// ValidatePR checks the settings required by the PR maintenance commands.
// It must pass before any network call is made.
func (c *Config) ValidatePR() error {
	if c.GitHub.Token == "" {
		return errors.New("GitHub token is required (set GITHUB_TOKEN)")
	}
	if c.GitHub.Owner == "" {
		return errors.New("repository owner is required")
	}
	if c.GitHub.Repo == "" {
		return errors.New("repository name is required")
	}
	if c.GitHub.RepoDir == "" {
		return errors.New("local repository directory is required (set REPO_DIR)")
	}

	if c.GitHub.Labels.Stalled == "" {
		c.GitHub.Labels.Stalled = "stalled"
	}
	if c.GitHub.Labels.Backport == "" {
		c.GitHub.Labels.Backport = "backport"
	}

	return nil
}

// ValidateSmoke checks the settings required by the smoke-test runner.
func (c *Config) ValidateSmoke() error {
	if c.Smoke.Endpoint == "" {
		return errors.New("smoke endpoint is required")
	}
	if c.Smoke.Manifest == "" {
		return errors.New("smoke manifest path is required")
	}
	return nil
}
