package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/spf13/viper"
)

type Config struct {
	Token          string `mapstructure:"token"`
	CIRef          string `mapstructure:"ci_ref"`
	Branch         string `mapstructure:"branch"`
	StagingDir     string `mapstructure:"staging_dir"`
	BuildDir       string `mapstructure:"build_dir"`
	CommitterName  string `mapstructure:"committer_name"`
	CommitterEmail string `mapstructure:"committer_email"`
	Remote         string `mapstructure:"remote"`
	PushUser       string `mapstructure:"push_user"`
	GithubOwner    string `mapstructure:"github_owner"`
	GithubRepo     string `mapstructure:"github_repo"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Branch:         "gh-pages",
		StagingDir:     "devel",
		BuildDir:       "doc/build/html",
		CommitterName:  "docs-bot",
		CommitterEmail: "docs-bot@users.noreply.github.com",
		Remote:         "origin",
		PushUser:       "x-access-token",
	}
}

var (
	// branchNameRegex matches valid git branch names
	branchNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._/-]+$`)
)

// Validate validates the configuration
func (c *Config) Validate() error {
	// Token is optional at load time: a missing token only surfaces as an
	// authentication failure at push time, never earlier.
	if c.Token != "" {
		if err := ValidateGitHubToken(c.Token); err != nil {
			return fmt.Errorf("invalid token: %w", err)
		}
	}
	if err := ValidateBranchName(c.Branch); err != nil {
		return fmt.Errorf("invalid branch: %w", err)
	}
	if err := validateRelativeDir("staging_dir", c.StagingDir); err != nil {
		return err
	}
	if err := validateRelativeDir("build_dir", c.BuildDir); err != nil {
		return err
	}
	if c.CommitterName == "" || c.CommitterEmail == "" {
		return fmt.Errorf("committer_name and committer_email cannot be empty")
	}
	if c.Remote == "" {
		return fmt.Errorf("remote cannot be empty")
	}
	if c.PushUser == "" {
		return fmt.Errorf("push_user cannot be empty")
	}
	return nil
}

func validateRelativeDir(name, dir string) error {
	if dir == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if strings.HasPrefix(dir, "/") {
		return fmt.Errorf("%s must be relative to the checkout root", name)
	}
	if strings.Contains(dir, "..") {
		return fmt.Errorf("%s contains invalid path traversal", name)
	}
	return nil
}

// ValidateGitHubToken validates GitHub token format (exported for reuse)
func ValidateGitHubToken(token string) error {
	token = strings.TrimSpace(token)
	if len(token) < 40 {
		return fmt.Errorf("token too short: expected at least 40 characters")
	}
	// Validate token format patterns
	classicPAT := regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	fineGrainedPAT := regexp.MustCompile(`^github_pat_[a-zA-Z0-9_]{82}$`)
	appToken := regexp.MustCompile(`^ghs_[a-zA-Z0-9]{36}$`)
	oauthToken := regexp.MustCompile(`^gho_[a-zA-Z0-9]{36}$`)
	if !classicPAT.MatchString(token) &&
		!fineGrainedPAT.MatchString(token) &&
		!appToken.MatchString(token) &&
		!oauthToken.MatchString(token) {
		return fmt.Errorf("invalid token format")
	}
	return nil
}

// ValidateBranchName validates a git branch name.
func ValidateBranchName(branch string) error {
	if branch == "" {
		return fmt.Errorf("branch name cannot be empty")
	}
	if len(branch) > 255 {
		return fmt.Errorf("branch name too long: %d characters (max: 255)", len(branch))
	}
	if strings.HasPrefix(branch, "/") || strings.HasSuffix(branch, "/") {
		return fmt.Errorf("branch name cannot start or end with slash: %s", branch)
	}
	if strings.Contains(branch, "..") {
		return fmt.Errorf("branch name cannot contain consecutive dots: %s", branch)
	}
	if strings.HasSuffix(branch, ".lock") {
		return fmt.Errorf("branch name cannot end with .lock: %s", branch)
	}
	if !branchNameRegex.MatchString(branch) {
		return fmt.Errorf("invalid branch name format: %s", branch)
	}
	return nil
}

// ValidateGitHubOwnerRepo validates GitHub owner and repository names (exported for reuse)
func ValidateGitHubOwnerRepo(owner, repo string) error {
	if owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if repo == "" {
		return fmt.Errorf("repository cannot be empty")
	}
	validName := regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)
	if !validName.MatchString(owner) {
		return fmt.Errorf("invalid owner format: %s", owner)
	}
	if len(owner) > 39 {
		return fmt.Errorf("owner too long: maximum 39 characters")
	}
	if !validName.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %s", repo)
	}
	if len(repo) > 100 {
		return fmt.Errorf("repository too long: maximum 100 characters")
	}
	return nil
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".docspub")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	// Configure environment variables
	viper.SetEnvPrefix("DOCSPUB")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Explicitly bind environment variables
	// BindEnv allows multiple env vars - it will check them in order
	if err := viper.BindEnv("token", "GH_TOKEN", "GITHUB_TOKEN", "DOCSPUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind token env: %w", err)
	}
	if err := viper.BindEnv("ci_ref", "GITHUB_RUN_ID", "CI_BUILD_REF", "DOCSPUB_CI_REF"); err != nil {
		return nil, fmt.Errorf("failed to bind ci_ref env: %w", err)
	}
	if err := viper.BindEnv("branch", "DOCSPUB_BRANCH"); err != nil {
		return nil, fmt.Errorf("failed to bind branch env: %w", err)
	}
	if err := viper.BindEnv("staging_dir", "DOCSPUB_STAGING_DIR"); err != nil {
		return nil, fmt.Errorf("failed to bind staging_dir env: %w", err)
	}
	if err := viper.BindEnv("build_dir", "DOCSPUB_BUILD_DIR"); err != nil {
		return nil, fmt.Errorf("failed to bind build_dir env: %w", err)
	}
	if err := viper.BindEnv("committer_name", "DOCSPUB_COMMITTER_NAME"); err != nil {
		return nil, fmt.Errorf("failed to bind committer_name env: %w", err)
	}
	if err := viper.BindEnv("committer_email", "DOCSPUB_COMMITTER_EMAIL"); err != nil {
		return nil, fmt.Errorf("failed to bind committer_email env: %w", err)
	}
	if err := viper.BindEnv("remote", "DOCSPUB_REMOTE"); err != nil {
		return nil, fmt.Errorf("failed to bind remote env: %w", err)
	}
	if err := viper.BindEnv("push_user", "DOCSPUB_PUSH_USER"); err != nil {
		return nil, fmt.Errorf("failed to bind push_user env: %w", err)
	}
	if err := viper.BindEnv("github_owner", "GITHUB_REPOSITORY_OWNER", "DOCSPUB_GITHUB_OWNER"); err != nil {
		return nil, fmt.Errorf("failed to bind github_owner env: %w", err)
	}
	if err := viper.BindEnv("github_repo", "GITHUB_REPOSITORY_NAME", "DOCSPUB_GITHUB_REPO"); err != nil {
		return nil, fmt.Errorf("failed to bind github_repo env: %w", err)
	}
	// Set defaults
	defaults := DefaultConfig()
	viper.SetDefault("branch", defaults.Branch)
	viper.SetDefault("staging_dir", defaults.StagingDir)
	viper.SetDefault("build_dir", defaults.BuildDir)
	viper.SetDefault("committer_name", defaults.CommitterName)
	viper.SetDefault("committer_email", defaults.CommitterEmail)
	viper.SetDefault("remote", defaults.Remote)
	viper.SetDefault("push_user", defaults.PushUser)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := populateRepositoryDefaults(&config); err != nil {
		return nil, err
	}
	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

// populateRepositoryDefaults fills github_owner/github_repo from the
// GITHUB_REPOSITORY slug or, failing that, from the origin remote of the
// working directory. Both stay empty outside GitHub, which disables the
// optional commit status report.
func populateRepositoryDefaults(cfg *Config) error {
	if cfg.GithubOwner != "" && cfg.GithubRepo != "" {
		return nil
	}
	// GITHUB_REPOSITORY carries the "owner/repo" slug inside Actions.
	if slug := os.Getenv("GITHUB_REPOSITORY"); slug != "" {
		if idx := strings.Index(slug, "/"); idx > 0 && idx < len(slug)-1 {
			if cfg.GithubOwner == "" {
				cfg.GithubOwner = slug[:idx]
			}
			if cfg.GithubRepo == "" {
				cfg.GithubRepo = slug[idx+1:]
			}
			return nil
		}
	}
	// Fall back to the origin remote of the current checkout.
	repo, err := git.PlainOpen(".")
	if err != nil {
		return nil // not a repository yet, leave unset
	}
	remote, err := repo.Remote(cfg.Remote)
	if err != nil || len(remote.Config().URLs) == 0 {
		return nil
	}
	owner, name, ok := parseGitRemoteURL(remote.Config().URLs[0])
	if !ok {
		return nil
	}
	if cfg.GithubOwner == "" {
		cfg.GithubOwner = owner
	}
	if cfg.GithubRepo == "" {
		cfg.GithubRepo = name
	}
	return nil
}

// parseGitRemoteURL extracts owner and repository from a clone URL in
// https, ssh or plain path form.
func parseGitRemoteURL(url string) (owner, repo string, ok bool) {
	trimmed := strings.TrimSuffix(url, ".git")
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	// scp-style ssh URLs separate host and path with a colon.
	if idx := strings.Index(trimmed, ":"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.ReplaceAll(trimmed, "\\", "/")
	parts := strings.Split(strings.Trim(trimmed, "/"), "/")
	if len(parts) < 2 {
		return "", "", false
	}
	owner = parts[len(parts)-2]
	repo = parts[len(parts)-1]
	if owner == "" || repo == "" {
		return "", "", false
	}
	return owner, repo, true
}
