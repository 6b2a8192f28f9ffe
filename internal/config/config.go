package config

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/viper"

	"github.com/tagworks/autotag/internal/domain"
)

// GitConfigSection is the git-config section consulted for settings.
const GitConfigSection = "autotag"

// VCSConfigReader is the slice of the VCS collaborator the configuration
// layer needs: key lookup in a named git-config section.
type VCSConfigReader interface {
	ConfigValue(ctx context.Context, section, key string) (string, bool, error)
}

type Config struct {
	TagnameTemplate    string `mapstructure:"tagname_template"`
	TagmessageTemplate string `mapstructure:"tagmessage_template"`
	PullBeforeTagging  bool   `mapstructure:"pull_before_tagging"`
	PushAfterTagging   bool   `mapstructure:"push_after_tagging"`
	RemoteName         string `mapstructure:"remote_name"`
	Step               string `mapstructure:"step"`
	MinimumVersion     string `mapstructure:"minimum_version"`
	StrictParse        bool   `mapstructure:"strict_parse"`
	CreateRelease      bool   `mapstructure:"create_release"`
	GithubToken        string `mapstructure:"github_token"`
	GithubOwner        string `mapstructure:"github_owner"`
	GithubRepo         string `mapstructure:"github_repo"`
}

// Overrides carries values resolved from CLI flags. A nil field means the
// flag was not set and the lower tiers decide.
type Overrides struct {
	TagnameTemplate    *string
	TagmessageTemplate *string
	PullBeforeTagging  *bool
	PushAfterTagging   *bool
	RemoteName         *string
	Step               *string
	MinimumVersion     *string
	StrictParse        *bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		TagnameTemplate:    "{major}.{minor}.{patch}",
		TagmessageTemplate: "Release {tagname}.",
		RemoteName:         "origin",
		Step:               string(domain.StepMinor),
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := domain.ValidateTemplate(c.TagnameTemplate); err != nil {
		return err
	}
	if c.TagmessageTemplate == "" {
		return fmt.Errorf("tagmessage_template cannot be empty")
	}
	if _, err := domain.ParseStep(c.Step); err != nil {
		return err
	}
	if c.RemoteName == "" {
		return fmt.Errorf("remote_name cannot be empty")
	}
	if c.MinimumVersion != "" {
		if _, err := semver.NewVersion(c.MinimumVersion); err != nil {
			return fmt.Errorf("invalid minimum_version %q: %w", c.MinimumVersion, err)
		}
	}
	if c.CreateRelease {
		if err := ValidateGitHubToken(c.GithubToken); err != nil {
			return fmt.Errorf("invalid github_token: %w", err)
		}
		if err := ValidateGitHubOwnerRepo(c.GithubOwner, c.GithubRepo); err != nil {
			return fmt.Errorf("invalid github configuration: %w", err)
		}
	}
	return nil
}

// Matcher compiles the configured tag name template.
func (c *Config) Matcher() (*domain.TagMatcher, error) {
	return domain.CompileTemplate(c.TagnameTemplate)
}

// StepValue returns the configured increment step.
func (c *Config) StepValue() (domain.Step, error) {
	return domain.ParseStep(c.Step)
}

// MinimumTag converts the configured minimum_version floor into a Tag.
// Returns nil when no floor is configured.
func (c *Config) MinimumTag() (*domain.Tag, error) {
	if c.MinimumVersion == "" {
		return nil, nil
	}
	v, err := semver.NewVersion(c.MinimumVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum_version %q: %w", c.MinimumVersion, err)
	}
	t := domain.NewFullTag(int(v.Major()), int(v.Minor()), int(v.Patch()))
	return &t, nil
}

// LoadConfig resolves the configuration. Precedence per key, highest first:
// CLI flag, git config [autotag] section, config file / environment,
// default. The git-config tier is skipped when vcs is nil.
func LoadConfig(ctx context.Context, vcs VCSConfigReader, overrides *Overrides) (*Config, error) {
	cfg, err := loadFileConfig()
	if err != nil {
		return nil, err
	}
	if vcs != nil {
		if err := applyGitConfig(ctx, cfg, vcs); err != nil {
			return nil, err
		}
	}
	applyOverrides(cfg, overrides)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func loadFileConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".autotag")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("AUTOTAG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("github_token", "GITHUB_TOKEN", "AUTOTAG_GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind github_token env: %w", err)
	}
	defaults := DefaultConfig()
	v.SetDefault("tagname_template", defaults.TagnameTemplate)
	v.SetDefault("tagmessage_template", defaults.TagmessageTemplate)
	v.SetDefault("remote_name", defaults.RemoteName)
	v.SetDefault("step", defaults.Step)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyGitConfig(ctx context.Context, cfg *Config, vcs VCSConfigReader) error {
	str := func(key string, dst *string) error {
		val, ok, err := vcs.ConfigValue(ctx, GitConfigSection, key)
		if err != nil {
			return fmt.Errorf("failed to read git config %s.%s: %w", GitConfigSection, key, err)
		}
		if ok {
			*dst = val
		}
		return nil
	}
	boolean := func(key string, dst *bool) error {
		val, ok, err := vcs.ConfigValue(ctx, GitConfigSection, key)
		if err != nil {
			return fmt.Errorf("failed to read git config %s.%s: %w", GitConfigSection, key, err)
		}
		if ok {
			*dst = ParseBool(val)
		}
		return nil
	}
	fields := []error{
		str("tagname_template", &cfg.TagnameTemplate),
		str("tagmessage_template", &cfg.TagmessageTemplate),
		str("remote_name", &cfg.RemoteName),
		str("step", &cfg.Step),
		str("minimum_version", &cfg.MinimumVersion),
		str("github_owner", &cfg.GithubOwner),
		str("github_repo", &cfg.GithubRepo),
		boolean("pull_before_tagging", &cfg.PullBeforeTagging),
		boolean("push_after_tagging", &cfg.PushAfterTagging),
		boolean("strict_parse", &cfg.StrictParse),
		boolean("create_release", &cfg.CreateRelease),
	}
	for _, err := range fields {
		if err != nil {
			return err
		}
	}
	return nil
}

func applyOverrides(cfg *Config, o *Overrides) {
	if o == nil {
		return
	}
	if o.TagnameTemplate != nil {
		cfg.TagnameTemplate = *o.TagnameTemplate
	}
	if o.TagmessageTemplate != nil {
		cfg.TagmessageTemplate = *o.TagmessageTemplate
	}
	if o.PullBeforeTagging != nil {
		cfg.PullBeforeTagging = *o.PullBeforeTagging
	}
	if o.PushAfterTagging != nil {
		cfg.PushAfterTagging = *o.PushAfterTagging
	}
	if o.RemoteName != nil {
		cfg.RemoteName = *o.RemoteName
	}
	if o.Step != nil {
		cfg.Step = *o.Step
	}
	if o.MinimumVersion != nil {
		cfg.MinimumVersion = *o.MinimumVersion
	}
	if o.StrictParse != nil {
		cfg.StrictParse = *o.StrictParse
	}
}

// ParseBool interprets a git-config style boolean. Anything outside
// true/1/yes/y (case-insensitive) is false.
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}

// ValidateGitHubToken validates GitHub token format (exported for reuse).
func ValidateGitHubToken(token string) error {
	token = strings.TrimSpace(token)
	if len(token) < 40 {
		return fmt.Errorf("token too short: expected at least 40 characters")
	}
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

// ValidateGitHubOwnerRepo validates GitHub owner and repository names
// (exported for reuse).
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
