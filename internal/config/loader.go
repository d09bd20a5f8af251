package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader loads the repo-local bobbin configuration.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins).
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a configuration loader rooted at rootDir.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// Load reads .bobbin/config.toml relative to rootDir, layering environment
// variables (BOBBIN_*) over the file and both over the defaults.
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	configDir := filepath.Join(l.rootDir, ".bobbin")
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("BOBBIN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindConfigEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// bindConfigEnvVars registers env vars viper should recognize even when
// the key is absent from both defaults and the config file.
func bindConfigEnvVars(v *viper.Viper) {
	v.BindEnv("index.use_gitignore")
	v.BindEnv("embedding.model")
	v.BindEnv("embedding.batch_size")
	v.BindEnv("search.semantic_weight")
	v.BindEnv("search.doc_demotion")
	v.BindEnv("search.recency_half_life_days")
	v.BindEnv("search.recency_weight")
	v.BindEnv("search.rrf_k")
	v.BindEnv("git.coupling_enabled")
	v.BindEnv("git.coupling_depth")
	v.BindEnv("git.coupling_threshold")
	v.BindEnv("git.commits_enabled")
	v.BindEnv("git.commits_depth")
	v.BindEnv("dependencies.enabled")
}

// setDefaults seeds viper with Default()'s values so unset keys still
// resolve sensibly after env/file merging.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("index.include", d.Index.Include)
	v.SetDefault("index.exclude", d.Index.Exclude)
	v.SetDefault("index.use_gitignore", d.Index.UseGitignore)

	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.batch_size", d.Embedding.BatchSize)
	v.SetDefault("embedding.context.context_lines", d.Embedding.Context.ContextLines)
	v.SetDefault("embedding.context.enabled_languages", d.Embedding.Context.EnabledLanguages)

	v.SetDefault("search.semantic_weight", d.Search.SemanticWeight)
	v.SetDefault("search.doc_demotion", d.Search.DocDemotion)
	v.SetDefault("search.recency_half_life_days", d.Search.RecencyHalfLifeDays)
	v.SetDefault("search.recency_weight", d.Search.RecencyWeight)
	v.SetDefault("search.rrf_k", d.Search.RRFK)

	v.SetDefault("git.coupling_enabled", d.Git.CouplingEnabled)
	v.SetDefault("git.coupling_depth", d.Git.CouplingDepth)
	v.SetDefault("git.coupling_threshold", d.Git.CouplingThreshold)
	v.SetDefault("git.commits_enabled", d.Git.CommitsEnabled)
	v.SetDefault("git.commits_depth", d.Git.CommitsDepth)

	v.SetDefault("dependencies.enabled", d.Dependencies.Enabled)
}

// LoadConfig loads configuration rooted at the current working directory.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration rooted at rootDir.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
