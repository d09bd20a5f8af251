// Package config loads bobbin's declarative configuration from
// .bobbin/config.toml, with environment variable overrides.
package config

// Config is the complete bobbin configuration tree, matching the section
// layout of the on-disk config.toml.
type Config struct {
	Index        IndexConfig        `toml:"index" mapstructure:"index"`
	Embedding    EmbeddingConfig    `toml:"embedding" mapstructure:"embedding"`
	Search       SearchConfig       `toml:"search" mapstructure:"search"`
	Git          GitConfig          `toml:"git" mapstructure:"git"`
	Dependencies DependenciesConfig `toml:"dependencies" mapstructure:"dependencies"`
	Hooks        HooksConfig        `toml:"hooks" mapstructure:"hooks"`
	Access       AccessConfig       `toml:"access" mapstructure:"access"`
}

// IndexConfig controls which files the pipeline walks.
type IndexConfig struct {
	Include      []string `toml:"include" mapstructure:"include"`
	Exclude      []string `toml:"exclude" mapstructure:"exclude"`
	UseGitignore bool     `toml:"use_gitignore" mapstructure:"use_gitignore"`
}

// EmbeddingConfig configures the embedder contract and the batch/context
// behavior around it.
type EmbeddingConfig struct {
	Model     string           `toml:"model" mapstructure:"model"`
	BatchSize int              `toml:"batch_size" mapstructure:"batch_size"`
	Context   EmbeddingContext `toml:"context" mapstructure:"context"`
}

// EmbeddingContext controls the surrounding-line-window text bobbin feeds
// the embedder for configured languages, in addition to the chunk itself.
type EmbeddingContext struct {
	ContextLines     int      `toml:"context_lines" mapstructure:"context_lines"`
	EnabledLanguages []string `toml:"enabled_languages" mapstructure:"enabled_languages"`
}

// SearchConfig configures hybrid search fusion and reranking.
type SearchConfig struct {
	SemanticWeight      float64 `toml:"semantic_weight" mapstructure:"semantic_weight"`
	DocDemotion         float64 `toml:"doc_demotion" mapstructure:"doc_demotion"`
	RecencyHalfLifeDays float64 `toml:"recency_half_life_days" mapstructure:"recency_half_life_days"`
	RecencyWeight       float64 `toml:"recency_weight" mapstructure:"recency_weight"`
	RRFK                int     `toml:"rrf_k" mapstructure:"rrf_k"`
}

// GitConfig controls temporal coupling and commit indexing.
type GitConfig struct {
	CouplingEnabled   bool `toml:"coupling_enabled" mapstructure:"coupling_enabled"`
	CouplingDepth     int  `toml:"coupling_depth" mapstructure:"coupling_depth"`
	CouplingThreshold int  `toml:"coupling_threshold" mapstructure:"coupling_threshold"`
	CommitsEnabled    bool `toml:"commits_enabled" mapstructure:"commits_enabled"`
	CommitsDepth      int  `toml:"commits_depth" mapstructure:"commits_depth"`
}

// DependenciesConfig toggles import-edge tracking.
type DependenciesConfig struct {
	Enabled bool `toml:"enabled" mapstructure:"enabled"`
}

// HooksConfig and AccessConfig are out-of-core surfaces (installers,
// permissioning) that the core only needs to round-trip, not interpret.
type HooksConfig struct {
	Enabled bool     `toml:"enabled" mapstructure:"enabled"`
	Scripts []string `toml:"scripts" mapstructure:"scripts"`
}

type AccessConfig struct {
	AllowedRepos []string `toml:"allowed_repos" mapstructure:"allowed_repos"`
}

// Default returns a configuration with sensible defaults, mirroring the
// file-extension coverage required by the parser component.
func Default() *Config {
	return &Config{
		Index: IndexConfig{
			Include: []string{
				"**/*.go", "**/*.rs", "**/*.ts", "**/*.tsx", "**/*.js", "**/*.jsx",
				"**/*.py", "**/*.java", "**/*.c", "**/*.h", "**/*.cpp", "**/*.cc", "**/*.hpp",
				"**/*.md",
			},
			Exclude: []string{
				"node_modules/**", "vendor/**", ".git/**", "dist/**", "build/**",
				"target/**", "__pycache__/**", ".bobbin/**",
			},
			UseGitignore: true,
		},
		Embedding: EmbeddingConfig{
			Model:     "bobbin-local-384",
			BatchSize: 32,
			Context: EmbeddingContext{
				ContextLines:     3,
				EnabledLanguages: []string{"go", "rust", "python", "typescript", "javascript"},
			},
		},
		Search: SearchConfig{
			SemanticWeight:      0.6,
			DocDemotion:         0.3,
			RecencyHalfLifeDays: 30,
			RecencyWeight:       0.2,
			RRFK:                60,
		},
		Git: GitConfig{
			CouplingEnabled:   true,
			CouplingDepth:     500,
			CouplingThreshold: 2,
			CommitsEnabled:    false,
			CommitsDepth:      200,
		},
		Dependencies: DependenciesConfig{Enabled: true},
		Hooks:        HooksConfig{},
		Access:       AccessConfig{},
	}
}
