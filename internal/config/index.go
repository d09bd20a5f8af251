package config

import (
	"path/filepath"

	"github.com/bobbinhq/bobbin/internal/index"
)

// ToIndexConfig converts a Config into the fully-resolved index.Config the
// pipeline consumes, anchoring it at rootDir.
func (c *Config) ToIndexConfig(rootDir string) *index.Config {
	return &index.Config{
		RootDir:          rootDir,
		Include:          c.Index.Include,
		Exclude:          c.Index.Exclude,
		UseGitignore:     c.Index.UseGitignore,
		BatchSize:        c.Embedding.BatchSize,
		ContextLines:     c.Embedding.Context.ContextLines,
		EnabledLanguages: c.Embedding.Context.EnabledLanguages,
		StoreDir:         filepath.Join(rootDir, ".bobbin"),
		CouplingEnabled:   c.Git.CouplingEnabled,
		CouplingDepth:     c.Git.CouplingDepth,
		CouplingThreshold: c.Git.CouplingThreshold,
		CommitsEnabled:    c.Git.CommitsEnabled,
		CommitsDepth:      c.Git.CommitsDepth,
		DependenciesOn:    c.Dependencies.Enabled,
		EmbeddingModel:    c.Embedding.Model,
		Incremental:       true,
	}
}
