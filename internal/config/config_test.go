package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "bobbin-local-384", cfg.Embedding.Model)
	assert.Equal(t, 32, cfg.Embedding.BatchSize)
	assert.NotEmpty(t, cfg.Index.Include)
	assert.NotEmpty(t, cfg.Index.Exclude)
	assert.True(t, cfg.Index.UseGitignore)

	assert.NoError(t, Validate(cfg))
}

func TestLoadConfig_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	tempDir := t.TempDir()

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	expected := Default()
	assert.Equal(t, expected.Embedding.Model, cfg.Embedding.Model)
	assert.Equal(t, expected.Embedding.BatchSize, cfg.Embedding.BatchSize)
	assert.Equal(t, expected.Search.RRFK, cfg.Search.RRFK)
}

func TestLoadConfig_LoadsFromConfigToml(t *testing.T) {
	tempDir := t.TempDir()
	bobbinDir := filepath.Join(tempDir, ".bobbin")
	require.NoError(t, os.MkdirAll(bobbinDir, 0755))

	configContent := `
[embedding]
model = "custom-model"
batch_size = 64

[search]
semantic_weight = 0.8
rrf_k = 40

[git]
coupling_enabled = false
`
	configPath := filepath.Join(bobbinDir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "custom-model", cfg.Embedding.Model)
	assert.Equal(t, 64, cfg.Embedding.BatchSize)
	assert.Equal(t, 0.8, cfg.Search.SemanticWeight)
	assert.Equal(t, 40, cfg.Search.RRFK)
	assert.False(t, cfg.Git.CouplingEnabled)
}

func TestLoadConfig_MergesConfigWithDefaults(t *testing.T) {
	tempDir := t.TempDir()
	bobbinDir := filepath.Join(tempDir, ".bobbin")
	require.NoError(t, os.MkdirAll(bobbinDir, 0755))

	configContent := `
[embedding]
model = "custom-model"
batch_size = 64
`
	configPath := filepath.Join(bobbinDir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, "custom-model", cfg.Embedding.Model)
	assert.Equal(t, Default().Search.RRFK, cfg.Search.RRFK)
	assert.Equal(t, Default().Git.CouplingDepth, cfg.Git.CouplingDepth)
}

func TestLoadConfig_EnvironmentVariablesOverrideConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	bobbinDir := filepath.Join(tempDir, ".bobbin")
	require.NoError(t, os.MkdirAll(bobbinDir, 0755))

	configContent := `
[embedding]
model = "file-model"
batch_size = 16
`
	configPath := filepath.Join(bobbinDir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	t.Setenv("BOBBIN_EMBEDDING_MODEL", "env-model")
	t.Setenv("BOBBIN_EMBEDDING_BATCH_SIZE", "128")

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, "env-model", cfg.Embedding.Model)
	assert.Equal(t, 128, cfg.Embedding.BatchSize)
}

func TestLoadConfig_ReturnsErrorForMalformedToml(t *testing.T) {
	tempDir := t.TempDir()
	bobbinDir := filepath.Join(tempDir, ".bobbin")
	require.NoError(t, os.MkdirAll(bobbinDir, 0755))

	malformed := "[embedding\nmodel = broken"
	configPath := filepath.Join(bobbinDir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(malformed), 0644))

	cfg, err := NewLoader(tempDir).Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_ReturnsErrorForInvalidValues(t *testing.T) {
	tempDir := t.TempDir()
	bobbinDir := filepath.Join(tempDir, ".bobbin")
	require.NoError(t, os.MkdirAll(bobbinDir, 0755))

	configContent := `
[embedding]
model = ""
batch_size = -1
`
	configPath := filepath.Join(bobbinDir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := NewLoader(tempDir).Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid")
}

func TestValidate_AcceptsValidConfiguration(t *testing.T) {
	assert.NoError(t, Validate(Default()))
}

func TestValidate_RejectsEmptyModel(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Model = ""
	assert.ErrorIs(t, Validate(cfg), ErrEmptyModel)
}

func TestValidate_RejectsNonPositiveBatchSize(t *testing.T) {
	cfg := Default()
	cfg.Embedding.BatchSize = 0
	assert.ErrorIs(t, Validate(cfg), ErrInvalidBatchSize)
}

func TestValidate_RejectsOutOfRangeSemanticWeight(t *testing.T) {
	cfg := Default()
	cfg.Search.SemanticWeight = 1.5
	assert.ErrorIs(t, Validate(cfg), ErrInvalidWeight)
}

func TestValidate_RejectsNonPositiveHalfLife(t *testing.T) {
	cfg := Default()
	cfg.Search.RecencyHalfLifeDays = 0
	assert.ErrorIs(t, Validate(cfg), ErrInvalidHalfLife)
}

func TestValidate_RejectsNonPositiveRRFK(t *testing.T) {
	cfg := Default()
	cfg.Search.RRFK = 0
	assert.ErrorIs(t, Validate(cfg), ErrInvalidRRFK)
}

func TestValidate_RejectsInvalidCouplingDepthWhenEnabled(t *testing.T) {
	cfg := Default()
	cfg.Git.CouplingEnabled = true
	cfg.Git.CouplingDepth = 0
	assert.ErrorIs(t, Validate(cfg), ErrInvalidCouplingDepth)
}

func TestValidate_IgnoresCouplingDepthWhenDisabled(t *testing.T) {
	cfg := Default()
	cfg.Git.CouplingEnabled = false
	cfg.Git.CouplingDepth = 0
	assert.NoError(t, Validate(cfg))
}

func TestValidate_ReturnsMultipleErrorsForMultipleInvalidFields(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Model = ""
	cfg.Embedding.BatchSize = -1
	cfg.Search.SemanticWeight = 5
	cfg.Search.RRFK = -1

	err := Validate(cfg)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "model")
	assert.Contains(t, msg, "batch_size")
	assert.Contains(t, msg, "semantic_weight")
	assert.Contains(t, msg, "rrf_k")
}
