package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGlobalConfig_MissingFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, err := LoadGlobalConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, filepath.Join(tempHome, ".bobbin", "models"), cfg.ModelCache.BaseDir)
}

func TestLoadGlobalConfig_WithFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	bobbinDir := filepath.Join(tempHome, ".bobbin")
	require.NoError(t, os.MkdirAll(bobbinDir, 0755))

	configContent := `
[model_cache]
base_dir = "/custom/models"
`
	configPath := filepath.Join(bobbinDir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := LoadGlobalConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/custom/models", cfg.ModelCache.BaseDir)
}

func TestLoadGlobalConfig_EnvOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	bobbinDir := filepath.Join(tempHome, ".bobbin")
	require.NoError(t, os.MkdirAll(bobbinDir, 0755))

	configContent := `
[model_cache]
base_dir = "/file/models"
`
	configPath := filepath.Join(bobbinDir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	t.Setenv("BOBBIN_MODEL_CACHE_BASE_DIR", "/env/models")

	cfg, err := LoadGlobalConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/env/models", cfg.ModelCache.BaseDir)
}

func TestLoadGlobalConfig_InvalidToml(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	bobbinDir := filepath.Join(tempHome, ".bobbin")
	require.NoError(t, os.MkdirAll(bobbinDir, 0755))

	malformed := "[model_cache\nbase_dir = broken"
	configPath := filepath.Join(bobbinDir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(malformed), 0644))

	cfg, err := LoadGlobalConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
