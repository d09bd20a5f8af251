package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// LoadGlobalConfig loads machine-wide configuration from
// ~/.bobbin/config.toml. Returns defaults if the file doesn't exist (not
// an error). Environment variables (BOBBIN_* prefix) override file values.
func LoadGlobalConfig() (*GlobalConfig, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	bobbinDir := filepath.Join(home, ".bobbin")

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(bobbinDir)

	v.SetEnvPrefix("BOBBIN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("model_cache.base_dir")
	v.SetDefault("model_cache.base_dir", filepath.Join(bobbinDir, "models"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &GlobalConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}
