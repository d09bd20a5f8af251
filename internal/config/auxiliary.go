package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// LoadAuxiliary reads a recognized-but-unparsed pass-through file
// (commands.toml, calibration.json) without binding it to any struct: the
// core has no business knowing their schemas (§9's open question that
// calibration/hook/access configs are out of core scope), so callers get
// back a plain map and decide what to do with it themselves. The file's
// format is inferred from its extension via the same viper the rest of
// this package parses config.toml with. A missing file returns a nil map
// and no error, matching Load's own not-found handling.
func LoadAuxiliary(path string) (map[string]any, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("load auxiliary file %q: no recognizable extension", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(ext)

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load auxiliary file %q: %w", path, err)
	}

	return v.AllSettings(), nil
}
