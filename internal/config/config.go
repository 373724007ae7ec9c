// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves the extraction configuration from a YAML config
// file, a legacy INI file, environment variables, and bound CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/termex/pkg/types"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. TERMEX_OUT_DIR.
	EnvPrefix = "TERMEX"

	// ConfigName is the base name of the YAML config file.
	ConfigName = "termex"

	// LegacyConfigFile is the INI file looked up in the home folder when no
	// YAML config is found.
	LegacyConfigFile = "cfg.ini"

	homeDirName = ".termex"
)

// ErrNoConfig indicates that no config file could be located.
var ErrNoConfig = errors.New("config file not found")

// DefaultHome returns ~/.termex, or .termex in the working directory when
// the user home cannot be determined.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return homeDirName
	}
	return filepath.Join(home, homeDirName)
}

// SetDefaults registers default values relative to the home folder.
func SetDefaults(v *viper.Viper, home string) {
	v.SetDefault("out_dir", ".")
	v.SetDefault("repos_dir", filepath.Join(home, "repos"))
	v.SetDefault("dedupe_markers", false)
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.user_agent", "termex/dev")
	v.SetDefault("http.max_retries", 3)
}

// Load resolves the configuration. path names the config file; when empty,
// termex.yaml is searched in the working directory and then in home, and
// home/cfg.ini is used as a last resort. It returns the configuration and
// the config file used, whose directory anchors relative source paths.
func Load(v *viper.Viper, path, home string) (types.ExtractionConfig, string, error) {
	SetDefaults(v, home)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		found, err := locate(v, home)
		if err != nil {
			return types.ExtractionConfig{}, "", err
		}
		path = found
	}

	if _, err := os.Stat(path); err != nil {
		return types.ExtractionConfig{}, "", fmt.Errorf("%w: %s", ErrNoConfig, path)
	}

	var legacy []types.SourceConfig
	if isLegacy(path) {
		sources, err := ReadINIFile(path)
		if err != nil {
			return types.ExtractionConfig{}, "", err
		}
		legacy = sources
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return types.ExtractionConfig{}, "", fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg types.ExtractionConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return types.ExtractionConfig{}, "", fmt.Errorf("decoding config %s: %w", path, err)
	}
	if legacy != nil {
		cfg.Sources = legacy
	}

	cfg.HomeDir = home
	cfg.OutDir = expandHome(cfg.OutDir)
	cfg.ReposDir = expandHome(cfg.ReposDir)
	nameSources(cfg.Sources)

	return cfg, path, nil
}

func locate(v *viper.Viper, home string) (string, error) {
	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(home)

	err := v.ReadInConfig()
	if err == nil {
		return v.ConfigFileUsed(), nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return "", fmt.Errorf("reading config: %w", err)
	}

	legacy := filepath.Join(home, LegacyConfigFile)
	if _, err := os.Stat(legacy); err == nil {
		return legacy, nil
	}
	return "", fmt.Errorf("%w: no %s.yaml in . or %s, and no %s", ErrNoConfig, ConfigName, home, legacy)
}

func isLegacy(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".ini")
}

// nameSources labels unnamed sources by their URI, or by position when
// the URI is missing too.
func nameSources(sources []types.SourceConfig) {
	for i := range sources {
		switch {
		case sources[i].Name != "":
		case sources[i].URI != "":
			sources[i].Name = sources[i].URI
		default:
			sources[i].Name = fmt.Sprintf("source %d", i+1)
		}
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// SourceBase returns the directory that relative source paths resolve
// against: the directory holding the config file.
func SourceBase(cfgPath string) string {
	abs, err := filepath.Abs(cfgPath)
	if err != nil {
		return filepath.Dir(cfgPath)
	}
	return filepath.Dir(abs)
}

// PrepareDirs creates the out and repos directories when missing. Only the
// home folder itself may be created as a missing parent; any other missing
// parent is an error.
func PrepareDirs(cfg types.ExtractionConfig) error {
	for _, dir := range []string{cfg.OutDir, cfg.ReposDir} {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil {
			if !info.IsDir() {
				return fmt.Errorf("%s exists and is not a directory", dir)
			}
			continue
		}
		if cfg.HomeDir != "" && within(cfg.HomeDir, dir) {
			if err := os.MkdirAll(cfg.HomeDir, 0o755); err != nil {
				return fmt.Errorf("creating home folder: %w", err)
			}
		}
		if err := os.Mkdir(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}
	return nil
}

func within(parent, child string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(child))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
