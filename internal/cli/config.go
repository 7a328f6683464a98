package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/habnabit/pip/pkg/markers"
)

// Config is the on-disk CLI configuration, read from pip.toml in the
// XDG config directory. Every field has a working default; the file is
// optional.
type Config struct {
	// IndexURL overrides the package index base URL.
	IndexURL string `toml:"index_url"`
	// CacheDir overrides the response cache directory.
	CacheDir string `toml:"cache_dir"`
	// RedisURL selects a Redis cache backend (e.g. "redis://localhost:6379/0")
	// instead of the file cache.
	RedisURL string `toml:"redis_url"`
	// CacheTTLHours bounds how long index responses are reused.
	CacheTTLHours int `toml:"cache_ttl_hours"`
	// DefaultVCS is applied to editable URLs without a VCS prefix.
	DefaultVCS string `toml:"default_vcs"`
	// BuildDir is where source distributions unpack; empty means a
	// per-run temp directory.
	BuildDir string `toml:"build_dir"`
	// PythonVersion is the target interpreter version for marker
	// evaluation and wheel tag selection.
	PythonVersion string `toml:"python_version"`
}

// DefaultConfig returns the configuration used when no config file
// exists.
func DefaultConfig() *Config {
	return &Config{
		CacheTTLHours: 24,
		PythonVersion: markers.DefaultPythonVersion,
	}
}

// LoadConfig reads the config file at path, or the default location
// when path is empty. A missing file yields the defaults without error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(dir, "pip.toml")
	}

	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if cfg.CacheTTLHours <= 0 {
		cfg.CacheTTLHours = 24
	}
	if cfg.PythonVersion == "" {
		cfg.PythonVersion = markers.DefaultPythonVersion
	}
	return cfg, nil
}

// configDir returns the config directory using the XDG standard
// (~/.config/pip/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
