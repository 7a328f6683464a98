package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/habnabit/pip/pkg/markers"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.CacheTTLHours != 24 {
		t.Errorf("CacheTTLHours = %d, want 24", cfg.CacheTTLHours)
	}
	if cfg.PythonVersion != markers.DefaultPythonVersion {
		t.Errorf("PythonVersion = %q, want %q", cfg.PythonVersion, markers.DefaultPythonVersion)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "pip.toml"))
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.CacheTTLHours != 24 {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pip.toml")
	content := `
index_url = "https://pypi.example/pypi"
redis_url = "redis://localhost:6379/0"
cache_ttl_hours = 6
default_vcs = "git"
python_version = "3.10"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.IndexURL != "https://pypi.example/pypi" {
		t.Errorf("IndexURL = %q", cfg.IndexURL)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.CacheTTLHours != 6 {
		t.Errorf("CacheTTLHours = %d, want 6", cfg.CacheTTLHours)
	}
	if cfg.DefaultVCS != "git" {
		t.Errorf("DefaultVCS = %q, want git", cfg.DefaultVCS)
	}
	if cfg.PythonVersion != "3.10" {
		t.Errorf("PythonVersion = %q, want 3.10", cfg.PythonVersion)
	}
}

func TestLoadConfigBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pip.toml")
	if err := os.WriteFile(path, []byte("index_url = ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig should fail on malformed TOML")
	}
}

func TestDefaultCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := defaultCacheDir()
	if err != nil {
		t.Fatalf("defaultCacheDir error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg-cache", appName); dir != want {
		t.Errorf("defaultCacheDir = %q, want %q", dir, want)
	}
}
