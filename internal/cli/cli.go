// Package cli implements the pip command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/habnabit/pip/pkg/buildinfo"
	"github.com/habnabit/pip/pkg/cache"
	"github.com/habnabit/pip/pkg/index"
)

// appName is the application name used for directories and display.
const appName = "pip"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config
}

// New creates a new CLI instance with a default logger and the on-disk
// configuration (or defaults when no config file exists).
func New(w io.Writer, level log.Level) *CLI {
	cfg, err := LoadConfig("")
	if err != nil {
		cfg = DefaultConfig()
	}
	c := &CLI{
		Logger: newLogger(w, level),
		Config: cfg,
	}
	if err != nil {
		c.Logger.Warnf("Ignoring config file: %v", err)
	}
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "pip",
		Short:        "pip resolves and installs Python package requirements",
		Long:         `pip parses requirement specifications, evaluates environment markers, and resolves distribution candidates from a package index.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newFinder creates an index client for resolution commands.
func (c *CLI) newFinder(noCache bool) *index.Client {
	backend := c.newCache(noCache)
	ttl := time.Duration(c.Config.CacheTTLHours) * time.Hour
	opts := []index.Option{}
	if c.Config.IndexURL != "" {
		opts = append(opts, index.WithBaseURL(c.Config.IndexURL))
	}
	return index.NewClient(backend, ttl, opts...)
}

func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	if c.Config.RedisURL != "" {
		backend, err := cache.NewRedisCache(c.Config.RedisURL)
		if err == nil {
			return backend
		}
		c.Logger.Warnf("Redis cache unavailable, falling back to files: %v", err)
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	backend, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return backend
}

// cacheDir returns the cache directory, preferring the configured path
// and falling back to the XDG standard (~/.cache/pip/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.CacheDir != "" {
		return c.Config.CacheDir, nil
	}
	return defaultCacheDir()
}

func defaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
