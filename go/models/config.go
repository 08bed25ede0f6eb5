package models

import (
	"io"
	"os"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/shibukawa/configdir"
)

const DefaultCompiler = "tcc"

type Config struct {
	Color        bool
	Verbose      bool
	Compiler     string
	IncludePaths []string
	RodataBase   uint64

	Output io.Writer
	logger log.Logger
	// RodataBase was set explicitly, so zero is a real address
	baseSet bool
}

// SetRodataBase pins the read-only data base. Unlike assigning the field, a
// pinned zero survives Init.
func (c *Config) SetRodataBase(base uint64) {
	c.RodataBase = base
	c.baseSet = true
}

// Base returns the read-only data base, or DefaultRodataBase when unset.
// c may be nil.
func (c *Config) Base() uint64 {
	if c == nil || (c.RodataBase == 0 && !c.baseSet) {
		return DefaultRodataBase
	}
	return c.RodataBase
}

// Init fills in defaults for zero fields.
func (c *Config) Init() *Config {
	if c.Output == nil {
		c.Output = os.Stderr
	}
	if c.Compiler == "" {
		c.Compiler = DefaultCompiler
	}
	c.RodataBase = c.Base()
	return c
}

// Logger returns a logfmt logger writing to Output. Debug lines are only
// emitted in verbose mode.
func (c *Config) Logger() log.Logger {
	if c == nil {
		return log.NewNopLogger()
	}
	if c.logger == nil {
		out := c.Output
		if out == nil {
			out = os.Stderr
		}
		logger := log.NewLogfmtLogger(log.NewSyncWriter(out))
		if c.Verbose {
			logger = level.NewFilter(logger, level.AllowDebug())
		} else {
			logger = level.NewFilter(logger, level.AllowInfo())
		}
		c.logger = logger
	}
	return c.logger
}

// SearchPaths returns the configured include paths followed by any existing
// "include" folders in the user and system config directories.
func (c *Config) SearchPaths() []string {
	paths := make([]string, 0, len(c.IncludePaths))
	seen := make(map[string]bool)
	add := func(p string) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	for _, p := range c.IncludePaths {
		add(p)
	}
	configDirs := configdir.New("rawcode", "include")
	for _, folder := range configDirs.QueryFolders(configdir.All) {
		if stat, err := os.Stat(folder.Path); err == nil && stat.IsDir() {
			add(folder.Path)
		}
	}
	return paths
}
