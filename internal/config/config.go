package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// Config holds all configurable paths and pipeline settings.
type Config struct {
	// Paths
	WatchDir string `json:"watch_dir"`

	// Stream server
	ListenAddr string `json:"listen_addr"`

	// Parse settings
	MaxTriangles   int  `json:"max_triangles"`
	MaxFileBytes   int  `json:"max_file_bytes"`
	SettleMS       int  `json:"settle_ms"`
	AllowTruncated bool `json:"allow_truncated"`

	// Bulk scan
	Workers int `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	WatchDir       string
	ListenAddr     string
	MaxTriangles   int
	Workers        int
	AllowTruncated bool
}

// Resolve applies flag overrides and fills remaining empty fields with
// defaults. CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.WatchDir != "" {
		c.WatchDir = flags.WatchDir
	}
	if flags.ListenAddr != "" {
		c.ListenAddr = flags.ListenAddr
	}
	if flags.MaxTriangles > 0 {
		c.MaxTriangles = flags.MaxTriangles
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.AllowTruncated {
		c.AllowTruncated = true
	}

	if c.WatchDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			c.WatchDir = cwd
		} else {
			c.WatchDir = "."
		}
	}
	if c.ListenAddr == "" {
		c.ListenAddr = "127.0.0.1:9876"
	}
	if c.MaxTriangles <= 0 {
		c.MaxTriangles = 10_000_000
	}
	if c.MaxFileBytes <= 0 {
		c.MaxFileBytes = 1 << 30
	}
	if c.SettleMS <= 0 {
		c.SettleMS = 100
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}
