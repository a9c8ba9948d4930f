// internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	// RepoDir is the metadata directory created at the root of the working tree.
	RepoDir       = ".gitlet"
	DefaultBranch = "master"
)

type Config struct {
	Cache struct {
		Size int `json:"size"`
	} `json:"cache"`

	Compression struct {
		MinSize int `json:"min_size"` // bytes
		Level   int `json:"level"`    // zstd level
	} `json:"compression"`

	// Database is set in code only. A repository whose state lives in
	// memory is gone when the command exits.
	Database struct {
		InMemory bool
	} `json:"-"`

	DefaultBranch string `json:"default_branch"`
	LogLevel      string `json:"log_level"` // debug, info, warn, error
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{
		DefaultBranch: DefaultBranch,
		LogLevel:      "warn",
	}
	cfg.Cache.Size = 1000
	cfg.Compression.MinSize = 1024
	cfg.Compression.Level = 3
	return cfg
}

// Load reads the config at path on top of Default. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg.withEnv(), nil
		}
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}

	if cfg.DefaultBranch == "" {
		cfg.DefaultBranch = DefaultBranch
	}
	if cfg.Cache.Size <= 0 {
		cfg.Cache.Size = 1000
	}

	return cfg.withEnv(), nil
}

func (c *Config) withEnv() *Config {
	if level := os.Getenv("GITLET_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	return c
}
