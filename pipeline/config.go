package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config is the top-level pipeline configuration.
type Config struct {
	Browser BrowserConfig `yaml:"browser"`
	Store   StoreConfig   `yaml:"store"`
	Scan    ScanConfig    `yaml:"scan"`
}

// BrowserConfig controls the Chrome session.
type BrowserConfig struct {
	// Remote is the WebSocket URL of an already-running Chrome; empty
	// launches a local one.
	Remote   string `yaml:"remote"`
	Headless bool   `yaml:"headless"`
}

// StoreConfig locates the record database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ScanConfig controls how often open tabs are re-examined.
type ScanConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("pipeline: parse config: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Scan.Interval <= 0 {
		c.Scan.Interval = 1 * time.Second
	}
	if c.Store.Path == "" {
		if p, err := xdg.DataFile("coursehand/records.db"); err == nil {
			c.Store.Path = p
		} else {
			c.Store.Path = "coursehand.db"
		}
	}
}
