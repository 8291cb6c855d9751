package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultRuns         = 5
	DefaultThreshold    = 5.0
	DefaultConcurrency  = 1
	DefaultWindowWidth  = 1366
	DefaultWindowHeight = 768
	DefaultLoadTimeout  = 60 * time.Second
	DefaultFetchTimeout = 30 * time.Second
	DefaultFormat       = "text"
)

// LoadConfig loads a configuration from a file.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data, path)
}

// ParseConfig parses configuration data.
//
// The format is determined by the file extension in path, or defaults to YAML
// if the path is empty or has an unknown extension. Header values may
// reference environment variables as ${NAME}.
func ParseConfig(data []byte, path string) (*Config, error) {
	var config Config

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config (unknown format %s): %w", ext, err)
		}
	}

	config.Fetch.Headers = ProcessEnvironmentInMap(config.Fetch.Headers)
	return &config, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Runs == nil {
		runs := DefaultRuns
		c.Runs = &runs
	}
	if c.Threshold == nil {
		t := DefaultThreshold
		c.Threshold = &t
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Browser.Headless == nil {
		headless := true
		c.Browser.Headless = &headless
	}
	if c.Browser.WindowWidth == 0 {
		c.Browser.WindowWidth = DefaultWindowWidth
	}
	if c.Browser.WindowHeight == 0 {
		c.Browser.WindowHeight = DefaultWindowHeight
	}
	if c.Browser.LoadTimeout == 0 {
		c.Browser.LoadTimeout = Duration(DefaultLoadTimeout)
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = Duration(DefaultFetchTimeout)
	}
	if c.Output.Format == "" {
		c.Output.Format = DefaultFormat
	}
}

// RunsValue returns the trial count, or the default when unset.
func (c *Config) RunsValue() int {
	if c.Runs == nil {
		return DefaultRuns
	}
	return *c.Runs
}

// ThresholdValue returns the band threshold, or the default when unset.
func (c *Config) ThresholdValue() float64 {
	if c.Threshold == nil {
		return DefaultThreshold
	}
	return *c.Threshold
}

// IsHeadless reports whether the browser runs without a window.
func (c *Config) IsHeadless() bool {
	return c.Browser.Headless == nil || *c.Browser.Headless
}

// ProcessEnvironmentInMap expands ${NAME} references in every value.
func ProcessEnvironmentInMap(input map[string]string) map[string]string {
	if input == nil {
		return nil
	}
	result := make(map[string]string, len(input))
	for key, value := range input {
		result[key] = os.ExpandEnv(value)
	}
	return result
}
