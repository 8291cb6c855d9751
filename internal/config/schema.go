// Package config defines the hintprobe configuration file.
//
// A configuration can be loaded from YAML or JSON. Command-line flags
// override values from the file, and ApplyDefaults fills everything left
// unset so that an empty configuration reproduces the reference behavior:
// five trials per variant, sequential sessions, text output.
//
// Example YAML configuration:
//
//	runs: 10
//	threshold: 2.5
//	hints: [preconnect, preload]
//	browser:
//	  loadTimeout: 30s
//	output:
//	  format: json
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration.
type Config struct {
	// Runs is the number of trials per variant. Nil means the default.
	Runs *int `json:"runs,omitempty" yaml:"runs,omitempty"`

	// Threshold is the reporter band threshold in milliseconds.
	Threshold *float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`

	// Concurrency is the number of isolated sessions of one variant that may
	// run at the same time.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`

	// Interval is the minimum spacing between trial starts.
	Interval Duration `json:"interval,omitempty" yaml:"interval,omitempty"`

	// Hints restricts the hint types measured (e.g., "preconnect").
	Hints []string `json:"hints,omitempty" yaml:"hints,omitempty"`

	Browser BrowserConfig `json:"browser,omitempty" yaml:"browser,omitempty"`
	Fetch   FetchConfig   `json:"fetch,omitempty" yaml:"fetch,omitempty"`
	Output  OutputConfig  `json:"output,omitempty" yaml:"output,omitempty"`
}

// BrowserConfig configures the headless browser.
type BrowserConfig struct {
	Headless     *bool    `json:"headless,omitempty" yaml:"headless,omitempty"`
	ExecPath     string   `json:"execPath,omitempty" yaml:"execPath,omitempty"`
	NoSandbox    bool     `json:"noSandbox,omitempty" yaml:"noSandbox,omitempty"`
	UserAgent    string   `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	WindowWidth  int      `json:"windowWidth,omitempty" yaml:"windowWidth,omitempty"`
	WindowHeight int      `json:"windowHeight,omitempty" yaml:"windowHeight,omitempty"`
	LoadTimeout  Duration `json:"loadTimeout,omitempty" yaml:"loadTimeout,omitempty"`
}

// FetchConfig configures retrieval of the original markup.
type FetchConfig struct {
	Timeout   Duration          `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	UserAgent string            `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// OutputConfig configures how results are written.
type OutputConfig struct {
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	NoColor bool   `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// Duration is a time.Duration that can be unmarshaled from JSON/YAML strings.
type Duration time.Duration

// GetDuration returns the duration or a default if empty.
func (d Duration) GetDuration(defaultValue time.Duration) time.Duration {
	if d == 0 {
		return defaultValue
	}
	return time.Duration(d)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	// Remove quotes if present
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "null" {
		*d = 0
		return nil
	}

	dur, err := ParseDurationString(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	dur, err := ParseDurationString(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// ParseDurationString parses a duration string with support for common formats.
//
// Supported formats:
//   - Standard Go duration: "30s", "2m", "1h30m", "500ms"
//   - Seconds as integer: "30" (treated as 30 seconds)
func ParseDurationString(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err == nil {
		return d, nil
	}

	var seconds int
	var rest string
	if n, _ := fmt.Sscanf(s, "%d%s", &seconds, &rest); n == 1 {
		return time.Duration(seconds) * time.Second, nil
	}

	return 0, fmt.Errorf("invalid duration format: %s", s)
}
