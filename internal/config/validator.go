package config

import (
	"fmt"
	"strings"

	"github.com/wesleyorama2/hintprobe/internal/hints"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

var validFormats = []string{"text", "json", "yaml", "yml", "html"}

// Validate validates the configuration after defaults have been applied.
//
// Returns nil if valid, or a ValidationErrors containing all validation errors.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	if c.Runs != nil && *c.Runs < 1 {
		errs.Add("runs", fmt.Sprintf("must be at least 1, got %d", *c.Runs))
	}
	if c.Threshold != nil && *c.Threshold < 0 {
		errs.Add("threshold", fmt.Sprintf("must not be negative, got %v", *c.Threshold))
	}
	if c.Concurrency < 1 {
		errs.Add("concurrency", fmt.Sprintf("must be at least 1, got %d", c.Concurrency))
	}
	if c.Interval < 0 {
		errs.Add("interval", "must not be negative")
	}
	if _, err := c.HintTypes(); err != nil {
		errs.Add("hints", err.Error())
	}

	validateBrowser(&c.Browser, errs)

	if c.Fetch.Timeout < 0 {
		errs.Add("fetch.timeout", "must not be negative")
	}
	if !stringInSlice(strings.ToLower(c.Output.Format), validFormats) {
		errs.Add("output.format", fmt.Sprintf("unsupported format %q (want text, json, yaml or html)", c.Output.Format))
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateBrowser(b *BrowserConfig, errs *ValidationErrors) {
	if b.WindowWidth < 0 || b.WindowHeight < 0 {
		errs.Add("browser.window", "dimensions must not be negative")
	}
	if b.LoadTimeout < 0 {
		errs.Add("browser.loadTimeout", "must not be negative")
	}
}

// HintTypes parses the configured hint subset. An empty list means every type.
func (c *Config) HintTypes() ([]hints.Type, error) {
	if len(c.Hints) == 0 {
		return nil, nil
	}
	types := make([]hints.Type, 0, len(c.Hints))
	seen := make(map[hints.Type]bool, len(c.Hints))
	for _, name := range c.Hints {
		t, err := hints.ParseType(name)
		if err != nil {
			return nil, err
		}
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	return types, nil
}

func stringInSlice(str string, slice []string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
