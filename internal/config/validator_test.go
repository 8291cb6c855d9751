package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_MinimalValid(t *testing.T) {
	config := Default()
	if err := config.Validate(); err != nil {
		t.Errorf("Validate() returned error for valid config: %v", err)
	}
}

func TestValidate(t *testing.T) {
	negative := -1.0
	zero, negativeRuns := 0, -3

	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"zero runs", func(c *Config) { c.Runs = &zero }, "runs"},
		{"negative runs", func(c *Config) { c.Runs = &negativeRuns }, "runs"},
		{"negative threshold", func(c *Config) { c.Threshold = &negative }, "threshold"},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, "concurrency"},
		{"negative interval", func(c *Config) { c.Interval = -1 }, "interval"},
		{"unknown hint", func(c *Config) { c.Hints = []string{"preconnect", "prerender"} }, "hints"},
		{"negative window", func(c *Config) { c.Browser.WindowWidth = -1 }, "browser.window"},
		{"negative load timeout", func(c *Config) { c.Browser.LoadTimeout = -1 }, "browser.loadTimeout"},
		{"negative fetch timeout", func(c *Config) { c.Fetch.Timeout = -1 }, "fetch.timeout"},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.mutate(config)

			err := config.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}

			var verrs *ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected *ValidationErrors, got %T", err)
			}
			if verrs.Errors[0].Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verrs.Errors[0].Field)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	config := Default()
	zero := 0
	config.Runs = &zero
	config.Concurrency = 0
	config.Output.Format = "xml"

	err := config.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "3 validation errors") {
		t.Errorf("expected all errors to be reported, got: %v", err)
	}
}

func TestValidationError_Error(t *testing.T) {
	withField := &ValidationError{Field: "runs", Message: "must be at least 1"}
	if got := withField.Error(); got != "validation error on field 'runs': must be at least 1" {
		t.Errorf("unexpected message %q", got)
	}

	noField := &ValidationError{Message: "broken"}
	if got := noField.Error(); got != "validation error: broken" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestHintTypes_DeduplicatesAndAcceptsDisabledForm(t *testing.T) {
	config := &Config{Hints: []string{"Preload", "nopreload", "dns-prefetch"}}
	types, err := config.HintTypes()
	if err != nil {
		t.Fatalf("HintTypes failed: %v", err)
	}
	if len(types) != 2 {
		t.Errorf("expected 2 distinct types, got %v", types)
	}

	empty, err := (&Config{}).HintTypes()
	if err != nil || empty != nil {
		t.Errorf("empty hint list should mean all types, got %v, %v", empty, err)
	}
}
